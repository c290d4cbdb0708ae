package portal

import (
	"fmt"

	"go-portal/internal/common/apperr"
)

func validTaskStatus(s TaskStatus) bool {
	return s == TaskStatusBacklog || s == TaskStatusInProgress || s == TaskStatusCompleted
}

func validTaskPriority(p TaskPriority) bool {
	return p == TaskPriorityLow || p == TaskPriorityMedium || p == TaskPriorityHigh
}

func validLeadStatus(s LeadStatus) bool {
	return s == LeadStatusNew || s == LeadStatusContacted || s == LeadStatusQualified || s == LeadStatusConverted
}

func validPaymentStatus(s PaymentStatus) bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid || s == PaymentStatusOverdue
}

func validAppointmentStatus(s AppointmentStatus) bool {
	return s == AppointmentStatusScheduled || s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

func ValidateTask(t *Task) error {
	if t.Title == "" {
		return apperr.Validation("task title is required")
	}
	if t.Status == "" {
		t.Status = TaskStatusBacklog
	}
	if !validTaskStatus(t.Status) {
		return apperr.Validation(fmt.Sprintf("invalid task status %q", t.Status))
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
	if !validTaskPriority(t.Priority) {
		return apperr.Validation(fmt.Sprintf("invalid task priority %q", t.Priority))
	}
	return nil
}

func ValidateLead(l *Lead) error {
	if l.Name == "" {
		return apperr.Validation("lead name is required")
	}
	if l.Email == "" {
		return apperr.Validation("lead email is required")
	}
	if l.Status == "" {
		l.Status = LeadStatusNew
	}
	if !validLeadStatus(l.Status) {
		return apperr.Validation(fmt.Sprintf("invalid lead status %q", l.Status))
	}
	if l.Value < 0 {
		return apperr.Validation("lead value cannot be negative")
	}
	return nil
}

func ValidatePayment(p *Payment) error {
	if p.Client == "" {
		return apperr.Validation("payment client is required")
	}
	if p.InvoiceNumber == "" {
		return apperr.Validation("payment invoice number is required")
	}
	if p.Status == "" {
		p.Status = PaymentStatusPending
	}
	if !validPaymentStatus(p.Status) {
		return apperr.Validation(fmt.Sprintf("invalid payment status %q", p.Status))
	}
	if p.Amount < 0 {
		return apperr.Validation("payment amount cannot be negative")
	}
	return nil
}

func ValidateAppointment(a *Appointment) error {
	if a.Title == "" {
		return apperr.Validation("appointment title is required")
	}
	if a.Status == "" {
		a.Status = AppointmentStatusScheduled
	}
	if !validAppointmentStatus(a.Status) {
		return apperr.Validation(fmt.Sprintf("invalid appointment status %q", a.Status))
	}
	return nil
}

// ValidateModules checks every item in a module set before it is
// persisted. Item IDs must be present so the read side can address them.
func ValidateModules(m *ModuleSet) error {
	if m.Tasks != nil {
		for i := range m.Tasks.Tasks {
			t := &m.Tasks.Tasks[i]
			if t.ID == "" {
				return apperr.Validation("task id is required")
			}
			if err := ValidateTask(t); err != nil {
				return err
			}
		}
	}
	if m.Leads != nil {
		for i := range m.Leads.Leads {
			l := &m.Leads.Leads[i]
			if l.ID == "" {
				return apperr.Validation("lead id is required")
			}
			if err := ValidateLead(l); err != nil {
				return err
			}
		}
	}
	if m.Payments != nil {
		for i := range m.Payments.Payments {
			p := &m.Payments.Payments[i]
			if p.ID == "" {
				return apperr.Validation("payment id is required")
			}
			if err := ValidatePayment(p); err != nil {
				return err
			}
		}
	}
	if m.Appointments != nil {
		for i := range m.Appointments.Appointments {
			a := &m.Appointments.Appointments[i]
			if a.ID == "" {
				return apperr.Validation("appointment id is required")
			}
			if err := ValidateAppointment(a); err != nil {
				return err
			}
		}
	}
	return nil
}
