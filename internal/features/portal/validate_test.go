package portal

import (
	"testing"

	"go-portal/internal/common/apperr"
)

func TestValidateTask(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{"valid", Task{Title: "Call client", Status: TaskStatusBacklog, Priority: TaskPriorityLow}, false},
		{"defaults applied", Task{Title: "Call client"}, false},
		{"missing title", Task{Status: TaskStatusBacklog}, true},
		{"bad status", Task{Title: "x", Status: "done"}, true},
		{"bad priority", Task{Title: "x", Priority: "urgent"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTask(&tt.task)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTask() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTaskDefaults(t *testing.T) {
	task := Task{Title: "Call client"}
	if err := ValidateTask(&task); err != nil {
		t.Fatalf("ValidateTask: %v", err)
	}
	if task.Status != TaskStatusBacklog {
		t.Errorf("default status = %q, want backlog", task.Status)
	}
	if task.Priority != TaskPriorityMedium {
		t.Errorf("default priority = %q, want medium", task.Priority)
	}
}

func TestValidateLead(t *testing.T) {
	tests := []struct {
		name    string
		lead    Lead
		wantErr bool
	}{
		{"valid", Lead{Name: "Jordan", Email: "jordan@example.com", Status: LeadStatusNew}, false},
		{"missing name", Lead{Email: "jordan@example.com"}, true},
		{"missing email", Lead{Name: "Jordan"}, true},
		{"bad status", Lead{Name: "Jordan", Email: "j@example.com", Status: "warm"}, true},
		{"negative value", Lead{Name: "Jordan", Email: "j@example.com", Value: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLead(&tt.lead)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLead() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePayment(t *testing.T) {
	tests := []struct {
		name    string
		payment Payment
		wantErr bool
	}{
		{"valid", Payment{Client: "Acme", InvoiceNumber: "INV-1", Amount: 100, Status: PaymentStatusPending}, false},
		{"missing client", Payment{InvoiceNumber: "INV-1"}, true},
		{"missing invoice", Payment{Client: "Acme"}, true},
		{"bad status", Payment{Client: "Acme", InvoiceNumber: "INV-1", Status: "refunded"}, true},
		{"negative amount", Payment{Client: "Acme", InvoiceNumber: "INV-1", Amount: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayment(&tt.payment)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePayment() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateModulesRequiresItemIDs(t *testing.T) {
	m := &ModuleSet{
		Tasks: &TasksModule{
			Enabled: true,
			Tasks:   []Task{{Title: "No id", Status: TaskStatusBacklog, Priority: TaskPriorityLow}},
		},
	}

	err := ValidateModules(m)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error for missing item id, got %v", err)
	}

	m.Tasks.Tasks[0].ID = "t1"
	if err := ValidateModules(m); err != nil {
		t.Errorf("expected valid set, got %v", err)
	}
}

func TestFilterEnabled(t *testing.T) {
	m := ModuleSet{
		Overview: &OverviewModule{Enabled: true, Title: "Hello"},
		Tasks:    &TasksModule{Enabled: false, Tasks: []Task{{ID: "t1", Title: "Hidden"}}},
		Leads:    &LeadsModule{Enabled: true},
	}

	out := m.FilterEnabled()
	if out.Overview == nil || out.Leads == nil {
		t.Error("enabled modules should survive the filter")
	}
	if out.Tasks != nil {
		t.Error("disabled tasks should be filtered out")
	}
	if out.Payments != nil || out.Appointments != nil {
		t.Error("absent modules should stay absent")
	}

	// The source set keeps the disabled module's data
	if m.Tasks == nil || len(m.Tasks.Tasks) != 1 {
		t.Error("filtering must not mutate the source set")
	}
}
