package portal

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Module identifiers as they appear as keys of the modules subdocument.
const (
	ModuleOverview     = "overview"
	ModuleTasks        = "tasks"
	ModuleLeads        = "leads"
	ModulePayments     = "payments"
	ModuleAppointments = "appointments"
)

// ModuleIDs lists every configurable module in display order.
var ModuleIDs = []string{ModuleOverview, ModuleTasks, ModuleLeads, ModulePayments, ModuleAppointments}

type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "backlog"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type Task struct {
	ID          string       `json:"id" bson:"id"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Status      TaskStatus   `json:"status" bson:"status"`
	Priority    TaskPriority `json:"priority" bson:"priority"`
	DueDate     string       `json:"dueDate,omitempty" bson:"due_date,omitempty"`
}

type Lead struct {
	ID     string     `json:"id" bson:"id"`
	Name   string     `json:"name" bson:"name"`
	Email  string     `json:"email" bson:"email"`
	Phone  string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Status LeadStatus `json:"status" bson:"status"`
	Value  float64    `json:"value" bson:"value"`
	Source string     `json:"source,omitempty" bson:"source,omitempty"`
}

type Payment struct {
	ID            string        `json:"id" bson:"id"`
	Client        string        `json:"client" bson:"client"`
	Amount        float64       `json:"amount" bson:"amount"`
	Status        PaymentStatus `json:"status" bson:"status"`
	DueDate       string        `json:"dueDate" bson:"due_date"`
	InvoiceNumber string        `json:"invoiceNumber" bson:"invoice_number"`
}

type Appointment struct {
	ID         string            `json:"id" bson:"id"`
	Title      string            `json:"title" bson:"title"`
	Client     string            `json:"client" bson:"client"`
	Date       string            `json:"date" bson:"date"`
	Time       string            `json:"time" bson:"time"`
	Status     AppointmentStatus `json:"status" bson:"status"`
	Notes      string            `json:"notes,omitempty" bson:"notes,omitempty"`
	MeetingURL string            `json:"meetingUrl,omitempty" bson:"meeting_url,omitempty"`
}

// Every module payload carries its own Enabled flag. Toggling a module
// off in the builder keeps its data resident in the document; the public
// share read filters disabled modules out.
type OverviewModule struct {
	Enabled bool   `json:"enabled" bson:"enabled"`
	Title   string `json:"title" bson:"title"`
	Summary string `json:"summary" bson:"summary"`
}

type TasksModule struct {
	Enabled bool   `json:"enabled" bson:"enabled"`
	Tasks   []Task `json:"tasks" bson:"tasks"`
}

type LeadsModule struct {
	Enabled bool   `json:"enabled" bson:"enabled"`
	Leads   []Lead `json:"leads" bson:"leads"`
}

type PaymentsModule struct {
	Enabled  bool      `json:"enabled" bson:"enabled"`
	Payments []Payment `json:"payments" bson:"payments"`
}

type AppointmentsModule struct {
	Enabled      bool          `json:"enabled" bson:"enabled"`
	Appointments []Appointment `json:"appointments" bson:"appointments"`
}

// ModuleSet is the modules subdocument of a portal. A nil pointer means
// the module was never configured for this portal.
type ModuleSet struct {
	Overview     *OverviewModule     `json:"overview,omitempty" bson:"overview,omitempty"`
	Tasks        *TasksModule        `json:"tasks,omitempty" bson:"tasks,omitempty"`
	Leads        *LeadsModule        `json:"leads,omitempty" bson:"leads,omitempty"`
	Payments     *PaymentsModule     `json:"payments,omitempty" bson:"payments,omitempty"`
	Appointments *AppointmentsModule `json:"appointments,omitempty" bson:"appointments,omitempty"`
}

// FilterEnabled returns a copy of the set with disabled or absent
// modules removed, which is what the client-facing share view renders.
func (m ModuleSet) FilterEnabled() ModuleSet {
	var out ModuleSet
	if m.Overview != nil && m.Overview.Enabled {
		out.Overview = m.Overview
	}
	if m.Tasks != nil && m.Tasks.Enabled {
		out.Tasks = m.Tasks
	}
	if m.Leads != nil && m.Leads.Enabled {
		out.Leads = m.Leads
	}
	if m.Payments != nil && m.Payments.Enabled {
		out.Payments = m.Payments
	}
	if m.Appointments != nil && m.Appointments.Enabled {
		out.Appointments = m.Appointments
	}
	return out
}

type Portal struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Slug               string             `json:"slug" bson:"slug"`
	UserID             string             `json:"userId" bson:"user_id"`
	PortalName         string             `json:"portalName" bson:"portal_name"`
	ClientName         string             `json:"clientName" bson:"client_name"`
	ClientEmail        string             `json:"clientEmail" bson:"client_email"`
	ProjectDescription string             `json:"projectDescription" bson:"project_description"`
	Status             string             `json:"status" bson:"status"`
	Inbox              int                `json:"inbox" bson:"inbox"`
	Feedback           bool               `json:"feedback" bson:"feedback"`
	Version            int64              `json:"version" bson:"version"`
	Modules            ModuleSet          `json:"modules" bson:"modules"`
	CreatedAt          time.Time          `json:"createdAt" bson:"created_at"`
	LastVisited        *time.Time         `json:"lastVisited,omitempty" bson:"last_visited,omitempty"`
}
