package builder

import "go-portal/internal/features/portal"

type seedData struct {
	Overview     portal.OverviewModule
	Tasks        []portal.Task
	Leads        []portal.Lead
	Payments     []portal.Payment
	Appointments []portal.Appointment
}

// sampleSeed is the demo content a fresh builder session starts with
// and what ResetAll restores. Returned by value so drafts never share
// slices.
func sampleSeed() seedData {
	return seedData{
		Overview: portal.OverviewModule{
			Enabled: true,
			Title:   "Project Overview",
			Summary: "A short summary of the project scope, timeline and deliverables.",
		},
		Tasks: []portal.Task{
			{ID: "task-1", Title: "Kickoff call", Description: "Align on scope and timeline", Status: portal.TaskStatusCompleted, Priority: portal.TaskPriorityHigh},
			{ID: "task-2", Title: "First design draft", Description: "Homepage and two inner pages", Status: portal.TaskStatusInProgress, Priority: portal.TaskPriorityMedium, DueDate: "2026-09-15"},
			{ID: "task-3", Title: "Content review", Status: portal.TaskStatusBacklog, Priority: portal.TaskPriorityLow},
		},
		Leads: []portal.Lead{
			{ID: "lead-1", Name: "Jordan Reyes", Email: "jordan@example.com", Phone: "+1 555 0101", Status: portal.LeadStatusQualified, Value: 4800, Source: "Referral"},
			{ID: "lead-2", Name: "Sam Okafor", Email: "sam@example.com", Status: portal.LeadStatusNew, Value: 1200, Source: "Website"},
		},
		Payments: []portal.Payment{
			{ID: "pay-1", Client: "Acme Inc", Amount: 2500, Status: portal.PaymentStatusPaid, DueDate: "2026-08-01", InvoiceNumber: "INV-001"},
			{ID: "pay-2", Client: "Acme Inc", Amount: 2500, Status: portal.PaymentStatusPending, DueDate: "2026-09-01", InvoiceNumber: "INV-002"},
		},
		Appointments: []portal.Appointment{
			{ID: "appt-1", Title: "Design review", Client: "Acme Inc", Date: "2026-09-05", Time: "10:00", Status: portal.AppointmentStatusScheduled, MeetingURL: "https://meet.example.com/design-review"},
		},
	}
}
