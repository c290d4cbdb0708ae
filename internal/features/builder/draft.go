package builder

import (
	"encoding/json"
	"fmt"
	"time"

	"go-portal/internal/common/apperr"
	"go-portal/internal/features/portal"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Draft is the in-memory builder state for one portal: module toggles
// plus the working copy of every module's items. Nothing here touches
// the store until Save. Disabling a module keeps its data resident so
// re-enabling restores it.
type Draft struct {
	PortalID string          `json:"portalId"`
	UserID   string          `json:"userId"`
	Version  int64           `json:"version"`
	Enabled  map[string]bool `json:"enabled"`

	Overview     portal.OverviewModule `json:"overview"`
	Tasks        []portal.Task         `json:"tasks"`
	Leads        []portal.Lead         `json:"leads"`
	Payments     []portal.Payment      `json:"payments"`
	Appointments []portal.Appointment  `json:"appointments"`

	Dirty     bool      `json:"dirty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// upsertItem replaces the element whose id matches, or appends when no
// id matches and itemID is empty. One editor for every module type
// instead of four copy-pasted ones.
func upsertItem[T any](items []T, idOf func(T) string, item T, itemID string) ([]T, error) {
	if itemID == "" {
		return append(items, item), nil
	}
	for i := range items {
		if idOf(items[i]) == itemID {
			items[i] = item
			return items, nil
		}
	}
	return nil, apperr.NotFound(fmt.Sprintf("item %s not found", itemID))
}

func removeItem[T any](items []T, idOf func(T) string, itemID string) ([]T, error) {
	for i := range items {
		if idOf(items[i]) == itemID {
			return append(items[:i], items[i+1:]...), nil
		}
	}
	return nil, apperr.NotFound(fmt.Sprintf("item %s not found", itemID))
}

// ToggleModule flips a module's enabled flag. Overview is always on.
func (d *Draft) ToggleModule(moduleID string) error {
	if moduleID == portal.ModuleOverview {
		return apperr.Validation("the overview module cannot be disabled")
	}
	if _, ok := d.Enabled[moduleID]; !ok {
		return apperr.Validation(fmt.Sprintf("unknown module %q", moduleID))
	}
	d.Enabled[moduleID] = !d.Enabled[moduleID]
	d.touch()
	return nil
}

// ResetAll restores the initial enabled set and replaces all working
// data with the sample seed content. Full reset, not clear-to-empty.
func (d *Draft) ResetAll() {
	seed := sampleSeed()
	d.Enabled = defaultEnabled()
	d.Overview = seed.Overview
	d.Tasks = seed.Tasks
	d.Leads = seed.Leads
	d.Payments = seed.Payments
	d.Appointments = seed.Appointments
	d.touch()
}

func (d *Draft) SetOverview(title, summary string) {
	d.Overview.Title = title
	d.Overview.Summary = summary
	d.touch()
}

// UpsertItem decodes raw into the module's item type, validates it, and
// adds or replaces it. An empty itemID means add; new items get ids.
func (d *Draft) UpsertItem(moduleID, itemID string, raw json.RawMessage) error {
	var err error
	switch moduleID {
	case portal.ModuleTasks:
		var t portal.Task
		if err = json.Unmarshal(raw, &t); err != nil {
			return apperr.Validation("invalid task payload")
		}
		if err = portal.ValidateTask(&t); err != nil {
			return err
		}
		if t.ID == "" {
			t.ID = primitive.NewObjectID().Hex()
		}
		d.Tasks, err = upsertItem(d.Tasks, func(x portal.Task) string { return x.ID }, t, itemID)
	case portal.ModuleLeads:
		var l portal.Lead
		if err = json.Unmarshal(raw, &l); err != nil {
			return apperr.Validation("invalid lead payload")
		}
		if err = portal.ValidateLead(&l); err != nil {
			return err
		}
		if l.ID == "" {
			l.ID = primitive.NewObjectID().Hex()
		}
		d.Leads, err = upsertItem(d.Leads, func(x portal.Lead) string { return x.ID }, l, itemID)
	case portal.ModulePayments:
		var p portal.Payment
		if err = json.Unmarshal(raw, &p); err != nil {
			return apperr.Validation("invalid payment payload")
		}
		if err = portal.ValidatePayment(&p); err != nil {
			return err
		}
		if p.ID == "" {
			p.ID = primitive.NewObjectID().Hex()
		}
		d.Payments, err = upsertItem(d.Payments, func(x portal.Payment) string { return x.ID }, p, itemID)
	case portal.ModuleAppointments:
		var a portal.Appointment
		if err = json.Unmarshal(raw, &a); err != nil {
			return apperr.Validation("invalid appointment payload")
		}
		if err = portal.ValidateAppointment(&a); err != nil {
			return err
		}
		if a.ID == "" {
			a.ID = primitive.NewObjectID().Hex()
		}
		d.Appointments, err = upsertItem(d.Appointments, func(x portal.Appointment) string { return x.ID }, a, itemID)
	default:
		return apperr.Validation(fmt.Sprintf("module %q has no item collection", moduleID))
	}
	if err != nil {
		return err
	}
	d.touch()
	return nil
}

func (d *Draft) RemoveItem(moduleID, itemID string) error {
	var err error
	switch moduleID {
	case portal.ModuleTasks:
		d.Tasks, err = removeItem(d.Tasks, func(x portal.Task) string { return x.ID }, itemID)
	case portal.ModuleLeads:
		d.Leads, err = removeItem(d.Leads, func(x portal.Lead) string { return x.ID }, itemID)
	case portal.ModulePayments:
		d.Payments, err = removeItem(d.Payments, func(x portal.Payment) string { return x.ID }, itemID)
	case portal.ModuleAppointments:
		d.Appointments, err = removeItem(d.Appointments, func(x portal.Appointment) string { return x.ID }, itemID)
	default:
		return apperr.Validation(fmt.Sprintf("module %q has no item collection", moduleID))
	}
	if err != nil {
		return err
	}
	d.touch()
	return nil
}

// Assemble serializes the whole draft into the modules subdocument that
// Save persists. Every module ships with its data and its enabled flag,
// so disabled modules keep their content across sessions.
func (d *Draft) Assemble() portal.ModuleSet {
	return portal.ModuleSet{
		Overview: &portal.OverviewModule{
			Enabled: true,
			Title:   d.Overview.Title,
			Summary: d.Overview.Summary,
		},
		Tasks: &portal.TasksModule{
			Enabled: d.Enabled[portal.ModuleTasks],
			Tasks:   d.Tasks,
		},
		Leads: &portal.LeadsModule{
			Enabled: d.Enabled[portal.ModuleLeads],
			Leads:   d.Leads,
		},
		Payments: &portal.PaymentsModule{
			Enabled:  d.Enabled[portal.ModulePayments],
			Payments: d.Payments,
		},
		Appointments: &portal.AppointmentsModule{
			Enabled:      d.Enabled[portal.ModuleAppointments],
			Appointments: d.Appointments,
		},
	}
}

func (d *Draft) touch() {
	d.Dirty = true
	d.UpdatedAt = time.Now()
}

// clone returns a copy safe to hand to response marshaling while the
// live draft keeps being edited. Slices and the enabled map are copied;
// item structs are value types.
func (d *Draft) clone() *Draft {
	c := *d
	c.Enabled = make(map[string]bool, len(d.Enabled))
	for k, v := range d.Enabled {
		c.Enabled[k] = v
	}
	c.Tasks = append([]portal.Task(nil), d.Tasks...)
	c.Leads = append([]portal.Lead(nil), d.Leads...)
	c.Payments = append([]portal.Payment(nil), d.Payments...)
	c.Appointments = append([]portal.Appointment(nil), d.Appointments...)
	return &c
}

func defaultEnabled() map[string]bool {
	return map[string]bool{
		portal.ModuleOverview:     true,
		portal.ModuleTasks:        true,
		portal.ModuleLeads:        false,
		portal.ModulePayments:     false,
		portal.ModuleAppointments: false,
	}
}

// draftFromPortal rebuilds a draft from a persisted document. Empty
// portals (fresh from create) start from the sample seed.
func draftFromPortal(p *portal.Portal) *Draft {
	d := &Draft{
		PortalID:  p.ID.Hex(),
		UserID:    p.UserID,
		Version:   p.Version,
		Enabled:   defaultEnabled(),
		UpdatedAt: time.Now(),
	}

	m := p.Modules
	if m.Overview == nil && m.Tasks == nil && m.Leads == nil && m.Payments == nil && m.Appointments == nil {
		seed := sampleSeed()
		d.Overview = seed.Overview
		d.Tasks = seed.Tasks
		d.Leads = seed.Leads
		d.Payments = seed.Payments
		d.Appointments = seed.Appointments
		return d
	}

	if m.Overview != nil {
		d.Overview = *m.Overview
	}
	if m.Tasks != nil {
		d.Enabled[portal.ModuleTasks] = m.Tasks.Enabled
		d.Tasks = m.Tasks.Tasks
	}
	if m.Leads != nil {
		d.Enabled[portal.ModuleLeads] = m.Leads.Enabled
		d.Leads = m.Leads.Leads
	}
	if m.Payments != nil {
		d.Enabled[portal.ModulePayments] = m.Payments.Enabled
		d.Payments = m.Payments.Payments
	}
	if m.Appointments != nil {
		d.Enabled[portal.ModuleAppointments] = m.Appointments.Enabled
		d.Appointments = m.Appointments.Appointments
	}
	return d
}
