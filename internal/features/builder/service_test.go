package builder

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"go-portal/internal/common/apperr"
	"go-portal/internal/features/portal"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakePortalService serves a single in-memory portal and records saves.
type fakePortalService struct {
	portal    *portal.Portal
	saveErr   error
	lastSaved portal.ModuleSet
}

func (f *fakePortalService) CreatePortal(ctx context.Context, userID, name, email, description string) (*portal.Portal, error) {
	panic("not used")
}

func (f *fakePortalService) GetPortal(ctx context.Context, userID, portalID string) (*portal.Portal, error) {
	if f.portal == nil || f.portal.ID.Hex() != portalID || f.portal.UserID != userID {
		return nil, apperr.NotFound("portal not found")
	}
	return f.portal, nil
}

func (f *fakePortalService) GetBySlug(ctx context.Context, slug string) (*portal.Portal, error) {
	panic("not used")
}

func (f *fakePortalService) ListPortals(ctx context.Context, userID string) ([]portal.Portal, error) {
	panic("not used")
}

func (f *fakePortalService) SaveModules(ctx context.Context, userID, portalID string, version int64, modules portal.ModuleSet) (*portal.Portal, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if version != f.portal.Version {
		return nil, apperr.Conflict("portal was modified by another session")
	}
	f.lastSaved = modules
	f.portal.Modules = modules
	f.portal.Version++
	f.portal.Status = portal.StatusActive
	return f.portal, nil
}

func (f *fakePortalService) DeletePortal(ctx context.Context, userID, portalID string) error {
	panic("not used")
}

func newTestService(t *testing.T) (*BuilderServiceImpl, *fakePortalService, string) {
	t.Helper()
	fake := &fakePortalService{
		portal: &portal.Portal{
			ID:      primitive.NewObjectID(),
			UserID:  "user-1",
			Version: 1,
		},
	}
	svc := &BuilderServiceImpl{
		Portals: fake,
		Store:   newDraftStore(),
		Logger:  zap.NewNop(),
	}
	return svc, fake, fake.portal.ID.Hex()
}

func TestOpenResumesExistingSession(t *testing.T) {
	svc, _, portalID := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Open(ctx, "user-1", portalID); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.SetOverview(ctx, "user-1", portalID, "Edited", "in progress"); err != nil {
		t.Fatalf("set overview: %v", err)
	}

	resumed, err := svc.Open(ctx, "user-1", portalID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if resumed.Overview.Title != "Edited" {
		t.Error("pending edits lost on reopen")
	}
	if !resumed.Dirty {
		t.Error("resumed draft should still be dirty")
	}
}

func TestOpenRejectsOtherUsersPortal(t *testing.T) {
	svc, _, portalID := newTestService(t)

	if _, err := svc.Open(context.Background(), "intruder", portalID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not found for foreign portal, got %v", err)
	}
}

func TestEditWithoutSession(t *testing.T) {
	svc, _, portalID := newTestService(t)

	_, err := svc.Toggle(context.Background(), "user-1", portalID, portal.ModuleTasks)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("editing without an open session should be not found, got %v", err)
	}
}

func TestReturnedDraftIsDetached(t *testing.T) {
	svc, _, portalID := newTestService(t)
	ctx := context.Background()

	d, err := svc.Open(ctx, "user-1", portalID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	// Mutating the returned copy must not leak into the session
	d.Tasks = nil
	d.Enabled[portal.ModuleTasks] = false

	fresh, err := svc.Open(ctx, "user-1", portalID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if len(fresh.Tasks) == 0 {
		t.Error("session draft shared its task slice with the response copy")
	}
	if !fresh.Enabled[portal.ModuleTasks] {
		t.Error("session draft shared its enabled map with the response copy")
	}
}

func TestSavePersistsDraftAndBumpsVersion(t *testing.T) {
	svc, fake, portalID := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Open(ctx, "user-1", portalID); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.Toggle(ctx, "user-1", portalID, portal.ModuleLeads); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	saved, err := svc.Save(ctx, "user-1", portalID)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if fake.lastSaved.Leads == nil || !fake.lastSaved.Leads.Enabled {
		t.Error("toggled module not part of the saved set")
	}
	if saved.Version != 2 {
		t.Errorf("version = %d, want 2", saved.Version)
	}

	d, err := svc.Open(ctx, "user-1", portalID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if d.Version != 2 || d.Dirty {
		t.Errorf("draft not synced after save: version=%d dirty=%v", d.Version, d.Dirty)
	}
}

func TestSaveConflictLeavesDraftIntact(t *testing.T) {
	svc, fake, portalID := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Open(ctx, "user-1", portalID); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.SetOverview(ctx, "user-1", portalID, "Mine", "local edits"); err != nil {
		t.Fatalf("set overview: %v", err)
	}

	// Another session saved first
	fake.portal.Version = 5

	_, err := svc.Save(ctx, "user-1", portalID)
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	d, err := svc.Open(ctx, "user-1", portalID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !d.Dirty || d.Overview.Title != "Mine" {
		t.Error("conflict must not discard local edits")
	}
	if d.Version != 1 {
		t.Errorf("draft version changed on failed save: %d", d.Version)
	}
}

func TestConcurrentDraftEdits(t *testing.T) {
	svc, _, portalID := newTestService(t)
	ctx := context.Background()

	opened, err := svc.Open(ctx, "user-1", portalID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	seededTasks, seededLeads := len(opened.Tasks), len(opened.Leads)

	// Two tabs editing the same portal at once: one adds tasks, the
	// other flips modules and adds leads. Run under -race.
	const perWorker = 50
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < perWorker; i++ {
			raw := json.RawMessage(fmt.Sprintf(`{"title":"Task %d"}`, i))
			if _, err := svc.UpsertItem(ctx, "user-1", portalID, portal.ModuleTasks, "", raw); err != nil {
				t.Errorf("upsert task: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perWorker; i++ {
			if _, err := svc.Toggle(ctx, "user-1", portalID, portal.ModuleLeads); err != nil {
				t.Errorf("toggle: %v", err)
				return
			}
			raw := json.RawMessage(fmt.Sprintf(`{"name":"Lead %d","email":"l%d@example.com"}`, i, i))
			if _, err := svc.UpsertItem(ctx, "user-1", portalID, portal.ModuleLeads, "", raw); err != nil {
				t.Errorf("upsert lead: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	d, err := svc.Open(ctx, "user-1", portalID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := len(d.Tasks); got != seededTasks+perWorker {
		t.Errorf("tasks = %d, want %d", got, seededTasks+perWorker)
	}
	if got := len(d.Leads); got != seededLeads+perWorker {
		t.Errorf("leads = %d, want %d", got, seededLeads+perWorker)
	}
}
