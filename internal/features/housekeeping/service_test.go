package housekeeping

import (
	"context"
	"testing"
	"time"

	"go-portal/internal/config"
	"go-portal/internal/features/feedback"
	"go-portal/internal/features/portal"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakePortalRepo struct {
	portals []portal.Portal
}

func (f *fakePortalRepo) byID(id primitive.ObjectID) *portal.Portal {
	for i := range f.portals {
		if f.portals[i].ID == id {
			return &f.portals[i]
		}
	}
	return nil
}

func (f *fakePortalRepo) Create(ctx context.Context, p *portal.Portal) error {
	f.portals = append(f.portals, *p)
	return nil
}

func (f *fakePortalRepo) FindByID(ctx context.Context, id primitive.ObjectID, userID string) (*portal.Portal, error) {
	if p := f.byID(id); p != nil && p.UserID == userID {
		return p, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakePortalRepo) FindBySlug(ctx context.Context, slug string) (*portal.Portal, error) {
	return nil, mongo.ErrNoDocuments
}

func (f *fakePortalRepo) FindByIDAny(ctx context.Context, id primitive.ObjectID) (*portal.Portal, error) {
	if p := f.byID(id); p != nil {
		return p, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakePortalRepo) ListByUser(ctx context.Context, userID string) ([]portal.Portal, error) {
	return nil, nil
}

func (f *fakePortalRepo) ListAll(ctx context.Context) ([]portal.Portal, error) {
	return f.portals, nil
}

func (f *fakePortalRepo) SaveModules(ctx context.Context, id primitive.ObjectID, userID string, version int64, modules portal.ModuleSet) (*portal.Portal, error) {
	p := f.byID(id)
	if p == nil || p.UserID != userID || p.Version != version {
		return nil, mongo.ErrNoDocuments
	}
	p.Modules = modules
	p.Status = portal.StatusActive
	p.Version++
	return p, nil
}

func (f *fakePortalRepo) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	return mongo.ErrNoDocuments
}

func (f *fakePortalRepo) TouchVisited(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	f.byID(id).LastVisited = &at
	return nil
}

func (f *fakePortalRepo) IncInbox(ctx context.Context, id primitive.ObjectID, delta int) error {
	p := f.byID(id)
	p.Inbox += delta
	if p.Inbox < 0 {
		p.Inbox = 0
	}
	return nil
}

func (f *fakePortalRepo) SetInbox(ctx context.Context, id primitive.ObjectID, count int) error {
	f.byID(id).Inbox = count
	return nil
}

func (f *fakePortalRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	f.byID(id).Status = status
	return nil
}

func (f *fakePortalRepo) EnsureIndexes(ctx context.Context) error { return nil }

// fakeFeedbackRepo only answers unread counts, keyed by portal id hex.
type fakeFeedbackRepo struct {
	unread map[string]int
}

func (f *fakeFeedbackRepo) Insert(ctx context.Context, msg *feedback.Message) error { return nil }

func (f *fakeFeedbackRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*feedback.Message, error) {
	return nil, mongo.ErrNoDocuments
}

func (f *fakeFeedbackRepo) ListByPortalIDs(ctx context.Context, portalIDs []string) ([]feedback.Message, error) {
	return nil, nil
}

func (f *fakeFeedbackRepo) MarkRead(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	return false, nil
}

func (f *fakeFeedbackRepo) CountUnread(ctx context.Context, portalID string) (int, error) {
	return f.unread[portalID], nil
}

func (f *fakeFeedbackRepo) EnsureIndexes(ctx context.Context) error { return nil }

func TestRunSweep(t *testing.T) {
	now := time.Now()
	recent := now.Add(-24 * time.Hour)
	stale := now.Add(-60 * 24 * time.Hour)

	staleID := primitive.NewObjectID()
	freshID := primitive.NewObjectID()
	neverID := primitive.NewObjectID()
	inactiveID := primitive.NewObjectID()

	repo := &fakePortalRepo{portals: []portal.Portal{
		{ID: staleID, UserID: "u", Status: portal.StatusActive, LastVisited: &stale, Inbox: 3},
		{ID: freshID, UserID: "u", Status: portal.StatusActive, LastVisited: &recent, Inbox: 1},
		{ID: neverID, UserID: "u", Status: portal.StatusActive, LastVisited: nil},
		{ID: inactiveID, UserID: "u", Status: portal.StatusInactive, LastVisited: &stale},
	}}
	fb := &fakeFeedbackRepo{unread: map[string]int{
		staleID.Hex(): 3,
		freshID.Hex(): 5, // counter drifted, store says 1
	}}

	svc := &HousekeepingServiceImpl{
		PortalRepo:   repo,
		FeedbackRepo: fb,
		Config:       &config.Config{PortalStaleDays: 30},
		Logger:       zap.NewNop(),
	}

	if err := svc.RunSweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if got := repo.byID(staleID).Status; got != portal.StatusInactive {
		t.Errorf("stale portal status = %q, want Inactive", got)
	}
	if got := repo.byID(freshID).Status; got != portal.StatusActive {
		t.Errorf("fresh portal status = %q, want Active", got)
	}
	if got := repo.byID(neverID).Status; got != portal.StatusInactive {
		t.Errorf("never-visited portal status = %q, want Inactive", got)
	}
	if got := repo.byID(inactiveID).Status; got != portal.StatusInactive {
		t.Errorf("inactive portal status = %q, should stay Inactive", got)
	}

	if got := repo.byID(freshID).Inbox; got != 5 {
		t.Errorf("drifted inbox counter = %d, want reconciled to 5", got)
	}
	if got := repo.byID(staleID).Inbox; got != 3 {
		t.Errorf("accurate inbox counter = %d, should stay 3", got)
	}
}

func TestSweepResumesAfterRepublish(t *testing.T) {
	// A swept portal that the owner saves again goes back to Active and
	// is then subject to the next sweep like any other.
	id := primitive.NewObjectID()
	old := time.Now().Add(-90 * 24 * time.Hour)
	repo := &fakePortalRepo{portals: []portal.Portal{
		{ID: id, UserID: "u", Status: portal.StatusActive, LastVisited: &old, Version: 1},
	}}
	fb := &fakeFeedbackRepo{unread: map[string]int{}}

	svc := &HousekeepingServiceImpl{
		PortalRepo:   repo,
		FeedbackRepo: fb,
		Config:       &config.Config{PortalStaleDays: 30},
		Logger:       zap.NewNop(),
	}
	ctx := context.Background()

	if err := svc.RunSweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if repo.byID(id).Status != portal.StatusInactive {
		t.Fatal("stale portal not swept")
	}

	if _, err := repo.SaveModules(ctx, id, "u", 1, portal.ModuleSet{}); err != nil {
		t.Fatalf("republish: %v", err)
	}
	if repo.byID(id).Status != portal.StatusActive {
		t.Fatal("save should reactivate the portal")
	}

	if err := svc.RunSweep(ctx); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if repo.byID(id).Status != portal.StatusInactive {
		t.Error("republished-but-unvisited portal should be swept again")
	}
}
