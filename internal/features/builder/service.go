package builder

import (
	"context"
	"encoding/json"
	"sync"

	"go-portal/internal/common/apperr"
	"go-portal/internal/features/portal"

	"go.uber.org/zap"
)

// session is one open builder draft plus the lock serializing edits to
// it. Two tabs on the same portal share a session; the mutex keeps their
// concurrent requests from interleaving inside a mutation.
type session struct {
	mu    sync.Mutex
	draft *Draft
}

// draftStore holds open builder sessions in memory, one per portal.
// The store lock only guards the map; each session carries its own lock.
type draftStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newDraftStore() *draftStore {
	return &draftStore{sessions: make(map[string]*session)}
}

func (s *draftStore) get(portalID string) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[portalID]
	return sess, ok
}

// open resumes the portal's session when the same user already has one,
// otherwise installs a fresh draft. Done under the write lock so two
// racing opens agree on one session.
func (s *draftStore) open(d *Draft) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[d.PortalID]; ok && sess.draft.UserID == d.UserID {
		return sess
	}
	sess := &session{draft: d}
	s.sessions[d.PortalID] = sess
	return sess
}

type BuilderService interface {
	Open(ctx context.Context, userID, portalID string) (*Draft, error)
	Toggle(ctx context.Context, userID, portalID, moduleID string) (*Draft, error)
	Reset(ctx context.Context, userID, portalID string) (*Draft, error)
	SetOverview(ctx context.Context, userID, portalID, title, summary string) (*Draft, error)
	UpsertItem(ctx context.Context, userID, portalID, moduleID, itemID string, raw json.RawMessage) (*Draft, error)
	RemoveItem(ctx context.Context, userID, portalID, moduleID, itemID string) (*Draft, error)
	Save(ctx context.Context, userID, portalID string) (*portal.Portal, error)
}

type BuilderServiceImpl struct {
	Portals portal.PortalService
	Store   *draftStore
	Logger  *zap.Logger
}

func NewBuilderService(portals portal.PortalService, logger *zap.Logger) BuilderService {
	return &BuilderServiceImpl{
		Portals: portals,
		Store:   newDraftStore(),
		Logger:  logger,
	}
}

// Open loads (or resumes) the builder draft for a portal. Ownership is
// re-verified through the portal service on every call.
func (s *BuilderServiceImpl) Open(ctx context.Context, userID, portalID string) (*Draft, error) {
	p, err := s.Portals.GetPortal(ctx, userID, portalID)
	if err != nil {
		return nil, err
	}

	sess := s.Store.open(draftFromPortal(p))
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.draft.clone(), nil
}

// session fetches an open session, authorizing the caller against it.
// UserID is fixed at session creation, so reading it unlocked is safe.
func (s *BuilderServiceImpl) session(userID, portalID string) (*session, error) {
	sess, ok := s.Store.get(portalID)
	if !ok {
		return nil, apperr.NotFound("no open builder session for this portal")
	}
	if sess.draft.UserID != userID {
		return nil, apperr.Forbidden("builder session belongs to another user")
	}
	return sess, nil
}

func (s *BuilderServiceImpl) Toggle(ctx context.Context, userID, portalID, moduleID string) (*Draft, error) {
	sess, err := s.session(userID, portalID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.draft.ToggleModule(moduleID); err != nil {
		return nil, err
	}
	return sess.draft.clone(), nil
}

func (s *BuilderServiceImpl) Reset(ctx context.Context, userID, portalID string) (*Draft, error) {
	sess, err := s.session(userID, portalID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.draft.ResetAll()
	return sess.draft.clone(), nil
}

func (s *BuilderServiceImpl) SetOverview(ctx context.Context, userID, portalID, title, summary string) (*Draft, error) {
	sess, err := s.session(userID, portalID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.draft.SetOverview(title, summary)
	return sess.draft.clone(), nil
}

func (s *BuilderServiceImpl) UpsertItem(ctx context.Context, userID, portalID, moduleID, itemID string, raw json.RawMessage) (*Draft, error) {
	sess, err := s.session(userID, portalID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.draft.UpsertItem(moduleID, itemID, raw); err != nil {
		return nil, err
	}
	return sess.draft.clone(), nil
}

func (s *BuilderServiceImpl) RemoveItem(ctx context.Context, userID, portalID, moduleID, itemID string) (*Draft, error) {
	sess, err := s.session(userID, portalID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.draft.RemoveItem(moduleID, itemID); err != nil {
		return nil, err
	}
	return sess.draft.clone(), nil
}

// Save serializes the entire draft into one module set and persists it
// in a single versioned write. The session lock is held across Assemble
// and the store call so a concurrent edit cannot tear the snapshot. On
// conflict the draft is left untouched so the user can reopen and merge
// by hand.
func (s *BuilderServiceImpl) Save(ctx context.Context, userID, portalID string) (*portal.Portal, error) {
	sess, err := s.session(userID, portalID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	d := sess.draft
	p, err := s.Portals.SaveModules(ctx, userID, portalID, d.Version, d.Assemble())
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			s.Logger.Warn("builder save lost a version race",
				zap.String("portalId", portalID))
		}
		return nil, err
	}

	d.Version = p.Version
	d.Dirty = false
	return p, nil
}
