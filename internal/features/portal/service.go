package portal

import (
	"context"
	"net/mail"
	"time"

	"go-portal/internal/common/apperr"
	"go-portal/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UserFinder answers whether a relational user row exists for a session
// user id. The identity feature provides the implementation.
type UserFinder interface {
	UserExists(ctx context.Context, userID string) (bool, error)
}

type PortalService interface {
	CreatePortal(ctx context.Context, userID, name, email, description string) (*Portal, error)
	GetPortal(ctx context.Context, userID, portalID string) (*Portal, error)
	GetBySlug(ctx context.Context, slug string) (*Portal, error)
	ListPortals(ctx context.Context, userID string) ([]Portal, error)
	SaveModules(ctx context.Context, userID, portalID string, version int64, modules ModuleSet) (*Portal, error)
	DeletePortal(ctx context.Context, userID, portalID string) error
}

type PortalServiceImpl struct {
	Repo   PortalRepository
	Users  UserFinder
	Logger *zap.Logger
}

func NewPortalService(repo PortalRepository, users UserFinder, logger *zap.Logger) PortalService {
	return &PortalServiceImpl{
		Repo:   repo,
		Users:  users,
		Logger: logger,
	}
}

// requireUser maps a session id with no backing user row to InvalidUser.
func (s *PortalServiceImpl) requireUser(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.Unauthenticated("no session")
	}
	ok, err := s.Users.UserExists(ctx, userID)
	if err != nil {
		return apperr.Internal("failed to resolve user", err)
	}
	if !ok {
		return apperr.InvalidUser("no user for session")
	}
	return nil
}

func (s *PortalServiceImpl) CreatePortal(ctx context.Context, userID, name, email, description string) (*Portal, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if name == "" || email == "" || description == "" {
		return nil, apperr.Validation("name, email and description are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("invalid client email")
	}

	p := &Portal{
		ID:                 primitive.NewObjectID(),
		Slug:               utils.PortalSlug(name),
		UserID:             userID,
		PortalName:         name,
		ClientName:         name,
		ClientEmail:        email,
		ProjectDescription: description,
		Status:             StatusInactive,
		Inbox:              0,
		Feedback:           true,
		Version:            1,
		CreatedAt:          time.Now(),
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, apperr.Internal("failed to create portal", err)
	}

	s.Logger.Info("portal created",
		zap.String("portalId", p.ID.Hex()),
		zap.String("slug", p.Slug))
	return p, nil
}

func (s *PortalServiceImpl) GetPortal(ctx context.Context, userID, portalID string) (*Portal, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(portalID)
	if err != nil {
		return nil, apperr.Validation("invalid portal id")
	}

	p, err := s.Repo.FindByID(ctx, oid, userID)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("portal not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to fetch portal", err)
	}
	return p, nil
}

// GetBySlug is the public share path: no session, possession of the slug
// is the capability. Disabled modules are stripped and the visit stamped.
func (s *PortalServiceImpl) GetBySlug(ctx context.Context, slug string) (*Portal, error) {
	if slug == "" {
		return nil, apperr.Validation("slug is required")
	}

	p, err := s.Repo.FindBySlug(ctx, slug)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("portal not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to fetch portal", err)
	}

	now := time.Now()
	if err := s.Repo.TouchVisited(ctx, p.ID, now); err != nil {
		// A failed visit stamp should not fail the read, but the
		// response must not claim a stamp that was never stored
		s.Logger.Warn("failed to stamp portal visit",
			zap.String("portalId", p.ID.Hex()), zap.Error(err))
	} else {
		p.LastVisited = &now
	}
	p.Modules = p.Modules.FilterEnabled()
	return p, nil
}

func (s *PortalServiceImpl) ListPortals(ctx context.Context, userID string) ([]Portal, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	portals, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list portals", err)
	}
	if portals == nil {
		portals = []Portal{}
	}
	return portals, nil
}

func (s *PortalServiceImpl) SaveModules(ctx context.Context, userID, portalID string, version int64, modules ModuleSet) (*Portal, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(portalID)
	if err != nil {
		return nil, apperr.Validation("invalid portal id")
	}
	if err := ValidateModules(&modules); err != nil {
		return nil, err
	}

	p, err := s.Repo.SaveModules(ctx, oid, userID, version, modules)
	if err == mongo.ErrNoDocuments {
		// Either not ours / missing, or a stale version. Re-check to pick
		// the right error kind.
		if _, findErr := s.Repo.FindByID(ctx, oid, userID); findErr == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("portal not found")
		} else if findErr != nil {
			return nil, apperr.Internal("failed to fetch portal", findErr)
		}
		s.Logger.Warn("portal save rejected on version conflict",
			zap.String("portalId", portalID),
			zap.Int64("version", version))
		return nil, apperr.Conflict("portal was modified by another session")
	}
	if err != nil {
		return nil, apperr.Internal("failed to save portal modules", err)
	}
	return p, nil
}

func (s *PortalServiceImpl) DeletePortal(ctx context.Context, userID, portalID string) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(portalID)
	if err != nil {
		return apperr.Validation("invalid portal id")
	}

	err = s.Repo.Delete(ctx, oid, userID)
	if err == mongo.ErrNoDocuments {
		return apperr.NotFound("portal not found")
	}
	if err != nil {
		return apperr.Internal("failed to delete portal", err)
	}
	return nil
}
