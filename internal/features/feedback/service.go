package feedback

import (
	"context"
	"sort"
	"time"

	"go-portal/internal/common/apperr"
	"go-portal/internal/features/portal"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Notifier pushes a feedback-received event to the owning agency's
// connected inbox sessions. The realtime feature provides the
// implementation; a no-op is fine in tests.
type Notifier interface {
	PushFeedback(userID string, msg *Message)
}

type FeedbackService interface {
	Submit(ctx context.Context, portalID, clientName, clientEmail, message string) (*Message, error)
	Inbox(ctx context.Context, userID string) ([]InboxGroup, error)
	MarkRead(ctx context.Context, userID, messageID string) error
}

type FeedbackServiceImpl struct {
	Repo       FeedbackRepository
	PortalRepo portal.PortalRepository
	Notifier   Notifier
	Logger     *zap.Logger
}

func NewFeedbackService(repo FeedbackRepository, portalRepo portal.PortalRepository, notifier Notifier, logger *zap.Logger) FeedbackService {
	return &FeedbackServiceImpl{
		Repo:       repo,
		PortalRepo: portalRepo,
		Notifier:   notifier,
		Logger:     logger,
	}
}

// Submit is the public dashboard's "send feedback" action. The portal id
// is client-supplied, so it is validated against the store and the
// portal's feedback toggle before anything is written.
func (s *FeedbackServiceImpl) Submit(ctx context.Context, portalID, clientName, clientEmail, message string) (*Message, error) {
	if message == "" {
		return nil, apperr.Validation("feedback message is required")
	}
	oid, err := primitive.ObjectIDFromHex(portalID)
	if err != nil {
		return nil, apperr.Validation("invalid portal id")
	}

	target, err := s.PortalRepo.FindByIDAny(ctx, oid)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("portal not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to resolve portal", err)
	}
	if !target.Feedback {
		return nil, apperr.Forbidden("feedback is disabled for this portal")
	}

	msg := &Message{
		ID:          primitive.NewObjectID(),
		PortalID:    portalID,
		ClientName:  clientName,
		ClientEmail: clientEmail,
		Message:     message,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
	if err := s.Repo.Insert(ctx, msg); err != nil {
		return nil, apperr.Internal("failed to store feedback", err)
	}

	if err := s.PortalRepo.IncInbox(ctx, oid, 1); err != nil {
		// Counter drift is corrected by the housekeeping sweep
		s.Logger.Warn("failed to bump inbox counter",
			zap.String("portalId", portalID), zap.Error(err))
	}

	if s.Notifier != nil {
		s.Notifier.PushFeedback(target.UserID, msg)
	}

	s.Logger.Info("feedback received", zap.String("portalId", portalID))
	return msg, nil
}

// Inbox turns the agency's flat message list into a per-portal
// conversation view: messages newest-first inside each group, groups
// ordered by their latest message, unread counts per group.
func (s *FeedbackServiceImpl) Inbox(ctx context.Context, userID string) ([]InboxGroup, error) {
	portals, err := s.PortalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list portals", err)
	}

	portalIDs := make([]string, 0, len(portals))
	names := make(map[string]portal.Portal, len(portals))
	for _, p := range portals {
		id := p.ID.Hex()
		portalIDs = append(portalIDs, id)
		names[id] = p
	}

	messages, err := s.Repo.ListByPortalIDs(ctx, portalIDs)
	if err != nil {
		return nil, apperr.Internal("failed to list feedback", err)
	}

	return GroupMessages(messages, names), nil
}

// GroupMessages is the pure grouping/sorting core, exported for tests.
// Ordering is fully deterministic: equal timestamps tie-break on
// message id so the result never depends on sort stability.
func GroupMessages(messages []Message, portals map[string]portal.Portal) []InboxGroup {
	byPortal := make(map[string][]Message)
	for _, m := range messages {
		byPortal[m.PortalID] = append(byPortal[m.PortalID], m)
	}

	groups := make([]InboxGroup, 0, len(byPortal))
	for portalID, msgs := range byPortal {
		sort.Slice(msgs, func(i, j int) bool {
			if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
				return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
			}
			return msgs[i].ID.Hex() > msgs[j].ID.Hex()
		})

		unread := 0
		for _, m := range msgs {
			if !bool(m.IsRead) {
				unread++
			}
		}

		g := InboxGroup{
			PortalID:    portalID,
			UnreadCount: unread,
			LatestAt:    msgs[0].CreatedAt,
			Messages:    msgs,
		}
		if p, ok := portals[portalID]; ok {
			g.PortalName = p.PortalName
			g.Slug = p.Slug
		}
		groups = append(groups, g)
	}

	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].LatestAt.Equal(groups[j].LatestAt) {
			return groups[i].LatestAt.After(groups[j].LatestAt)
		}
		return groups[i].PortalID < groups[j].PortalID
	})
	return groups
}

// MarkRead flips a message to read and decrements the owning portal's
// inbox counter. The two writes hit different documents with no
// transaction; the housekeeping sweep reconciles any drift.
func (s *FeedbackServiceImpl) MarkRead(ctx context.Context, userID, messageID string) error {
	mid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return apperr.Validation("invalid message id")
	}

	msg, err := s.Repo.FindByID(ctx, mid)
	if err == mongo.ErrNoDocuments {
		return apperr.NotFound("message not found")
	}
	if err != nil {
		return apperr.Internal("failed to fetch message", err)
	}

	poid, err := primitive.ObjectIDFromHex(msg.PortalID)
	if err != nil {
		return apperr.Internal("message has a malformed portal link", err)
	}
	// Ownership check: the portal must belong to the caller
	if _, err := s.PortalRepo.FindByID(ctx, poid, userID); err == mongo.ErrNoDocuments {
		return apperr.NotFound("message not found")
	} else if err != nil {
		return apperr.Internal("failed to verify ownership", err)
	}

	flipped, err := s.Repo.MarkRead(ctx, mid, time.Now())
	if err != nil {
		return apperr.Internal("failed to mark message read", err)
	}
	if flipped {
		if err := s.PortalRepo.IncInbox(ctx, poid, -1); err != nil {
			s.Logger.Warn("failed to decrement inbox counter",
				zap.String("portalId", msg.PortalID), zap.Error(err))
		}
	}
	return nil
}
