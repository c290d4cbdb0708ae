package billing

import (
	"context"

	"go-portal/internal/common/apperr"

	"go.uber.org/zap"
)

type BillingService interface {
	RecordSubscriptionEvent(ctx context.Context, userID string, ev *SubscriptionEvent) (*Subscription, error)
	ListSubscriptions(ctx context.Context, userID string) ([]Subscription, error)
}

type BillingServiceImpl struct {
	Repo   BillingRepository
	Logger *zap.Logger
}

func NewBillingService(repo BillingRepository, logger *zap.Logger) BillingService {
	return &BillingServiceImpl{
		Repo:   repo,
		Logger: logger,
	}
}

func validStatus(s SubscriptionStatus) bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusPastDue || s == SubscriptionStatusCanceled
}

func (s *BillingServiceImpl) RecordSubscriptionEvent(ctx context.Context, userID string, ev *SubscriptionEvent) (*Subscription, error) {
	if ev.CustomerID == "" || ev.PaymentID == "" {
		return nil, apperr.Validation("customerId and paymentId are required")
	}
	if !validStatus(ev.Status) {
		return nil, apperr.Validation("invalid subscription status")
	}
	if ev.NextBillingDate.IsZero() {
		return nil, apperr.Validation("nextBillingDate is required")
	}
	if ev.Currency == "" {
		ev.Currency = "usd"
	}

	sub, err := s.Repo.RecordEvent(ctx, userID, ev)
	if err != nil {
		return nil, apperr.Internal("failed to record subscription event", err)
	}

	s.Logger.Info("subscription event recorded",
		zap.String("customerId", ev.CustomerID),
		zap.String("status", string(ev.Status)))
	return sub, nil
}

func (s *BillingServiceImpl) ListSubscriptions(ctx context.Context, userID string) ([]Subscription, error) {
	subs, err := s.Repo.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list subscriptions", err)
	}
	if subs == nil {
		subs = []Subscription{}
	}
	return subs, nil
}
