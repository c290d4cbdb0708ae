package housekeeping

import (
	"context"
	"fmt"
	"time"

	"go-portal/internal/config"
	"go-portal/internal/features/feedback"
	"go-portal/internal/features/portal"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// sweepSchedule runs the nightly maintenance pass.
const sweepSchedule = "0 3 * * *"

type HousekeepingService interface {
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
	RunSweep(ctx context.Context) error
}

type HousekeepingServiceImpl struct {
	PortalRepo   portal.PortalRepository
	FeedbackRepo feedback.FeedbackRepository
	Config       *config.Config
	Logger       *zap.Logger
	scheduler    *cron.Cron
}

func NewHousekeepingService(portalRepo portal.PortalRepository, feedbackRepo feedback.FeedbackRepository, cfg *config.Config, logger *zap.Logger) HousekeepingService {
	return &HousekeepingServiceImpl{
		PortalRepo:   portalRepo,
		FeedbackRepo: feedbackRepo,
		Config:       cfg,
		Logger:       logger,
	}
}

func (s *HousekeepingServiceImpl) InitializeScheduler(ctx context.Context) error {
	if _, err := cron.ParseStandard(sweepSchedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(sweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.RunSweep(ctx); err != nil {
			s.Logger.Error("housekeeping sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.Logger.Info("housekeeping scheduler started", zap.String("schedule", sweepSchedule))
	return nil
}

func (s *HousekeepingServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	return nil
}

// RunSweep marks portals with no recent client visit Inactive and
// reconciles each portal's inbox counter against the actual unread
// message count (the counter and the messages live in different
// documents, so they can drift).
func (s *HousekeepingServiceImpl) RunSweep(ctx context.Context) error {
	portals, err := s.PortalRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	staleBefore := time.Now().AddDate(0, 0, -s.Config.PortalStaleDays)
	swept, reconciled := 0, 0

	for i := range portals {
		p := &portals[i]

		if p.Status == portal.StatusActive &&
			(p.LastVisited == nil || p.LastVisited.Before(staleBefore)) {
			if err := s.PortalRepo.SetStatus(ctx, p.ID, portal.StatusInactive); err != nil {
				s.Logger.Warn("failed to mark portal inactive",
					zap.String("portalId", p.ID.Hex()), zap.Error(err))
			} else {
				swept++
			}
		}

		unread, err := s.FeedbackRepo.CountUnread(ctx, p.ID.Hex())
		if err != nil {
			s.Logger.Warn("failed to count unread feedback",
				zap.String("portalId", p.ID.Hex()), zap.Error(err))
			continue
		}
		if unread != p.Inbox {
			if err := s.PortalRepo.SetInbox(ctx, p.ID, unread); err != nil {
				s.Logger.Warn("failed to reconcile inbox counter",
					zap.String("portalId", p.ID.Hex()), zap.Error(err))
			} else {
				reconciled++
			}
		}
	}

	s.Logger.Info("housekeeping sweep finished",
		zap.Int("portals", len(portals)),
		zap.Int("sweptInactive", swept),
		zap.Int("countersReconciled", reconciled))
	return nil
}
