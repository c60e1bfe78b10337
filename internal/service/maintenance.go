package service

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MaintenanceService runs the nightly housekeeping: recomputing stored
// streaks so a lapsed streak reads zero even when the user never comes
// back to trigger a recording operation.
type MaintenanceService struct {
	progress *ProgressService
	users    UserRepository
	logger   *zap.Logger
}

func NewMaintenanceService(progressSvc *ProgressService, users UserRepository, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{
		progress: progressSvc,
		users:    users,
		logger:   logger,
	}
}

// Start begins the nightly scheduling loop and blocks until ctx is done.
func (s *MaintenanceService) Start(ctx context.Context) {
	s.logger.Info("maintenance service started")

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc("10 0 * * *", func() {
		s.logger.Info("cron triggered: refreshing study streaks")
		if err := s.RefreshAllStreaks(ctx); err != nil {
			s.logger.Error("failed to refresh streaks", zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()
	s.logger.Info("cron scheduler started")

	<-ctx.Done()

	c.Stop()
	s.logger.Info("maintenance service stopped")
}

// RefreshAllStreaks walks every account and rewrites streaks that no
// longer match the session history. Failures on individual users are
// logged and skipped so one bad row does not stall the sweep.
func (s *MaintenanceService) RefreshAllStreaks(ctx context.Context) error {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return err
	}

	const maxConcurrent = 10
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	refreshed := 0

	for _, id := range ids {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if _, err := s.progress.RefreshStreak(ctx, id); err != nil {
				s.logger.Error("failed to refresh streak",
					zap.String("user_id", id.String()),
					zap.Error(err))
				return
			}
			mu.Lock()
			refreshed++
			mu.Unlock()
		}()
	}

	wg.Wait()

	s.logger.Info("streaks refreshed",
		zap.Int("users", len(ids)),
		zap.Int("refreshed", refreshed),
	)

	return nil
}
