package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/campusworks/registrar/internal/registrar/store"
)

// HousekeepingService periodically removes revocation ledger entries for
// tokens that have expired on their own, keeping the ledger bounded.
type HousekeepingService struct {
	Ledger   store.Ledger
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the sweeper. If interval is 0 or
// negative, defaults to 1 hour.
func NewHousekeepingService(ledger store.Ledger, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Ledger:   ledger,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut
// down gracefully.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep immediately on startup.
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	deleted, err := s.Ledger.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.Logger.Error("failed to delete expired ledger entries", "error", err)
		return
	}
	s.Logger.Info("housekeeping sweep completed", "deleted", deleted)
}
