package service

import (
	"context"
	"log/slog"
	"time"
)

// HousekeepingService periodically expires stale instructor invites so a
// pending invite cannot be redeemed long after the owner forgot about it.
type HousekeepingService struct {
	Invites   *InviteService
	Logger    *slog.Logger
	Interval  time.Duration
	InviteTTL time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// sweep interval and invite time-to-live. If interval is 0 or negative,
// defaults to 1 hour; if ttl is 0 or negative, defaults to 14 days.
func NewHousekeepingService(invites *InviteService, logger *slog.Logger, interval, ttl time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}

	return &HousekeepingService{
		Invites:   invites,
		Logger:    logger,
		Interval:  interval,
		InviteTTL: ttl,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs the sweep.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "invite_ttl", s.InviteTTL)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress sweep.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

// run is the main background worker loop.
func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run a sweep immediately on startup
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

// sweep marks pending invites older than the TTL as expired.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	expired, err := s.Invites.ExpireStale(ctx, s.InviteTTL)
	if err != nil {
		s.Logger.Error("failed to expire stale invites", "error", err)
		return
	}

	if expired > 0 {
		s.Logger.Info("expired stale invites", "count", expired)
	} else {
		s.Logger.Debug("no stale invites to expire")
	}
}
