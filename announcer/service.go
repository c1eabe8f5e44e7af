// package announcer posts the Terror Zone rotation to the group on a fixed
// schedule, so the status shows up without anyone asking.
package announcer

import (
	"context"
	"time"

	"github.com/wdjwxh/d2rtz-bot/logging"
	"github.com/wdjwxh/d2rtz-bot/metrics"
	"github.com/wdjwxh/d2rtz-bot/terrorzone"
)

// Sender posts a text message to a group.
type Sender interface {
	SendGroupMessage(ctx context.Context, groupID int64, text string) (int64, error)
}

// RotationFetcher supplies the current rotation payload.
type RotationFetcher interface {
	FetchRotation(ctx context.Context) (*terrorzone.Rotation, error)
}

// Service is the scheduled announcer.
type Service struct {
	fetcher  RotationFetcher
	sender   Sender
	areas    map[int]terrorzone.AreaInfo
	groupID  int64
	interval time.Duration
	logger   *logging.Logger
}

// New creates an announcer. interval must be positive; groupID names the
// group that receives the posts.
func New(fetcher RotationFetcher, sender Sender, areas map[int]terrorzone.AreaInfo,
	groupID int64, interval time.Duration, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		fetcher:  fetcher,
		sender:   sender,
		areas:    areas,
		groupID:  groupID,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the announcement loop. It posts once immediately, then on
// every tick, and returns when the context is cancelled.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.announce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("announcer shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.announce(ctx)
		}
	}
}

// announce does one fetch-format-post round. Failures are logged and counted,
// never fatal; the next tick simply tries again.
func (s *Service) announce(ctx context.Context) {
	rot, err := s.fetcher.FetchRotation(ctx)
	if err != nil {
		metrics.AnnounceTotal.WithLabelValues("fetch_error").Inc()
		s.logger.Error("scheduled rotation fetch failed", "error", err.Error())
		return
	}

	status, err := terrorzone.FormatStatus(rot, s.areas)
	if err != nil {
		metrics.AnnounceTotal.WithLabelValues("format_error").Inc()
		s.logger.Error("scheduled rotation format failed", "error", err.Error())
		return
	}

	if _, err := s.sender.SendGroupMessage(ctx, s.groupID, status); err != nil {
		metrics.AnnounceTotal.WithLabelValues("send_error").Inc()
		s.logger.Error("scheduled rotation post failed", "group", s.groupID, "error", err.Error())
		return
	}

	metrics.AnnounceTotal.WithLabelValues("success").Inc()
	s.logger.Info("posted rotation status", "group", s.groupID)
}
