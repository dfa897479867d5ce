package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/ownership-platform/verification-service/internal/application"
)

// Sweeper periodically enforces the audit retention window and clears lapsed
// pairing codes. It runs as its own process so a stuck sweep never competes
// with request serving.
type Sweeper struct {
	logger   *slog.Logger
	service  *application.Service
	interval time.Duration
}

func NewSweeper(logger *slog.Logger, service *application.Service, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{logger: logger, service: service, interval: interval}
}

// Run ticks until the context is cancelled. One failed sweep logs and waits
// for the next tick; deletes are idempotent so retries are safe.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if err := s.service.CleanupVerifications(ctx); err != nil {
		s.logger.ErrorContext(ctx, "maintenance sweep failed",
			"module", "maintenance",
			"layer", "adapter",
			"operation", "sweep",
			"outcome", "failure",
			"error", err,
		)
	}
}
