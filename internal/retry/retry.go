// Package retry provides a fixed-count, fixed-delay retry wrapper for
// external service calls.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Config controls how many attempts are made and the wait between them.
// The delay is constant: attempts are counted, not backed off.
type Config struct {
	MaxAttempts int
	Delay       time.Duration
}

// Do runs operation up to cfg.MaxAttempts times, waiting cfg.Delay between
// attempts. The wait is cancellable through ctx.
func Do(ctx context.Context, cfg Config, logger *slog.Logger, operation func() error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = operation()
		if lastErr == nil {
			return nil
		}

		if logger != nil {
			logger.Warn("operation attempt failed",
				"attempt", attempt,
				"max_attempts", attempts,
				"error", lastErr)
		}

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(cfg.Delay):
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", attempts, lastErr)
}
