package monitoring

import (
	"context"
	"errors"
	"time"

	"github.com/alexliesenfeld/health"
	"go.uber.org/zap"
)

// ReadyFunc reports whether the gateway session is usable.
type ReadyFunc func() bool

// NewChecker builds the health checker: the gateway must be ready and every
// data file writable.
func NewChecker(logger *zap.Logger, ready ReadyFunc, writable func() error) health.Checker {
	return health.NewChecker(
		health.WithCacheDuration(5*time.Second),
		health.WithTimeout(10*time.Second),
		health.WithCheck(health.Check{
			Name:    "discord_gateway",
			Timeout: 2 * time.Second,
			Check: func(ctx context.Context) error {
				if ready == nil || !ready() {
					return errors.New("gateway session not ready")
				}
				return nil
			},
			StatusListener: statusListener(logger),
		}),
		health.WithCheck(health.Check{
			Name:    "data_files",
			Timeout: 2 * time.Second,
			Check: func(ctx context.Context) error {
				if writable == nil {
					return nil
				}
				return writable()
			},
			StatusListener: statusListener(logger),
		}),
	)
}

func statusListener(logger *zap.Logger) func(context.Context, string, health.CheckState) {
	return func(ctx context.Context, name string, state health.CheckState) {
		logger.Info("health check status changed",
			zap.String("check", name),
			zap.String("status", string(state.Status)),
		)
	}
}
