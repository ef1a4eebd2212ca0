package jobs

import (
	"context"

	"github.com/alfurqan/portal/core"
)

const SessionSweeperName = "session_sweeper"

type sessionSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// SweepSessions removes expired sessions from the store.
func SweepSessions(sweeper sessionSweeper, logger core.Logger) Job {
	return func(ctx context.Context) error {
		n, err := sweeper.SweepExpired(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("expired sessions removed", map[string]interface{}{"count": n})
		}
		return nil
	}
}
