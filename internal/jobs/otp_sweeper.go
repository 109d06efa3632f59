package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type Sweeper interface {
	Sweep() int
}

// StartOTPSweeper evicts expired codes from the in-process store. The Redis
// store expires keys on its own and needs no sweeper.
func StartOTPSweeper(ctx context.Context, store Sweeper, interval time.Duration, onSwept func(int), logger zerolog.Logger) {
	if store == nil {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := store.Sweep()
				if removed == 0 {
					continue
				}
				if onSwept != nil {
					onSwept(removed)
				}
				logger.Debug().Int("removed", removed).Msg("otp sweeper evicted expired codes")
			}
		}
	}()
}
