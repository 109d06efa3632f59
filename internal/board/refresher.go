package board

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"mendizabala/dual/internal/client"
)

const DefaultRefreshInterval = 5 * time.Second

// Refresher polls the board. Each snapshot replaces the previous one.
type Refresher struct {
	board    *Board
	interval time.Duration
	logger   zerolog.Logger
}

func NewRefresher(board *Board, interval time.Duration, logger zerolog.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{board: board, interval: interval, logger: logger}
}

// Run loads once immediately and then on every tick until ctx is cancelled.
// Transient failures are logged and retried on the next tick; a rejected
// session ends the loop.
func (r *Refresher) Run(ctx context.Context, onUpdate func(Snapshot)) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		snapshot, err := r.board.Load(ctx)
		switch {
		case err == nil:
			onUpdate(snapshot)
		case errors.Is(err, client.ErrUnauthorized):
			return err
		case ctx.Err() != nil:
			return nil
		default:
			r.logger.Warn().Err(err).Msg("board refresh failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
