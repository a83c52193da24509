package md

import (
	"context"
	"time"
)

type Tick struct {
	Symbol string
	Price  float64
	Time   time.Time
}

// Source supplies the latest observed price in USD per unit.
type Source interface {
	Latest(ctx context.Context) (Tick, error)
}

type TickHandler func(Tick)

// Poll calls source every interval until ctx is cancelled. Fetch errors are
// passed to onErr and the loop keeps going.
func Poll(ctx context.Context, source Source, interval time.Duration, handler TickHandler, onErr func(error)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		tick, err := source.Latest(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if onErr != nil {
				onErr(err)
			}
		} else {
			handler(tick)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
