package engine

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"handbot/internal/broker"
	"handbot/internal/state"
)

// AccountReader is implemented by venues that report balances.
type AccountReader interface {
	Account(ctx context.Context) (broker.Account, error)
	Position(ctx context.Context, symbol string) (broker.Position, error)
}

// ReconcileLoop refreshes venue balances on the status snapshot. It never
// touches the hand store.
func ReconcileLoop(ctx context.Context, reader AccountReader, store *state.Store, symbol string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reconcileOnce(ctx, reader, store, symbol)
		}
	}
}

func reconcileOnce(ctx context.Context, reader AccountReader, store *state.Store, symbol string) {
	account, err := reader.Account(ctx)
	if err != nil {
		log.Printf("reconcile account failed: %v", err)
		return
	}
	snapshot := state.Account{Equity: account.Equity, BuyingPower: account.BuyingPower}

	position, err := reader.Position(ctx, symbol)
	if err != nil {
		var apiErr *broker.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
			log.Printf("reconcile position failed: %v", err)
		}
	} else {
		snapshot.PositionQty = position.Qty
	}

	store.SetAccount(snapshot)
	log.Printf("account equity=%.2f buying_power=%.2f position=%.6f", snapshot.Equity, snapshot.BuyingPower, snapshot.PositionQty)
}
