package guard

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"handbot/internal/broker"
)

var ErrInvalidPrice = errors.New("invalid_price")

// ValidatePrice rejects observations the decision core must never see.
func ValidatePrice(price float64) error {
	if !positiveFinite(price) {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}
	return nil
}

// Context carries the gate's inputs. Cooldown spaces buy orders only:
// unlocked hands must all be sold in the tick that released them.
type Context struct {
	Now         time.Time
	LastBuyTime time.Time
	MaxNotional float64
	Cooldown    time.Duration
	KillSwitch  bool
}

type Approved struct {
	Order  broker.Order
	Reason string
}

// Gate checks an order before it is handed to the execution layer.
type Gate struct{}

func (g Gate) Evaluate(order broker.Order, ctx Context) (Approved, error) {
	notional := order.Notional()

	slog.Info("order check", "side", order.Side, "size", order.Size, "price", order.Price, "notional", notional)

	if ctx.KillSwitch {
		slog.Info("order rejected", "reason", "kill_switch_enabled")
		return Approved{}, fmt.Errorf("kill_switch_enabled")
	}
	if err := ValidatePrice(order.Price); err != nil {
		slog.Info("order rejected", "reason", "invalid_price", "price", order.Price)
		return Approved{}, err
	}
	if !positiveFinite(order.Size) {
		slog.Info("order rejected", "reason", "invalid_amount", "size", order.Size)
		return Approved{}, fmt.Errorf("%w: size %v", broker.ErrInvalidAmount, order.Size)
	}
	if order.Side == broker.SideBuy && !ctx.LastBuyTime.IsZero() && ctx.Now.Sub(ctx.LastBuyTime) < ctx.Cooldown {
		remaining := ctx.Cooldown - ctx.Now.Sub(ctx.LastBuyTime)
		slog.Info("order rejected", "reason", "cooldown_active", "remaining", remaining)
		return Approved{}, fmt.Errorf("cooldown_active")
	}
	if ctx.MaxNotional > 0 && notional > ctx.MaxNotional {
		slog.Info("order rejected", "reason", "max_notional_exceeded", "notional", notional, "max", ctx.MaxNotional)
		return Approved{}, fmt.Errorf("max_notional_exceeded")
	}

	return Approved{Order: order, Reason: "approved"}, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
