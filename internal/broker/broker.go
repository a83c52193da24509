package broker

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Order is one instruction for the execution layer: trade Size units of
// Symbol at about Price.
type Order struct {
	Symbol        string
	Side          Side
	Price         float64
	Size          float64
	ClientOrderID string
}

func (o Order) Notional() float64 {
	return o.Price * o.Size
}

type OrderRef struct {
	ID            string
	ClientOrderID string
	Status        string
	Filled        float64
}

// Executor quotes, builds and submits orders on a venue.
type Executor interface {
	Name() string
	Execute(ctx context.Context, order Order) (OrderRef, error)
}

// Quantity truncates size to precision decimal places. A size that is not
// positive, not finite, or truncates to zero is ErrInvalidAmount.
func Quantity(size float64, precision int32) (decimal.Decimal, error) {
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return decimal.Zero, fmt.Errorf("%w: size %v", ErrInvalidAmount, size)
	}
	qty := decimal.NewFromFloat(size).Truncate(precision)
	if qty.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: size %v below precision %d", ErrInvalidAmount, size, precision)
	}
	return qty, nil
}
