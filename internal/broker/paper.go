package broker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Fill struct {
	OrderID string    `json:"order_id"`
	Side    Side      `json:"side"`
	Price   float64   `json:"price"`
	Size    float64   `json:"size"`
	Time    time.Time `json:"time"`
}

// Paper fills every valid order immediately at the order price.
type Paper struct {
	precision int32
	mu        sync.Mutex
	fills     []Fill
}

func NewPaper(precision int32) *Paper {
	return &Paper{precision: precision}
}

func (p *Paper) Name() string {
	return "paper"
}

func (p *Paper) Execute(ctx context.Context, order Order) (OrderRef, error) {
	if err := ctx.Err(); err != nil {
		return OrderRef{}, err
	}
	qty, err := Quantity(order.Size, p.precision)
	if err != nil {
		return OrderRef{}, err
	}
	size, _ := qty.Float64()

	fill := Fill{
		OrderID: uuid.New().String(),
		Side:    order.Side,
		Price:   order.Price,
		Size:    size,
		Time:    time.Now().UTC(),
	}
	p.mu.Lock()
	p.fills = append(p.fills, fill)
	p.mu.Unlock()

	slog.Info("paper fill", "order_id", fill.OrderID, "side", order.Side, "symbol", order.Symbol, "qty", qty.String(), "price", order.Price)
	return OrderRef{
		ID:            fill.OrderID,
		ClientOrderID: order.ClientOrderID,
		Status:        "filled",
		Filled:        size,
	}, nil
}

func (p *Paper) Fills() []Fill {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Fill, len(p.fills))
	copy(out, p.fills)
	return out
}
