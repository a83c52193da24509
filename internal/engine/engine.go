package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"handbot/internal/broker"
	"handbot/internal/config"
	"handbot/internal/guard"
	"handbot/internal/hand"
	"handbot/internal/md"
	"handbot/internal/metrics"
	"handbot/internal/state"
	"handbot/internal/strategy"
)

// Engine is the single decision loop. It owns the pointer and the hand store;
// nothing else may mutate them.
type Engine struct {
	cfg         config.Config
	pointer     *strategy.Pointer
	hands       *hand.Store
	gate        guard.Gate
	executor    broker.Executor
	state       *state.Store
	decisions   *DecisionLogger
	metrics     *metrics.Metrics
	window      *md.Window
	runID       string
	orderSeqNum uint64
	lastBuyTime time.Time
}

// FillReader is implemented by executors that keep their own fill history.
type FillReader interface {
	Fills() []broker.Fill
}

const statusFills = 50

func New(cfg config.Config, executor broker.Executor, stateStore *state.Store, decisions *DecisionLogger, m *metrics.Metrics) *Engine {
	e := &Engine{
		cfg:       cfg,
		pointer:   strategy.NewPointer(cfg.BuyTriggerUSD, cfg.SellTriggerUSD),
		executor:  executor,
		state:     stateStore,
		decisions: decisions,
		metrics:   m,
		window:    md.NewWindow(cfg.WindowSize),
		runID:     decisions.RunID(),
	}
	e.hands = hand.NewStore(cfg.BatchSize, e.onHandEvent)
	return e
}

// Run polls source every PollInterval until ctx is cancelled.
func (e *Engine) Run(ctx context.Context, source md.Source) error {
	return md.Poll(ctx, source, e.cfg.PollInterval, func(tick md.Tick) {
		e.OnTick(ctx, tick)
	}, func(err error) {
		slog.Error("price fetch failed", "source", fmt.Sprintf("%T", source), "error", err)
	})
}

// OnTick evaluates one price. Unlocked hands are sold before the pointer is
// consulted so a hand released by this price is submitted in the same tick.
func (e *Engine) OnTick(ctx context.Context, tick md.Tick) {
	price := tick.Price
	base := Decision{
		RunID:     e.runID,
		Timestamp: time.Now().UTC(),
		TickTime:  tick.Time,
		Symbol:    e.cfg.Symbol,
		Price:     price,
	}

	if err := guard.ValidatePrice(price); err != nil {
		e.metrics.Ticks.WithLabelValues("rejected").Inc()
		// NaN and Inf cannot be encoded; the value is kept in the reason.
		base.Price = 0
		base.Result = "rejected"
		base.RejectReason = err.Error()
		e.decisions.Append(base)
		slog.Warn("price rejected", "price", price, "error", err)
		return
	}
	e.metrics.Ticks.WithLabelValues("accepted").Inc()
	e.window.Add(price)
	base.Reference, _ = e.pointer.Reference()

	acted := false
	for _, h := range e.hands.UnlockEligible(price) {
		acted = true
		e.sellHand(ctx, base, h)
	}

	if signal, ok := e.pointer.Update(price); ok {
		acted = true
		e.metrics.Signals.WithLabelValues(signal.String()).Inc()
		base.Reference, _ = e.pointer.Reference()
		switch signal {
		case strategy.BuyStep:
			slog.Info("buy step triggered", "price", price)
			e.buyStep(ctx, base)
		case strategy.SellStep:
			// Sales come only from unlocked hands; the step itself moves the reference.
			slog.Info("sell step triggered", "price", price)
			d := base
			d.Signal = signal.String()
			d.Intent = signal.Action()
			d.Result = "sell_step"
			e.decisions.Append(e.withCounts(d))
		}
	}

	if !acted {
		d := base
		d.Reference, _ = e.pointer.Reference()
		d.Intent = strategy.Hold
		d.Result = "hold"
		e.decisions.Append(e.withCounts(d))
	}

	e.publish(tick)
}

// BuySize returns the asset units bought on a buy step. The expression is
// kept as (price*pct)/price, which reduces to pct.
func BuySize(price, sizePct float64) float64 {
	return (price * sizePct) / price
}

func (e *Engine) buyStep(ctx context.Context, base Decision) {
	size := BuySize(base.Price, e.cfg.SizePct)
	d := base
	d.Signal = strategy.BuyStep.String()
	d.Intent = strategy.Buy
	d.Size = size

	order := broker.Order{
		Symbol:        e.cfg.Symbol,
		Side:          broker.SideBuy,
		Price:         base.Price,
		Size:          size,
		ClientOrderID: e.nextClientOrderID(),
	}
	ref, err := e.submit(ctx, order)
	d.ClientOrderID = order.ClientOrderID
	if err != nil {
		d.Result = orderResult(err)
		d.RejectReason = err.Error()
		e.decisions.Append(e.withCounts(d))
		return
	}

	h := e.hands.Open(base.Price, size)
	d.Result = "order_submitted"
	d.OrderID = ref.ID
	d.HandID = h.ID
	e.decisions.Append(e.withCounts(d))
}

func (e *Engine) sellHand(ctx context.Context, base Decision, h hand.Hand) {
	d := base
	d.Intent = strategy.Sell
	d.Size = h.Size
	d.HandID = h.ID
	d.Reason = "unlocked"

	order := broker.Order{
		Symbol:        e.cfg.Symbol,
		Side:          broker.SideSell,
		Price:         base.Price,
		Size:          h.Size,
		ClientOrderID: e.nextClientOrderID(),
	}
	ref, err := e.submit(ctx, order)
	d.ClientOrderID = order.ClientOrderID
	if err != nil {
		d.Result = orderResult(err)
		d.RejectReason = err.Error()
		e.decisions.Append(e.withCounts(d))
		return
	}
	d.Result = "order_submitted"
	d.OrderID = ref.ID
	e.decisions.Append(e.withCounts(d))
}

var errRejected = errors.New("rejected")

// submit checks the order and hands it to the executor, retrying failures the
// executor marks retryable up to OrderRetries times.
func (e *Engine) submit(ctx context.Context, order broker.Order) (broker.OrderRef, error) {
	venue := e.executor.Name()
	approved, err := e.gate.Evaluate(order, guard.Context{
		Now:         time.Now().UTC(),
		LastBuyTime: e.lastBuyTime,
		MaxNotional: e.cfg.MaxNotional,
		Cooldown:    e.cfg.Cooldown,
		KillSwitch:  e.cfg.KillSwitch,
	})
	if err != nil {
		e.metrics.Orders.WithLabelValues(venue, string(order.Side), "rejected").Inc()
		return broker.OrderRef{}, fmt.Errorf("%w: %w", errRejected, err)
	}

	var ref broker.OrderRef
	for attempt := 0; attempt <= e.cfg.OrderRetries; attempt++ {
		ref, err = e.executor.Execute(ctx, approved.Order)
		if err == nil || !broker.IsRetryable(err) || ctx.Err() != nil {
			break
		}
		slog.Warn("order attempt failed", "venue", venue, "side", order.Side, "attempt", attempt+1, "error", err)
	}
	if err != nil {
		e.metrics.Orders.WithLabelValues(venue, string(order.Side), "failed").Inc()
		slog.Error("order failed", "venue", venue, "side", order.Side, "size", order.Size, "price", order.Price, "error", err)
		return broker.OrderRef{}, err
	}

	e.metrics.Orders.WithLabelValues(venue, string(order.Side), "submitted").Inc()
	now := time.Now().UTC()
	if order.Side == broker.SideBuy {
		e.lastBuyTime = now
	}
	e.state.SetLastTradeTime(now)
	slog.Info("order submitted", "venue", venue, "side", order.Side, "size", order.Size, "price", order.Price, "order_id", ref.ID, "client_order_id", order.ClientOrderID)
	return ref, nil
}

func orderResult(err error) string {
	if errors.Is(err, errRejected) {
		return "rejected"
	}
	return "order_failed"
}

func (e *Engine) onHandEvent(ev hand.Event) {
	e.metrics.HandEvents.WithLabelValues(string(ev.Kind)).Inc()
	switch ev.Kind {
	case hand.Opened:
		slog.Info("hand opened", "hand", ev.Hand.ID, "size", ev.Hand.Size, "price", ev.Hand.Price, "locked", ev.Hand.Locked, "total", ev.Total)
	case hand.Unlocked:
		slog.Info("hand unlocked", "hand", ev.Hand.ID, "size", ev.Hand.Size, "entry", ev.Hand.Price, "price", ev.Price)
	case hand.BatchReady:
		slog.Info("batch ready to sell", "batch_size", ev.BatchSize, "total", ev.Total)
	}
}

func (e *Engine) withCounts(d Decision) Decision {
	d.LockedHands = e.hands.TotalLocked()
	d.TotalHands = e.hands.Len()
	return d
}

func (e *Engine) publish(tick md.Tick) {
	reference, anchored := e.pointer.Reference()
	locked := e.hands.TotalLocked()

	e.state.UpdateTick(tick.Price, tick.Time, e.window.Stats())
	e.state.SetReference(reference, anchored)
	e.state.SetHands(e.hands.Hands(), locked)
	if reader, ok := e.executor.(FillReader); ok {
		fills := reader.Fills()
		if len(fills) > statusFills {
			fills = fills[len(fills)-statusFills:]
		}
		e.state.SetFills(fills)
	}

	e.metrics.Price.Set(tick.Price)
	e.metrics.Reference.Set(reference)
	e.metrics.Hands.Set(float64(e.hands.Len()))
	e.metrics.LockedHands.Set(float64(locked))
}

func (e *Engine) nextClientOrderID() string {
	seq := atomic.AddUint64(&e.orderSeqNum, 1)
	return fmt.Sprintf("%s-%d", e.runID, seq)
}
