package md

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedSource struct {
	prices []float64
	calls  int
	cancel context.CancelFunc
}

func (s *scriptedSource) Latest(ctx context.Context) (Tick, error) {
	defer func() { s.calls++ }()
	if s.calls >= len(s.prices) {
		s.cancel()
		return Tick{}, ctx.Err()
	}
	if s.prices[s.calls] < 0 {
		return Tick{}, errors.New("feed down")
	}
	return Tick{Symbol: "SOL/USD", Price: s.prices[s.calls]}, nil
}

func TestPollDeliversTicksAndErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &scriptedSource{prices: []float64{100, -1, 101}, cancel: cancel}
	var got []float64
	var errs int

	err := Poll(ctx, source, time.Millisecond, func(tick Tick) {
		got = append(got, tick.Price)
	}, func(error) {
		errs++
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(got) != 2 || got[0] != 100 || got[1] != 101 {
		t.Fatalf("expected ticks [100 101], got %v", got)
	}
	if errs != 1 {
		t.Fatalf("expected 1 fetch error, got %d", errs)
	}
}
