package broker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestQuantityTruncatesToPrecision(t *testing.T) {
	qty, err := Quantity(0.1234567891234, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qty.String() != "0.123456789" {
		t.Fatalf("expected 0.123456789, got %s", qty.String())
	}
}

func TestQuantityRejectsInvalidSizes(t *testing.T) {
	for _, size := range []float64{0, -1, math.NaN(), math.Inf(1), 0.0000000001} {
		if _, err := Quantity(size, 9); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("size %v: expected ErrInvalidAmount, got %v", size, err)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{fmt.Errorf("%w: dial", ErrTimeout), true},
		{&APIError{Venue: "alpaca", StatusCode: 503}, true},
		{&APIError{Venue: "alpaca", StatusCode: 429}, true},
		{&APIError{Venue: "alpaca", StatusCode: 422}, false},
		{ErrInvalidAmount, false},
		{ErrSigning, false},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Fatalf("IsRetryable(%v): expected %v, got %v", tc.err, tc.want, got)
		}
	}
}

func TestPaperExecuteRecordsFill(t *testing.T) {
	paper := NewPaper(9)
	ref, err := paper.Execute(context.Background(), Order{
		Symbol:        "SOL/USD",
		Side:          SideBuy,
		Price:         140,
		Size:          0.005,
		ClientOrderID: "run-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID == "" || ref.ClientOrderID != "run-1" || ref.Status != "filled" {
		t.Fatalf("unexpected order ref: %+v", ref)
	}
	fills := paper.Fills()
	if len(fills) != 1 || fills[0].Size != 0.005 || fills[0].Side != SideBuy {
		t.Fatalf("expected one buy fill of 0.005, got %+v", fills)
	}
}

func TestPaperExecuteRejectsZeroSize(t *testing.T) {
	paper := NewPaper(9)
	if _, err := paper.Execute(context.Background(), Order{Side: SideSell, Price: 140}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if len(paper.Fills()) != 0 {
		t.Fatalf("expected no fills")
	}
}
