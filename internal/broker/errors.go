package broker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrQuoteExpired  = errors.New("quote expired")
	ErrTimeout       = errors.New("network timeout")
	ErrSerialization = errors.New("serialization error")
	ErrSigning       = errors.New("signing error")
)

// APIError is a non-success answer from a remote venue.
type APIError struct {
	Venue      string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error %d: %s", e.Venue, e.StatusCode, e.Message)
}

// IsRetryable reports whether a failed submission may be attempted again.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return false
}

func classifyAlpacaError(err error) error {
	var apiErr *alpaca.APIError
	if errors.As(err, &apiErr) {
		return &APIError{Venue: "alpaca", StatusCode: apiErr.StatusCode, Message: apiErr.Message}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
