package md

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// AlpacaSource reads the latest crypto trade for a symbol such as "SOL/USD".
type AlpacaSource struct {
	client *marketdata.Client
	symbol string
}

// NewAlpacaSource builds a source against the Alpaca data API. An empty
// baseURL keeps the SDK default.
func NewAlpacaSource(apiKey, apiSecret, baseURL, symbol string) *AlpacaSource {
	return &AlpacaSource{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
		symbol: symbol,
	}
}

func (s *AlpacaSource) Latest(ctx context.Context) (Tick, error) {
	trade, err := s.client.GetLatestCryptoTrade(s.symbol, marketdata.GetLatestCryptoTradeRequest{})
	if err != nil {
		return Tick{}, fmt.Errorf("latest crypto trade %s: %w", s.symbol, err)
	}
	if trade == nil {
		return Tick{}, fmt.Errorf("latest crypto trade %s: empty response", s.symbol)
	}
	return Tick{Symbol: s.symbol, Price: trade.Price, Time: trade.Timestamp.UTC()}, nil
}
