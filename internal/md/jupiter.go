package md

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

const jupiterTimeout = 10 * time.Second

type jupiterPrice struct {
	USDPrice float64 `json:"usdPrice"`
}

// JupiterSource reads the USD price of a mint from the Jupiter price API.
type JupiterSource struct {
	baseURL string
	mint    string
	symbol  string
	apiKey  string
	client  *http.Client
}

func NewJupiterSource(baseURL, mint, symbol, apiKey string) *JupiterSource {
	if baseURL == "" {
		baseURL = "https://api.jup.ag/price/v3"
	}
	return &JupiterSource{
		baseURL: baseURL,
		mint:    mint,
		symbol:  symbol,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: jupiterTimeout},
	}
}

func (s *JupiterSource) Latest(ctx context.Context) (Tick, error) {
	endpoint := s.baseURL + "?ids=" + url.QueryEscape(s.mint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Tick{}, fmt.Errorf("create request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Tick{}, fmt.Errorf("fetch jupiter price: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Tick{}, fmt.Errorf("jupiter price error %d: %s", resp.StatusCode, string(body))
	}

	var prices map[string]jupiterPrice
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return Tick{}, fmt.Errorf("decode jupiter price: %w", err)
	}
	price, ok := prices[s.mint]
	if !ok {
		return Tick{}, fmt.Errorf("jupiter price missing for mint %s", s.mint)
	}

	return Tick{Symbol: s.symbol, Price: price.USDPrice, Time: time.Now().UTC()}, nil
}
