package broker

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
)

type Position struct {
	Symbol   string
	Qty      float64
	AvgEntry float64
}

type Account struct {
	Equity      float64
	BuyingPower float64
}

// AlpacaClient submits crypto market orders through the Alpaca trading API.
type AlpacaClient struct {
	client    *alpaca.Client
	precision int32
}

func NewAlpaca(apiKey, apiSecret, baseURL string, precision int32) *AlpacaClient {
	opts := alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	}
	return &AlpacaClient{client: alpaca.NewClient(opts), precision: precision}
}

func (c *AlpacaClient) Name() string {
	return "alpaca"
}

func (c *AlpacaClient) Execute(ctx context.Context, req Order) (OrderRef, error) {
	qty, err := Quantity(req.Size, c.precision)
	if err != nil {
		return OrderRef{}, err
	}
	side := alpaca.Buy
	if req.Side == SideSell {
		side = alpaca.Sell
	}

	orderReq := alpaca.PlaceOrderRequest{
		Symbol:        req.Symbol,
		Qty:           &qty,
		Side:          side,
		Type:          alpaca.Market,
		TimeInForce:   alpaca.GTC,
		ClientOrderID: req.ClientOrderID,
	}

	order, err := c.client.PlaceOrder(orderReq)
	if err != nil {
		slog.Error("place order failed", "side", req.Side, "symbol", req.Symbol, "qty", qty.String(), "error", err)
		return OrderRef{}, classifyAlpacaError(err)
	}

	filled, _ := order.FilledQty.Float64()
	slog.Info("place order success", "order_id", order.ID, "side", req.Side, "symbol", req.Symbol, "qty", qty.String(), "status", order.Status)
	return OrderRef{
		ID:            order.ID,
		ClientOrderID: order.ClientOrderID,
		Status:        string(order.Status),
		Filled:        filled,
	}, nil
}

// Position looks up the held quantity. Crypto positions are keyed without the
// slash, e.g. "SOLUSD".
func (c *AlpacaClient) Position(ctx context.Context, symbol string) (Position, error) {
	pos, err := c.client.GetPosition(strings.ReplaceAll(symbol, "/", ""))
	if err != nil {
		slog.Error("fetch position failed", "symbol", symbol, "error", err)
		return Position{}, classifyAlpacaError(err)
	}
	qty, _ := pos.Qty.Float64()
	avgEntry, _ := pos.AvgEntryPrice.Float64()

	slog.Info("position fetched", "symbol", symbol, "qty", qty, "avg_entry", avgEntry)
	return Position{
		Symbol:   pos.Symbol,
		Qty:      qty,
		AvgEntry: avgEntry,
	}, nil
}

func (c *AlpacaClient) Account(ctx context.Context) (Account, error) {
	acct, err := c.client.GetAccount()
	if err != nil {
		slog.Error("fetch account failed", "error", err)
		return Account{}, classifyAlpacaError(err)
	}
	equity, _ := acct.Equity.Float64()
	buyingPower, _ := acct.BuyingPower.Float64()

	slog.Info("account fetched", "equity", equity, "buying_power", buyingPower)
	return Account{Equity: equity, BuyingPower: buyingPower}, nil
}
