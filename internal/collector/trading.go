// Trading ledger collector: values the trading bot's positions against a
// fixed initial balance.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Guliveer/mission-control/internal/models"
)

// DefaultInitialBalance is the starting capital P&L is measured against.
const DefaultInitialBalance = 10000

var hundred = decimal.NewFromInt(100)

// TradingCollector reads the trading ledger file.
type TradingCollector struct {
	path           string
	initialBalance decimal.Decimal
}

// NewTradingCollector creates a collector over the ledger at path. A
// non-positive initialBalance falls back to DefaultInitialBalance.
func NewTradingCollector(path string, initialBalance float64) *TradingCollector {
	if initialBalance <= 0 {
		initialBalance = DefaultInitialBalance
	}
	return &TradingCollector{
		path:           path,
		initialBalance: decimal.NewFromFloat(initialBalance),
	}
}

// Name returns the collector identifier.
func (c *TradingCollector) Name() string { return "trading" }

// IsAvailable returns true when a ledger file is configured.
func (c *TradingCollector) IsAvailable() bool { return c.path != "" }

// Collect returns the trading snapshot.
func (c *TradingCollector) Collect(ctx context.Context) (interface{}, error) {
	return c.Snapshot(ctx)
}

type ledger struct {
	Cash      float64 `json:"cash"`
	Positions map[string]struct {
		Shares   float64 `json:"shares"`
		AvgPrice float64 `json:"avg_price"`
	} `json:"positions"`
	TradeHistory json.RawMessage `json:"trade_history"`
	UpdatedAt    string          `json:"updated_at"`
}

// tradeCount is the length of trade_history, or zero when it is not an array.
func (l ledger) tradeCount() int {
	var trades []json.RawMessage
	if err := json.Unmarshal(l.TradeHistory, &trades); err != nil {
		return 0
	}
	return len(trades)
}

// Snapshot parses the ledger and computes position values, portfolio
// totals and P&L. Unreadable or malformed files fail the whole call.
func (c *TradingCollector) Snapshot(ctx context.Context) (*models.TradingSnapshot, error) {
	var l ledger
	if err := readJSONFile(c.path, &l); err != nil {
		return nil, fmt.Errorf("reading trading ledger: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(l.Positions))
	for t := range l.Positions {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	positions := make([]models.Position, 0, len(tickers))
	totalPositions := decimal.Zero
	for _, t := range tickers {
		p := l.Positions[t]
		value := decimal.NewFromFloat(p.Shares).Mul(decimal.NewFromFloat(p.AvgPrice))
		totalPositions = totalPositions.Add(value)
		positions = append(positions, models.Position{
			Ticker:   t,
			Shares:   p.Shares,
			AvgPrice: p.AvgPrice,
			Value:    value.InexactFloat64(),
		})
	}

	portfolio := decimal.NewFromFloat(l.Cash).Add(totalPositions)
	pnl := portfolio.Sub(c.initialBalance)
	percent := pnl.Div(c.initialBalance).Mul(hundred)

	return &models.TradingSnapshot{
		Cash:                l.Cash,
		Positions:           positions,
		TotalPositionValue:  totalPositions.InexactFloat64(),
		TotalPortfolioValue: portfolio.InexactFloat64(),
		InitialBalance:      c.initialBalance.InexactFloat64(),
		PnL: models.PnL{
			Value:      pnl.InexactFloat64(),
			Percent:    percent.InexactFloat64(),
			IsPositive: !pnl.IsNegative(),
		},
		TradeCount: l.tradeCount(),
		UpdatedAt:  l.UpdatedAt,
	}, nil
}
