package processors

import (
	"context"

	"github.com/username/notional/backend/src/models"
)

// SymbolClassifier decides the notional formula family of a cleaned symbol.
type SymbolClassifier interface {
	Classify(symbol string) models.SymbolClassification
}

// RateProvider fetches the historical <currency>/USD rate for an ISO date.
// Any failure is reported as an error; callers decide how to degrade.
type RateProvider interface {
	HistoricalRate(ctx context.Context, date, currency string) (float64, error)
}

// RateSource resolves a conversion rate with its provenance.
type RateSource interface {
	Resolve(ctx context.Context, currency, tradeDate string) (models.FxRate, error)
}

// NotionalCalculator turns canonical trades into a priced result set.
type NotionalCalculator interface {
	Calculate(ctx context.Context, trades []models.CanonicalTrade) (*models.ResultSet, error)
}

// CostProcessor totals the account-currency cost columns of priced trades.
type CostProcessor interface {
	Process(trades []models.AnnotatedTrade) models.TradingCosts
}
