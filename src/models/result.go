package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnnotatedTrade is a CanonicalTrade enriched with its classification, the FX
// rate used and the resulting USD notional.
type AnnotatedTrade struct {
	CanonicalTrade

	Category     Category        `json:"category"`
	ContractSize float64         `json:"contract_size"`
	FxCurrency   string          `json:"fx_currency"` // currency converted to USD, "USD" when none
	FxRate       float64         `json:"fx_rate"`
	FxSource     FxSource        `json:"fx_source"`
	NotionalUSD  decimal.Decimal `json:"notional_usd"`
}

type SymbolSummary struct {
	Symbol      string          `json:"symbol"`
	TotalLots   float64         `json:"total_lots"`
	NotionalUSD decimal.Decimal `json:"notional_usd"`
	TradeCount  int             `json:"trade_count"`
	Percentage  float64         `json:"percentage"` // share of the grand total, 0-100
}

// SkippedSymbol reports trades kept out of the totals, grouped by symbol and reason.
type SkippedSymbol struct {
	Symbol     string `json:"symbol"`
	Reason     string `json:"reason"`
	TradeCount int    `json:"trade_count"`
}

type FxSourceSummary struct {
	Direct    int `json:"direct"`
	API       int `json:"api"`
	APICached int `json:"api_cached"`
	Fallback  int `json:"fallback"`
}

// Add counts one trade priced with the given source.
func (s *FxSourceSummary) Add(src FxSource) {
	switch src {
	case FxSourceDirect:
		s.Direct++
	case FxSourceAPI:
		s.API++
	case FxSourceAPICached:
		s.APICached++
	case FxSourceFallback:
		s.Fallback++
	}
}

// ResultSet is the outcome of one calculation. It is built once and must not
// be modified afterwards; callers share it read-only.
type ResultSet struct {
	Trades        []AnnotatedTrade `json:"trades"`
	BySymbol      []SymbolSummary  `json:"by_symbol"`
	Skipped       []SkippedSymbol  `json:"skipped"`
	GrandTotalUSD decimal.Decimal  `json:"grand_total_usd"`
	TotalLots     float64          `json:"total_lots"`
	FxSources     FxSourceSummary  `json:"fx_sources"`
	UsedFallback  bool             `json:"used_fallback"`
	PeriodStart   time.Time        `json:"period_start"`
	PeriodEnd     time.Time        `json:"period_end"`
	Costs         TradingCosts     `json:"costs"`
}

// ChartData maps each symbol to its notional, for chart rendering.
func (r *ResultSet) ChartData() map[string]float64 {
	out := make(map[string]float64, len(r.BySymbol))
	for _, s := range r.BySymbol {
		out[s.Symbol] = s.NotionalUSD.InexactFloat64()
	}
	return out
}

// CalculationReport wraps a ResultSet with the context it was produced in.
type CalculationReport struct {
	ID           string     `json:"id"`
	Platform     string     `json:"platform"`
	AutoDetected bool       `json:"auto_detected"`
	Filename     string     `json:"filename"`
	DateFilter   string     `json:"date_filter,omitempty"`
	ParsedTrades int        `json:"parsed_trades"` // before date filtering
	GeneratedAt  time.Time  `json:"generated_at"`
	Result       *ResultSet `json:"result"`
}
