// backend/src/processors/notional_calculator.go
package processors

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/notional/backend/src/logger"
	"github.com/username/notional/backend/src/metrics"
	"github.com/username/notional/backend/src/models"
)

var ErrNoTrades = errors.New("no trades to calculate")

var hundred = decimal.NewFromInt(100)

type notionalCalculatorImpl struct {
	classifier SymbolClassifier
	rates      RateSource
	costs      CostProcessor
}

// NewNotionalCalculator wires a calculator to a classifier and a run-scoped rate source.
func NewNotionalCalculator(classifier SymbolClassifier, rates RateSource) NotionalCalculator {
	return &notionalCalculatorImpl{
		classifier: classifier,
		rates:      rates,
		costs:      NewCostProcessor(),
	}
}

// Calculate prices every trade in input order. Trades whose symbol is
// unsupported or whose currency has no rate are reported in Skipped and
// left out of every total; they never fail the batch.
func (c *notionalCalculatorImpl) Calculate(ctx context.Context, trades []models.CanonicalTrade) (*models.ResultSet, error) {
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}

	result := &models.ResultSet{
		Trades:  make([]models.AnnotatedTrade, 0, len(trades)),
		Skipped: []models.SkippedSymbol{},
	}
	skipped := newSkipTracker()
	agg := newSymbolAggregator()

	for _, t := range trades {
		cls := c.classifier.Classify(t.Symbol)
		if !cls.Supported() {
			skipped.add(t.Symbol, cls.Reason, "unsupported_symbol")
			continue
		}

		currency := conversionCurrency(cls)
		rate := models.FxRate{Rate: 1, Source: models.FxSourceDirect}
		if currency != "USD" {
			var err error
			if rate, err = c.rates.Resolve(ctx, currency, t.CloseDate()); err != nil {
				skipped.add(t.Symbol, err.Error(), "fx_unavailable")
				continue
			}
		}

		notional := Notional(t.Lots, cls.ContractSize, priceFactor(cls.Category, t.ClosePrice), rate.Rate)
		annotated := models.AnnotatedTrade{
			CanonicalTrade: t,
			Category:       cls.Category,
			ContractSize:   cls.ContractSize,
			FxCurrency:     currency,
			FxRate:         rate.Rate,
			FxSource:       rate.Source,
			NotionalUSD:    notional,
		}
		result.Trades = append(result.Trades, annotated)
		result.FxSources.Add(rate.Source)
		metrics.FxSources.WithLabelValues(string(rate.Source)).Inc()
		agg.add(annotated)
		extendPeriod(result, t.CloseTime)
	}

	result.GrandTotalUSD = agg.grandTotal
	result.TotalLots = agg.totalLots.InexactFloat64()
	result.BySymbol = agg.summaries()
	result.Skipped = skipped.list()
	result.UsedFallback = result.FxSources.Fallback > 0
	result.Costs = c.costs.Process(result.Trades)

	if result.UsedFallback {
		logger.L.Warn().Int("trades", result.FxSources.Fallback).Msg("Static fallback FX rates used, notional values are approximate")
	}
	return result, nil
}

// conversionCurrency is the currency whose USD rate the notional needs, "USD" when none.
func conversionCurrency(cls models.SymbolClassification) string {
	switch cls.Category {
	case models.CategoryForexUSDQuote, models.CategoryForexUSDBase:
		return "USD"
	default:
		if cls.BaseCurrency == "" {
			return "USD"
		}
		return cls.BaseCurrency
	}
}

// priceFactor is the close price for instruments quoted in price terms, and 1
// where the lot is already denominated in the converted currency.
func priceFactor(cat models.Category, closePrice float64) float64 {
	switch cat {
	case models.CategoryForexUSDBase, models.CategoryForexCross:
		return 1
	default:
		return closePrice
	}
}

// Notional is lots x contract size x price factor x FX rate, rounded to cents.
func Notional(lots, contractSize, priceFactor, fxRate float64) decimal.Decimal {
	return decimal.NewFromFloat(lots).
		Mul(decimal.NewFromFloat(contractSize)).
		Mul(decimal.NewFromFloat(priceFactor)).
		Mul(decimal.NewFromFloat(fxRate)).
		Round(2)
}

func extendPeriod(r *models.ResultSet, closeTime time.Time) {
	if r.PeriodStart.IsZero() || closeTime.Before(r.PeriodStart) {
		r.PeriodStart = closeTime
	}
	if closeTime.After(r.PeriodEnd) {
		r.PeriodEnd = closeTime
	}
}

type symbolAggregator struct {
	order      []string
	bySymbol   map[string]*symbolTotals
	grandTotal decimal.Decimal
	totalLots  decimal.Decimal
}

type symbolTotals struct {
	lots     decimal.Decimal
	notional decimal.Decimal
	count    int
}

func newSymbolAggregator() *symbolAggregator {
	return &symbolAggregator{bySymbol: make(map[string]*symbolTotals)}
}

func (a *symbolAggregator) add(t models.AnnotatedTrade) {
	s, ok := a.bySymbol[t.Symbol]
	if !ok {
		s = &symbolTotals{}
		a.bySymbol[t.Symbol] = s
		a.order = append(a.order, t.Symbol)
	}
	lots := decimal.NewFromFloat(t.Lots)
	s.lots = s.lots.Add(lots)
	s.notional = s.notional.Add(t.NotionalUSD)
	s.count++
	a.totalLots = a.totalLots.Add(lots)
	a.grandTotal = a.grandTotal.Add(t.NotionalUSD)
}

// summaries are sorted by notional descending, ties by symbol.
func (a *symbolAggregator) summaries() []models.SymbolSummary {
	out := make([]models.SymbolSummary, 0, len(a.order))
	for _, sym := range a.order {
		s := a.bySymbol[sym]
		pct := 0.0
		if a.grandTotal.IsPositive() {
			pct = s.notional.Div(a.grandTotal).Mul(hundred).Round(2).InexactFloat64()
		}
		out = append(out, models.SymbolSummary{
			Symbol:      sym,
			TotalLots:   s.lots.InexactFloat64(),
			NotionalUSD: s.notional,
			TradeCount:  s.count,
			Percentage:  pct,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].NotionalUSD.Cmp(out[j].NotionalUSD); c != 0 {
			return c > 0
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

type skipKey struct{ symbol, reason string }

type skipTracker struct {
	order  []skipKey
	counts map[skipKey]int
}

func newSkipTracker() *skipTracker {
	return &skipTracker{counts: make(map[skipKey]int)}
}

func (s *skipTracker) add(symbol, reason, kind string) {
	k := skipKey{symbol, reason}
	if _, ok := s.counts[k]; !ok {
		s.order = append(s.order, k)
	}
	s.counts[k]++
	metrics.SkippedTrades.WithLabelValues(kind).Inc()
}

// list returns the groups in first-seen order and logs one warning per group.
func (s *skipTracker) list() []models.SkippedSymbol {
	out := make([]models.SkippedSymbol, 0, len(s.order))
	for _, k := range s.order {
		n := s.counts[k]
		logger.L.Warn().Str("symbol", k.symbol).Str("reason", k.reason).Int("trades", n).Msg("Trades excluded from notional totals")
		out = append(out, models.SkippedSymbol{Symbol: k.symbol, Reason: k.reason, TradeCount: n})
	}
	return out
}
