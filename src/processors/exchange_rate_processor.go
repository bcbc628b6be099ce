package processors

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/username/notional/backend/src/logger"
	"github.com/username/notional/backend/src/metrics"
	"github.com/username/notional/backend/src/models"
	"github.com/username/notional/backend/src/utils"
)

// DefaultAPITimeout bounds one historical-rate lookup.
const DefaultAPITimeout = 5 * time.Second

// DefaultFallbackRates are static <currency>/USD approximations used only when
// the rate provider is unavailable. Results priced with them are flagged.
var DefaultFallbackRates = map[string]float64{
	"GBP": 1.345,
	"EUR": 1.08,
	"AUD": 0.67,
	"JPY": 0.0067,
	"CAD": 0.74,
	"CHF": 1.12,
	"NZD": 0.62,
}

// UnknownCurrencyError means neither the provider nor the fallback table had a rate.
type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency: %s, no API rate or fallback available", e.Code)
}

// RateResolver resolves <currency>/USD rates for one calculation run. It owns
// its cache; never share a resolver between runs.
type RateResolver struct {
	provider      RateProvider
	fallback      map[string]float64
	cacheFallback bool
	timeout       time.Duration
	cache         *cache.Cache
	log           zerolog.Logger
}

type ResolverOption func(*RateResolver)

// WithFallbackRates replaces the static fallback table.
func WithFallbackRates(rates map[string]float64) ResolverOption {
	return func(r *RateResolver) { r.fallback = rates }
}

// WithFallbackCaching controls whether a fallback result is remembered for the
// rest of the run. When on, a failing (date, currency) costs one timeout per run
// instead of one per trade.
func WithFallbackCaching(enabled bool) ResolverOption {
	return func(r *RateResolver) { r.cacheFallback = enabled }
}

// WithAPITimeout bounds each provider call.
func WithAPITimeout(d time.Duration) ResolverOption {
	return func(r *RateResolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRateResolver builds a run-scoped resolver. A nil provider resolves from
// the fallback table only.
func NewRateResolver(provider RateProvider, opts ...ResolverOption) *RateResolver {
	r := &RateResolver{
		provider:      provider,
		fallback:      DefaultFallbackRates,
		cacheFallback: true,
		timeout:       DefaultAPITimeout,
		cache:         cache.New(cache.NoExpiration, 0),
		log:           logger.L.With().Str("component", "fx_resolver").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func cacheKey(date, currency string) string {
	return date + "|" + currency
}

// Resolve returns the rate converting one unit of currency into USD on
// tradeDate. Provider failures never surface: they degrade to the fallback
// table, and only a currency missing from both yields UnknownCurrencyError.
func (r *RateResolver) Resolve(ctx context.Context, currency, tradeDate string) (models.FxRate, error) {
	if currency == "USD" {
		return models.FxRate{Rate: 1, Source: models.FxSourceDirect}, nil
	}

	date, err := utils.NormalizeDate(tradeDate)
	if err != nil {
		return models.FxRate{}, err
	}
	key := cacheKey(date, currency)

	if v, ok := r.cache.Get(key); ok {
		entry := v.(models.FxRateEntry)
		if entry.Source == models.FxSourceFallback {
			return models.FxRate{Rate: entry.Rate, Source: models.FxSourceFallback}, nil
		}
		return models.FxRate{Rate: entry.Rate, Source: models.FxSourceAPICached}, nil
	}

	if rate, ok := r.fetch(ctx, date, currency); ok {
		r.cache.Set(key, models.FxRateEntry{Date: date, Currency: currency, Rate: rate, Source: models.FxSourceAPI}, cache.NoExpiration)
		return models.FxRate{Rate: rate, Source: models.FxSourceAPI}, nil
	}

	if rate, ok := r.fallback[currency]; ok {
		r.log.Warn().Str("currency", currency).Str("date", date).Float64("rate", rate).Msg("Using static fallback FX rate")
		if r.cacheFallback {
			r.cache.Set(key, models.FxRateEntry{Date: date, Currency: currency, Rate: rate, Source: models.FxSourceFallback}, cache.NoExpiration)
		}
		return models.FxRate{Rate: rate, Source: models.FxSourceFallback}, nil
	}

	return models.FxRate{}, &UnknownCurrencyError{Code: currency}
}

// fetch performs the one bounded provider call. Every failure mode collapses to ok=false.
func (r *RateResolver) fetch(ctx context.Context, date, currency string) (float64, bool) {
	if r.provider == nil {
		return 0, false
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	rate, err := r.provider.HistoricalRate(ctx, date, currency)
	metrics.FxAPILatency.Observe(time.Since(start).Seconds())

	if err == nil && (rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0)) {
		err = fmt.Errorf("provider returned non-positive rate %v", rate)
	}
	if err != nil {
		metrics.FxAPIRequests.WithLabelValues("error").Inc()
		r.log.Warn().Err(err).Str("currency", currency).Str("date", date).Msg("Historical FX lookup failed")
		return 0, false
	}

	metrics.FxAPIRequests.WithLabelValues("ok").Inc()
	r.log.Debug().Str("currency", currency).Str("date", date).Float64("rate", rate).Msg("Historical FX rate fetched")
	return rate, true
}

// CacheStats describes the contents of a resolver cache.
type CacheStats struct {
	CachedRates int      `json:"cached_rates"`
	Fallbacks   int      `json:"fallbacks"`
	Currencies  []string `json:"currencies"`
}

func (r *RateResolver) Stats() CacheStats {
	items := r.cache.Items()
	seen := make(map[string]bool)
	stats := CacheStats{CachedRates: len(items), Currencies: []string{}}
	for _, item := range items {
		entry := item.Object.(models.FxRateEntry)
		if entry.Source == models.FxSourceFallback {
			stats.Fallbacks++
		}
		if !seen[entry.Currency] {
			seen[entry.Currency] = true
			stats.Currencies = append(stats.Currencies, entry.Currency)
		}
	}
	sort.Strings(stats.Currencies)
	return stats
}
