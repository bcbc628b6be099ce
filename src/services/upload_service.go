package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/notional/backend/src/logger"
	"github.com/username/notional/backend/src/metrics"
	"github.com/username/notional/backend/src/models"
	"github.com/username/notional/backend/src/parsers"
	"github.com/username/notional/backend/src/processors"
)

const (
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// NewReportCache returns the store used to keep reports for later download.
func NewReportCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		ttl = DefaultCacheExpiration
	}
	return cache.New(ttl, CacheCleanupInterval)
}

type notionalServiceImpl struct {
	registry     *parsers.Registry
	classifier   processors.SymbolClassifier
	provider     processors.RateProvider
	resolverOpts []processors.ResolverOption
	reportCache  *cache.Cache
	now          func() time.Time
}

// NewNotionalService wires the parse, filter, classify, price pipeline.
// provider may be nil, in which case only fallback rates are used.
func NewNotionalService(
	registry *parsers.Registry,
	classifier processors.SymbolClassifier,
	provider processors.RateProvider,
	reportCache *cache.Cache,
	resolverOpts ...processors.ResolverOption,
) NotionalService {
	if reportCache == nil {
		reportCache = NewReportCache(DefaultCacheExpiration)
	}
	return &notionalServiceImpl{
		registry:     registry,
		classifier:   classifier,
		provider:     provider,
		resolverOpts: resolverOpts,
		reportCache:  reportCache,
		now:          time.Now,
	}
}

func (s *notionalServiceImpl) Calculate(ctx context.Context, req CalculationRequest) (*models.CalculationReport, error) {
	start := time.Now()
	log := logger.L.With().Str("filename", req.Filename).Int("bytes", len(req.Data)).Logger()

	parser, autoDetected, err := s.registry.Resolve(req.Data, req.Filename, req.Platform)
	if err != nil {
		metrics.ParseFailures.WithLabelValues(failureKind(err)).Inc()
		log.Warn().Err(err).Str("platform_hint", req.Platform).Msg("Could not select a parser")
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}
	log = log.With().Str("platform", parser.Name()).Bool("auto_detected", autoDetected).Logger()

	trades, err := parser.Parse(req.Data, req.Filename)
	if err != nil {
		metrics.ParseFailures.WithLabelValues(failureKind(err)).Inc()
		log.Warn().Err(err).Msg("Parsing failed")
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}
	parsed := len(trades)
	log.Info().Int("trades", parsed).Msg("Trades parsed")

	if !req.Range.IsZero() {
		trades = processors.FilterByCloseDate(trades, req.Range)
		log.Info().Str("range", req.Range.Description).Int("kept", len(trades)).Msg("Date filter applied")
		if len(trades) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoTradesInRange, req.Range.Description)
		}
	}

	// Rates are cached for one calculation only.
	resolver := processors.NewRateResolver(s.provider, s.resolverOpts...)
	calc := processors.NewNotionalCalculator(s.classifier, resolver)

	result, err := calc.Calculate(ctx, trades)
	if err != nil {
		return nil, err
	}

	stats := resolver.Stats()
	log.Info().
		Int("cached_rates", stats.CachedRates).
		Int("fallbacks", stats.Fallbacks).
		Strs("currencies", stats.Currencies).
		Msg("FX cache statistics")

	report := &models.CalculationReport{
		ID:           uuid.NewString(),
		Platform:     parser.Name(),
		AutoDetected: autoDetected,
		Filename:     req.Filename,
		DateFilter:   req.Range.Description,
		ParsedTrades: parsed,
		GeneratedAt:  s.now().UTC(),
		Result:       result,
	}
	s.reportCache.Set(report.ID, report, cache.DefaultExpiration)

	metrics.Calculations.WithLabelValues(parser.Name()).Inc()
	metrics.CalculationDuration.Observe(time.Since(start).Seconds())

	log.Info().
		Str("report_id", report.ID).
		Int("priced", len(result.Trades)).
		Int("skipped_symbols", len(result.Skipped)).
		Str("grand_total_usd", result.GrandTotalUSD.StringFixed(2)).
		Dur("took", time.Since(start)).
		Msg("Calculation finished")
	return report, nil
}

func (s *notionalServiceImpl) GetReport(id string) (*models.CalculationReport, error) {
	if cached, found := s.reportCache.Get(id); found {
		if report, ok := cached.(*models.CalculationReport); ok {
			return report, nil
		}
	}
	return nil, ErrReportNotFound
}

func (s *notionalServiceImpl) Platforms() []string {
	return s.registry.Platforms()
}

func failureKind(err error) string {
	var unsupported *parsers.UnsupportedFormatError
	var missing *parsers.MissingColumnError
	switch {
	case errors.Is(err, parsers.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, parsers.ErrUnknownPlatform):
		return "unknown_platform"
	case errors.As(err, &unsupported):
		return "unsupported_format"
	case errors.As(err, &missing):
		return "missing_column"
	default:
		return "unreadable"
	}
}
