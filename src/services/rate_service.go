// backend/src/services/rate_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/username/notional/backend/src/logger"
	"github.com/username/notional/backend/src/models"
)

const maxFXResponseBytes = 1 << 20

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FrankfurterClient fetches historical <currency>/USD rates from a
// frankfurter.app compatible API. It implements processors.RateProvider.
type FrankfurterClient struct {
	baseURL    string
	httpClient http.Client
	limiter    *rate.Limiter
}

// NewFrankfurterClient builds a client whose every request is bounded by
// timeout and paced to at most rps requests per second.
func NewFrankfurterClient(baseURL string, timeout time.Duration, rps float64) *FrankfurterClient {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error().Err(err).Msg("Failed to create cookie jar")
	}

	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	return &FrankfurterClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// HistoricalRate returns rates.USD of GET {base}/{date}?from={currency}&to=USD.
func (c *FrankfurterClient) HistoricalRate(ctx context.Context, date, currency string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("FX request not sent: %w", err)
	}

	q := url.Values{}
	q.Set("from", currency)
	q.Set("to", "USD")
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(date), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build FX request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "notional-calculator/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("FX request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxFXResponseBytes))
		return 0, fmt.Errorf("%w: %s for %s on %s", ErrFXUnexpectedStatus, resp.Status, currency, date)
	}

	var payload models.FrankfurterResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFXResponseBytes)).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFXMalformed, err)
	}

	usd, ok := payload.Rates["USD"]
	if !ok {
		return 0, fmt.Errorf("%w: no USD rate for %s on %s", ErrFXMalformed, currency, date)
	}
	if usd <= 0 {
		return 0, fmt.Errorf("%w: non-positive USD rate %v", ErrFXMalformed, usd)
	}

	logger.L.Debug().Str("currency", currency).Str("requested", date).Str("served", payload.Date).Float64("rate", usd).Msg("FX rate received")
	return usd, nil
}
