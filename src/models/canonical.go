// backend/src/models/canonical.go
package models

import (
	"strings"
	"time"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide maps broker direction labels ("Buy", "SELL", "buy limit") to a Side.
func ParseSide(s string) (Side, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(v, "buy"):
		return SideBuy, true
	case strings.HasPrefix(v, "sell"):
		return SideSell, true
	default:
		return "", false
	}
}

// CanonicalTrade is the platform-independent representation of one closed position.
// Each parser is responsible for populating every field directly from the export;
// positions that are still open never become a CanonicalTrade.
type CanonicalTrade struct {
	Source     string    `json:"source"` // platform that produced the record, e.g. "mt5"
	OpenTime   time.Time `json:"open_time"`
	CloseTime  time.Time `json:"close_time"`
	Symbol     string    `json:"symbol"` // cleaned, upper-case, no separators or broker suffixes
	Side       Side      `json:"type"`
	Lots       float64   `json:"lots"`
	OpenPrice  float64   `json:"open_price"`
	ClosePrice float64   `json:"close_price"`

	// Account-currency amounts
	Commission float64 `json:"commission"`
	Swap       float64 `json:"swap"`
	Profit     float64 `json:"profit"`
}

// CloseDate is the UTC calendar date (YYYY-MM-DD) the position was closed on.
func (t CanonicalTrade) CloseDate() string {
	return t.CloseTime.UTC().Format("2006-01-02")
}
