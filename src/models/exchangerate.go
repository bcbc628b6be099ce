package models

// FxSource records how a rate to USD was obtained.
type FxSource string

const (
	FxSourceDirect    FxSource = "direct"     // instrument already in USD, no conversion
	FxSourceAPI       FxSource = "api"        // fetched from the historical rate provider
	FxSourceAPICached FxSource = "api_cached" // provider rate reused within the same run
	FxSourceFallback  FxSource = "fallback"   // static approximation, provider unavailable
)

// FxRate is a resolved rate together with its provenance.
type FxRate struct {
	Rate   float64  `json:"rate"`
	Source FxSource `json:"source"`
}

// FxRateEntry is a run-scoped cache record keyed by (Date, Currency).
type FxRateEntry struct {
	Date     string   `json:"date"`
	Currency string   `json:"currency"`
	Rate     float64  `json:"rate"`
	Source   FxSource `json:"source"`
}

// FrankfurterResponse is the JSON body of GET /{date}?from={CCY}&to=USD.
type FrankfurterResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}
