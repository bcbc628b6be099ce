// Package instruments is the instrument reference shared by the parsers and the
// classifier. Contract sizes must only be read from here so that volume
// normalisation and notional calculation never disagree.
package instruments

import (
	"github.com/username/notional/backend/src/models"
)

// DefaultForexContractSize is one standard lot of a currency pair.
const DefaultForexContractSize = 100000

type Instrument struct {
	Symbol        string
	Category      models.Category
	ContractSize  float64
	QuoteCurrency string
}

var table = map[string]Instrument{}

func add(cat models.Category, size float64, quote string, symbols ...string) {
	for _, s := range symbols {
		table[s] = Instrument{Symbol: s, Category: cat, ContractSize: size, QuoteCurrency: quote}
	}
}

func init() {
	// Precious metals (troy ounces)
	add(models.CategoryCommodity, 100, "USD", "XAUUSD", "XPTUSD", "XPDUSD")
	add(models.CategoryCommodity, 5000, "USD", "XAGUSD")

	// Energies
	add(models.CategoryCommodity, 1000, "USD", "SPOTCRUDE", "USOIL", "WTI", "XTIUSD", "BRENT", "UKOIL", "XBRUSD")
	add(models.CategoryCommodity, 10000, "USD", "NATGAS", "XNGUSD")

	add(models.CategoryCrypto, 1, "USD", "BTCUSD", "ETHUSD", "LTCUSD", "XRPUSD", "SOLUSD", "BCHUSD")

	// Cash indices: one CFD is worth one index point in the index currency.
	add(models.CategoryIndex, 1, "USD", "US30", "DJ30", "NAS100", "USTEC", "US500", "SPX500", "SP500", "US2000", "VIX")
	add(models.CategoryIndex, 1, "EUR", "GER40", "GER30", "DE40", "EU50", "STOXX50", "FRA40", "SPA35", "NETH25")
	add(models.CategoryIndex, 1, "GBP", "UK100", "FTSE100")
	add(models.CategoryIndex, 1, "JPY", "JPN225")
	add(models.CategoryIndex, 1, "AUD", "AUS200")
	add(models.CategoryIndex, 1, "HKD", "HK50", "CHINAH")
	add(models.CategoryIndex, 1, "USD", "CHINA50")
	add(models.CategoryIndex, 1, "CHF", "SWI20")
	add(models.CategoryIndex, 1, "CAD", "CAN60")
	add(models.CategoryIndex, 1, "SGD", "SING30")
	add(models.CategoryIndex, 1, "ZAR", "SAFR40")
}

// Lookup returns the explicit table entry for a cleaned symbol.
func Lookup(symbol string) (Instrument, bool) {
	inst, ok := table[symbol]
	return inst, ok
}

var currencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true, "AUD": true, "NZD": true,
	"CAD": true, "CHF": true, "SEK": true, "NOK": true, "DKK": true, "SGD": true,
	"HKD": true, "ZAR": true, "MXN": true, "PLN": true, "TRY": true, "CNH": true,
}

// IsCurrency reports whether code is a recognised ISO 4217 currency code.
func IsCurrency(code string) bool {
	return currencies[code]
}

// SplitPair splits a six-letter symbol into two recognised currency codes.
func SplitPair(symbol string) (base, quote string, ok bool) {
	if len(symbol) != 6 {
		return "", "", false
	}
	base, quote = symbol[:3], symbol[3:]
	if !IsCurrency(base) || !IsCurrency(quote) || base == quote {
		return "", "", false
	}
	return base, quote, true
}

// ContractSize is the notional multiplier of one lot of symbol.
func ContractSize(symbol string) float64 {
	if inst, ok := Lookup(symbol); ok {
		return inst.ContractSize
	}
	if _, _, ok := SplitPair(symbol); ok {
		return DefaultForexContractSize
	}
	return 1
}
