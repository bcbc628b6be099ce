// backend/src/processors/symbol_classifier.go
package processors

import (
	"strings"
	"unicode"

	"github.com/username/notional/backend/src/instruments"
	"github.com/username/notional/backend/src/models"
)

const (
	ReasonUnsupportedSymbol = "unsupported symbol"
	ReasonProbableStockCFD  = "unsupported symbol (probable stock CFD)"
)

type symbolClassifierImpl struct{}

// NewSymbolClassifier returns the table-then-pattern classifier. The stock
// CFD heuristic lives here only, so it can be swapped for a real instrument
// reference without touching the calculator.
func NewSymbolClassifier() SymbolClassifier {
	return &symbolClassifierImpl{}
}

func (c *symbolClassifierImpl) Classify(symbol string) models.SymbolClassification {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	out := models.SymbolClassification{Symbol: symbol}

	// Explicit entries win over pattern inference (XAUUSD is not a currency pair).
	if inst, ok := instruments.Lookup(symbol); ok {
		out.Category = inst.Category
		out.ContractSize = inst.ContractSize
		out.QuoteCurrency = inst.QuoteCurrency
		if inst.QuoteCurrency != "USD" {
			out.BaseCurrency = inst.QuoteCurrency
		}
		return out
	}

	if base, quote, ok := instruments.SplitPair(symbol); ok {
		out.ContractSize = instruments.DefaultForexContractSize
		out.QuoteCurrency = quote
		switch {
		case quote == "USD":
			out.Category = models.CategoryForexUSDQuote
		case base == "USD":
			out.Category = models.CategoryForexUSDBase
		default:
			out.Category = models.CategoryForexCross
			out.BaseCurrency = base
		}
		return out
	}

	out.Category = models.CategoryUnsupported
	out.ContractSize = 1
	out.Reason = ReasonUnsupportedSymbol
	if len(symbol) <= 5 && isAlpha(symbol) {
		out.Reason = ReasonProbableStockCFD
	}
	return out
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
