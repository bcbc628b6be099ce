package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/notional/backend/src/models"
)

func TestClassify(t *testing.T) {
	c := NewSymbolClassifier()

	tests := []struct {
		symbol       string
		category     models.Category
		base         string
		contractSize float64
	}{
		{"XAUUSD", models.CategoryCommodity, "", 100},
		{"XAGUSD", models.CategoryCommodity, "", 5000},
		{"USOIL", models.CategoryCommodity, "", 1000},
		{"BTCUSD", models.CategoryCrypto, "", 1},
		{"US500", models.CategoryIndex, "", 1},
		{"GER40", models.CategoryIndex, "EUR", 1},
		{"UK100", models.CategoryIndex, "GBP", 1},
		{"EURUSD", models.CategoryForexUSDQuote, "", 100000},
		{"USDJPY", models.CategoryForexUSDBase, "", 100000},
		{"GBPJPY", models.CategoryForexCross, "GBP", 100000},
		{"eurgbp", models.CategoryForexCross, "EUR", 100000},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			got := c.Classify(tt.symbol)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.base, got.BaseCurrency)
			assert.Equal(t, tt.contractSize, got.ContractSize)
			assert.True(t, got.Supported())
			assert.Empty(t, got.Reason)
		})
	}
}

func TestClassify_Unsupported(t *testing.T) {
	c := NewSymbolClassifier()

	stock := c.Classify("AAPL")
	assert.Equal(t, models.CategoryUnsupported, stock.Category)
	assert.Equal(t, ReasonProbableStockCFD, stock.Reason)
	assert.False(t, stock.Supported())

	other := c.Classify("COPPER1")
	assert.Equal(t, models.CategoryUnsupported, other.Category)
	assert.Equal(t, ReasonUnsupportedSymbol, other.Reason)

	assert.Equal(t, ReasonUnsupportedSymbol, c.Classify("XYZABC").Reason, "six letters but not two currencies")
}

func TestClassify_CurrencyPairPatterns(t *testing.T) {
	c := NewSymbolClassifier()
	currencies := []string{"EUR", "GBP", "JPY", "AUD", "NZD", "CAD", "CHF", "SEK", "NOK", "SGD", "HKD", "ZAR"}

	for _, ccy := range currencies {
		assert.Equal(t, models.CategoryForexUSDQuote, c.Classify(ccy+"USD").Category, ccy+"USD")
		assert.Equal(t, models.CategoryForexUSDBase, c.Classify("USD"+ccy).Category, "USD"+ccy)

		for _, other := range currencies {
			if other == ccy {
				continue
			}
			got := c.Classify(ccy + other)
			assert.Equal(t, models.CategoryForexCross, got.Category, ccy+other)
			assert.Equal(t, ccy, got.BaseCurrency, ccy+other)
		}
	}
}
