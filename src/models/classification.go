package models

// Category is the notional-formula family an instrument belongs to.
type Category string

const (
	CategoryForexUSDBase  Category = "forex_usd_base"
	CategoryForexUSDQuote Category = "forex_usd_quote"
	CategoryForexCross    Category = "forex_cross"
	CategoryCommodity     Category = "commodity"
	CategoryCrypto        Category = "crypto"
	CategoryIndex         Category = "index"
	CategoryUnsupported   Category = "unsupported"
)

// Forex reports whether the category is one of the currency-pair families.
func (c Category) Forex() bool {
	return c == CategoryForexUSDBase || c == CategoryForexUSDQuote || c == CategoryForexCross
}

type SymbolClassification struct {
	Symbol        string   `json:"symbol"`
	Category      Category `json:"category"`
	BaseCurrency  string   `json:"base_currency,omitempty"` // currency whose USD rate is needed, empty when none
	QuoteCurrency string   `json:"quote_currency,omitempty"`
	ContractSize  float64  `json:"contract_size"`
	Reason        string   `json:"reason,omitempty"` // set for unsupported symbols
}

// Supported is false for symbols that must be kept out of the totals.
func (c SymbolClassification) Supported() bool {
	return c.Category != CategoryUnsupported
}
