// backend/src/models/fee.go
package models

// TradingCosts totals the account-currency cost and result columns of the
// priced trades.
type TradingCosts struct {
	Commission float64 `json:"commission"`
	Swap       float64 `json:"swap"`
	Profit     float64 `json:"profit"`
}

// Net is profit after commission and swap.
func (c TradingCosts) Net() float64 {
	return c.Profit + c.Commission + c.Swap
}
