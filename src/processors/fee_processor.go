// backend/src/processors/fee_processor.go
package processors

import (
	"github.com/username/notional/backend/src/models"
	"github.com/username/notional/backend/src/utils"
)

type costProcessorImpl struct{}

func NewCostProcessor() CostProcessor {
	return &costProcessorImpl{}
}

// Process sums commission, swap and profit of the priced trades. Amounts are
// in the account currency as exported; no FX conversion is applied.
func (p *costProcessorImpl) Process(trades []models.AnnotatedTrade) models.TradingCosts {
	var costs models.TradingCosts
	for _, t := range trades {
		costs.Commission += t.Commission
		costs.Swap += t.Swap
		costs.Profit += t.Profit
	}
	costs.Commission = utils.RoundFloat(costs.Commission, 2)
	costs.Swap = utils.RoundFloat(costs.Swap, 2)
	costs.Profit = utils.RoundFloat(costs.Profit, 2)
	return costs
}
