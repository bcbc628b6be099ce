package processors

import (
	"github.com/username/notional/backend/src/models"
	"github.com/username/notional/backend/src/utils"
)

// FilterByCloseDate keeps the trades whose close date falls in r. A zero
// range returns the input unchanged.
func FilterByCloseDate(trades []models.CanonicalTrade, r utils.DateRange) []models.CanonicalTrade {
	if r.IsZero() {
		return trades
	}
	out := make([]models.CanonicalTrade, 0, len(trades))
	for _, t := range trades {
		if r.Contains(t.CloseTime) {
			out = append(out, t)
		}
	}
	return out
}
