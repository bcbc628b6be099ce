package tabular

import (
	"errors"

	"github.com/username/notional/backend/src/models"
)

var (
	ErrNonPositiveLots   = errors.New("lots must be positive")
	ErrCloseBeforeOpen   = errors.New("close time is before open time")
	ErrMissingSymbol     = errors.New("symbol is empty")
	ErrPositionStillOpen = errors.New("position has no close price")
)

// CheckTrade enforces the invariants every parser output must satisfy.
func CheckTrade(t models.CanonicalTrade) error {
	switch {
	case t.Symbol == "":
		return ErrMissingSymbol
	case t.Lots <= 0:
		return ErrNonPositiveLots
	case t.CloseTime.Before(t.OpenTime):
		return ErrCloseBeforeOpen
	}
	return nil
}

// Optional parses an account-currency column that defaults to zero
// when absent, blank or unreadable.
func (f NumberFormat) Optional(row []string, idx int) float64 {
	if idx < 0 {
		return 0
	}
	v, err := f.Number(Cell(row, idx))
	if err != nil {
		return 0
	}
	return v
}
