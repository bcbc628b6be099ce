package mt5

import (
	"errors"
	"fmt"
	"strings"

	"github.com/username/notional/backend/src/instruments"
	"github.com/username/notional/backend/src/models"
	"github.com/username/notional/backend/src/parsers/tabular"
)

// errNotATrade marks balance, credit and other non buy/sell rows.
var errNotATrade = errors.New("not a buy/sell row")

func parseRow(c columns, row []string, nf tabular.NumberFormat) (models.CanonicalTrade, error) {
	var t models.CanonicalTrade

	side, ok := models.ParseSide(tabular.Cell(row, c.side))
	if !ok {
		return t, errNotATrade
	}
	if tabular.Cell(row, c.closePrice) == "" {
		return t, tabular.ErrPositionStillOpen
	}

	// Partially closed positions print "0.5 / 0.2"; the first figure is the position volume.
	volume, _, _ := strings.Cut(tabular.Cell(row, c.volume), "/")
	lots, err := nf.Number(volume)
	if err != nil {
		return t, fmt.Errorf("volume: %w", err)
	}
	openPrice, err := nf.Number(tabular.Cell(row, c.openPrice))
	if err != nil {
		return t, fmt.Errorf("open price: %w", err)
	}
	closePrice, err := nf.Number(tabular.Cell(row, c.closePrice))
	if err != nil {
		return t, fmt.Errorf("close price: %w", err)
	}
	openTime, err := tabular.ParseTimestamp(tabular.Cell(row, c.openTime))
	if err != nil {
		return t, fmt.Errorf("open time: %w", err)
	}
	closeTime, err := tabular.ParseTimestamp(tabular.Cell(row, c.closeTime))
	if err != nil {
		return t, fmt.Errorf("close time: %w", err)
	}

	t = models.CanonicalTrade{
		Source:     Name,
		OpenTime:   openTime,
		CloseTime:  closeTime,
		Symbol:     instruments.CleanSymbol(tabular.Cell(row, c.symbol)),
		Side:       side,
		Lots:       lots,
		OpenPrice:  openPrice,
		ClosePrice: closePrice,
		Commission: nf.Optional(row, c.commission),
		Swap:       nf.Optional(row, c.swap),
		Profit:     nf.Optional(row, c.profit),
	}
	return t, tabular.CheckTrade(t)
}
