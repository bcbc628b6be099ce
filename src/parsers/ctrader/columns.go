package ctrader

import (
	"errors"
	"fmt"

	"github.com/username/notional/backend/src/instruments"
	"github.com/username/notional/backend/src/models"
	"github.com/username/notional/backend/src/parsers/tabular"
)

// Volumes at or above this are taken as units of the underlying, not lots.
const unitsThreshold = 1000

var errNotATrade = errors.New("not a buy/sell row")

type columns struct {
	symbol, side, volume  int
	openTime, closeTime   int
	openPrice, closePrice int
	commission, swap      int
	profit                int
}

func locateColumns(h *tabular.Header) (columns, error) {
	var (
		c   columns
		err error
		ok  bool
	)
	if c.symbol, err = h.Require("Symbol"); err != nil {
		return c, err
	}
	if c.side, err = h.Require("Opening Direction", "Direction", "Side", "Type"); err != nil {
		return c, err
	}
	if c.volume, err = h.Require("Closing Quantity", "Quantity", "Volume", "Closing Volume", "Lots"); err != nil {
		return c, err
	}
	if c.closePrice, err = h.Require("Closing Price", "Close Price", "Exit Price"); err != nil {
		return c, err
	}
	if c.closeTime, ok = h.FindPrefix("Closing Time", "Close Time"); !ok {
		return c, &tabular.MissingColumnError{Platform: Name, Column: "Closing Time"}
	}

	// Optional: missing open time falls back to the close time.
	if c.openTime, ok = h.FindPrefix("Opening Time", "Open Time"); !ok {
		c.openTime = -1
	}
	c.openPrice = h.Optional("Entry Price", "Opening Price", "Open Price")
	c.commission = h.Optional("Commission", "Commissions")
	c.swap = h.Optional("Swap", "Swaps")
	if c.profit, ok = h.FindPrefix("Net "); !ok {
		c.profit = h.Optional("Net Profit", "Gross Profit", "Profit")
	}
	return c, nil
}

func parseRow(c columns, row []string, nf tabular.NumberFormat) (models.CanonicalTrade, error) {
	var t models.CanonicalTrade

	side, ok := models.ParseSide(tabular.Cell(row, c.side))
	if !ok {
		return t, errNotATrade
	}
	if tabular.Cell(row, c.closePrice) == "" {
		return t, tabular.ErrPositionStillOpen
	}

	symbol := instruments.CleanSymbol(tabular.Cell(row, c.symbol))

	volume, unit, err := nf.Volume(tabular.Cell(row, c.volume))
	if err != nil {
		return t, fmt.Errorf("volume: %w", err)
	}
	closePrice, err := nf.Number(tabular.Cell(row, c.closePrice))
	if err != nil {
		return t, fmt.Errorf("close price: %w", err)
	}
	closeTime, err := tabular.ParseTimestamp(tabular.Cell(row, c.closeTime))
	if err != nil {
		return t, fmt.Errorf("close time: %w", err)
	}

	openTime := closeTime
	if c.openTime >= 0 {
		if openTime, err = tabular.ParseTimestamp(tabular.Cell(row, c.openTime)); err != nil {
			return t, fmt.Errorf("open time: %w", err)
		}
	}

	t = models.CanonicalTrade{
		Source:     Name,
		OpenTime:   openTime,
		CloseTime:  closeTime,
		Symbol:     symbol,
		Side:       side,
		Lots:       toLots(symbol, volume, unit),
		OpenPrice:  nf.Optional(row, c.openPrice),
		ClosePrice: closePrice,
		Commission: nf.Optional(row, c.commission),
		Swap:       nf.Optional(row, c.swap),
		Profit:     nf.Optional(row, c.profit),
	}
	return t, tabular.CheckTrade(t)
}

// toLots converts a cTrader quantity to lots with the same contract sizes the
// notional calculation uses. An explicit unit suffix wins over the magnitude check.
func toLots(symbol string, volume float64, unit string) float64 {
	switch {
	case unit == tabular.UnitLots:
		return volume
	case unit == tabular.UnitUnits, volume >= unitsThreshold:
		return volume / instruments.ContractSize(symbol)
	default:
		return volume
	}
}
