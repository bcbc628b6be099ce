// backend/src/parsers/mt5/parser.go
package mt5

import (
	"errors"
	"fmt"
	"strings"

	"github.com/username/notional/backend/src/logger"
	"github.com/username/notional/backend/src/models"
	"github.com/username/notional/backend/src/parsers/tabular"
)

const (
	Name = "mt5"

	reportTitle = "Trade History Report"
	// Rows above the Positions header: title, name, account, company, date and the section title.
	preambleRows = 6
)

// Titles of the report sections that follow the Positions table.
var sectionTitles = map[string]bool{
	"positions":      true,
	"orders":         true,
	"deals":          true,
	"working orders": true,
	"summary":        true,
	"results":        true,
}

// MT5Parser reads the "Positions" table of a MetaTrader 5 Trade History Report.
type MT5Parser struct{}

func NewParser() *MT5Parser {
	return &MT5Parser{}
}

func (p *MT5Parser) Name() string { return Name }

// CanParse checks the report title in the first cell of the sheet.
func (p *MT5Parser) CanParse(data []byte, filename string) bool {
	table, err := tabular.ReadTable(data, filename)
	if err != nil {
		return false
	}
	return strings.Contains(tabular.FirstCell(table.Rows), reportTitle)
}

type columns struct {
	openTime, closeTime   int
	symbol, side, volume  int
	openPrice, closePrice int
	commission, swap      int
	profit                int
}

func (p *MT5Parser) Parse(data []byte, filename string) ([]models.CanonicalTrade, error) {
	table, err := tabular.ReadTable(data, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MT5 report: %w", err)
	}
	rows := table.Rows

	headerIdx := findHeader(rows)
	if headerIdx < 0 {
		return nil, &tabular.MissingColumnError{Platform: Name, Column: "Symbol"}
	}

	cols, err := locateColumns(tabular.NewHeader(Name, rows[headerIdx]))
	if err != nil {
		return nil, err
	}

	var trades []models.CanonicalTrade
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if endOfTable(row) {
			logger.L.Debug().Int("row", i+1).Msg("End of MT5 positions table")
			break
		}

		trade, err := parseRow(cols, row, table.Numbers)
		if err != nil {
			if errors.Is(err, errNotATrade) || errors.Is(err, tabular.ErrPositionStillOpen) {
				logger.L.Debug().Int("row", i+1).Err(err).Msg("Skipping MT5 row")
			} else {
				logger.L.Warn().Int("row", i+1).Err(err).Msg("Skipping invalid MT5 trade row")
			}
			continue
		}
		trades = append(trades, trade)
	}

	if len(trades) == 0 {
		return nil, tabular.ErrNoTrades
	}
	logger.L.Info().Int("trades", len(trades)).Str("filename", filename).Msg("MT5 report parsed")
	return trades, nil
}

// findHeader returns the Positions header row: normally right after the
// fixed preamble, otherwise the first row naming both Symbol and Type.
func findHeader(rows [][]string) int {
	if len(rows) > preambleRows && isHeaderRow(rows[preambleRows]) {
		return preambleRows
	}
	for i, row := range rows {
		if isHeaderRow(row) {
			return i
		}
	}
	return -1
}

func isHeaderRow(row []string) bool {
	h := tabular.NewHeader(Name, row)
	return h.Has("Symbol") && h.Has("Type")
}

// locateColumns resolves the Positions columns. The export repeats "Time" and
// "Price": the first pair belongs to the opening deal, the second to the closing one.
func locateColumns(h *tabular.Header) (columns, error) {
	var (
		c   columns
		err error
	)
	if c.symbol, err = h.Require("Symbol"); err != nil {
		return c, err
	}
	if c.side, err = h.Require("Type"); err != nil {
		return c, err
	}
	if c.volume, err = h.Require("Volume", "Lots", "Size"); err != nil {
		return c, err
	}
	if c.openTime, err = explicitOrNth(h, "Open Time", "Time", 0); err != nil {
		return c, err
	}
	if c.closeTime, err = explicitOrNth(h, "Close Time", "Time", 1); err != nil {
		return c, err
	}
	if c.openPrice, err = explicitOrNth(h, "Open Price", "Price", 0); err != nil {
		return c, err
	}
	if c.closePrice, err = explicitOrNth(h, "Close Price", "Price", 1); err != nil {
		return c, err
	}
	c.commission = h.Optional("Commission")
	c.swap = h.Optional("Swap")
	c.profit = h.Optional("Profit")
	return c, nil
}

func explicitOrNth(h *tabular.Header, explicit, repeated string, n int) (int, error) {
	if idx, ok := h.Find(explicit); ok {
		return idx, nil
	}
	if idx, ok := h.FindNth(repeated, n); ok {
		return idx, nil
	}
	return -1, &tabular.MissingColumnError{Platform: Name, Column: explicit}
}

// endOfTable detects the blank separator or the title row of the next section.
func endOfTable(row []string) bool {
	if tabular.IsBlank(row) {
		return true
	}
	if sectionTitles[strings.ToLower(tabular.Cell(row, 0))] {
		return true
	}
	return tabular.NonBlankCount(row) == 1
}
