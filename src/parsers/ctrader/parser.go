// backend/src/parsers/ctrader/parser.go
package ctrader

import (
	"errors"
	"fmt"

	"github.com/username/notional/backend/src/logger"
	"github.com/username/notional/backend/src/models"
	"github.com/username/notional/backend/src/parsers/tabular"
)

const (
	Name = "ctrader"

	// cTrader History exports start with the header, but some brokers prepend
	// an account banner. Only the first rows are searched for it.
	headerSearchRows = 10
)

// positionIDColumns identify a cTrader export. A bare "Position" is left out
// on purpose: MT5's Positions table has a column of that name.
var positionIDColumns = []string{"Position ID", "PositionID", "Position #"}

// CTraderParser reads the History tab of a cTrader statement.
type CTraderParser struct{}

func NewParser() *CTraderParser {
	return &CTraderParser{}
}

func (p *CTraderParser) Name() string { return Name }

// CanParse looks for a Position ID column near the top of the file.
func (p *CTraderParser) CanParse(data []byte, filename string) bool {
	table, err := tabular.ReadTable(data, filename)
	if err != nil {
		return false
	}
	return findHeader(table.Rows) >= 0
}

func (p *CTraderParser) Parse(data []byte, filename string) ([]models.CanonicalTrade, error) {
	table, err := tabular.ReadTable(data, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read cTrader export: %w", err)
	}
	rows := table.Rows

	headerIdx := findHeader(rows)
	if headerIdx < 0 {
		return nil, &tabular.MissingColumnError{Platform: Name, Column: positionIDColumns[0]}
	}

	cols, err := locateColumns(tabular.NewHeader(Name, rows[headerIdx]))
	if err != nil {
		return nil, err
	}

	var trades []models.CanonicalTrade
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if tabular.IsBlank(row) {
			continue
		}

		trade, err := parseRow(cols, row, table.Numbers)
		if err != nil {
			if errors.Is(err, errNotATrade) || errors.Is(err, tabular.ErrPositionStillOpen) {
				logger.L.Debug().Int("row", i+1).Err(err).Msg("Skipping cTrader row")
			} else {
				logger.L.Warn().Int("row", i+1).Err(err).Msg("Skipping invalid cTrader trade row")
			}
			continue
		}
		trades = append(trades, trade)
	}

	if len(trades) == 0 {
		return nil, tabular.ErrNoTrades
	}
	logger.L.Info().Int("trades", len(trades)).Str("filename", filename).Msg("cTrader history parsed")
	return trades, nil
}

func findHeader(rows [][]string) int {
	for i := 0; i < len(rows) && i < headerSearchRows; i++ {
		if tabular.NewHeader(Name, rows[i]).Has(positionIDColumns...) {
			return i
		}
	}
	return -1
}
