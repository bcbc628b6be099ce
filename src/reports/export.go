// backend/src/reports/export.go
package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/username/notional/backend/src/models"
	"github.com/username/notional/backend/src/security/validation"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"

	timeLayout = "2006-01-02 15:04:05"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var csvHeader = []string{
	"close_time", "symbol", "type", "lots", "open_price", "close_price",
	"commission", "swap", "profit", "fx_rate", "fx_source", "notional_usd",
}

// ParseFormat validates an export format name.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case FormatCSV, FormatJSON:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use csv or json)", s)
	}
}

// DefaultFilename is notional_report_YYYYMMDD_HHMMSS.<format>.
func DefaultFilename(format string, now time.Time) string {
	return fmt.Sprintf("notional_report_%s.%s", now.Format("20060102_150405"), format)
}

// ContentType is the MIME type served for an export format.
func ContentType(format string) string {
	if format == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// Write dispatches to WriteCSV or WriteJSON.
func Write(w io.Writer, format string, report *models.CalculationReport) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, report)
	case FormatCSV:
		return WriteCSV(w, report)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteCSV writes one row per priced trade.
func WriteCSV(w io.Writer, report *models.CalculationReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range report.Result.Trades {
		row := []string{
			t.CloseTime.Format(timeLayout),
			validation.SanitizeForFormulaInjection(t.Symbol),
			string(t.Side),
			formatFloat(t.Lots),
			formatFloat(t.OpenPrice),
			formatFloat(t.ClosePrice),
			formatFloat(t.Commission),
			formatFloat(t.Swap),
			formatFloat(t.Profit),
			formatFloat(t.FxRate),
			string(t.FxSource),
			t.NotionalUSD.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type jsonSummary struct {
	TotalNotionalUSD decimal.Decimal `json:"total_notional_usd"`
	TotalTrades      int             `json:"total_trades"`
	TotalLots        float64         `json:"total_lots"`
	PeriodStart      *time.Time      `json:"period_start"`
	PeriodEnd        *time.Time      `json:"period_end"`
	UsedFallback     bool            `json:"used_fallback"`
}

type jsonReport struct {
	ID          string                  `json:"id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Platform    string                  `json:"platform"`
	Filename    string                  `json:"filename"`
	DateFilter  string                  `json:"date_filter,omitempty"`
	Summary     jsonSummary             `json:"summary"`
	FxSources   models.FxSourceSummary  `json:"fx_sources"`
	BySymbol    []models.SymbolSummary  `json:"by_symbol"`
	Skipped     []models.SkippedSymbol  `json:"skipped"`
	Costs       models.TradingCosts     `json:"costs"`
	Trades      []models.AnnotatedTrade `json:"trades"`
}

// NewJSONReport is the document written by WriteJSON and served by the API.
func NewJSONReport(report *models.CalculationReport) any {
	res := report.Result
	doc := jsonReport{
		ID:          report.ID,
		GeneratedAt: report.GeneratedAt,
		Platform:    report.Platform,
		Filename:    report.Filename,
		DateFilter:  report.DateFilter,
		Summary: jsonSummary{
			TotalNotionalUSD: res.GrandTotalUSD,
			TotalTrades:      len(res.Trades),
			TotalLots:        res.TotalLots,
			UsedFallback:     res.UsedFallback,
		},
		FxSources: res.FxSources,
		BySymbol:  nonNil(res.BySymbol),
		Skipped:   nonNil(res.Skipped),
		Costs:     res.Costs,
		Trades:    nonNil(res.Trades),
	}
	if !res.PeriodStart.IsZero() {
		start, end := res.PeriodStart, res.PeriodEnd
		doc.Summary.PeriodStart, doc.Summary.PeriodEnd = &start, &end
	}
	return doc
}

// WriteJSON writes the report as an indented JSON document.
func WriteJSON(w io.Writer, report *models.CalculationReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewJSONReport(report))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
