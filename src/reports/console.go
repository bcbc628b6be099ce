package reports

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/username/notional/backend/src/models"
)

const rule = "----------------------------------------------------------------------"

func usd(d decimal.Decimal) string {
	return "$" + humanize.FormatFloat("#,###.##", d.InexactFloat64())
}

// WriteConsole renders the human-readable report printed by the CLI.
func WriteConsole(w io.Writer, report *models.CalculationReport) error {
	res := report.Result
	var b strings.Builder

	fmt.Fprintf(&b, "NOTIONAL VOLUME REPORT (%s", report.Platform)
	if report.AutoDetected {
		b.WriteString(", auto-detected")
	}
	b.WriteString(")\n")
	if report.DateFilter != "" {
		fmt.Fprintf(&b, "Date filter: %s\n", report.DateFilter)
	}
	if !res.PeriodStart.IsZero() {
		fmt.Fprintf(&b, "Period: %s to %s\n", res.PeriodStart.Format("02-01-2006"), res.PeriodEnd.Format("02-01-2006"))
	}
	b.WriteString(rule + "\n")

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Close time\tSymbol\tType\tLots\tClose price\tFX rate\tFX source\tNotional USD\t")
	for _, t := range res.Trades {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			t.CloseTime.Format(timeLayout), t.Symbol, t.Side,
			formatFloat(t.Lots), formatFloat(t.ClosePrice), formatFloat(t.FxRate), t.FxSource,
			usd(t.NotionalUSD))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(res.BySymbol) > 0 {
		b.WriteString("\nSUMMARY BY SYMBOL\n" + rule + "\n")
		tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "Symbol\tTrades\tLots\tNotional USD\tShare\t")
		for _, s := range res.BySymbol {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%.2f%%\t\n", s.Symbol, s.TradeCount, formatFloat(s.TotalLots), usd(s.NotionalUSD), s.Percentage)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	src := res.FxSources
	b.WriteString("\nFX SOURCES\n" + rule + "\n")
	fmt.Fprintf(&b, "direct: %d  api: %d  api_cached: %d  fallback: %d\n", src.Direct, src.API, src.APICached, src.Fallback)
	if res.UsedFallback {
		fmt.Fprintf(&b, "WARNING: %d trade(s) priced with static fallback rates, notional values are approximate.\n", src.Fallback)
	}

	if len(res.Skipped) > 0 {
		b.WriteString("\nSKIPPED SYMBOLS (not included in totals)\n" + rule + "\n")
		for _, s := range res.Skipped {
			fmt.Fprintf(&b, "  %s: %d trade(s), %s\n", s.Symbol, s.TradeCount, s.Reason)
		}
	}

	c := res.Costs
	b.WriteString("\n" + rule + "\n")
	fmt.Fprintf(&b, "Commission: %.2f  Swap: %.2f  Profit: %.2f  Net: %.2f\n", c.Commission, c.Swap, c.Profit, c.Net())
	fmt.Fprintf(&b, "Trades: %d  Lots: %s\n", len(res.Trades), formatFloat(res.TotalLots))
	fmt.Fprintf(&b, "GRAND TOTAL NOTIONAL: %s\n", usd(res.GrandTotalUSD))

	_, err := io.WriteString(w, b.String())
	return err
}
