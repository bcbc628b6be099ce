// Command notional prints the USD notional volume of an MT5 or cTrader
// trade history export and writes it as CSV or JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/username/notional/backend/src/config"
	"github.com/username/notional/backend/src/logger"
	"github.com/username/notional/backend/src/parsers"
	"github.com/username/notional/backend/src/processors"
	"github.com/username/notional/backend/src/reports"
	"github.com/username/notional/backend/src/security/validation"
	"github.com/username/notional/backend/src/services"
	"github.com/username/notional/backend/src/utils"
)

var errAllSkipped = errors.New("no supported trades to calculate, every trade was skipped")

type cli struct {
	cfg      *config.AppConfig
	provider processors.RateProvider
	stdout   io.Writer
	stderr   io.Writer
	now      func() time.Time
}

func main() {
	config.LoadConfig()
	logger.InitLoggerWithWriter(config.Cfg.LogLevel, config.Cfg.LogPretty, os.Stderr)

	c := &cli{
		cfg:      config.Cfg,
		provider: services.NewFrankfurterClient(config.Cfg.FXAPIURL, config.Cfg.FXAPITimeout, config.Cfg.FXAPIRPS),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		now:      time.Now,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := c.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

type options struct {
	platform      string
	output        string
	format        string
	listPlatforms bool
	from, to      string
	last          int
	lastSet       bool
	thisMonth     bool
	file          string
}

func (c *cli) parseArgs(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("notional", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.StringVar(&opts.platform, "platform", "", "trading platform (mt5, ctrader); auto-detected when omitted")
	fs.StringVar(&opts.output, "o", "", "output file path (default: OUTPUT_DIR/notional_report_<timestamp>.<format>)")
	fs.StringVar(&opts.format, "format", reports.FormatCSV, "output format: csv or json")
	fs.BoolVar(&opts.listPlatforms, "list-platforms", false, "list supported platforms and exit")
	fs.StringVar(&opts.from, "from", "", "start date (DD-MM-YYYY), inclusive")
	fs.StringVar(&opts.to, "to", "", "end date (DD-MM-YYYY), inclusive")
	fs.IntVar(&opts.last, "last", 0, "only trades closed in the last N days")
	fs.BoolVar(&opts.thisMonth, "this-month", false, "only trades closed this month")
	fs.Usage = func() {
		fmt.Fprintln(c.stderr, "Usage: notional [flags] <file.xlsx|file.csv>")
		fs.PrintDefaults()
	}

	// Flags may follow the file argument.
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "last" {
			opts.lastSet = true
		}
	})

	if opts.listPlatforms {
		return opts, nil
	}
	if len(positional) != 1 {
		fs.Usage()
		return nil, fmt.Errorf("expected exactly one input file, got %d", len(positional))
	}
	opts.file = positional[0]
	return opts, nil
}

func (c *cli) run(ctx context.Context, args []string) int {
	opts, err := c.parseArgs(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return 1
	}

	registry := parsers.DefaultRegistry()
	if opts.listPlatforms {
		for _, name := range registry.Platforms() {
			fmt.Fprintln(c.stdout, name)
		}
		return 0
	}

	if err := c.calculate(ctx, registry, opts); err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *cli) calculate(ctx context.Context, registry *parsers.Registry, opts *options) error {
	if err := validation.ValidateExtension(opts.file); err != nil {
		return err
	}
	format, err := reports.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	filterOpts := utils.DateFilterOptions{From: opts.from, To: opts.to, ThisMonth: opts.thisMonth}
	if opts.lastSet {
		filterOpts.Last = &opts.last
	}
	dateRange, err := utils.ParseDateFilter(filterOpts, c.now())
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file not found: %s", opts.file)
		}
		return err
	}
	if _, err := validation.ValidateContent(data, opts.file); err != nil {
		return err
	}

	svc := services.NewNotionalService(registry, processors.NewSymbolClassifier(), c.provider, nil,
		processors.WithAPITimeout(c.cfg.FXAPITimeout),
		processors.WithFallbackCaching(c.cfg.FXCacheFallback),
	)
	report, err := svc.Calculate(ctx, services.CalculationRequest{
		Data:     data,
		Filename: filepath.Base(opts.file),
		Platform: opts.platform,
		Range:    dateRange,
	})
	if err != nil {
		return err
	}

	if err := reports.WriteConsole(c.stdout, report); err != nil {
		return err
	}
	if len(report.Result.Trades) == 0 {
		return errAllSkipped
	}

	out := opts.output
	if out == "" {
		out = filepath.Join(c.cfg.OutputDir, reports.DefaultFilename(format, c.now()))
	}
	if err := writeExport(out, format, report); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(c.stdout, "\nReport saved to: %s\n", out)
	return nil
}
