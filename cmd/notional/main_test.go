package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/notional/backend/src/config"
)

var mt5Fixture = filepath.Join("..", "..", "src", "parsers", "testdata", "mt5_report.csv")

func newTestCLI(t *testing.T) (*cli, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return &cli{
		cfg: &config.AppConfig{
			FXAPITimeout:    time.Second,
			FXCacheFallback: true,
			OutputDir:       t.TempDir(),
		},
		stdout: &stdout,
		stderr: &stderr,
		now:    func() time.Time { return time.Date(2025, 3, 20, 9, 30, 0, 0, time.UTC) },
	}, &stdout, &stderr
}

func TestRun_ListPlatforms(t *testing.T) {
	c, stdout, _ := newTestCLI(t)
	assert.Equal(t, 0, c.run(context.Background(), []string{"-list-platforms"}))
	assert.Equal(t, "mt5\nctrader\n", stdout.String())
}

func TestRun_JSONExport(t *testing.T) {
	c, stdout, stderr := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "nested", "report.json")

	code := c.run(context.Background(), []string{mt5Fixture, "-format", "json", "-o", out})
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "GRAND TOTAL NOTIONAL: $128,141.61")
	assert.Contains(t, stdout.String(), "Report saved to: "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_notional_usd": "128141.61"`)
}

func TestRun_DefaultOutputPath(t *testing.T) {
	c, _, stderr := newTestCLI(t)

	require.Equal(t, 0, c.run(context.Background(), []string{"-platform", "mt5", mt5Fixture}), stderr.String())
	_, err := os.Stat(filepath.Join(c.cfg.OutputDir, "notional_report_20250320_093000.csv"))
	assert.NoError(t, err)
}

func TestRun_DateFilter(t *testing.T) {
	c, stdout, stderr := newTestCLI(t)

	require.Equal(t, 0, c.run(context.Background(), []string{"-from", "13-03-2025", "-to", "13-03-2025", mt5Fixture}), stderr.String())
	assert.Contains(t, stdout.String(), "Date filter: 13-03-2025 to 13-03-2025")
	assert.Contains(t, stdout.String(), "GRAND TOTAL NOTIONAL: $43,040.00")
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()
	stocksOnly := filepath.Join(dir, "stocks.csv")
	require.NoError(t, os.WriteFile(stocksOnly, []byte(
		"Position ID,Symbol,Opening Direction,Opening Time,Closing Time,Entry Price,Closing Price,Closing Quantity\n"+
			"P-1,AAPL,Buy,10/03/2025 09:00:00.000,12/03/2025 14:30:05.000,180,190,0.5 Lots\n"), 0o644))
	wrongExt := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(wrongExt, []byte("x"), 0o644))

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"no file", nil, "expected exactly one input file"},
		{"extension", []string{wrongExt}, "expected .xlsx or .csv"},
		{"missing", []string{filepath.Join(dir, "missing.csv")}, "file not found"},
		{"format", []string{"-format", "xml", mt5Fixture}, "unsupported output format"},
		{"mixed filters", []string{"-last", "7", "-this-month", mt5Fixture}, "use one filter type"},
		{"zero last", []string{"-last", "0", mt5Fixture}, "positive number"},
		{"empty range", []string{"-from", "01-01-2024", "-to", "31-01-2024", mt5Fixture}, "no trades found"},
		{"unknown platform", []string{"-platform", "ninja", mt5Fixture}, "unknown platform"},
		{"all skipped", []string{stocksOnly}, "every trade was skipped"},
		{"bad flag", []string{"-nope"}, "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, stderr := newTestCLI(t)
			assert.Equal(t, 1, c.run(context.Background(), tt.args))
			assert.Contains(t, stderr.String(), tt.contains)
		})
	}
}
