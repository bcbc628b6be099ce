package tabular

import (
	"bytes"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.08", 1.08},
		{"1,234.56", 1234.56},
		{"1.234,56", 1234.56},
		{"0,17", 0.17},
		{"17,000", 17000},
		{"2950,125", 2950.125},
		{"1 234 567", 1234567},
		{"$ 12.50", 12.5},
		{"-0.5 USD", -0.5},
		{"(3.20)", -3.2},
		{"2.000.000", 2000000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NumberFormat{}.Number(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNumber_DecimalComma(t *testing.T) {
	nf := NumberFormat{DecimalComma: true}
	tests := []struct {
		in   string
		want float64
	}{
		{"32,150", 32.15},
		{"2950,125", 2950.125},
		{"1,000", 1},
		{"0,17", 0.17},
		{"1.234,56", 1234.56},
		{"4732.52", 4732.52},
		{"2.000.000", 2000000},
		{"100 000", 100000},
		{"-12,5", -12.5},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := nf.Number(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNumber_Invalid(t *testing.T) {
	_, err := NumberFormat{}.Number("")
	assert.ErrorIs(t, err, ErrEmptyValue)

	_, err = NumberFormat{}.Number("n/a")
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestVolume(t *testing.T) {
	tests := []struct {
		in   string
		nf   NumberFormat
		want float64
		unit string
	}{
		{"0.17", NumberFormat{}, 0.17, UnitNone},
		{"0.17 Lots", NumberFormat{}, 0.17, UnitLots},
		{"17,000 Units", NumberFormat{}, 17000, UnitUnits},
		{"10 Oz", NumberFormat{}, 10, UnitUnits},
		{"1000", NumberFormat{}, 1000, UnitNone},
		{"1,000 Lots", NumberFormat{DecimalComma: true}, 1, UnitLots},
		{"0,10 Lots", NumberFormat{DecimalComma: true}, 0.1, UnitLots},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, unit, err := tt.nf.Volume(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.unit, unit)
		})
	}

	_, _, err := NumberFormat{}.Volume("5 Widgets")
	assert.ErrorIs(t, err, ErrUnknownVolUnit)
}

func TestOptional(t *testing.T) {
	row := []string{"-1,50", "", "n/a"}
	nf := NumberFormat{DecimalComma: true}

	assert.InDelta(t, -1.5, nf.Optional(row, 0), 1e-9)
	assert.Zero(t, nf.Optional(row, 1))
	assert.Zero(t, nf.Optional(row, 2))
	assert.Zero(t, nf.Optional(row, 3))
	assert.Zero(t, nf.Optional(row, -1))
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 3, 12, 14, 30, 5, 0, time.UTC)

	for _, in := range []string{
		"2025.03.12 14:30:05",
		"2025-03-12 14:30:05",
		"2025-03-12T14:30:05",
		"12/03/2025 14:30:05",
		"12.03.2025 14:30:05",
	} {
		t.Run(in, func(t *testing.T) {
			got, err := ParseTimestamp(in)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}

	got, err := ParseTimestamp("45728")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12", got.Format("2006-01-02"))

	_, err = ParseTimestamp("yesterday")
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestHeader(t *testing.T) {
	h := NewHeader("mt5", []string{"Time", "Position", "Symbol", "Price", "S / L", "Time", "Price"})

	idx, ok := h.FindNth("time", 1)
	assert.True(t, ok)
	assert.Equal(t, 5, idx)

	idx, ok = h.Find("Stop Loss", "s/l")
	assert.True(t, ok)
	assert.Equal(t, 4, idx)

	assert.Equal(t, 2, h.Count("Price"))
	assert.Equal(t, -1, h.Optional("Commission"))

	_, err := h.Require("Volume", "Lots")
	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Volume", missing.Column)
	assert.Equal(t, "mt5", missing.Platform)
}

func TestReadTable_CSVDelimiters(t *testing.T) {
	tests := []struct {
		name         string
		data         string
		decimalComma bool
	}{
		{"comma", "Symbol,Volume\nEURUSD,0.17\n", false},
		{"semicolon", "\xef\xbb\xbfSymbol;Volume\nEURUSD;0,17\n", true},
		{"tab", "Symbol\tVolume\nEURUSD\t0.17\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadTable([]byte(tt.data), "export.csv")
			require.NoError(t, err)
			require.Len(t, table.Rows, 2)
			assert.Equal(t, []string{"Symbol", "Volume"}, table.Rows[0])
			assert.Equal(t, "EURUSD", table.Rows[1][0])
			assert.Equal(t, tt.decimalComma, table.Numbers.DecimalComma)

			v, err := table.Numbers.Number(table.Rows[1][1])
			require.NoError(t, err)
			assert.InDelta(t, 0.17, v, 1e-9)
		})
	}
}

func TestReadTable_TabKeepsEmptyCells(t *testing.T) {
	table, err := ReadTable([]byte("Symbol\tS / L\tT / P\tPrice\nXAUUSD\t\t\t4732.52\n"), "export.csv")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"XAUUSD", "", "", "4732.52"}, table.Rows[1])
}

func utf16LE(s string) []byte {
	out := []byte{0xff, 0xfe}
	for _, r := range utf16.Encode([]rune(s)) {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}

func TestReadTable_UTF16(t *testing.T) {
	table, err := ReadTable(utf16LE("Trade History Report\nSymbol\tVolume\nXAUUSD\t0.5\n"), "ReportHistory.csv")
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "Trade History Report", FirstCell(table.Rows))
	assert.Equal(t, []string{"XAUUSD", "0.5"}, table.Rows[2])
}

func TestReadTable_Workbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Trade History Report"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{" Symbol ", "Volume"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{"XAUUSD", 0.5}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	assert.True(t, IsWorkbook(buf.Bytes(), "upload"))

	table, err := ReadTable(buf.Bytes(), "report.xlsx")
	require.NoError(t, err)
	assert.False(t, table.Numbers.DecimalComma)
	rows := table.Rows
	require.Len(t, rows, 4)
	assert.Equal(t, "Trade History Report", FirstCell(rows))
	assert.True(t, IsBlank(rows[1]))
	assert.Equal(t, []string{"Symbol", "Volume"}, rows[2])
	assert.Equal(t, "0.5", rows[3][1])
}

func TestReadTable_CorruptWorkbook(t *testing.T) {
	_, err := ReadTable([]byte("PK\x03\x04garbage"), "broken.xlsx")
	assert.Error(t, err)
}
