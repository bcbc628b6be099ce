package tabular

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyValue     = errors.New("empty value")
	ErrInvalidNumber  = errors.New("invalid number")
	ErrInvalidTime    = errors.New("unrecognised date/time")
	ErrUnknownVolUnit = errors.New("unknown volume unit")
)

// NumberFormat fixes the decimal mark of a file. The zero value guesses it
// from each cell.
type NumberFormat struct {
	// DecimalComma is set for files that write "2950,125" for 2950.125.
	DecimalComma bool
}

// Number reads a number as brokers print it: "1,234.56", "1.234,56",
// "0,17", "$ 12.50", "(3.20)" for negatives, "-0.5 USD".
func (f NumberFormat) Number(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, ErrEmptyValue
	}

	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r), r == '.', r == ',':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			negative = true
		}
	}
	digits := f.normalizeSeparators(b.String())
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}

	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	if negative {
		v = -v
	}
	return v, nil
}

// normalizeSeparators rewrites the decimal mark to "." and drops thousands separators.
func (f NumberFormat) normalizeSeparators(s string) string {
	dots, commas := strings.Count(s, "."), strings.Count(s, ",")
	switch {
	case dots > 0 && commas > 0:
		// The right-most mark is the decimal one.
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case commas > 1:
		return strings.ReplaceAll(s, ",", "")
	case commas == 1:
		intPart, frac, _ := strings.Cut(s, ",")
		if !f.DecimalComma && isThousandsGroup(intPart, frac) {
			return intPart + frac
		}
		return intPart + "." + frac
	case dots > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// isThousandsGroup reports whether "int,frac" reads as a grouped integer
// such as 17,000. Integer parts longer than three digits are never grouped.
func isThousandsGroup(intPart, frac string) bool {
	return len(frac) == 3 && len(intPart) >= 1 && len(intPart) <= 3 && strings.TrimLeft(intPart, "0") != ""
}

// Volume units understood in "0.17 Lots" / "17,000 Units" style cells.
const (
	UnitNone  = ""
	UnitLots  = "lots"
	UnitUnits = "units"
)

// Volume splits a volume cell into its number and an optional unit suffix.
// Quantities of the underlying (ounces, barrels, coins) count as units.
func (f NumberFormat) Volume(s string) (float64, string, error) {
	s = strings.TrimSpace(s)
	unit := UnitNone

	if i := strings.LastIndexFunc(s, func(r rune) bool { return unicode.IsDigit(r) || r == ')' }); i >= 0 && i < len(s)-1 {
		suffix := strings.ToLower(strings.TrimSpace(s[i+1:]))
		switch suffix {
		case "":
		case "lot", "lots":
			unit = UnitLots
		case "unit", "units", "oz", "ounce", "ounces", "barrel", "barrels", "bbl", "coin", "coins", "mmbtu", "contracts":
			unit = UnitUnits
		default:
			return 0, "", fmt.Errorf("%w: %q", ErrUnknownVolUnit, suffix)
		}
		s = s[:i+1]
	}

	v, err := f.Number(s)
	if err != nil {
		return 0, "", err
	}
	return v, unit, nil
}

var timeLayouts = []string{
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"2006.01.02",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05.000",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"02 Jan 2006 15:04:05.000",
	"02 Jan 2006 15:04:05",
	"02 Jan 2006 15:04",
}

// ParseTimestamp reads the date/time formats found in MT5 and cTrader exports,
// plus bare Excel serial dates for unformatted workbook cells. Times are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyValue
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 1 && serial < 2958466 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}
