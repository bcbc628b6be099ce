// Package tabular turns spreadsheet-like broker exports (.xlsx or delimited text)
// into rows of trimmed string cells and offers the lookups the platform parsers share.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var zipMagic = []byte("PK\x03\x04")

var ErrNoSheets = errors.New("workbook contains no sheets")

// IsWorkbook reports whether the upload should be read as an .xlsx workbook.
func IsWorkbook(data []byte, filename string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return true
	}
	return bytes.HasPrefix(data, zipMagic)
}

// Table is the cells of an export plus the number format its layout implies.
type Table struct {
	Rows    [][]string
	Numbers NumberFormat
}

// ReadTable returns the cells of the first sheet (xlsx) or of the whole file (csv).
// Semicolon-delimited files are read with a decimal comma.
func ReadTable(data []byte, filename string) (*Table, error) {
	if IsWorkbook(data, filename) {
		rows, err := readWorkbook(data)
		if err != nil {
			return nil, err
		}
		return &Table{Rows: rows}, nil
	}
	return readDelimited(data)
}

func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return trimRows(rows), nil
}

func readDelimited(data []byte) (*Table, error) {
	// MT5 saves text reports as UTF-16 with a BOM; a UTF-8 BOM is dropped too.
	data, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode text: %w", err)
	}

	comma := sniffDelimiter(data)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	// Leading-space trimming would swallow empty tab-separated cells.
	reader.TrimLeadingSpace = comma != '\t'

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records: %w", err)
	}
	return &Table{
		Rows:    trimRows(rows),
		Numbers: NumberFormat{DecimalComma: comma == ';'},
	}, nil
}

// sniffDelimiter picks the most frequent of , ; and tab on the first line
// that has any of them. Report titles above the table carry none.
func sniffDelimiter(data []byte) rune {
	var line []byte
	for _, l := range bytes.Split(data, []byte("\n")) {
		if bytes.ContainsAny(l, ",;\t") {
			line = l
			break
		}
	}

	best, bestCount := ',', bytes.Count(line, []byte(","))
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func trimRows(rows [][]string) [][]string {
	for _, row := range rows {
		for i, cell := range row {
			row[i] = strings.TrimSpace(strings.ReplaceAll(cell, "\u00a0", " "))
		}
	}
	return rows
}

// Cell returns row[idx], or "" when the row is shorter than idx.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// FirstCell returns the first non-blank cell of the first non-blank row.
func FirstCell(rows [][]string) string {
	for _, row := range rows {
		for _, cell := range row {
			if cell != "" {
				return cell
			}
		}
	}
	return ""
}

// IsBlank reports whether every cell in the row is empty.
func IsBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// NonBlankCount is the number of non-empty cells in the row.
func NonBlankCount(row []string) int {
	n := 0
	for _, cell := range row {
		if cell != "" {
			n++
		}
	}
	return n
}
