package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoTrades is returned by a parser when no closed position survives row validation.
var ErrNoTrades = errors.New("no closed trades found in the file")

// MissingColumnError is returned when an export lacks a column the parser cannot do without.
type MissingColumnError struct {
	Platform string
	Column   string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s export is missing required column %q", e.Platform, e.Column)
}

// Header indexes a header row by normalised column name. Repeated names keep
// every position in order, so MT5's two "Time" and two "Price" columns can be
// told apart by occurrence.
type Header struct {
	platform string
	names    []string
	index    map[string][]int
}

func NewHeader(platform string, row []string) *Header {
	h := &Header{platform: platform, names: make([]string, len(row)), index: make(map[string][]int, len(row))}
	for i, cell := range row {
		key := normalizeName(cell)
		h.names[i] = key
		if key == "" {
			continue
		}
		h.index[key] = append(h.index[key], i)
	}
	return h
}

// normalizeName lower-cases, collapses inner whitespace and drops spaces
// around slashes so "S / L" and "s/l" compare equal.
func normalizeName(name string) string {
	name = strings.ToLower(strings.Join(strings.Fields(name), " "))
	return strings.ReplaceAll(strings.ReplaceAll(name, " /", "/"), "/ ", "/")
}

// Has reports whether any of the aliases is present.
func (h *Header) Has(aliases ...string) bool {
	_, ok := h.Find(aliases...)
	return ok
}

// Find returns the position of the first alias present in the header.
func (h *Header) Find(aliases ...string) (int, bool) {
	for _, a := range aliases {
		if idx, ok := h.index[normalizeName(a)]; ok {
			return idx[0], true
		}
	}
	return -1, false
}

// FindPrefix returns the left-most column whose name starts with one of the
// prefixes, tried in order. cTrader appends the time zone to its time
// columns ("Closing time (UTC+2)") and the account currency to "Net USD".
func (h *Header) FindPrefix(prefixes ...string) (int, bool) {
	for _, p := range prefixes {
		p = normalizeName(p)
		for i, name := range h.names {
			if name != "" && strings.HasPrefix(name, p) {
				return i, true
			}
		}
	}
	return -1, false
}

// FindNth returns the position of the nth (zero based) column called name.
func (h *Header) FindNth(name string, n int) (int, bool) {
	idx := h.index[normalizeName(name)]
	if n < 0 || n >= len(idx) {
		return -1, false
	}
	return idx[n], true
}

// Count is the number of columns called name.
func (h *Header) Count(name string) int {
	return len(h.index[normalizeName(name)])
}

// Require is Find that fails with a MissingColumnError naming the first alias.
func (h *Header) Require(aliases ...string) (int, error) {
	if idx, ok := h.Find(aliases...); ok {
		return idx, nil
	}
	return -1, &MissingColumnError{Platform: h.platform, Column: aliases[0]}
}

// Optional is Find returning -1 when absent, for columns whose value defaults to zero.
func (h *Header) Optional(aliases ...string) int {
	idx, _ := h.Find(aliases...)
	return idx
}
