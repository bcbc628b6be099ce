package parsers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/username/notional/backend/src/parsers/tabular"
)

var (
	// ErrEmptyInput is returned for an empty upload or one with no closed trades.
	ErrEmptyInput = tabular.ErrNoTrades
	// ErrUnknownPlatform is returned when a platform hint names no registered parser.
	ErrUnknownPlatform = errors.New("unknown platform")
)

// MissingColumnError is raised by a parser whose CanParse matched but whose
// export lacks a required column.
type MissingColumnError = tabular.MissingColumnError

// UnsupportedFormatError is returned when no registered parser recognises a file.
type UnsupportedFormatError struct {
	Known []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unable to detect platform, specify one manually (supported platforms: %s)", strings.Join(e.Known, ", "))
}
