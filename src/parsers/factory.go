// backend/src/parsers/factory.go
package parsers

import (
	"fmt"
	"strings"

	"github.com/username/notional/backend/src/logger"
	"github.com/username/notional/backend/src/parsers/ctrader"
	"github.com/username/notional/backend/src/parsers/mt5"
)

// Registry is an ordered parser list. Detection is first match wins, so
// registration order matters: parsers with the most specific detection go first.
type Registry struct {
	parsers []Parser
}

func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers}
}

// DefaultRegistry registers MT5 before cTrader. The MT5 check matches a
// literal report title, the cTrader check a column name.
func DefaultRegistry() *Registry {
	return NewRegistry(mt5.NewParser(), ctrader.NewParser())
}

// Platforms lists the registered parser names in detection order.
func (r *Registry) Platforms() []string {
	names := make([]string, 0, len(r.parsers))
	for _, p := range r.parsers {
		names = append(names, p.Name())
	}
	return names
}

// Get returns the parser registered under name (case-insensitive).
func (r *Registry) Get(name string) (Parser, error) {
	for _, p := range r.parsers {
		if strings.EqualFold(p.Name(), strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (supported platforms: %s)", ErrUnknownPlatform, name, strings.Join(r.Platforms(), ", "))
}

// Detect returns the first parser whose CanParse accepts the file.
func (r *Registry) Detect(data []byte, filename string) (Parser, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	for _, p := range r.parsers {
		if p.CanParse(data, filename) {
			logger.L.Debug().Str("platform", p.Name()).Str("filename", filename).Msg("Platform detected")
			return p, nil
		}
	}
	return nil, &UnsupportedFormatError{Known: r.Platforms()}
}

// Resolve picks the parser for an upload: the hinted one when a hint is
// given, otherwise by detection. autoDetected reports which path was taken.
func (r *Registry) Resolve(data []byte, filename, hint string) (p Parser, autoDetected bool, err error) {
	hint = strings.TrimSpace(hint)
	if hint == "" || strings.EqualFold(hint, "auto") {
		p, err = r.Detect(data, filename)
		return p, true, err
	}
	if len(data) == 0 {
		return nil, false, ErrEmptyInput
	}
	p, err = r.Get(hint)
	return p, false, err
}
