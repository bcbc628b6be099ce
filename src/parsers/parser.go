// backend/src/parsers/parser.go
package parsers

import (
	"github.com/username/notional/backend/src/models"
)

// Parser handles one broker export dialect. CanParse must be cheap and must
// not fail; Parse returns only closed positions, already normalised.
type Parser interface {
	Name() string
	CanParse(data []byte, filename string) bool
	Parse(data []byte, filename string) ([]models.CanonicalTrade, error)
}
