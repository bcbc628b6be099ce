package services

import (
	"context"

	"github.com/username/notional/backend/src/models"
	"github.com/username/notional/backend/src/utils"
)

// CalculationRequest is one uploaded export to price.
type CalculationRequest struct {
	Data     []byte
	Filename string
	Platform string          // registered parser name; "" or "auto" detects
	Range    utils.DateRange // close-date filter, zero for all trades
}

// NotionalService is the calculation entry point shared by the HTTP API and the CLI.
type NotionalService interface {
	Calculate(ctx context.Context, req CalculationRequest) (*models.CalculationReport, error)
	GetReport(id string) (*models.CalculationReport, error)
	Platforms() []string
}
