package services

import "errors"

var (
	ErrParsingFailed   = errors.New("failed to parse trade history")
	ErrNoTradesInRange = errors.New("no trades found in the specified date range")
	ErrReportNotFound  = errors.New("report not found or expired")

	ErrFXUnexpectedStatus = errors.New("unexpected status from FX provider")
	ErrFXMalformed        = errors.New("malformed FX provider response")
)
