package main

import (
	"os"
	"path/filepath"

	"github.com/username/notional/backend/src/models"
	"github.com/username/notional/backend/src/reports"
)

func writeExport(path, format string, report *models.CalculationReport) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return reports.Write(f, format, report)
}
