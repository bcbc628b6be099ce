package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/username/notional/backend/src/logger"
	"github.com/username/notional/backend/src/models"
	"github.com/username/notional/backend/src/reports"
	"github.com/username/notional/backend/src/services"
	"github.com/username/notional/backend/src/utils"
)

type ResultsHandler struct {
	service services.NotionalService
}

func NewResultsHandler(service services.NotionalService) *ResultsHandler {
	return &ResultsHandler{service: service}
}

func (h *ResultsHandler) lookup(w http.ResponseWriter, r *http.Request) (*models.CalculationReport, bool) {
	id := chi.URLParam(r, "id")
	report, err := h.service.GetReport(id)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			utils.SendJSONError(w, "Result not found or expired", http.StatusNotFound)
		} else {
			logger.FromContext(r.Context()).Error().Err(err).Str("id", id).Msg("Error retrieving report")
			utils.SendJSONError(w, "Error retrieving result", http.StatusInternalServerError)
		}
		return nil, false
	}
	return report, true
}

// HandleGetResult serves the JSON report, honouring If-None-Match.
func (h *ResultsHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	report, ok := h.lookup(w, r)
	if !ok {
		return
	}
	doc := reports.NewJSONReport(report)

	currentETag, etagErr := utils.GenerateETag(doc)
	if etagErr != nil {
		logger.L.Error().Err(etagErr).Str("id", report.ID).Msg("Failed to generate ETag for report")
	}

	w.Header().Set("Cache-Control", "no-cache, private")
	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	utils.SendJSON(w, http.StatusOK, doc)
}

// HandleDownload serves the report as an attachment, ?format=csv (default) or json.
func (h *ResultsHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	report, ok := h.lookup(w, r)
	if !ok {
		return
	}
	format, err := reports.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	filename := reports.DefaultFilename(format, report.GeneratedAt)
	w.Header().Set("Content-Type", reports.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := reports.Write(w, format, report); err != nil {
		logger.L.Error().Err(err).Str("id", report.ID).Str("format", format).Msg("Failed to write report download")
	}
}

// HandleChart serves symbol -> notional USD for chart rendering.
func (h *ResultsHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	report, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.SendJSON(w, http.StatusOK, report.Result.ChartData())
}

func (h *ResultsHandler) HandlePlatforms(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, http.StatusOK, map[string][]string{"platforms": h.service.Platforms()})
}

func HandleStatus(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "notional-calculator"})
}
