// backend/src/handlers/upload_handler.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/username/notional/backend/src/logger"
	"github.com/username/notional/backend/src/processors"
	"github.com/username/notional/backend/src/reports"
	"github.com/username/notional/backend/src/security/validation"
	"github.com/username/notional/backend/src/services"
	"github.com/username/notional/backend/src/utils"
)

type UploadHandler struct {
	service      services.NotionalService
	maxFileBytes int64
	now          func() time.Time
}

func NewUploadHandler(service services.NotionalService, maxFileBytes int64) *UploadHandler {
	return &UploadHandler{
		service:      service,
		maxFileBytes: maxFileBytes,
		now:          time.Now,
	}
}

// HandleUpload accepts a multipart form with a "file" field and optional
// "platform", "from", "to", "last" and "this_month" fields.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileBytes+1<<20)
	maxMB := h.maxFileBytes / (1024 * 1024)

	if err := r.ParseMultipartForm(h.maxFileBytes); err != nil {
		log.Warn().Err(err).Int64("limit", h.maxFileBytes).Msg("Failed to parse multipart form or request too large")
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", maxMB), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to retrieve file from request")
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := validation.CleanFilename(fileHeader.Filename)
	if fileHeader.Size > h.maxFileBytes {
		log.Warn().Int64("fileSize", fileHeader.Size).Int64("limit", h.maxFileBytes).Msg("Uploaded file too large")
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", maxMB), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateExtension(filename); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file, filename)
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("Server-side file content validation failed")
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Debug().Str("filename", filename).Str("clientType", clientContentType).Str("detectedType", detectedContentType).Msg("File content validated by magic bytes")

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		utils.SendJSONError(w, "Failed to read uploaded file", http.StatusBadRequest)
		return
	}

	dateRange, err := parseRangeForm(r, h.now())
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Info().Str("filename", filename).Int("bytes", buf.Len()).Msg("Processing upload request")
	report, err := h.service.Calculate(r.Context(), services.CalculationRequest{
		Data:     buf.Bytes(),
		Filename: filename,
		Platform: r.FormValue("platform"),
		Range:    dateRange,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParsingFailed):
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrNoTradesInRange), errors.Is(err, processors.ErrNoTrades):
			utils.SendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			log.Error().Err(err).Str("filename", filename).Msg("Internal error processing upload")
			utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Location", "/api/results/"+report.ID)
	utils.SendJSON(w, http.StatusCreated, reports.NewJSONReport(report))
}

func parseRangeForm(r *http.Request, now time.Time) (utils.DateRange, error) {
	opts := utils.DateFilterOptions{
		From: strings.TrimSpace(r.FormValue("from")),
		To:   strings.TrimSpace(r.FormValue("to")),
	}
	if v := strings.TrimSpace(r.FormValue("last")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return utils.DateRange{}, fmt.Errorf("%w: last must be a number of days", utils.ErrInvalidDateFilter)
		}
		opts.Last = &n
	}
	if v := strings.TrimSpace(r.FormValue("this_month")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return utils.DateRange{}, fmt.Errorf("%w: this_month must be true or false", utils.ErrInvalidDateFilter)
		}
		opts.ThisMonth = b
	}
	return utils.ParseDateFilter(opts, now)
}
