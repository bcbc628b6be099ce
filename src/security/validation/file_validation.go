package validation

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/username/notional/backend/src/logger"
)

var (
	ErrUnsupportedExtension = errors.New("unsupported file type, expected .xlsx or .csv")
	ErrContentMismatch      = errors.New("file content does not match its extension")
)

// AllowedExtensions lists the broker export formats accepted for upload.
var AllowedExtensions = map[string]bool{
	".xlsx": true,
	".csv":  true,
}

// AllowedClientContentTypes is a map for quick lookup of allowed client-declared MIME types.
var AllowedClientContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true, // Often used for CSV by older Excel
	"text/plain":               true,
	"application/octet-stream": true,
	"application/zip":          true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// ValidateExtension accepts .xlsx and .csv file names, case-insensitively.
func ValidateExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !AllowedExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedExtension, filename)
	}
	return nil
}

// ValidateClientContentType checks the Content-Type header provided by the client.
// An empty header is accepted; the content itself is checked afterwards.
func ValidateClientContentType(contentType string) error {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if ct == "" {
		return nil
	}
	if !AllowedClientContentTypes[ct] {
		logger.L.Warn().Str("contentType", contentType).Msg("Disallowed client-declared Content-Type")
		return fmt.Errorf("client-declared file type '%s' is not allowed", contentType)
	}
	return nil
}

// ValidateFileContentByMagicBytes checks the actual file content signature (magic bytes)
// against the extension. It rewinds the file and returns the detected content type.
func ValidateFileContentByMagicBytes(file io.ReadSeeker, filename string) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is nil")
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}

	// Reset so the parser reads the full file.
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}

	return ValidateContent(buffer[:n], filename)
}

// ValidateContent is ValidateFileContentByMagicBytes for data already in memory.
// .xlsx must be a zip container, .csv must look like text.
func ValidateContent(data []byte, filename string) (string, error) {
	if len(data) > 512 {
		data = data[:512]
	}
	detected := strings.ToLower(strings.Split(http.DetectContentType(data), ";")[0])

	var allowed map[string]bool
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		allowed = map[string]bool{"application/zip": true}
	} else {
		// UTF-16 exports with a BOM detect as text/plain.
		allowed = map[string]bool{
			"text/plain":      true,
			"text/csv":        true,
			"application/csv": true,
		}
	}

	if !allowed[detected] {
		logger.L.Warn().Str("detectedContentType", detected).Str("filename", filename).Msg("Disallowed detected file content type (magic bytes)")
		return detected, fmt.Errorf("%w: detected '%s'", ErrContentMismatch, detected)
	}

	logger.L.Debug().Str("detectedContentType", detected).Msg("File content type (magic bytes) validated")
	return detected, nil
}
