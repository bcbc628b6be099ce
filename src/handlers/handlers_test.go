package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/notional/backend/src/parsers"
	"github.com/username/notional/backend/src/processors"
	"github.com/username/notional/backend/src/services"
)

func newTestRouter() http.Handler {
	svc := services.NewNotionalService(parsers.DefaultRegistry(), processors.NewSymbolClassifier(), nil, services.NewReportCache(time.Minute))
	return NewRouter(svc, RouterConfig{
		CORSOrigins:    []string{"http://localhost:3000"},
		MaxUploadBytes: 1 << 20,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	})
}

func uploadRequest(t *testing.T, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "parsers", "testdata", name))
	require.NoError(t, err)
	return data
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestUploadAndFetchResult(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "ReportHistory.csv", fixture(t, "mt5_report.csv"), nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	id := body["id"].(string)
	assert.Equal(t, "/api/results/"+id, rec.Header().Get("Location"))
	assert.Equal(t, "mt5", body["platform"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, "128141.61", summary["total_notional_usd"])
	assert.Equal(t, true, summary["used_fallback"])

	// Result with ETag revalidation.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/results/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/results/"+id, nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	// CSV download.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/results/"+id+"/download", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=\"notional_report_")
	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	// JSON download.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/results/"+id+"/download?format=json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".json")

	// Chart data.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/results/"+id+"/chart", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	chart := decode(t, rec)
	assert.Len(t, chart, 3)
	assert.InDelta(t, 80452.84, chart["XAUUSD"], 0.001)
}

func TestUpload_Rejections(t *testing.T) {
	router := newTestRouter()
	mt5 := fixture(t, "mt5_report.csv")

	tests := []struct {
		name     string
		filename string
		data     []byte
		fields   map[string]string
		status   int
		contains string
	}{
		{"extension", "report.txt", mt5, nil, http.StatusBadRequest, "expected .xlsx or .csv"},
		{"xlsx that is text", "report.xlsx", mt5, nil, http.StatusBadRequest, "does not match"},
		{"unknown format", "other.csv", []byte("a,b,c\n1,2,3\n"), nil, http.StatusBadRequest, "supported platforms: mt5, ctrader"},
		{"unknown platform", "report.csv", mt5, map[string]string{"platform": "ninja"}, http.StatusBadRequest, "unknown platform"},
		{"bad date", "report.csv", mt5, map[string]string{"from": "2025-03-01"}, http.StatusBadRequest, "DD-MM-YYYY"},
		{"mixed filters", "report.csv", mt5, map[string]string{"from": "01-03-2025", "last": "7"}, http.StatusBadRequest, "use one filter type"},
		{"empty range", "report.csv", mt5, map[string]string{"from": "01-01-2024", "to": "31-01-2024"}, http.StatusUnprocessableEntity, "no trades found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest(t, tt.filename, tt.data, tt.fields))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, decode(t, rec)["error"], tt.contains)
		})
	}
}

func TestUpload_ExplicitPlatformAndRange(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "history.csv", fixture(t, "ctrader_history.csv"), map[string]string{
		"platform": "ctrader",
		"from":     "13-03-2025",
		"to":       "13-03-2025",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "13-03-2025 to 13-03-2025", body["date_filter"])
	assert.Len(t, body["trades"], 1)
}

func TestResults_NotFound(t *testing.T) {
	router := newTestRouter()
	for _, path := range []string{"/api/results/nope", "/api/results/nope/download", "/api/results/nope/chart"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestPlatformsAndStatus(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/platforms", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"mt5", "ctrader"}, decode(t, rec)["platforms"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimitMiddleware(0.001, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/platforms", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/platforms", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
