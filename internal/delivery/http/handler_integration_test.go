package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/eloiseboudon/excelfileProcessing-sub001/config"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/infrastructure/spreadsheet"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/infrastructure/store"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:5173"},
			MaxUploadMB:    1,
		},
		Store:     config.StoreConfig{Type: "memory"},
		RateLimit: config.RateLimitConfig{PerIP: 0},
	}
}

// setupTestRouter wires the real pipeline on an in-memory store
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := testConfig()
	overrides, err := usecase.NewOverrideService(store.NewMemoryStore(), domain.OverrideSeeds{
		Hotwav:      []domain.OverrideEntry{{Name: "Hotwav Note 20", Price: 125}},
		Accessories: []domain.OverrideEntry{{Name: "Coque iPhone", Price: 15, Brand: "Apple"}},
	}, nil)
	if err != nil {
		t.Fatalf("NewOverrideService() error = %v", err)
	}
	preview := usecase.NewPreviewSession()
	formatter := usecase.NewFormatService(spreadsheet.NewDecoder(spreadsheet.Config{}, nil), overrides, preview, nil,
		usecase.FormatServiceConfig{
			ShopName: "Boutique",
			Now:      func() time.Time { return time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC) },
		})

	return SetupRouter(cfg, NewHandler(formatter, overrides, preview, cfg.Server.MaxUploadMB, nil), nil)
}

// stubFormatter returns a fixed error
type stubFormatter struct {
	err error
}

func (f *stubFormatter) Format(ctx context.Context, input domain.FormatInput) (*domain.FormatResult, error) {
	return nil, f.err
}

func priceListXLSX(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Nom du produit", "Prix HT"},
		{"Apple iPhone 15", 800},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, fileName string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, _ := http.NewRequest("POST", "/api/v1/catalog/format", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return response
}

func serve(router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		w := serve(setupTestRouter(t), "GET", "/health", "")

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		response := decodeJSON(t, w)
		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "pricegrid" {
			t.Errorf("service = %v, want pricegrid", response["service"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter(t)
		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			if w := serve(router, method, "/health", ""); w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestFormatFlow(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("artifacts are missing before the first run", func(t *testing.T) {
		for _, path := range []string{"/api/v1/catalog/workbook", "/api/v1/catalog/page"} {
			if w := serve(router, "GET", path, ""); w.Code != http.StatusNotFound {
				t.Errorf("%s: Status = %d, want %d", path, w.Code, http.StatusNotFound)
			}
		}
		if w := serve(router, "POST", "/api/v1/catalog/preview/toggle", ""); w.Code != http.StatusNotFound {
			t.Errorf("toggle: Status = %d, want %d", w.Code, http.StatusNotFound)
		}

		w := serve(router, "GET", "/api/v1/catalog/preview", "")
		if w.Code != http.StatusOK {
			t.Fatalf("preview: Status = %d, want %d", w.Code, http.StatusOK)
		}
		if available := decodeJSON(t, w)["available"]; available != false {
			t.Errorf("available = %v, want false", available)
		}
	})

	t.Run("format returns run summary", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, "prix.xlsx", priceListXLSX(t)))

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
		}
		response := decodeJSON(t, w)
		if response["weekLabel"] != "S43-2026" {
			t.Errorf("weekLabel = %v, want S43-2026", response["weekLabel"])
		}
		if id, _ := response["runId"].(string); id == "" {
			t.Error("runId is empty")
		}

		stats := response["stats"].(map[string]interface{})
		if stats["productCount"] != float64(3) {
			t.Errorf("productCount = %v, want 3", stats["productCount"])
		}
		if stats["averagePrice"] != float64(313) {
			t.Errorf("averagePrice = %v, want 313", stats["averagePrice"])
		}

		workbook := response["workbook"].(map[string]interface{})
		if workbook["fileName"] != "grille_tarifaire_S43-2026_prix.xlsx" {
			t.Errorf("workbook.fileName = %v", workbook["fileName"])
		}
	})

	t.Run("workbook download", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/catalog/workbook", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if got := w.Header().Get("Content-Type"); got != domain.ContentTypeWorkbook {
			t.Errorf("Content-Type = %q, want %q", got, domain.ContentTypeWorkbook)
		}
		if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "grille_tarifaire_S43-2026_prix.xlsx") {
			t.Errorf("Content-Disposition = %q, want workbook file name", got)
		}

		f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
		if err != nil {
			t.Fatalf("downloaded workbook does not open: %v", err)
		}
		defer f.Close()
		rows, err := f.GetRows("Grille Tarifaire")
		if err != nil {
			t.Fatalf("GetRows: %v", err)
		}
		if len(rows) != 17 {
			t.Errorf("rows = %d, want 17", len(rows))
		}
	})

	t.Run("page download", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/catalog/page", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "grille_tarifaire_S43-2026.html") {
			t.Errorf("Content-Disposition = %q, want page file name", got)
		}
		if !strings.Contains(w.Body.String(), `<strong id="stat-average">313€</strong>`) {
			t.Error("page does not report the average price")
		}
	})

	t.Run("preview filters compose", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/catalog/preview?search=iphone&brand=Apple&max_price=100", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		response := decodeJSON(t, w)
		if response["visibleCount"] != float64(1) {
			t.Errorf("visibleCount = %v, want 1", response["visibleCount"])
		}
		if response["brandCount"] != float64(2) {
			t.Errorf("brandCount = %v, want 2", response["brandCount"])
		}
		if response["visible"] != false {
			t.Errorf("visible = %v, want false", response["visible"])
		}
	})

	t.Run("preview rejects invalid price", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/catalog/preview?min_price=cheap", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("toggle preview", func(t *testing.T) {
		w := serve(router, "POST", "/api/v1/catalog/preview/toggle", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if decodeJSON(t, w)["visible"] != true {
			t.Errorf("visible = %v, want true", w.Body.String())
		}
	})
}

func TestFormatErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		w := serve(setupTestRouter(t), "POST", "/api/v1/catalog/format", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("not a spreadsheet", func(t *testing.T) {
		w := httptest.NewRecorder()
		setupTestRouter(t).ServeHTTP(w, uploadRequest(t, "prix.csv", []byte("name;price\n")))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("file too large", func(t *testing.T) {
		w := httptest.NewRecorder()
		setupTestRouter(t).ServeHTTP(w, uploadRequest(t, "big.xlsx", bytes.Repeat([]byte("x"), 2<<20)))
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusRequestEntityTooLarge)
		}
	})

	t.Run("formatter not configured", func(t *testing.T) {
		router := SetupRouter(testConfig(), NewHandler(nil, nil, nil, 1, nil), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, "prix.xlsx", []byte("x")))
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			err  error
			want int
		}{
			{domain.ErrRunInProgress, http.StatusConflict},
			{domain.ErrIngestion, http.StatusBadRequest},
			{domain.ErrTransform, http.StatusInternalServerError},
		}
		for _, tt := range tests {
			router := SetupRouter(testConfig(), NewHandler(&stubFormatter{err: tt.err}, nil, nil, 1, nil), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, uploadRequest(t, "prix.xlsx", []byte("x")))
			if w.Code != tt.want {
				t.Errorf("%v: Status = %d, want %d", tt.err, w.Code, tt.want)
			}
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		cfg := testConfig()
		cfg.RateLimit.PerIP = 1
		router := SetupRouter(cfg, NewHandler(&stubFormatter{err: domain.ErrIngestion}, nil, nil, 1, nil), nil)

		codes := []int{}
		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, uploadRequest(t, "prix.xlsx", []byte("x")))
			codes = append(codes, w.Code)
		}
		if codes[1] != http.StatusTooManyRequests {
			t.Errorf("second request Status = %d, want %d", codes[1], http.StatusTooManyRequests)
		}
	})
}

func TestOverrideEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("get returns seeds", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/overrides/hotwav", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		response := decodeJSON(t, w)
		entries := response["entries"].([]interface{})
		if len(entries) != 1 {
			t.Errorf("entries = %v, want one seed", entries)
		}
	})

	t.Run("unknown catalog", func(t *testing.T) {
		if w := serve(router, "GET", "/api/v1/overrides/phones", ""); w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		if w := serve(router, "PUT", "/api/v1/overrides/hotwav", "{not json"); w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("accessory without brand is rejected", func(t *testing.T) {
		w := serve(router, "PUT", "/api/v1/overrides/accessories", `{"entries":[{"name":"Coque","price":10}]}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("save then reset", func(t *testing.T) {
		w := serve(router, "PUT", "/api/v1/overrides/accessories",
			`{"entries":[{"name":" Coque Galaxy S24 ","price":14,"brand":"Samsung"},{"name":"Câble USB-C","price":7,"brand":"Autre"}]}`)
		if w.Code != http.StatusOK {
			t.Fatalf("save: Status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
		}
		entries := decodeJSON(t, w)["entries"].([]interface{})
		if len(entries) != 2 {
			t.Fatalf("entries = %v, want 2", entries)
		}
		if first := entries[0].(map[string]interface{}); first["name"] != "Coque Galaxy S24" {
			t.Errorf("name = %v, want trimmed name", first["name"])
		}

		if w := serve(router, "DELETE", "/api/v1/overrides/accessories", ""); w.Code != http.StatusNoContent {
			t.Fatalf("reset: Status = %d, want %d", w.Code, http.StatusNoContent)
		}

		w = serve(router, "GET", "/api/v1/overrides/accessories", "")
		entries = decodeJSON(t, w)["entries"].([]interface{})
		if len(entries) != 1 {
			t.Errorf("entries after reset = %v, want seed list", entries)
		}
	})

	t.Run("store not configured", func(t *testing.T) {
		router := SetupRouter(testConfig(), NewHandler(nil, nil, nil, 1, nil), nil)
		if w := serve(router, "GET", "/api/v1/overrides/hotwav", ""); w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
	})
}

// TestCORSIntegration tests CORS headers work end-to-end with full router
func TestCORSIntegration(t *testing.T) {
	req, _ := http.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	setupTestRouter(t).ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q, want http://localhost:5173", got)
	}
}
