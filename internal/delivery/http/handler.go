package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/usecase"
)

const serviceVersion = "1.0.0"

// Formatter runs the catalog pipeline on an uploaded spreadsheet
type Formatter interface {
	Format(ctx context.Context, input domain.FormatInput) (*domain.FormatResult, error)
}

// OverrideManager loads, saves and resets override catalogs
type OverrideManager interface {
	domain.OverrideStore
	Reset(ctx context.Context, catalog domain.OverrideCatalog) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	formatter   Formatter
	overrides   OverrideManager
	preview     *usecase.PreviewSession
	maxUploadMB int
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil formatter or override manager
// makes the matching endpoints answer 503.
func NewHandler(
	formatter Formatter,
	overrides OverrideManager,
	preview *usecase.PreviewSession,
	maxUploadMB int,
	logger *zap.Logger,
) *Handler {
	if preview == nil {
		preview = usecase.NewPreviewSession()
	}
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		formatter:   formatter,
		overrides:   overrides,
		preview:     preview,
		maxUploadMB: maxUploadMB,
		logger:      logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricegrid",
		"version": serviceVersion,
	})
}

// FormatCatalog runs the pipeline on the multipart "file" upload
func (h *Handler) FormatCatalog(c *gin.Context) {
	if h.formatter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog formatter not configured"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a spreadsheet must be uploaded in the 'file' field"})
		return
	}

	limit := int64(h.maxUploadMB) << 20
	if header.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file exceeds %d MB", h.maxUploadMB),
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file could not be opened"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file could not be read"})
		return
	}

	result, err := h.formatter.Format(c.Request.Context(), domain.FormatInput{
		FileName: filepath.Base(header.Filename),
		Data:     data,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runId":       result.RunID,
		"weekLabel":   result.WeekLabel,
		"generatedAt": result.GeneratedAt,
		"stats":       result.Stats,
		"brands":      result.Catalog.Brands(),
		"workbook": gin.H{
			"fileName": result.Workbook.FileName,
			"size":     result.Workbook.Size(),
			"url":      "/api/v1/catalog/workbook",
		},
		"page": gin.H{
			"fileName": result.Page.FileName,
			"size":     result.Page.Size(),
			"url":      "/api/v1/catalog/page",
		},
	})
}

// DownloadWorkbook serves the latest workbook artifact
func (h *Handler) DownloadWorkbook(c *gin.Context) {
	result, err := h.preview.Latest()
	if err != nil {
		h.respondError(c, err)
		return
	}
	sendArtifact(c, result.Workbook)
}

// DownloadPage serves the latest catalog page artifact
func (h *Handler) DownloadPage(c *gin.Context) {
	result, err := h.preview.Latest()
	if err != nil {
		h.respondError(c, err)
		return
	}
	sendArtifact(c, result.Page)
}

// Preview returns the filtered preview of the latest catalog
func (h *Handler) Preview(c *gin.Context) {
	q := usecase.DefaultPreviewQuery()
	q.Search = c.Query("search")
	if brand := c.Query("brand"); brand != "" {
		q.Brand = brand
	}

	var err error
	if q.MinPrice, err = parsePriceParam(c, "min_price", 0); err != nil {
		h.respondError(c, err)
		return
	}
	if q.MaxPrice, err = parsePriceParam(c, "max_price", math.MaxFloat64); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.preview.Query(q))
}

// TogglePreview shows or hides the preview
func (h *Handler) TogglePreview(c *gin.Context) {
	visible, err := h.preview.Toggle()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"visible": visible})
}

// GetOverrides returns the entries of an override catalog
func (h *Handler) GetOverrides(c *gin.Context) {
	catalog, ok := h.overrideCatalog(c)
	if !ok {
		return
	}
	entries, err := h.overrides.Load(c.Request.Context(), catalog)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"catalog": catalog, "entries": entries})
}

// SaveOverrides replaces the entries of an override catalog
func (h *Handler) SaveOverrides(c *gin.Context) {
	catalog, ok := h.overrideCatalog(c)
	if !ok {
		return
	}

	var body struct {
		Entries []domain.OverrideEntry `json:"entries"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be {\"entries\": [...]}"})
		return
	}

	if err := h.overrides.Save(c.Request.Context(), catalog, body.Entries); err != nil {
		h.respondError(c, err)
		return
	}

	entries, err := h.overrides.Load(c.Request.Context(), catalog)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"catalog": catalog, "entries": entries})
}

// ResetOverrides restores the seed entries of an override catalog
func (h *Handler) ResetOverrides(c *gin.Context) {
	catalog, ok := h.overrideCatalog(c)
	if !ok {
		return
	}
	if err := h.overrides.Reset(c.Request.Context(), catalog); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) overrideCatalog(c *gin.Context) (domain.OverrideCatalog, bool) {
	if h.overrides == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "override store not configured"})
		return "", false
	}
	catalog, err := domain.ParseOverrideCatalog(c.Param("catalog"))
	if err != nil {
		h.respondError(c, err)
		return "", false
	}
	return catalog, true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrIngestion):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidOverride):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrRunInProgress):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrNoCatalog), errors.Is(err, domain.ErrUnknownCatalog):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrTransform):
		message = domain.ErrTransform.Error()
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": message})
}

func sendArtifact(c *gin.Context, artifact domain.Artifact) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": artifact.FileName})
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

func parsePriceParam(c *gin.Context, name string, fallback float64) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidRequest, name)
	}
	return v, nil
}
