package domain

import "time"

const (
	// ContentTypeWorkbook is the MIME type of the generated workbook
	ContentTypeWorkbook = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// ContentTypeHTML is the MIME type of the generated catalog page
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Artifact is a rendered, downloadable pipeline output
type Artifact struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

// Size returns the artifact size in bytes
func (a *Artifact) Size() int {
	return len(a.Data)
}

// FormatInput is the uploaded spreadsheet for a format run
type FormatInput struct {
	FileName string
	Data     []byte
}

// FormatResult holds everything produced by one successful format run
type FormatResult struct {
	RunID       string              `json:"runId"`
	WeekLabel   string              `json:"weekLabel"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Catalog     *PartitionedCatalog `json:"-"`
	Products    []ClassifiedProduct `json:"-"`
	Workbook    Artifact            `json:"workbook"`
	Page        Artifact            `json:"page"`
	Stats       CatalogStats        `json:"stats"`
}
