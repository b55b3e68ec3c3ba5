package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
)

// Default header aliases, compared after normalizeHeader
var (
	DefaultNameHeaders = []string{
		"nom du produit", "product name", "produit", "désignation", "designation", "libellé",
	}
	DefaultPriceHeaders = []string{
		"prix ht maximum", "maximum ht price", "prix max ht", "prix ht max", "prix ht", "prix",
	}
)

var (
	multiSpaceRegex = regexp.MustCompile(`\s+`)
	// currency symbols and every kind of space used as a thousands separator
	priceNoiseRegex = regexp.MustCompile(`[€$\s\x{00A0}\x{202F}]|EUR`)
)

// checkEvery is how many rows are decoded between context checks
const checkEvery = 500

// Config holds the header aliases used to locate the name and price columns
type Config struct {
	NameHeaders  []string
	PriceHeaders []string
}

// Decoder reads product rows from an xlsx workbook
type Decoder struct {
	nameHeaders  map[string]bool
	priceHeaders map[string]bool
	logger       *zap.Logger
}

// NewDecoder creates a decoder. Empty alias lists use the defaults.
func NewDecoder(config Config, logger *zap.Logger) *Decoder {
	if len(config.NameHeaders) == 0 {
		config.NameHeaders = DefaultNameHeaders
	}
	if len(config.PriceHeaders) == 0 {
		config.PriceHeaders = DefaultPriceHeaders
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{
		nameHeaders:  headerSet(config.NameHeaders),
		priceHeaders: headerSet(config.PriceHeaders),
		logger:       logger,
	}
}

// Decode opens the first sheet, finds the header row and returns one raw row per
// data line. Missing or unparseable cells yield zero values; filtering them out
// is left to the merger.
func (d *Decoder) Decode(ctx context.Context, data []byte) ([]domain.RawProductRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", domain.ErrIngestion, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheet", domain.ErrIngestion)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", domain.ErrIngestion, sheets[0], err)
	}

	headerRow, nameCol, priceCol := d.findHeader(rows)
	if headerRow < 0 {
		return nil, fmt.Errorf("%w: no header row with product name and price columns", domain.ErrIngestion)
	}

	out := make([]domain.RawProductRow, 0, len(rows)-headerRow-1)
	for i, row := range rows[headerRow+1:] {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		name := strings.TrimSpace(cellAt(row, nameCol))
		price, _ := ParsePrice(cellAt(row, priceCol))
		if name == "" && price == 0 {
			continue
		}
		out = append(out, domain.RawProductRow{Name: name, Price: price})
	}

	d.logger.Debug("spreadsheet decoded",
		zap.String("sheet", sheets[0]),
		zap.Int("header_row", headerRow+1),
		zap.Int("rows", len(out)))

	return out, nil
}

// findHeader returns the index of the first row holding both a name and a price
// header, with their column indexes, or -1.
func (d *Decoder) findHeader(rows [][]string) (int, int, int) {
	for r, row := range rows {
		nameCol, priceCol := -1, -1
		for c, cell := range row {
			h := normalizeHeader(cell)
			if nameCol < 0 && d.nameHeaders[h] {
				nameCol = c
			} else if priceCol < 0 && d.priceHeaders[h] {
				priceCol = c
			}
		}
		if nameCol >= 0 && priceCol >= 0 {
			return r, nameCol, priceCol
		}
	}
	return -1, -1, -1
}

// ParsePrice reads prices such as "1234.5", "1 234,50" or "12,5 €".
// The boolean is false when no number could be read.
func ParsePrice(s string) (float64, bool) {
	s = priceNoiseRegex.ReplaceAllString(s, "")
	if s == "" {
		return 0, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		// 1.234,50
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		// 1,234.50
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return multiSpaceRegex.ReplaceAllString(s, " ")
}

func headerSet(aliases []string) map[string]bool {
	set := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		set[normalizeHeader(a)] = true
	}
	return set
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
