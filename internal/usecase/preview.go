package usecase

import (
	"math"
	"strings"
	"sync"

	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
)

// AllBrands selects every brand in a preview query
const AllBrands = "all"

// PreviewQuery holds the live filter parameters
type PreviewQuery struct {
	Search   string
	Brand    string
	MinPrice float64
	MaxPrice float64
}

// DefaultPreviewQuery matches every product
func DefaultPreviewQuery() PreviewQuery {
	return PreviewQuery{Brand: AllBrands, MinPrice: 0, MaxPrice: math.MaxFloat64}
}

// PreviewView is the filtered preview with its aggregates
type PreviewView struct {
	Available    bool                       `json:"available"`
	Visible      bool                       `json:"visible"`
	WeekLabel    string                     `json:"weekLabel,omitempty"`
	Products     []domain.ClassifiedProduct `json:"products"`
	VisibleCount int                        `json:"visibleCount"`
	AveragePrice int64                      `json:"averagePrice"`
	BrandCount   int                        `json:"brandCount"` // over the unfiltered catalog
	Brands       []string                   `json:"brands"`
}

// FilterProducts keeps the products matching search, brand and price range.
// All three conditions must hold.
func FilterProducts(products []domain.ClassifiedProduct, q PreviewQuery) []domain.ClassifiedProduct {
	term := strings.ToLower(q.Search)
	brand := q.Brand
	if brand == "" {
		brand = AllBrands
	}

	out := make([]domain.ClassifiedProduct, 0, len(products))
	for _, p := range products {
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		if brand != AllBrands && p.Brand != brand {
			continue
		}
		if p.Price < q.MinPrice || p.Price > q.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

// AveragePrice returns the rounded mean price, 0 for an empty list
func AveragePrice(products []domain.ClassifiedProduct) int64 {
	if len(products) == 0 {
		return 0
	}
	var total float64
	for _, p := range products {
		total += p.Price
	}
	return int64(math.Round(total / float64(len(products))))
}

// DistinctBrands returns the brands present, in first-seen order
func DistinctBrands(products []domain.ClassifiedProduct) []string {
	seen := make(map[string]bool)
	var brands []string
	for _, p := range products {
		if !seen[p.Brand] {
			seen[p.Brand] = true
			brands = append(brands, p.Brand)
		}
	}
	return brands
}

// PreviewSession keeps the latest formatted catalog for the on-screen preview.
// It is empty until the first successful format run is published.
type PreviewSession struct {
	mu      sync.RWMutex
	result  *domain.FormatResult
	visible bool
}

// NewPreviewSession creates an empty session
func NewPreviewSession() *PreviewSession {
	return &PreviewSession{}
}

// Publish makes result the current catalog. The preview starts hidden.
func (s *PreviewSession) Publish(result *domain.FormatResult) {
	if result == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	s.visible = false
}

// Latest returns the current result or ErrNoCatalog
func (s *PreviewSession) Latest() (*domain.FormatResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return nil, domain.ErrNoCatalog
	}
	return s.result, nil
}

// Toggle flips preview visibility and returns the new state
func (s *PreviewSession) Toggle() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return false, domain.ErrNoCatalog
	}
	s.visible = !s.visible
	return s.visible, nil
}

// Query applies q to the current catalog. An empty session yields an empty view.
func (s *PreviewSession) Query(q PreviewQuery) PreviewView {
	s.mu.RLock()
	result, visible := s.result, s.visible
	s.mu.RUnlock()

	if result == nil {
		return PreviewView{Products: []domain.ClassifiedProduct{}, Brands: []string{}}
	}

	filtered := FilterProducts(result.Products, q)
	brands := DistinctBrands(result.Products)
	if brands == nil {
		brands = []string{}
	}

	return PreviewView{
		Available:    true,
		Visible:      visible,
		WeekLabel:    result.WeekLabel,
		Products:     filtered,
		VisibleCount: len(filtered),
		AveragePrice: AveragePrice(filtered),
		BrandCount:   len(brands),
		Brands:       brands,
	}
}
