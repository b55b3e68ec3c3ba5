package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
)

// CatalogMerger combines imported rows and both override catalogs into a
// brand-partitioned catalog
type CatalogMerger struct {
	classifier *BrandClassifier
}

// NewCatalogMerger creates a merger using the given classifier
func NewCatalogMerger(classifier *BrandClassifier) *CatalogMerger {
	if classifier == nil {
		classifier = NewBrandClassifier(nil, "")
	}
	return &CatalogMerger{classifier: classifier}
}

// Classify resolves brands for all three sources and concatenates them.
// Identical products from different sources are kept as separate entries.
func (m *CatalogMerger) Classify(
	rows []domain.RawProductRow,
	hotwav []domain.OverrideEntry,
	accessories []domain.OverrideEntry,
) []domain.ClassifiedProduct {
	products := make([]domain.ClassifiedProduct, 0, len(rows)+len(hotwav)+len(accessories))

	for _, row := range FilterRawRows(rows) {
		products = append(products, domain.ClassifiedProduct{
			Name:  row.Name,
			Price: row.Price,
			Brand: m.classifier.Classify(row.Name),
		})
	}

	for _, e := range hotwav {
		products = append(products, domain.ClassifiedProduct{
			Name:  e.Name,
			Price: e.Price,
			Brand: m.classifier.Classify(e.Name),
		})
	}

	for _, e := range accessories {
		products = append(products, domain.ClassifiedProduct{
			Name:  e.Name,
			Price: e.Price,
			Brand: e.Brand,
		})
	}

	return products
}

// Merge classifies every source and partitions the result by brand
func (m *CatalogMerger) Merge(
	rows []domain.RawProductRow,
	hotwav []domain.OverrideEntry,
	accessories []domain.OverrideEntry,
) *domain.PartitionedCatalog {
	return Partition(m.Classify(rows, hotwav, accessories))
}

// FilterRawRows drops rows without a name or a strictly positive price.
// Dropped rows are not reported.
func FilterRawRows(rows []domain.RawProductRow) []domain.RawProductRow {
	kept := make([]domain.RawProductRow, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		if math.IsNaN(row.Price) || math.IsInf(row.Price, 0) || row.Price <= 0 {
			continue
		}
		kept = append(kept, domain.RawProductRow{Name: name, Price: row.Price})
	}
	return kept
}

// Partition groups products by brand; brands and names are sorted lexicographically
func Partition(products []domain.ClassifiedProduct) *domain.PartitionedCatalog {
	byBrand := make(map[string][]domain.CatalogItem)
	for _, p := range products {
		byBrand[p.Brand] = append(byBrand[p.Brand], domain.CatalogItem{Name: p.Name, Price: p.Price})
	}

	brands := make([]string, 0, len(byBrand))
	for b := range byBrand {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	catalog := &domain.PartitionedCatalog{Sections: make([]domain.BrandSection, 0, len(brands))}
	for _, b := range brands {
		items := byBrand[b]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Name < items[j].Name
		})
		catalog.Sections = append(catalog.Sections, domain.BrandSection{Brand: b, Items: items})
	}

	return catalog
}

// ComputeStats derives the summary figures shown in both artifacts
func ComputeStats(catalog *domain.PartitionedCatalog) domain.CatalogStats {
	stats := domain.CatalogStats{BrandCount: len(catalog.Sections)}

	var total float64
	first := true
	for _, s := range catalog.Sections {
		for _, item := range s.Items {
			stats.ProductCount++
			total += item.Price
			if first || item.Price < stats.MinPrice {
				stats.MinPrice = item.Price
			}
			if first || item.Price > stats.MaxPrice {
				stats.MaxPrice = item.Price
			}
			first = false
		}
	}

	if stats.ProductCount > 0 {
		stats.AveragePrice = int64(math.Round(total / float64(stats.ProductCount)))
	}

	return stats
}
