package domain

import "sort"

// RawProductRow is one row produced by the spreadsheet import
type RawProductRow struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OverrideEntry is a manually curated product. Brand is only set for the
// accessories catalog, where it is assigned by the author instead of inferred.
type OverrideEntry struct {
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
	Brand string  `json:"brand,omitempty" yaml:"brand,omitempty"`
}

// ClassifiedProduct is a product with its resolved brand
type ClassifiedProduct struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Brand string  `json:"brand"`
}

// CatalogItem is a product line inside a brand section
type CatalogItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// BrandSection groups the items of one brand, sorted by name
type BrandSection struct {
	Brand string        `json:"brand"`
	Items []CatalogItem `json:"items"`
}

// PartitionedCatalog is the brand-partitioned catalog shared by every renderer.
// Sections are sorted by brand and never empty.
type PartitionedCatalog struct {
	Sections []BrandSection `json:"sections"`
}

// Brands returns the brand keys in catalog order
func (c *PartitionedCatalog) Brands() []string {
	brands := make([]string, 0, len(c.Sections))
	for _, s := range c.Sections {
		brands = append(brands, s.Brand)
	}
	return brands
}

// Section returns the section for brand, if present
func (c *PartitionedCatalog) Section(brand string) (BrandSection, bool) {
	i := sort.Search(len(c.Sections), func(i int) bool {
		return c.Sections[i].Brand >= brand
	})
	if i < len(c.Sections) && c.Sections[i].Brand == brand {
		return c.Sections[i], true
	}
	return BrandSection{}, false
}

// Len returns the total number of products across all sections
func (c *PartitionedCatalog) Len() int {
	n := 0
	for _, s := range c.Sections {
		n += len(s.Items)
	}
	return n
}

// IsEmpty reports whether the catalog holds no product
func (c *PartitionedCatalog) IsEmpty() bool {
	return len(c.Sections) == 0
}

// Flatten returns every product in brand then name order
func (c *PartitionedCatalog) Flatten() []ClassifiedProduct {
	products := make([]ClassifiedProduct, 0, c.Len())
	for _, s := range c.Sections {
		for _, item := range s.Items {
			products = append(products, ClassifiedProduct{
				Name:  item.Name,
				Price: item.Price,
				Brand: s.Brand,
			})
		}
	}
	return products
}

// CatalogStats summarises a catalog for headers and API responses
type CatalogStats struct {
	ProductCount int     `json:"productCount"`
	BrandCount   int     `json:"brandCount"`
	AveragePrice int64   `json:"averagePrice"` // rounded to the nearest unit
	MinPrice     float64 `json:"minPrice"`
	MaxPrice     float64 `json:"maxPrice"`
}
