package domain

import (
	"context"
	"time"
)

// OverrideCatalog names one of the locally curated product lists
type OverrideCatalog string

const (
	// CatalogHotwav holds quick-entry Hotwav products (brand is inferred)
	CatalogHotwav OverrideCatalog = "hotwav"
	// CatalogAccessories holds quick-entry accessories with an author-assigned brand
	CatalogAccessories OverrideCatalog = "accessories"
)

// OverrideCatalogs lists every known override catalog
var OverrideCatalogs = []OverrideCatalog{CatalogHotwav, CatalogAccessories}

// ParseOverrideCatalog validates a catalog name
func ParseOverrideCatalog(name string) (OverrideCatalog, error) {
	for _, c := range OverrideCatalogs {
		if string(c) == name {
			return c, nil
		}
	}
	return "", ErrUnknownCatalog
}

// RequiresBrand reports whether entries of the catalog carry their own brand
func (c OverrideCatalog) RequiresBrand() bool {
	return c == CatalogAccessories
}

// KeyValueStore defines the persistence backend for override catalogs
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// OverrideStore loads and saves whole override catalog snapshots
type OverrideStore interface {
	Load(ctx context.Context, catalog OverrideCatalog) ([]OverrideEntry, error)
	Save(ctx context.Context, catalog OverrideCatalog, entries []OverrideEntry) error
}

// SpreadsheetDecoder turns an uploaded workbook into raw product rows
type SpreadsheetDecoder interface {
	Decode(ctx context.Context, data []byte) ([]RawProductRow, error)
}

// OverrideSnapshot is the immutable view of both override catalogs used by one run
type OverrideSnapshot struct {
	Hotwav      []OverrideEntry
	Accessories []OverrideEntry
	TakenAt     time.Time
}

// OverrideSeeds are the initial entries returned when a catalog was never saved
type OverrideSeeds struct {
	Hotwav      []OverrideEntry `yaml:"hotwav"`
	Accessories []OverrideEntry `yaml:"accessories"`
}

// For returns the seed entries of catalog
func (s OverrideSeeds) For(catalog OverrideCatalog) []OverrideEntry {
	switch catalog {
	case CatalogHotwav:
		return s.Hotwav
	case CatalogAccessories:
		return s.Accessories
	}
	return nil
}
