package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
)

// overrideSchemaVersion is the version written in every stored envelope
const overrideSchemaVersion = 1

// overrideEnvelope is the persisted form of an override catalog
type overrideEnvelope struct {
	Version   int                    `json:"version"`
	Entries   []domain.OverrideEntry `json:"entries"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// DefaultOverrideSeeds returns the built-in seed lists
func DefaultOverrideSeeds() domain.OverrideSeeds {
	return domain.OverrideSeeds{
		Hotwav: []domain.OverrideEntry{
			{Name: "Hotwav Note 13 Pro 8/256Go", Price: 139},
			{Name: "Hotwav Note 20 4/128Go", Price: 125},
			{Name: "Hotwav Cyber 13 Pro 12/256Go", Price: 189},
			{Name: "Hotwav Cyber 15 8/256Go", Price: 175},
			{Name: "Hotwav T7 Pro Tablette 6/256Go", Price: 149},
			{Name: "Hotwav W11 Rugged 6/256Go", Price: 199},
		},
		Accessories: []domain.OverrideEntry{
			{Name: "Coque silicone iPhone 15", Price: 15, Brand: "Apple"},
			{Name: "Chargeur USB-C 20W", Price: 19, Brand: "Apple"},
			{Name: "Verre trempé iPhone 15 Pro", Price: 9, Brand: "Apple"},
			{Name: "Coque Galaxy S24", Price: 14, Brand: "Samsung"},
			{Name: "Chargeur rapide 25W", Price: 22, Brand: "Samsung"},
			{Name: "Coque Redmi Note 13", Price: 11, Brand: "Xiaomi"},
			{Name: "Câble USB-C 1m", Price: 7, Brand: "Autre"},
			{Name: "Support voiture magnétique", Price: 12, Brand: "Autre"},
		},
	}
}

// OverrideService loads and saves the override catalogs through a key-value store
type OverrideService struct {
	store  domain.KeyValueStore
	seeds  domain.OverrideSeeds
	logger *zap.Logger
	now    func() time.Time
}

// NewOverrideService creates an override service. Nil seed lists use the defaults;
// supplied seed lists must pass the same validation as saved entries.
func NewOverrideService(store domain.KeyValueStore, seeds domain.OverrideSeeds, logger *zap.Logger) (*OverrideService, error) {
	defaults := DefaultOverrideSeeds()
	if seeds.Hotwav == nil {
		seeds.Hotwav = defaults.Hotwav
	}
	if seeds.Accessories == nil {
		seeds.Accessories = defaults.Accessories
	}

	var err error
	if seeds.Hotwav, err = ValidateOverrides(domain.CatalogHotwav, seeds.Hotwav); err != nil {
		return nil, fmt.Errorf("hotwav seeds: %w", err)
	}
	if seeds.Accessories, err = ValidateOverrides(domain.CatalogAccessories, seeds.Accessories); err != nil {
		return nil, fmt.Errorf("accessories seeds: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverrideService{store: store, seeds: seeds, logger: logger, now: time.Now}, nil
}

// OverrideKey returns the storage key of a catalog
func OverrideKey(catalog domain.OverrideCatalog) string {
	return "pricegrid:overrides:" + string(catalog)
}

// Load returns a copy of the stored entries, or the seeds if nothing was saved
func (s *OverrideService) Load(ctx context.Context, catalog domain.OverrideCatalog) ([]domain.OverrideEntry, error) {
	if _, err := domain.ParseOverrideCatalog(string(catalog)); err != nil {
		return nil, err
	}

	raw, err := s.store.Get(ctx, OverrideKey(catalog))
	if errors.Is(err, domain.ErrKeyNotFound) {
		return cloneEntries(s.seeds.For(catalog)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s overrides: %w", catalog, err)
	}

	var env overrideEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode %s overrides: %w", catalog, err)
	}
	if env.Version != overrideSchemaVersion {
		return nil, fmt.Errorf("decode %s overrides: unsupported schema version %d", catalog, env.Version)
	}

	return cloneEntries(env.Entries), nil
}

// Save validates and persists a whole catalog
func (s *OverrideService) Save(ctx context.Context, catalog domain.OverrideCatalog, entries []domain.OverrideEntry) error {
	if _, err := domain.ParseOverrideCatalog(string(catalog)); err != nil {
		return err
	}

	cleaned, err := ValidateOverrides(catalog, entries)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(overrideEnvelope{
		Version:   overrideSchemaVersion,
		Entries:   cleaned,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode %s overrides: %w", catalog, err)
	}

	if err := s.store.Set(ctx, OverrideKey(catalog), raw); err != nil {
		return fmt.Errorf("save %s overrides: %w", catalog, err)
	}

	s.logger.Info("override catalog saved",
		zap.String("catalog", string(catalog)),
		zap.Int("entries", len(cleaned)))
	return nil
}

// Reset removes the stored catalog so the next load returns the seeds
func (s *OverrideService) Reset(ctx context.Context, catalog domain.OverrideCatalog) error {
	if _, err := domain.ParseOverrideCatalog(string(catalog)); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, OverrideKey(catalog)); err != nil {
		return fmt.Errorf("reset %s overrides: %w", catalog, err)
	}
	s.logger.Info("override catalog reset", zap.String("catalog", string(catalog)))
	return nil
}

// Snapshot loads both catalogs for one format run
func (s *OverrideService) Snapshot(ctx context.Context) (domain.OverrideSnapshot, error) {
	hotwav, err := s.Load(ctx, domain.CatalogHotwav)
	if err != nil {
		return domain.OverrideSnapshot{}, err
	}
	accessories, err := s.Load(ctx, domain.CatalogAccessories)
	if err != nil {
		return domain.OverrideSnapshot{}, err
	}
	return domain.OverrideSnapshot{
		Hotwav:      hotwav,
		Accessories: accessories,
		TakenAt:     s.now(),
	}, nil
}

// ValidateOverrides trims names and rejects entries without a name, a positive
// price, or (for accessories) a real brand other than the "all" filter value
func ValidateOverrides(catalog domain.OverrideCatalog, entries []domain.OverrideEntry) ([]domain.OverrideEntry, error) {
	cleaned := make([]domain.OverrideEntry, 0, len(entries))
	for i, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		e.Brand = strings.TrimSpace(e.Brand)

		if e.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", domain.ErrInvalidOverride, i)
		}
		if math.IsNaN(e.Price) || math.IsInf(e.Price, 0) || e.Price <= 0 {
			return nil, fmt.Errorf("%w: entry %d (%s) needs a positive price", domain.ErrInvalidOverride, i, e.Name)
		}
		if catalog.RequiresBrand() {
			if e.Brand == "" {
				return nil, fmt.Errorf("%w: entry %d (%s) has no brand", domain.ErrInvalidOverride, i, e.Name)
			}
			if strings.EqualFold(e.Brand, AllBrands) {
				return nil, fmt.Errorf("%w: entry %d (%s) uses the reserved brand %q", domain.ErrInvalidOverride, i, e.Name, e.Brand)
			}
		} else {
			e.Brand = ""
		}
		cleaned = append(cleaned, e)
	}
	return cleaned, nil
}

func cloneEntries(entries []domain.OverrideEntry) []domain.OverrideEntry {
	out := make([]domain.OverrideEntry, len(entries))
	copy(out, entries)
	return out
}
