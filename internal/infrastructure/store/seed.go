package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
)

// LoadSeedFile reads override seeds from a YAML file with "hotwav" and
// "accessories" lists. A list missing from the file stays nil.
func LoadSeedFile(path string) (domain.OverrideSeeds, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.OverrideSeeds{}, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeeds(raw)
}

// ParseSeeds decodes YAML seed content
func ParseSeeds(raw []byte) (domain.OverrideSeeds, error) {
	var seeds domain.OverrideSeeds
	if err := yaml.Unmarshal(raw, &seeds); err != nil {
		return domain.OverrideSeeds{}, fmt.Errorf("decode seed file: %w", err)
	}
	return seeds, nil
}

// MarshalEntries encodes override entries as a YAML list
func MarshalEntries(entries []domain.OverrideEntry) ([]byte, error) {
	return yaml.Marshal(entries)
}

// UnmarshalEntries decodes a YAML list of override entries
func UnmarshalEntries(raw []byte) ([]domain.OverrideEntry, error) {
	var entries []domain.OverrideEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	return entries, nil
}
