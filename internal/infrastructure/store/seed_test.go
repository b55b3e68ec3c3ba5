package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
)

const seedYAML = `
hotwav:
  - name: Hotwav Note 20
    price: 125
accessories:
  - name: Coque iPhone
    price: 15
    brand: Apple
`

func TestParseSeeds(t *testing.T) {
	t.Run("both lists", func(t *testing.T) {
		seeds, err := ParseSeeds([]byte(seedYAML))
		require.NoError(t, err)
		assert.Equal(t, []domain.OverrideEntry{{Name: "Hotwav Note 20", Price: 125}}, seeds.Hotwav)
		assert.Equal(t, []domain.OverrideEntry{{Name: "Coque iPhone", Price: 15, Brand: "Apple"}}, seeds.Accessories)
	})

	t.Run("missing list stays nil", func(t *testing.T) {
		seeds, err := ParseSeeds([]byte("hotwav:\n  - name: Hotwav X\n    price: 99\n"))
		require.NoError(t, err)
		assert.Nil(t, seeds.Accessories)
		assert.Len(t, seeds.Hotwav, 1)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseSeeds([]byte("hotwav: [unclosed"))
		assert.Error(t, err)
	})
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))

	seeds, err := LoadSeedFile(path)
	require.NoError(t, err)
	assert.Len(t, seeds.For(domain.CatalogAccessories), 1)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEntriesRoundTrip(t *testing.T) {
	entries := []domain.OverrideEntry{
		{Name: "Coque iPhone", Price: 15, Brand: "Apple"},
		{Name: "Câble USB-C 1m", Price: 7.5, Brand: "Autre"},
	}

	raw, err := MarshalEntries(entries)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "name: Coque iPhone")

	got, err := UnmarshalEntries(raw)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	_, err = UnmarshalEntries([]byte("name: not a list"))
	assert.Error(t, err)
}
