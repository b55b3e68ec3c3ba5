package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "pricegrid.yaml")
	content := "log:\n  level: error\nstore:\n  type: sqlite\n  sqlite_path: " + filepath.Join(dir, "kv.db") + "\ncatalog:\n  shop_name: Boutique\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Produit", "Prix"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Apple iPhone 15", 800}))

	path := filepath.Join(dir, "prix.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	t.Run("import then export overrides", func(t *testing.T) {
		entries := filepath.Join(dir, "entries.yaml")
		require.NoError(t, os.WriteFile(entries, []byte("- name: Coque iPhone\n  price: 15\n  brand: Apple\n"), 0o644))

		out, err := run(t, "--config", cfg, "overrides", "import", "accessories", "--file", entries)
		require.NoError(t, err)
		assert.Contains(t, out, "saved 1 accessories entries")

		out, err = run(t, "--config", cfg, "overrides", "export", "accessories")
		require.NoError(t, err)
		assert.Contains(t, out, "name: Coque iPhone")
		assert.Contains(t, out, "brand: Apple")
	})

	t.Run("unknown catalog", func(t *testing.T) {
		_, err := run(t, "--config", cfg, "overrides", "export", "phones")
		assert.Error(t, err)
	})

	t.Run("format writes both artifacts", func(t *testing.T) {
		input := writeInput(t, dir)
		outDir := filepath.Join(dir, "dist")

		out, err := run(t, "--config", cfg, "format", "--input", input, "--out", outDir, "--date", "2026-10-19")
		require.NoError(t, err)
		assert.Contains(t, out, "S43-2026")

		_, err = os.Stat(filepath.Join(outDir, "grille_tarifaire_S43-2026_prix.xlsx"))
		assert.NoError(t, err)

		page, err := os.ReadFile(filepath.Join(outDir, "grille_tarifaire_S43-2026.html"))
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(page), "Coque iPhone"))
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := run(t, "--config", cfg, "format", "--input", "missing.xlsx", "--date", "19/10/2026")
		assert.ErrorContains(t, err, "invalid --date")
	})
}
