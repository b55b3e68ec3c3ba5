package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/infrastructure/store"
)

var importFile string

var overridesCmd = &cobra.Command{
	Use:   "overrides",
	Short: "Manage the Hotwav and accessories override catalogs",
}

var overridesExportCmd = &cobra.Command{
	Use:       "export <catalog>",
	Short:     "Print an override catalog as YAML",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(domain.CatalogHotwav), string(domain.CatalogAccessories)},
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := domain.ParseOverrideCatalog(args[0])
		if err != nil {
			return fmt.Errorf("%w: %s", err, args[0])
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		entries, err := a.overrides.Load(cmd.Context(), catalog)
		if err != nil {
			return err
		}
		out, err := store.MarshalEntries(entries)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var overridesImportCmd = &cobra.Command{
	Use:   "import <catalog>",
	Short: "Replace an override catalog with the entries of a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := domain.ParseOverrideCatalog(args[0])
		if err != nil {
			return fmt.Errorf("%w: %s", err, args[0])
		}

		raw, err := os.ReadFile(importFile)
		if err != nil {
			return fmt.Errorf("read entries: %w", err)
		}
		entries, err := store.UnmarshalEntries(raw)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.overrides.Save(cmd.Context(), catalog, entries); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %d %s entries\n", len(entries), catalog)
		return nil
	},
}

func init() {
	overridesImportCmd.Flags().StringVarP(&importFile, "file", "f", "", "YAML file with the entries (required)")
	_ = overridesImportCmd.MarkFlagRequired("file")
	overridesCmd.AddCommand(overridesExportCmd, overridesImportCmd)
}
