package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/infrastructure/spreadsheet"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/usecase"
)

var (
	formatInput  string
	formatOutDir string
	formatDate   string
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Build the price grid workbook and HTML catalog",
	Long: `Read a supplier spreadsheet, merge it with the override catalogs and write
grille_tarifaire_S<week>-<year>_<input> and grille_tarifaire_S<week>-<year>.html.`,
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().StringVarP(&formatInput, "input", "i", "", "input .xlsx file (required)")
	formatCmd.Flags().StringVarP(&formatOutDir, "out", "o", ".", "output directory")
	formatCmd.Flags().StringVar(&formatDate, "date", "", "date used for the week label (YYYY-MM-DD, default today)")
	_ = formatCmd.MarkFlagRequired("input")
}

func runFormat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	now := time.Now
	if formatDate != "" {
		d, err := time.Parse("2006-01-02", formatDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		now = func() time.Time { return d }
	}

	data, err := os.ReadFile(formatInput)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	decoder := spreadsheet.NewDecoder(spreadsheet.Config{
		NameHeaders:  a.cfg.Catalog.HeaderAliases.Name,
		PriceHeaders: a.cfg.Catalog.HeaderAliases.Price,
	}, a.log.Named("decoder"))

	formatter := usecase.NewFormatService(decoder, a.overrides, nil, a.log.Named("format"), usecase.FormatServiceConfig{
		ShopName:      a.cfg.Catalog.ShopName,
		ShopURL:       a.cfg.Catalog.ShopURL,
		Brands:        a.cfg.Catalog.Brands,
		FallbackBrand: a.cfg.Catalog.FallbackBrand,
		PricingNotes:  a.cfg.Catalog.PricingNotes,
		Now:           now,
	})

	result, err := formatter.Format(ctx, domain.FormatInput{
		FileName: filepath.Base(formatInput),
		Data:     data,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(formatOutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, artifact := range []domain.Artifact{result.Workbook, result.Page} {
		path := filepath.Join(formatOutDir, artifact.FileName)
		if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, artifact.Size())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d products, %d brands, average %d€\n",
		result.WeekLabel, result.Stats.ProductCount, result.Stats.BrandCount, result.Stats.AveragePrice)
	return nil
}
