package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eloiseboudon/excelfileProcessing-sub001/config"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/infrastructure/store"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/logger"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/usecase"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "pricegridctl",
	Short: "Format supplier price lists into a weekly price grid",
	Long: `pricegridctl runs the price grid pipeline offline.

Available subcommands:
  format    - Build the workbook and the HTML catalog from a spreadsheet
  overrides - Export or import the Hotwav and accessories catalogs`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: ./config.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(formatCmd, overridesCmd)
}

// app bundles what every subcommand needs
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	overrides *usecase.OverrideService
	close     func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log, err := logger.New(level, "console")
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	kv, closeStore, err := store.Open(ctx, store.Options{
		Type:       cfg.Store.Type,
		RedisURL:   cfg.Store.RedisURL,
		SQLitePath: cfg.Store.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var seeds domain.OverrideSeeds
	if cfg.Store.SeedFile != "" {
		if seeds, err = store.LoadSeedFile(cfg.Store.SeedFile); err != nil {
			_ = closeStore()
			return nil, err
		}
	}

	overrides, err := usecase.NewOverrideService(kv, seeds, log.Named("overrides"))
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		log:       log,
		overrides: overrides,
		close: func() error {
			_ = log.Sync()
			return closeStore()
		},
	}, nil
}
