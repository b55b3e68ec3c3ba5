package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/eloiseboudon/excelfileProcessing-sub001/config"
	httpDelivery "github.com/eloiseboudon/excelfileProcessing-sub001/internal/delivery/http"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/infrastructure/spreadsheet"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/infrastructure/store"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/logger"
	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting price grid service",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Type))

	// Initialize infrastructure dependencies
	ctx := context.Background()
	kv, closeStore, err := store.Open(ctx, store.Options{
		Type:       cfg.Store.Type,
		RedisURL:   cfg.Store.RedisURL,
		SQLitePath: cfg.Store.SQLitePath,
	})
	if err != nil {
		log.Fatal("failed to open override store", zap.Error(err))
	}
	defer func() { _ = closeStore() }()

	var seeds domain.OverrideSeeds
	if cfg.Store.SeedFile != "" {
		seeds, err = store.LoadSeedFile(cfg.Store.SeedFile)
		if err != nil {
			log.Fatal("failed to load seed file", zap.String("path", cfg.Store.SeedFile), zap.Error(err))
		}
		log.Info("override seeds loaded", zap.String("path", cfg.Store.SeedFile))
	}

	decoder := spreadsheet.NewDecoder(spreadsheet.Config{
		NameHeaders:  cfg.Catalog.HeaderAliases.Name,
		PriceHeaders: cfg.Catalog.HeaderAliases.Price,
	}, log.Named("decoder"))

	// Initialize usecase layer
	overrides, err := usecase.NewOverrideService(kv, seeds, log.Named("overrides"))
	if err != nil {
		log.Fatal("invalid override seeds", zap.Error(err))
	}
	preview := usecase.NewPreviewSession()
	formatter := usecase.NewFormatService(decoder, overrides, preview, log.Named("format"), usecase.FormatServiceConfig{
		ShopName:      cfg.Catalog.ShopName,
		ShopURL:       cfg.Catalog.ShopURL,
		Brands:        cfg.Catalog.Brands,
		FallbackBrand: cfg.Catalog.FallbackBrand,
		PricingNotes:  cfg.Catalog.PricingNotes,
	})

	log.Info("catalog configured",
		zap.String("shop", cfg.Catalog.ShopName),
		zap.Int("brands", len(cfg.Catalog.Brands)),
		zap.String("fallback", cfg.Catalog.FallbackBrand))

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(formatter, overrides, preview, cfg.Server.MaxUploadMB, log)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, log.Named("http"))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
