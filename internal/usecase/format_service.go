package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
)

// OverrideSnapshotter provides the override catalogs for a run
type OverrideSnapshotter interface {
	Snapshot(ctx context.Context) (domain.OverrideSnapshot, error)
}

// FormatServiceConfig holds configuration for the format pipeline
type FormatServiceConfig struct {
	ShopName      string
	ShopURL       string
	Brands        []string
	FallbackBrand string
	PricingNotes  []string
	Now           func() time.Time
}

// FormatService runs the decode, merge and render pipeline.
// Only one run may be in flight at a time.
type FormatService struct {
	decoder   domain.SpreadsheetDecoder
	overrides OverrideSnapshotter
	merger    *CatalogMerger
	workbook  *WorkbookRenderer
	page      *CatalogPageRenderer
	preview   *PreviewSession
	logger    *zap.Logger
	now       func() time.Time
	running   atomic.Bool
}

// NewFormatService creates a format service with dependencies.
// preview may be nil when no live preview is needed.
func NewFormatService(
	decoder domain.SpreadsheetDecoder,
	overrides OverrideSnapshotter,
	preview *PreviewSession,
	logger *zap.Logger,
	config FormatServiceConfig,
) *FormatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &FormatService{
		decoder:   decoder,
		overrides: overrides,
		merger:    NewCatalogMerger(NewBrandClassifier(config.Brands, config.FallbackBrand)),
		workbook: NewWorkbookRenderer(WorkbookConfig{
			ShopName:     config.ShopName,
			ShopURL:      config.ShopURL,
			PricingNotes: config.PricingNotes,
		}),
		page:    NewCatalogPageRenderer(CatalogPageConfig{ShopName: config.ShopName, ShopURL: config.ShopURL}),
		preview: preview,
		logger:  logger,
		now:     now,
	}
}

// Running reports whether a run is in flight
func (s *FormatService) Running() bool {
	return s.running.Load()
}

// Format runs the whole pipeline on an uploaded spreadsheet.
// Flow: decode -> snapshot overrides -> merge -> render workbook -> render page.
// Either both artifacts are returned or an error is.
func (s *FormatService) Format(ctx context.Context, input domain.FormatInput) (*domain.FormatResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, domain.ErrRunInProgress
	}
	defer s.running.Store(false)

	if len(input.Data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrIngestion)
	}

	started := s.now()
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID), zap.String("input", input.FileName))
	log.Info("format run started", zap.Int("bytes", len(input.Data)))

	rows, err := s.decoder.Decode(ctx, input.Data)
	if err != nil {
		log.Warn("input decode failed", zap.Error(err))
		if errors.Is(err, domain.ErrIngestion) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrIngestion, err)
	}

	snapshot, err := s.overrides.Snapshot(ctx)
	if err != nil {
		log.Error("override snapshot failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrTransform, err)
	}

	result, err := s.transform(runID, started, input.FileName, rows, snapshot)
	if err != nil {
		log.Error("format run failed", zap.Error(err))
		return nil, err
	}

	if s.preview != nil {
		s.preview.Publish(result)
	}

	log.Info("format run completed",
		zap.String("week", result.WeekLabel),
		zap.Int("raw_rows", len(rows)),
		zap.Int("hotwav_entries", len(snapshot.Hotwav)),
		zap.Int("accessory_entries", len(snapshot.Accessories)),
		zap.Int("products", result.Stats.ProductCount),
		zap.Int("brands", result.Stats.BrandCount),
		zap.Duration("took", s.now().Sub(started)))

	return result, nil
}

// Build merges and renders already-decoded inputs. It shares the run guard with Format.
func (s *FormatService) Build(
	ctx context.Context,
	fileName string,
	rows []domain.RawProductRow,
	snapshot domain.OverrideSnapshot,
) (*domain.FormatResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, domain.ErrRunInProgress
	}
	defer s.running.Store(false)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := s.transform(uuid.NewString(), s.now(), fileName, rows, snapshot)
	if err != nil {
		return nil, err
	}
	if s.preview != nil {
		s.preview.Publish(result)
	}
	return result, nil
}

// transform is the all-or-nothing part of a run. Panics are turned into ErrTransform.
func (s *FormatService) transform(
	runID string,
	at time.Time,
	fileName string,
	rows []domain.RawProductRow,
	snapshot domain.OverrideSnapshot,
) (result *domain.FormatResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", domain.ErrTransform, r)
		}
	}()

	week := WeekLabel(at)
	products := s.merger.Classify(rows, snapshot.Hotwav, snapshot.Accessories)
	catalog := Partition(products)

	// both renderers only read the catalog
	var workbook, page []byte
	var g errgroup.Group
	g.Go(func() (err error) {
		defer recoverRender("workbook", &err)
		workbook, err = s.workbook.Render(catalog, week)
		return err
	})
	g.Go(func() (err error) {
		defer recoverRender("page", &err)
		page, err = s.page.Render(catalog, week)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransform, err)
	}

	return &domain.FormatResult{
		RunID:       runID,
		WeekLabel:   week,
		GeneratedAt: at,
		Catalog:     catalog,
		Products:    catalog.Flatten(),
		Workbook: domain.Artifact{
			FileName:    WorkbookFileName(week, fileName),
			ContentType: domain.ContentTypeWorkbook,
			Data:        workbook,
		},
		Page: domain.Artifact{
			FileName:    PageFileName(week),
			ContentType: domain.ContentTypeHTML,
			Data:        page,
		},
		Stats: ComputeStats(catalog),
	}, nil
}

func recoverRender(artifact string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("render %s: panic: %v", artifact, r)
	}
}
