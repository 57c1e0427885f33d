// Package masterdata supplies article, color, component and fabric catalogs
// to the BOM engine. The production implementation reads the planning
// workbook; without a configured workbook the demo provider serves built-in
// sample data so the rest of the system stays usable.
package masterdata

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"dyeing-bom/internal/config"
	"dyeing-bom/internal/storage"
)

type Provider interface {
	DemoMode() bool
	StatusMessage() string
	ListArticles(ctx context.Context) ([]storage.Article, error)
	ListMasterArticles(ctx context.Context) ([]storage.MasterArticle, error)
	ListColors(ctx context.Context) ([]storage.Color, error)
	ListComponents(ctx context.Context) ([]string, error)
	ListFabrics(ctx context.Context) ([]storage.FabricQuality, error)
	LoadArticleBOM(ctx context.Context, sheetName string) (*storage.BOM, error)
	MaterializeArticle(ctx context.Context, artNo string) (string, error)
}

// New picks the workbook provider when one is configured and readable,
// otherwise the demo provider with a message saying why.
func New(cfg config.Config) Provider {
	if cfg.BOMWorkbookPath == "" {
		return NewDemoProvider("workbook path not configured, running in demo mode")
	}
	if _, err := os.Stat(cfg.BOMWorkbookPath); err != nil {
		return NewDemoProvider(fmt.Sprintf("workbook not readable at %q, running in demo mode", cfg.BOMWorkbookPath))
	}
	return NewWorkbookProvider(cfg.BOMWorkbookPath)
}

// LoadAll assembles the combined master data payload, fanning the catalog
// reads out concurrently.
func LoadAll(ctx context.Context, p Provider) (*storage.MasterData, error) {
	const op = "service.masterdata.LoadAll"

	data := &storage.MasterData{Units: storage.Units}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.Articles, err = p.ListArticles(gCtx)
		if err != nil {
			return fmt.Errorf("articles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		data.MasterArticles, err = p.ListMasterArticles(gCtx)
		if err != nil {
			return fmt.Errorf("master articles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		data.Colors, err = p.ListColors(gCtx)
		if err != nil {
			return fmt.Errorf("colors: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		data.Components, err = p.ListComponents(gCtx)
		if err != nil {
			return fmt.Errorf("components: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		data.Fabrics, err = p.ListFabrics(gCtx)
		if err != nil {
			return fmt.Errorf("fabrics: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return data, nil
}
