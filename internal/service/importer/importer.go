// Package importer reconciles the unallocated BOM pool against the
// planning workbook: any article whose (art_no, set_no) key is not in the
// database yet is materialized as a fresh UNALLOCATED BOM. The sync is one
// way and deduplicating, so calling it again with an unchanged source set
// imports nothing.
package importer

import (
	"context"
	"fmt"
	"strings"

	"dyeing-bom/internal/storage"
)

type SourceProvider interface {
	ListArticles(ctx context.Context) ([]storage.Article, error)
	LoadArticleBOM(ctx context.Context, sheetName string) (*storage.BOM, error)
}

type BOMStore interface {
	ExistsByNaturalKey(ctx context.Context, artNo, setNo string) (bool, error)
	SaveBOM(ctx context.Context, uid string, header storage.BOMHeader, combos []storage.Combo) (string, error)
	GetBOMIndex(ctx context.Context, filter storage.BOMFilter) ([]storage.BOMIndexItem, error)
}

type Service struct {
	provider SourceProvider
	storage  BOMStore
}

func NewService(provider SourceProvider, storage BOMStore) *Service {
	return &Service{provider: provider, storage: storage}
}

type Result struct {
	Imported int                    `json:"imported"`
	Skipped  int                    `json:"skipped"`
	Errors   int                    `json:"errors"`
	Items    []storage.BOMIndexItem `json:"items"`
}

// ReconcilePool imports the new source records and returns the current
// unallocated pool. A failing article is counted and skipped, never aborts
// the run.
func (s *Service) ReconcilePool(ctx context.Context) (*Result, error) {
	const op = "service.importer.ReconcilePool"

	articles, err := s.provider.ListArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: list source articles: %w", op, err)
	}

	result := &Result{}
	for _, article := range articles {
		artNo := strings.TrimSpace(article.ArtNo)
		if artNo == "" {
			result.Skipped++
			continue
		}

		exists, err := s.storage.ExistsByNaturalKey(ctx, artNo, article.SetNo)
		if err != nil {
			result.Errors++
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		bom, err := s.provider.LoadArticleBOM(ctx, article.SheetName)
		if err != nil {
			result.Errors++
			continue
		}
		if len(bom.Combos) == 0 {
			result.Skipped++
			continue
		}

		header := bom.Header
		if header.ArtNo == "" {
			header.ArtNo = artNo
		}
		if header.SetNo == "" {
			header.SetNo = article.SetNo
		}
		header.SheetName = article.SheetName

		if _, err := s.storage.SaveBOM(ctx, "", header, bom.Combos); err != nil {
			result.Errors++
			continue
		}
		result.Imported++
	}

	pool, err := s.storage.GetBOMIndex(ctx, storage.BOMFilter{Status: storage.StatusUnallocated})
	if err != nil {
		return nil, fmt.Errorf("%s: load pool: %w", op, err)
	}
	result.Items = pool

	return result, nil
}
