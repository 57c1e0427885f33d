package importer

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dyeing-bom/internal/storage"
)

type fakeProvider struct {
	articles []storage.Article
	boms     map[string]*storage.BOM
}

func (p *fakeProvider) ListArticles(ctx context.Context) ([]storage.Article, error) {
	return p.articles, nil
}

func (p *fakeProvider) LoadArticleBOM(ctx context.Context, sheetName string) (*storage.BOM, error) {
	bom, ok := p.boms[sheetName]
	if !ok {
		return nil, fmt.Errorf("sheet=%s: %w", sheetName, storage.ErrSheetNotFound)
	}
	return bom, nil
}

type savedBOM struct {
	header storage.BOMHeader
	combos []storage.Combo
}

type fakeStore struct {
	seq  int
	boms map[string]savedBOM
}

func newFakeStore() *fakeStore {
	return &fakeStore{boms: map[string]savedBOM{}}
}

func (s *fakeStore) ExistsByNaturalKey(ctx context.Context, artNo, setNo string) (bool, error) {
	for _, bom := range s.boms {
		if bom.header.ArtNo == artNo && bom.header.SetNo == setNo {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) SaveBOM(ctx context.Context, uid string, header storage.BOMHeader, combos []storage.Combo) (string, error) {
	if err := storage.ValidateBOM(combos); err != nil {
		return "", err
	}
	if uid == "" {
		s.seq++
		uid = fmt.Sprintf("BOM-20260830-%03d", s.seq)
	}
	header.UID = uid
	header.Status = storage.StatusUnallocated
	s.boms[uid] = savedBOM{header: header, combos: combos}
	return uid, nil
}

func (s *fakeStore) GetBOMIndex(ctx context.Context, filter storage.BOMFilter) ([]storage.BOMIndexItem, error) {
	items := []storage.BOMIndexItem{}
	for uid, bom := range s.boms {
		if filter.Status != "" && bom.header.Status != filter.Status {
			continue
		}
		items = append(items, storage.BOMIndexItem{
			UID:       uid,
			ArtNo:     bom.header.ArtNo,
			SetNo:     bom.header.SetNo,
			Status:    bom.header.Status,
			SheetName: bom.header.SheetName,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].UID < items[j].UID })
	return items, nil
}

func demoBOM(artNo, setNo string) *storage.BOM {
	return &storage.BOM{
		Header: storage.BOMHeader{ArtNo: artNo, SetNo: setNo},
		Combos: []storage.Combo{{
			ComboName: "RED LOT",
			PlanQty:   1000,
			BomLines: []storage.BOMLine{{
				FabricQuality: "S/J 160 GSM",
				Component:     "BODY",
				Avg:           0.25,
				Unit:          storage.UnitKg,
			}},
		}},
	}
}

func TestReconcilePool_ImportsNewArticles(t *testing.T) {
	provider := &fakeProvider{
		articles: []storage.Article{
			{SheetName: "1307 HI", ArtNo: "1307", SetNo: "HI"},
			{SheetName: "1405 PQ", ArtNo: "1405", SetNo: "PQ"},
		},
		boms: map[string]*storage.BOM{
			"1307 HI": demoBOM("1307", "HI"),
			"1405 PQ": demoBOM("1405", "PQ"),
		},
	}
	store := newFakeStore()
	service := NewService(provider, store)

	result, err := service.ReconcilePool(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Errors)
	require.Len(t, result.Items, 2)
	assert.Equal(t, storage.StatusUnallocated, result.Items[0].Status)
	assert.Equal(t, "1307 HI", result.Items[0].SheetName)
}

func TestReconcilePool_SecondRunImportsNothing(t *testing.T) {
	provider := &fakeProvider{
		articles: []storage.Article{{SheetName: "1307 HI", ArtNo: "1307", SetNo: "HI"}},
		boms:     map[string]*storage.BOM{"1307 HI": demoBOM("1307", "HI")},
	}
	store := newFakeStore()
	service := NewService(provider, store)

	result, err := service.ReconcilePool(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	result, err = service.ReconcilePool(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Items, 1)
}

func TestReconcilePool_SkipsBlankAndEmptyArticles(t *testing.T) {
	empty := &storage.BOM{Header: storage.BOMHeader{ArtNo: "1502", SetNo: "RS"}}
	provider := &fakeProvider{
		articles: []storage.Article{
			{SheetName: "MASTER DATA", ArtNo: "  "},
			{SheetName: "1502 RS", ArtNo: "1502", SetNo: "RS"},
		},
		boms: map[string]*storage.BOM{"1502 RS": empty},
	}
	store := newFakeStore()
	service := NewService(provider, store)

	result, err := service.ReconcilePool(context.Background())
	require.NoError(t, err)

	// a blank art_no and a combo-less sheet are both skipped, not errors
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 0, result.Errors)
}

func TestReconcilePool_CountsFailingArticles(t *testing.T) {
	provider := &fakeProvider{
		articles: []storage.Article{
			{SheetName: "GONE", ArtNo: "9999", SetNo: "XX"},
			{SheetName: "1307 HI", ArtNo: "1307", SetNo: "HI"},
		},
		boms: map[string]*storage.BOM{"1307 HI": demoBOM("1307", "HI")},
	}
	store := newFakeStore()
	service := NewService(provider, store)

	result, err := service.ReconcilePool(context.Background())
	require.NoError(t, err)

	// the broken sheet does not abort the run
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 1, result.Imported)
}

func TestReconcilePool_FillsHeaderFromArticle(t *testing.T) {
	bom := demoBOM("", "")
	provider := &fakeProvider{
		articles: []storage.Article{{SheetName: "1307 HI", ArtNo: "1307", SetNo: "HI"}},
		boms:     map[string]*storage.BOM{"1307 HI": bom},
	}
	store := newFakeStore()
	service := NewService(provider, store)

	result, err := service.ReconcilePool(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	exists, err := store.ExistsByNaturalKey(context.Background(), "1307", "HI")
	require.NoError(t, err)
	assert.True(t, exists)
}
