package masterdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dyeing-bom/internal/config"
	"dyeing-bom/internal/storage"
)

func TestNew_FallsBackToDemo(t *testing.T) {
	provider := New(config.Config{})
	assert.True(t, provider.DemoMode())

	provider = New(config.Config{BOMWorkbookPath: "/no/such/workbook.xlsx"})
	assert.True(t, provider.DemoMode())
	assert.Contains(t, provider.StatusMessage(), "demo mode")
}

func TestNew_PrefersWorkbook(t *testing.T) {
	provider := New(config.Config{BOMWorkbookPath: newTestWorkbook(t)})
	assert.False(t, provider.DemoMode())
}

func TestLoadAll_CombinesCatalogs(t *testing.T) {
	provider := NewDemoProvider("demo")

	data, err := LoadAll(context.Background(), provider)
	require.NoError(t, err)

	assert.Len(t, data.Articles, 3)
	assert.Len(t, data.MasterArticles, 3)
	assert.NotEmpty(t, data.Colors)
	assert.NotEmpty(t, data.Components)
	assert.NotEmpty(t, data.Fabrics)
	assert.Equal(t, storage.Units, data.Units)
}

func TestDemoProvider_LoadArticleBOM(t *testing.T) {
	provider := NewDemoProvider("demo")

	bom, err := provider.LoadArticleBOM(context.Background(), "1405 PQ")
	require.NoError(t, err)

	// set_no follows the requested demo article
	assert.Equal(t, "1405 PQ", bom.Header.ArtNo)
	assert.Equal(t, "2610", bom.Header.SetNo)
	require.Len(t, bom.Combos, 2)
	require.NotEmpty(t, bom.Combos[0].BomLines)
	assert.Equal(t, storage.Float(0.28), bom.Combos[0].BomLines[0].Avg)
}

func TestDemoProvider_MaterializeArticle(t *testing.T) {
	provider := NewDemoProvider("demo")
	ctx := context.Background()

	sheetName, err := provider.MaterializeArticle(ctx, "9999 ZZ")
	require.NoError(t, err)
	assert.Equal(t, "9999 ZZ", sheetName)

	_, err = provider.MaterializeArticle(ctx, "9999 ZZ")
	assert.True(t, errors.Is(err, storage.ErrSheetExists))

	// built-in demo articles count as existing sheets
	_, err = provider.MaterializeArticle(ctx, "1307 HI")
	assert.True(t, errors.Is(err, storage.ErrSheetExists))

	_, err = provider.MaterializeArticle(ctx, "")
	assert.True(t, errors.Is(err, storage.ErrBlankArtNo))
}
