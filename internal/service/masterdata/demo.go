package masterdata

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"dyeing-bom/internal/storage"
)

// DemoProvider serves a small fixed catalog so the BOM engine can run
// without a workbook. Materialized articles live only in memory.
type DemoProvider struct {
	message string

	mu      sync.Mutex
	created map[string]bool
}

func NewDemoProvider(message string) *DemoProvider {
	return &DemoProvider{
		message: message,
		created: map[string]bool{},
	}
}

func (p *DemoProvider) DemoMode() bool        { return true }
func (p *DemoProvider) StatusMessage() string { return p.message }

func (p *DemoProvider) ListArticles(ctx context.Context) ([]storage.Article, error) {
	return []storage.Article{
		{SheetName: "1307 HI", ArtNo: "1307 HI", SetNo: "2609", Season: "SUMMER-2025", PlanQty: 5000, Buyer: "DEMO BUYER"},
		{SheetName: "1405 PQ", ArtNo: "1405 PQ", SetNo: "2610", Season: "SUMMER-2025", PlanQty: 3000, Buyer: "DEMO BUYER"},
		{SheetName: "1502 RS", ArtNo: "1502 RS", SetNo: "2611", Season: "WINTER-2025", PlanQty: 4000, Buyer: "TEST BUYER"},
	}, nil
}

func (p *DemoProvider) ListMasterArticles(ctx context.Context) ([]storage.MasterArticle, error) {
	return []storage.MasterArticle{
		{ArtNo: "1307 HI"},
		{ArtNo: "1405 PQ"},
		{ArtNo: "1502 RS"},
	}, nil
}

func (p *DemoProvider) ListColors(ctx context.Context) ([]storage.Color, error) {
	return []storage.Color{
		{ID: "B91 / DESERT BROWN", Code: "B91", Name: "DESERT BROWN"},
		{ID: "979 / DRY GRASS", Code: "979", Name: "DRY GRASS"},
		{ID: "A12 / NAVY BLUE", Code: "A12", Name: "NAVY BLUE"},
		{ID: "C45 / OLIVE GREEN", Code: "C45", Name: "OLIVE GREEN"},
		{ID: "D78 / CHARCOAL", Code: "D78", Name: "CHARCOAL"},
	}, nil
}

func (p *DemoProvider) ListComponents(ctx context.Context) ([]string, error) {
	return []string{
		"FR+BK+SLV+MOON+PKT+PLKT+NK TAPE",
		"COLLAR (17\")",
		"CUFF",
		"POCKET",
		"PLACKET",
	}, nil
}

func (p *DemoProvider) ListFabrics(ctx context.Context) ([]storage.FabricQuality, error) {
	return []storage.FabricQuality{
		{Quality: "HONEYCOMB BOX KNIT 24'S P/C (20/80) 180GSM/68\"", Unit: storage.UnitKg, AvgRollSize: 25},
		{Quality: "FLAT COLLARS 17\"X3.25\"-36/42", Unit: storage.UnitPcs, AvgRollSize: 100},
		{Quality: "SINGLE JERSEY 30'S COMBED 150GSM/72\"", Unit: storage.UnitKg, AvgRollSize: 25},
		{Quality: "RIB 1X1 30'S COMBED 200GSM/36\"", Unit: storage.UnitKg, AvgRollSize: 20},
	}, nil
}

func (p *DemoProvider) LoadArticleBOM(ctx context.Context, sheetName string) (*storage.BOM, error) {
	line := storage.BOMLine{
		FabricQuality: "HONEYCOMB BOX KNIT 24'S P/C (20/80) 180GSM/68\"",
		PlanRatGsm:    "180/68",
		Priority:      "1",
		Component:     "FR+BK+SLV+MOON+PKT+PLKT+NK TAPE",
		Avg:           0.28,
		Unit:          storage.UnitKg,
		ExtraPcs:      0.1,
		WastagePcs:    0.05,
		Shortage:      0.1,
	}

	setNo := "2609"
	for _, article := range p.demoArticles() {
		if article.SheetName == sheetName {
			setNo = article.SetNo
		}
	}

	return &storage.BOM{
		Header: storage.BOMHeader{
			ArtNo:     sheetName,
			SetNo:     setNo,
			Season:    "SUMMER-2025",
			Buyer:     "DEMO BUYER",
			PlanQty:   5000,
			PlanDate:  "2025-06-15",
			Remarks:   "Demo BOM entry",
			SheetName: sheetName,
		},
		Combos: []storage.Combo{
			{
				ComboSrNo: 1,
				ComboName: "DESERT BROWN",
				ColorID:   "B91 / DESERT BROWN",
				ColorCode: "B91",
				ColorName: "DESERT BROWN",
				PlanQty:   3000,
				BomLines:  []storage.BOMLine{line},
			},
			{
				ComboSrNo: 2,
				ComboName: "DRY GRASS",
				ColorID:   "979 / DRY GRASS",
				ColorCode: "979",
				ColorName: "DRY GRASS",
				PlanQty:   2000,
				BomLines:  []storage.BOMLine{line},
			},
		},
	}, nil
}

func (p *DemoProvider) demoArticles() []storage.Article {
	articles, _ := p.ListArticles(context.Background())
	return articles
}

func (p *DemoProvider) MaterializeArticle(ctx context.Context, artNo string) (string, error) {
	const op = "service.masterdata.demo.MaterializeArticle"

	artNo = strings.TrimSpace(artNo)
	if artNo == "" {
		return "", fmt.Errorf("%s: %w", op, storage.ErrBlankArtNo)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.created[artNo] {
		return "", fmt.Errorf("%s: %q: %w", op, artNo, storage.ErrSheetExists)
	}
	for _, article := range p.demoArticles() {
		if article.SheetName == artNo {
			return "", fmt.Errorf("%s: %q: %w", op, artNo, storage.ErrSheetExists)
		}
	}

	p.created[artNo] = true
	return artNo, nil
}
