package masterdata

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"dyeing-bom/internal/storage"
)

// Tabs of the planning workbook that are not article sheets.
var skipSheets = []string{
	"MASTER DATA",
	"FABRIC MASTERDATA",
	"DUMMY",
	"Automation",
	"Planning",
	"details",
	"EXTRA",
}

// templateSheet is copied when a new article is materialized.
const templateSheet = "DUMMY"

// WorkbookProvider reads master data from the planning workbook. The
// workbook keeps the layout of the production sheet: article header cells
// at fixed positions, BOM rows from row 16, catalogs in the MASTER DATA and
// FABRIC MASTERDATA tabs.
type WorkbookProvider struct {
	path string
	mu   sync.RWMutex
}

func NewWorkbookProvider(path string) *WorkbookProvider {
	return &WorkbookProvider{path: path}
}

func (p *WorkbookProvider) DemoMode() bool { return false }

func (p *WorkbookProvider) StatusMessage() string {
	return "connected to planning workbook"
}

func (p *WorkbookProvider) open() (*excelize.File, error) {
	return excelize.OpenFile(p.path)
}

func isArticleSheet(name string) bool {
	if strings.HasPrefix(name, "_") {
		return false
	}
	for _, skip := range skipSheets {
		if name == skip {
			return false
		}
	}
	return true
}

func (p *WorkbookProvider) ListArticles(ctx context.Context) ([]storage.Article, error) {
	const op = "service.masterdata.ListArticles"

	p.mu.RLock()
	defer p.mu.RUnlock()

	f, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	articles := []storage.Article{}
	for _, name := range f.GetSheetList() {
		if !isArticleSheet(name) {
			continue
		}
		articles = append(articles, readArticleHeader(f, name))
	}

	return articles, nil
}

// Article header cell positions, fixed by the production sheet layout.
func readArticleHeader(f *excelize.File, sheet string) storage.Article {
	article := storage.Article{
		SheetName: sheet,
		ArtNo:     cellValue(f, sheet, "P2"),
		SetNo:     cellValue(f, sheet, "P3"),
		Season:    cellValue(f, sheet, "O1"),
		Buyer:     cellValue(f, sheet, "W3"),
		PlanDate:  cellValue(f, sheet, "T1"),
		Remarks:   cellValue(f, sheet, "O5"),
		PlanQty:   storage.Float(parseFloat(cellValue(f, sheet, "W2"))),
	}
	if article.ArtNo == "" {
		article.ArtNo = sheet
	}
	return article
}

func (p *WorkbookProvider) ListMasterArticles(ctx context.Context) ([]storage.MasterArticle, error) {
	const op = "service.masterdata.ListMasterArticles"

	p.mu.RLock()
	defer p.mu.RUnlock()

	f, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	rows, err := f.GetRows("MASTER DATA")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	articles := []storage.MasterArticle{}
	seen := map[string]bool{}

	// Columns I and J, data from row 2
	for i, row := range rows {
		if i == 0 {
			continue
		}
		artNo := strings.TrimSpace(cell(row, 8))
		if artNo == "" || seen[artNo] {
			continue
		}
		seen[artNo] = true
		articles = append(articles, storage.MasterArticle{
			ArtNo:      artNo,
			SketchLink: strings.TrimSpace(cell(row, 9)),
		})
	}

	return articles, nil
}

func (p *WorkbookProvider) ListColors(ctx context.Context) ([]storage.Color, error) {
	const op = "service.masterdata.ListColors"

	p.mu.RLock()
	defer p.mu.RUnlock()

	f, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	rows, err := f.GetRows("MASTER DATA")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	colors := []storage.Color{}

	// Columns C (id), D (code), E (name), data from row 2
	for i, row := range rows {
		if i == 0 {
			continue
		}
		name := strings.TrimSpace(cell(row, 4))
		if name == "" {
			continue
		}
		colors = append(colors, storage.Color{
			ID:   strings.TrimSpace(cell(row, 2)),
			Code: strings.TrimSpace(cell(row, 3)),
			Name: name,
		})
	}

	return colors, nil
}

func (p *WorkbookProvider) ListComponents(ctx context.Context) ([]string, error) {
	const op = "service.masterdata.ListComponents"

	p.mu.RLock()
	defer p.mu.RUnlock()

	f, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	rows, err := f.GetRows("MASTER DATA")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	components := []string{}
	seen := map[string]bool{}

	// Column A, data from row 2
	for i, row := range rows {
		if i == 0 {
			continue
		}
		component := strings.TrimSpace(cell(row, 0))
		if component == "" || seen[component] {
			continue
		}
		seen[component] = true
		components = append(components, component)
	}

	return components, nil
}

func (p *WorkbookProvider) ListFabrics(ctx context.Context) ([]storage.FabricQuality, error) {
	const op = "service.masterdata.ListFabrics"

	p.mu.RLock()
	defer p.mu.RUnlock()

	f, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	rows, err := f.GetRows("FABRIC MASTERDATA")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fabrics := []storage.FabricQuality{}
	seen := map[string]bool{}

	// Column I (quality), J (avg roll size), K (unit), data from row 3
	for i, row := range rows {
		if i < 2 {
			continue
		}
		quality := strings.TrimSpace(cell(row, 8))
		if quality == "" || seen[quality] {
			continue
		}
		seen[quality] = true

		unit := strings.TrimSpace(cell(row, 10))
		if unit == "" {
			unit = storage.UnitKg
		}
		rollSize := parseFloat(cell(row, 9))
		if rollSize == 0 {
			rollSize = 25
		}

		fabrics = append(fabrics, storage.FabricQuality{
			Quality:     quality,
			Unit:        unit,
			AvgRollSize: storage.Float(rollSize),
		})
	}

	return fabrics, nil
}

// LoadArticleBOM parses the BOM block of an article sheet (rows 16 and
// below). A row whose component column reads "Planning Qnty" opens a new
// combo; the rows after it carry that combo's lines until the next marker.
func (p *WorkbookProvider) LoadArticleBOM(ctx context.Context, sheetName string) (*storage.BOM, error) {
	const op = "service.masterdata.LoadArticleBOM"

	p.mu.RLock()
	defer p.mu.RUnlock()

	f, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	if !sheetExists(f, sheetName) {
		return nil, fmt.Errorf("%s: %q: %w", op, sheetName, storage.ErrSheetNotFound)
	}

	article := readArticleHeader(f, sheetName)
	header := storage.BOMHeader{
		ArtNo:     article.ArtNo,
		SetNo:     article.SetNo,
		Season:    article.Season,
		Buyer:     article.Buyer,
		PlanDate:  article.PlanDate,
		PlanQty:   article.PlanQty,
		Remarks:   article.Remarks,
		SheetName: sheetName,
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	combos := []storage.Combo{}
	var current *storage.Combo

	for i, row := range rows {
		if i < 15 {
			continue
		}

		component := strings.TrimSpace(cell(row, 14))
		fabricQuality := strings.TrimSpace(cell(row, 10))

		if component == "Planning Qnty" {
			if current != nil {
				combos = append(combos, *current)
			}
			current = &storage.Combo{
				ComboSrNo: parseInt(cell(row, 3), 1),
				ComboName: cell(row, 4),
				LotNo:     cell(row, 5),
				LotCount:  parseInt(cell(row, 6), 1),
				ColorID:   cell(row, 7),
				ColorCode: cell(row, 8),
				ColorName: cell(row, 9),
				PlanQty:   storage.Float(parseFloat(cell(row, 17))),
				BomLines:  []storage.BOMLine{},
			}
			continue
		}

		if current == nil || (fabricQuality == "" && component == "") {
			continue
		}

		current.BomLines = append(current.BomLines, storage.BOMLine{
			FabricQuality:    fabricQuality,
			FcNo:             cell(row, 11),
			PlanRatGsm:       cell(row, 12),
			Priority:         cell(row, 13),
			Component:        component,
			Avg:              storage.Float(parseFloat(cell(row, 15))),
			Unit:             cell(row, 16),
			ExtraPcs:         storage.Float(parseFloat(cell(row, 18))),
			WastagePcs:       storage.Float(parseFloat(cell(row, 19))),
			ReadyFabricNeed:  storage.Float(parseFloat(cell(row, 20))),
			Shortage:         storage.Float(parseFloat(cell(row, 21))),
			GreigeFabricNeed: storage.Float(parseFloat(cell(row, 22))),
		})
	}
	if current != nil {
		combos = append(combos, *current)
	}

	return &storage.BOM{Header: header, Combos: combos}, nil
}

// MaterializeArticle copies the DUMMY template into a new sheet named after
// the article and stamps the article number into it.
func (p *WorkbookProvider) MaterializeArticle(ctx context.Context, artNo string) (string, error) {
	const op = "service.masterdata.MaterializeArticle"

	artNo = strings.TrimSpace(artNo)
	if artNo == "" {
		return "", fmt.Errorf("%s: %w", op, storage.ErrBlankArtNo)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := p.open()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	if sheetExists(f, artNo) {
		return "", fmt.Errorf("%s: %q: %w", op, artNo, storage.ErrSheetExists)
	}

	templateIdx, err := f.GetSheetIndex(templateSheet)
	if err != nil || templateIdx < 0 {
		return "", fmt.Errorf("%s: %q template: %w", op, templateSheet, storage.ErrSheetNotFound)
	}

	newIdx, err := f.NewSheet(artNo)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := f.CopySheet(templateIdx, newIdx); err != nil {
		return "", fmt.Errorf("%s: copy template: %w", op, err)
	}
	if err := f.SetCellValue(artNo, "P2", artNo); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := f.Save(); err != nil {
		return "", fmt.Errorf("%s: save workbook: %w", op, err)
	}

	return artNo, nil
}

func sheetExists(f *excelize.File, name string) bool {
	for _, sheet := range f.GetSheetList() {
		if sheet == name {
			return true
		}
	}
	return false
}

func cellValue(f *excelize.File, sheet, axis string) string {
	value, err := f.GetCellValue(sheet, axis)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return v
}
