package storage

// Article is a realized working sheet in the planning workbook.
type Article struct {
	SheetName string `json:"sheet_name"`
	ArtNo     string `json:"art_no"`
	SetNo     string `json:"set_no"`
	Season    string `json:"season"`
	PlanQty   Float  `json:"plan_qty"`
	Buyer     string `json:"buyer"`
	PlanDate  string `json:"plan_date"`
	Remarks   string `json:"remarks"`
}

// MasterArticle is a template entry not yet materialized as a sheet.
type MasterArticle struct {
	ArtNo      string `json:"art_no"`
	SketchLink string `json:"sketch_link"`
}

type Color struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type FabricQuality struct {
	Quality     string `json:"quality"`
	Unit        string `json:"unit"`
	AvgRollSize Float  `json:"avg_roll_size"`
}

type MasterData struct {
	Articles       []Article       `json:"articles"`
	Colors         []Color         `json:"colors"`
	Components     []string        `json:"components"`
	Units          []string        `json:"units"`
	MasterArticles []MasterArticle `json:"master_articles"`
	Fabrics        []FabricQuality `json:"fabrics"`
}
