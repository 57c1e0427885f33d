package storage

import "errors"

// Allocation states of a BOM. A BOM belongs to at most one dyeing plan;
// DplanNo is empty while unallocated.
const (
	StatusUnallocated = "UNALLOCATED"
	StatusAllocated   = "ALLOCATED"
)

// Units a BOM line can be counted in.
const (
	UnitKg    = "kg"
	UnitPcs   = "Pcs"
	UnitMeter = "Meter"
	UnitCuts  = "Cuts"
)

var Units = []string{UnitKg, UnitPcs, UnitMeter, UnitCuts}

var (
	ErrBOMNotFound   = errors.New("BOM not found")
	ErrNoCombos      = errors.New("BOM must contain at least one combo")
	ErrNoLines       = errors.New("combo must contain at least one BOM line")
	ErrBlankPlanNo   = errors.New("dplan_no is required")
	ErrBlankArtNo    = errors.New("art_no is required")
	ErrSheetExists   = errors.New("article sheet already exists")
	ErrSheetNotFound = errors.New("article sheet not found")
)

type BOMLine struct {
	FabricQuality    string `json:"fabric_quality"`
	FcNo             string `json:"fc_no"`
	PlanRatGsm       string `json:"plan_rat_gsm"`
	Priority         string `json:"priority"`
	Component        string `json:"component"`
	Avg              Float  `json:"avg"`
	Unit             string `json:"unit"`
	ExtraPcs         Float  `json:"extra_pcs"`
	WastagePcs       Float  `json:"wastage_pcs"`
	Shortage         Float  `json:"shortage"`
	ReadyFabricNeed  Float  `json:"ready_fabric_need"`
	GreigeFabricNeed Float  `json:"greige_fabric_need"`
	NoOfRolls        Float  `json:"no_of_rolls"`
	GreigeIsManual   bool   `json:"greige_is_manual"`
}

type Combo struct {
	ComboSrNo int       `json:"combo_sr_no"`
	ComboName string    `json:"combo_name"`
	LotNo     string    `json:"lot_no"`
	LotCount  int       `json:"lot_count"`
	ColorID   string    `json:"color_id"`
	ColorCode string    `json:"color_code"`
	ColorName string    `json:"color_name"`
	PlanQty   Float     `json:"plan_qty"`
	BomLines  []BOMLine `json:"bom_lines"`
}

// BOMHeader. PlanQty is always the sum of the combo quantities and is
// recomputed on every save; Status and DplanNo change only through the
// allocation paths.
type BOMHeader struct {
	UID        string `json:"uid,omitempty"`
	ArtNo      string `json:"art_no"`
	SetNo      string `json:"set_no"`
	Season     string `json:"season"`
	Buyer      string `json:"buyer"`
	PlanDate   string `json:"plan_date"`
	PlanQty    Float  `json:"plan_qty"`
	Remarks    string `json:"remarks"`
	ComboCount int    `json:"combo_count"`
	LineCount  int    `json:"line_count"`
	Status     string `json:"status"`
	DplanNo    string `json:"dplan_no"`
	SheetName  string `json:"sheet_name"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
	CreatedBy  string `json:"created_by"`
}

type BOM struct {
	Header BOMHeader `json:"header"`
	Combos []Combo   `json:"combos"`
}

// BOMIndexItem is the header-only listing row.
type BOMIndexItem struct {
	UID        string `json:"uid"`
	ArtNo      string `json:"art_no"`
	SetNo      string `json:"set_no"`
	Season     string `json:"season"`
	Buyer      string `json:"buyer"`
	PlanDate   string `json:"plan_date"`
	PlanQty    Float  `json:"plan_qty"`
	Remarks    string `json:"remarks"`
	ComboCount int    `json:"combo_count"`
	LineCount  int    `json:"line_count"`
	Status     string `json:"status"`
	DplanNo    string `json:"dplan_no"`
	SheetName  string `json:"sheet_name"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
	CreatedBy  string `json:"created_by"`
}

// BOMFilter narrows index listings; empty fields match everything.
type BOMFilter struct {
	Status  string
	DplanNo string
}

// DyeingPlan is a grouping of allocated BOMs, aggregated on read.
type DyeingPlan struct {
	DplanNo   string `json:"dplan_no"`
	BomCount  int    `json:"bom_count"`
	TotalQty  Float  `json:"total_qty"`
	CreatedBy string `json:"created_by"`
}

// ValidateBOM rejects drafts that would leave a BOM without combos or a
// combo without lines. Checked before any write so a bad draft never
// replaces good state.
func ValidateBOM(combos []Combo) error {
	if len(combos) == 0 {
		return ErrNoCombos
	}
	for _, c := range combos {
		if len(c.BomLines) == 0 {
			return ErrNoLines
		}
	}
	return nil
}
