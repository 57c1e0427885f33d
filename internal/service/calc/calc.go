// Package calc derives fabric quantities from raw BOM inputs. Every
// function is pure: no storage access, no mutation of arguments, and no
// failure path (bad numbers coerce to zero).
package calc

import (
	"math"

	"dyeing-bom/internal/storage"
)

// DefaultRollSize is the assumed greige roll weight in kg used for the
// roll-count estimate on weight-counted lines.
const DefaultRollSize = 25.0

// ReadyFabricNeed is the finished (dyed) fabric requirement of one line:
// the combo quantity inflated by the extra and wastage rates, times the
// per-piece average consumption.
func ReadyFabricNeed(combo storage.Combo, line storage.BOMLine) float64 {
	qty := num(combo.PlanQty)
	return (qty + qty*num(line.ExtraPcs) + qty*num(line.WastagePcs)) * num(line.Avg)
}

// GreigeFabricNeed is the raw fabric to procure. Weight-counted lines take
// the ready need inflated by the processing shortage rate. Piece-counted
// lines do not shrink, so the caller-entered figure is returned untouched.
func GreigeFabricNeed(combo storage.Combo, line storage.BOMLine) float64 {
	if line.Unit == storage.UnitPcs {
		return num(line.GreigeFabricNeed)
	}
	return ReadyFabricNeed(combo, line) * (1 + num(line.Shortage))
}

// NoOfRolls estimates roll count for kg lines; other units have no
// meaningful roll equivalent.
func NoOfRolls(line storage.BOMLine, greigeNeed float64) float64 {
	if line.Unit != storage.UnitKg {
		return 0
	}
	return greigeNeed / DefaultRollSize
}

// Recalculate normalizes a BOM draft before it is persisted: combo serial
// numbers are renumbered contiguously from 1, the derived line fields are
// snapshotted from the raw inputs, and the header totals are recomputed
// from the combos. The stored derived values are a convenience copy; the
// raw inputs stay the source of truth.
func Recalculate(header *storage.BOMHeader, combos []storage.Combo) {
	var totalQty float64
	lineCount := 0

	for ci := range combos {
		combo := &combos[ci]
		combo.ComboSrNo = ci + 1
		if combo.LotCount == 0 {
			combo.LotCount = 1
		}
		totalQty += num(combo.PlanQty)

		for li := range combo.BomLines {
			line := &combo.BomLines[li]

			ready := ReadyFabricNeed(*combo, *line)
			greige := GreigeFabricNeed(*combo, *line)

			line.ReadyFabricNeed = storage.Float(ready)
			line.GreigeFabricNeed = storage.Float(greige)
			line.NoOfRolls = storage.Float(NoOfRolls(*line, greige))
			line.GreigeIsManual = line.Unit == storage.UnitPcs
			lineCount++
		}
	}

	header.PlanQty = storage.Float(totalQty)
	header.ComboCount = len(combos)
	header.LineCount = lineCount
}

// num collapses the values float64 arithmetic cannot safely propagate.
func num(f storage.Float) float64 {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
