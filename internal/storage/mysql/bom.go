package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"dyeing-bom/internal/service/calc"
	"dyeing-bom/internal/storage"
)

const savedBy = "webapp_user"

// SaveBOM creates a new BOM when uid is empty, otherwise replaces the
// stored one. The draft is validated and recalculated first, so the header
// total can never drift from the combos. Replacing preserves status,
// dplan_no and the creation stamp: allocation linkage changes only through
// AllocateBOM/UnallocateBOM.
func (s *Storage) SaveBOM(ctx context.Context, uid string, header storage.BOMHeader, combos []storage.Combo) (string, error) {
	const op = "storage.mysql.SaveBOM"

	if err := storage.ValidateBOM(combos); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	calc.Recalculate(&header, combos)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	now := time.Now().Format(time.RFC3339)

	if uid == "" {
		uid, err = nextBOMUID(ctx, tx)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}

		sheetName := header.SheetName
		if sheetName == "" {
			sheetName = header.ArtNo
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO bom_index (uid, art_no, set_no, season, buyer, plan_date, plan_qty, remarks,
				combo_count, line_count, status, dplan_no, sheet_name, created_at, updated_at, created_by)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uid, header.ArtNo, header.SetNo, header.Season, header.Buyer, header.PlanDate,
			header.PlanQty, header.Remarks, header.ComboCount, header.LineCount,
			storage.StatusUnallocated, "", sheetName, now, now, savedBy)
		if err != nil {
			var mysqlErr *mysql.MySQLError
			if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
				return "", fmt.Errorf("%s: BOM for article %q set %q already exists: %w", op, header.ArtNo, header.SetNo, err)
			}
			return "", fmt.Errorf("%s: %w", op, err)
		}
	} else {
		// Existing record: the allocation fields are read back and written
		// out unchanged.
		var status, dplanNo string
		err = tx.QueryRowContext(ctx,
			`SELECT status, dplan_no FROM bom_index WHERE uid = ? FOR UPDATE`, uid,
		).Scan(&status, &dplanNo)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return "", fmt.Errorf("%s: uid=%s: %w", op, uid, storage.ErrBOMNotFound)
			}
			return "", fmt.Errorf("%s: %w", op, err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE bom_index
			SET art_no = ?, set_no = ?, season = ?, buyer = ?, plan_date = ?, plan_qty = ?,
				remarks = ?, combo_count = ?, line_count = ?, status = ?, dplan_no = ?, updated_at = ?
			WHERE uid = ?`,
			header.ArtNo, header.SetNo, header.Season, header.Buyer, header.PlanDate,
			header.PlanQty, header.Remarks, header.ComboCount, header.LineCount,
			status, dplanNo, now, uid)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM bom_combos WHERE uid = ?`, uid); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM bom_lines WHERE uid = ?`, uid); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	comboStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bom_combos (uid, combo_sr_no, combo_name, lot_no, lot_count, color_id, color_code, color_name, plan_qty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("%s: prepare combo statement: %w", op, err)
	}

	lineStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bom_lines (uid, combo_sr_no, line_order, fabric_quality, fc_no, plan_rat_gsm, priority,
			component, avg, unit, extra_pcs, wastage_pcs, shortage, ready_fabric_need, greige_fabric_need,
			no_of_rolls, greige_is_manual)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("%s: prepare line statement: %w", op, err)
	}

	for _, combo := range combos {
		_, err = comboStmt.ExecContext(ctx, uid, combo.ComboSrNo, combo.ComboName, combo.LotNo,
			combo.LotCount, combo.ColorID, combo.ColorCode, combo.ColorName, combo.PlanQty)
		if err != nil {
			return "", fmt.Errorf("%s: insert combo %d: %w", op, combo.ComboSrNo, err)
		}

		for i, line := range combo.BomLines {
			_, err = lineStmt.ExecContext(ctx, uid, combo.ComboSrNo, i+1,
				line.FabricQuality, line.FcNo, line.PlanRatGsm, line.Priority, line.Component,
				line.Avg, line.Unit, line.ExtraPcs, line.WastagePcs, line.Shortage,
				line.ReadyFabricNeed, line.GreigeFabricNeed, line.NoOfRolls, line.GreigeIsManual)
			if err != nil {
				return "", fmt.Errorf("%s: insert line %d of combo %d: %w", op, i+1, combo.ComboSrNo, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return uid, nil
}

// nextBOMUID issues BOM-YYYYMMDD-NNN, NNN restarting each day. Runs inside
// the save transaction so two creates cannot draw the same number.
func nextBOMUID(ctx context.Context, tx *sql.Tx) (string, error) {
	prefix := "BOM-" + time.Now().Format("20060102") + "-"

	rows, err := tx.QueryContext(ctx, `SELECT uid FROM bom_index WHERE uid LIKE ? FOR UPDATE`, prefix+"%")
	if err != nil {
		return "", fmt.Errorf("scan existing uids: %w", err)
	}
	defer rows.Close()

	maxSeq := 0
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return "", err
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(uid, prefix))
		if err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%03d", prefix, maxSeq+1), nil
}

func (s *Storage) GetBOM(ctx context.Context, uid string) (*storage.BOM, error) {
	const op = "storage.mysql.GetBOM"

	var header storage.BOMHeader
	err := s.db.QueryRowContext(ctx, `
		SELECT uid, art_no, set_no, season, buyer, plan_date, plan_qty, remarks,
			combo_count, line_count, status, dplan_no, sheet_name, created_at, updated_at, created_by
		FROM bom_index WHERE uid = ?`, uid,
	).Scan(&header.UID, &header.ArtNo, &header.SetNo, &header.Season, &header.Buyer,
		&header.PlanDate, &header.PlanQty, &header.Remarks, &header.ComboCount, &header.LineCount,
		&header.Status, &header.DplanNo, &header.SheetName, &header.CreatedAt, &header.UpdatedAt, &header.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: uid=%s: %w", op, uid, storage.ErrBOMNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	combos, err := s.getCombos(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.BOM{Header: header, Combos: combos}, nil
}

func (s *Storage) getCombos(ctx context.Context, uid string) ([]storage.Combo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT combo_sr_no, combo_name, lot_no, lot_count, color_id, color_code, color_name, plan_qty
		FROM bom_combos WHERE uid = ? ORDER BY combo_sr_no`, uid)
	if err != nil {
		return nil, fmt.Errorf("query combos: %w", err)
	}
	defer rows.Close()

	var combos []storage.Combo
	bySrNo := make(map[int]int)

	for rows.Next() {
		var combo storage.Combo
		err := rows.Scan(&combo.ComboSrNo, &combo.ComboName, &combo.LotNo, &combo.LotCount,
			&combo.ColorID, &combo.ColorCode, &combo.ColorName, &combo.PlanQty)
		if err != nil {
			return nil, fmt.Errorf("scan combo: %w", err)
		}
		combo.BomLines = []storage.BOMLine{}
		bySrNo[combo.ComboSrNo] = len(combos)
		combos = append(combos, combo)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("scan combos: %w", err)
	}

	lineRows, err := s.db.QueryContext(ctx, `
		SELECT combo_sr_no, fabric_quality, fc_no, plan_rat_gsm, priority, component, avg, unit,
			extra_pcs, wastage_pcs, shortage, ready_fabric_need, greige_fabric_need, no_of_rolls, greige_is_manual
		FROM bom_lines WHERE uid = ? ORDER BY combo_sr_no, line_order`, uid)
	if err != nil {
		return nil, fmt.Errorf("query lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var srNo int
		var line storage.BOMLine
		err := lineRows.Scan(&srNo, &line.FabricQuality, &line.FcNo, &line.PlanRatGsm, &line.Priority,
			&line.Component, &line.Avg, &line.Unit, &line.ExtraPcs, &line.WastagePcs, &line.Shortage,
			&line.ReadyFabricNeed, &line.GreigeFabricNeed, &line.NoOfRolls, &line.GreigeIsManual)
		if err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		if idx, ok := bySrNo[srNo]; ok {
			combos[idx].BomLines = append(combos[idx].BomLines, line)
		}
	}
	if err = lineRows.Err(); err != nil {
		return nil, fmt.Errorf("scan lines: %w", err)
	}

	return combos, nil
}

func (s *Storage) GetBOMIndex(ctx context.Context, filter storage.BOMFilter) ([]storage.BOMIndexItem, error) {
	const op = "storage.mysql.GetBOMIndex"

	stmt := `
		SELECT uid, art_no, set_no, season, buyer, plan_date, plan_qty, remarks,
			combo_count, line_count, status, dplan_no, sheet_name, created_at, updated_at, created_by
		FROM bom_index WHERE 1=1`
	var args []interface{}

	if filter.Status != "" {
		stmt += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.DplanNo != "" {
		stmt += " AND dplan_no = ?"
		args = append(args, filter.DplanNo)
	}
	stmt += " ORDER BY uid"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []storage.BOMIndexItem{}
	for rows.Next() {
		var item storage.BOMIndexItem
		err := rows.Scan(&item.UID, &item.ArtNo, &item.SetNo, &item.Season, &item.Buyer,
			&item.PlanDate, &item.PlanQty, &item.Remarks, &item.ComboCount, &item.LineCount,
			&item.Status, &item.DplanNo, &item.SheetName, &item.CreatedAt, &item.UpdatedAt, &item.CreatedBy)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// ExistsByNaturalKey reports whether any BOM was already created for the
// (art_no, set_no) pair. The importer uses this to keep re-imports of the
// same source record from duplicating.
func (s *Storage) ExistsByNaturalKey(ctx context.Context, artNo, setNo string) (bool, error) {
	const op = "storage.mysql.ExistsByNaturalKey"

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bom_index WHERE art_no = ? AND set_no = ?)`,
		artNo, setNo,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}
