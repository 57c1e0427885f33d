package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dyeing-bom/internal/storage"
)

// AllocateBOM links one BOM to a dyeing plan, overwriting any previous
// link (last write wins at single-record granularity).
func (s *Storage) AllocateBOM(ctx context.Context, uid, dplanNo string) error {
	const op = "storage.mysql.AllocateBOM"

	if err := s.requireBOM(ctx, uid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`UPDATE bom_index SET status = ?, dplan_no = ?, updated_at = ? WHERE uid = ?`,
		storage.StatusAllocated, dplanNo, now, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UnallocateBOM clears the plan link. Clearing an already unallocated BOM
// is a no-op.
func (s *Storage) UnallocateBOM(ctx context.Context, uid string) error {
	const op = "storage.mysql.UnallocateBOM"

	if err := s.requireBOM(ctx, uid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`UPDATE bom_index SET status = ?, dplan_no = '', updated_at = ? WHERE uid = ?`,
		storage.StatusUnallocated, now, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) requireBOM(ctx context.Context, uid string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM bom_index WHERE uid = ?`, uid).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("uid=%s: %w", uid, storage.ErrBOMNotFound)
	}
	return err
}

// GetDyeingPlans aggregates allocated BOMs by plan number. The counts and
// totals are computed here on every read and never stored.
func (s *Storage) GetDyeingPlans(ctx context.Context) ([]storage.DyeingPlan, error) {
	const op = "storage.mysql.GetDyeingPlans"

	rows, err := s.db.QueryContext(ctx, `
		SELECT dplan_no, COUNT(*), SUM(plan_qty), MIN(created_by)
		FROM bom_index
		WHERE status = ? AND dplan_no <> ''
		GROUP BY dplan_no
		ORDER BY dplan_no`, storage.StatusAllocated)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	plans := []storage.DyeingPlan{}
	for rows.Next() {
		var plan storage.DyeingPlan
		if err := rows.Scan(&plan.DplanNo, &plan.BomCount, &plan.TotalQty, &plan.CreatedBy); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		plans = append(plans, plan)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return plans, nil
}
