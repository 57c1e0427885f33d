package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"dyeing-bom/internal/config"
)

type Storage struct {
	db *sql.DB
}

func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=%v",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.ParseTime,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

// ensureSchema creates the BOM tables on first start. The unique key on
// (art_no, set_no) backs the at-most-one-per-natural-key guarantee even
// under concurrent importers.
func (s *Storage) ensureSchema(ctx context.Context) error {
	const op = "storage.mysql.ensureSchema"

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS bom_index (
			uid          VARCHAR(32)  NOT NULL,
			art_no       VARCHAR(64)  NOT NULL,
			set_no       VARCHAR(64)  NOT NULL DEFAULT '',
			season       VARCHAR(64)  NOT NULL DEFAULT '',
			buyer        VARCHAR(128) NOT NULL DEFAULT '',
			plan_date    VARCHAR(32)  NOT NULL DEFAULT '',
			plan_qty     DOUBLE       NOT NULL DEFAULT 0,
			remarks      TEXT,
			combo_count  INT          NOT NULL DEFAULT 0,
			line_count   INT          NOT NULL DEFAULT 0,
			status       VARCHAR(16)  NOT NULL DEFAULT 'UNALLOCATED',
			dplan_no     VARCHAR(64)  NOT NULL DEFAULT '',
			sheet_name   VARCHAR(128) NOT NULL DEFAULT '',
			created_at   VARCHAR(40)  NOT NULL DEFAULT '',
			updated_at   VARCHAR(40)  NOT NULL DEFAULT '',
			created_by   VARCHAR(64)  NOT NULL DEFAULT '',
			PRIMARY KEY (uid),
			UNIQUE KEY uq_bom_art_set (art_no, set_no)
		)`,
		`CREATE TABLE IF NOT EXISTS bom_combos (
			uid         VARCHAR(32)  NOT NULL,
			combo_sr_no INT          NOT NULL,
			combo_name  VARCHAR(128) NOT NULL DEFAULT '',
			lot_no      VARCHAR(64)  NOT NULL DEFAULT '',
			lot_count   INT          NOT NULL DEFAULT 1,
			color_id    VARCHAR(128) NOT NULL DEFAULT '',
			color_code  VARCHAR(64)  NOT NULL DEFAULT '',
			color_name  VARCHAR(128) NOT NULL DEFAULT '',
			plan_qty    DOUBLE       NOT NULL DEFAULT 0,
			PRIMARY KEY (uid, combo_sr_no)
		)`,
		`CREATE TABLE IF NOT EXISTS bom_lines (
			uid                VARCHAR(32)  NOT NULL,
			combo_sr_no        INT          NOT NULL,
			line_order         INT          NOT NULL,
			fabric_quality     VARCHAR(255) NOT NULL DEFAULT '',
			fc_no              VARCHAR(64)  NOT NULL DEFAULT '',
			plan_rat_gsm       VARCHAR(64)  NOT NULL DEFAULT '',
			priority           VARCHAR(32)  NOT NULL DEFAULT '',
			component          VARCHAR(255) NOT NULL DEFAULT '',
			avg                DOUBLE       NOT NULL DEFAULT 0,
			unit               VARCHAR(16)  NOT NULL DEFAULT '',
			extra_pcs          DOUBLE       NOT NULL DEFAULT 0,
			wastage_pcs        DOUBLE       NOT NULL DEFAULT 0,
			shortage           DOUBLE       NOT NULL DEFAULT 0,
			ready_fabric_need  DOUBLE       NOT NULL DEFAULT 0,
			greige_fabric_need DOUBLE       NOT NULL DEFAULT 0,
			no_of_rolls        DOUBLE       NOT NULL DEFAULT 0,
			greige_is_manual   TINYINT(1)   NOT NULL DEFAULT 0,
			PRIMARY KEY (uid, combo_sr_no, line_order)
		)`,
	}

	for _, stmt := range schemas {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}
