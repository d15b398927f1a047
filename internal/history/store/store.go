package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lumbunglabs/kasir/internal/history"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init creates the receipts table when missing. The till owns its local
// database, so a single idempotent statement stands in for migrations.
func (s *Store) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS receipts (
			id BIGINT PRIMARY KEY,
			time TEXT NOT NULL,
			items JSONB NOT NULL,
			total BIGINT NOT NULL,
			cash BIGINT NOT NULL,
			change BIGINT NOT NULL
		)
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating receipts table: %w", err)
	}

	return nil
}

func (s *Store) Append(ctx context.Context, rec history.Record) error {
	items, err := json.Marshal(rec.Lines)
	if err != nil {
		return fmt.Errorf("encoding receipt lines: %w", err)
	}

	query := `
		INSERT INTO receipts (id, time, items, total, cash, change)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Time,
		items,
		rec.Total,
		rec.Cash,
		rec.Change,
	); err != nil {
		return fmt.Errorf("appending receipt: %w", err)
	}

	return nil
}

func (s *Store) List(ctx context.Context) ([]history.Record, error) {
	query := `
		SELECT id, time, items, total, cash, change
		FROM receipts
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	defer rows.Close()

	var recs []history.Record

	for rows.Next() {
		var rec history.Record

		var items []byte

		if err := rows.Scan(&rec.ID, &rec.Time, &items, &rec.Total, &rec.Cash, &rec.Change); err != nil {
			return nil, fmt.Errorf("scanning receipt: %w", err)
		}

		if err := json.Unmarshal(items, &rec.Lines); err != nil {
			return nil, fmt.Errorf("decoding receipt lines: %w", err)
		}

		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating receipts: %w", err)
	}

	return recs, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM receipts`); err != nil {
		return fmt.Errorf("clearing receipts: %w", err)
	}

	return nil
}
