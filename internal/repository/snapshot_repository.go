package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/apperrors"
)

// SnapshotRepository stores encoded portfolio summaries keyed by calendar day.
// It does not interpret the payload.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// GetSnapshot returns the payload stored for day.
// Returns apperrors.ErrSnapshotNotFound if there is none.
func (r *SnapshotRepository) GetSnapshot(ctx context.Context, day string) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM summary_snapshot WHERE day = ?`, day).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query summary_snapshot table: %w", err)
	}
	return payload, nil
}

// PutSnapshot stores payload for day, replacing any previous one, and drops
// snapshots of other days since only the current day is ever served.
func (r *SnapshotRepository) PutSnapshot(ctx context.Context, day string, payload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM summary_snapshot WHERE day <> ?`, day); err != nil {
		return fmt.Errorf("failed to prune summary_snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO summary_snapshot (day, payload, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at
	`, day, payload, FormatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to upsert summary_snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit summary_snapshot: %w", err)
	}
	return nil
}

// DeleteSnapshots removes every stored snapshot.
func (r *SnapshotRepository) DeleteSnapshots(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM summary_snapshot`); err != nil {
		return fmt.Errorf("failed to delete summary_snapshot: %w", err)
	}
	return nil
}
