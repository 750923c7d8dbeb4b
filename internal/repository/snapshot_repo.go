package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/epeers/crisisboard/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSnapshotNotFound is returned when no snapshot has been persisted yet
var ErrSnapshotNotFound = errors.New("no persisted snapshot")

const createSnapshotTable = `
	CREATE TABLE IF NOT EXISTS dashboard_snapshot (
		id           BIGSERIAL PRIMARY KEY,
		refresh_id   TEXT        NOT NULL,
		refreshed_at TIMESTAMPTZ NOT NULL,
		payload      JSONB       NOT NULL
	)
`

// SnapshotRepository persists the last good dashboard snapshot so it can be
// shown while feeds are unreachable
type SnapshotRepository struct {
	pool *pgxpool.Pool
	keep int
}

// NewSnapshotRepository creates a new SnapshotRepository that retains the
// newest keep snapshots
func NewSnapshotRepository(pool *pgxpool.Pool, keep int) *SnapshotRepository {
	if keep <= 0 {
		keep = 10
	}
	return &SnapshotRepository{pool: pool, keep: keep}
}

// EnsureSchema creates the snapshot table if needed
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createSnapshotTable); err != nil {
		return fmt.Errorf("failed to create dashboard_snapshot: %w", err)
	}
	return nil
}

// Save stores snap and prunes older rows beyond the retention count
func (r *SnapshotRepository) Save(ctx context.Context, snap *models.DashboardSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO dashboard_snapshot (refresh_id, refreshed_at, payload)
		VALUES ($1, $2, $3)
	`, snap.RefreshID, snap.RefreshedAt, payload)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM dashboard_snapshot
		WHERE id NOT IN (
			SELECT id FROM dashboard_snapshot ORDER BY refreshed_at DESC, id DESC LIMIT $1
		)
	`, r.keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	return tx.Commit(ctx)
}

// LoadLatest returns the most recently refreshed snapshot
func (r *SnapshotRepository) LoadLatest(ctx context.Context) (*models.DashboardSnapshot, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `
		SELECT payload FROM dashboard_snapshot
		ORDER BY refreshed_at DESC, id DESC
		LIMIT 1
	`).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap models.DashboardSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}
