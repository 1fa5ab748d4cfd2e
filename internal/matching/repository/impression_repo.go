package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ImpressionRepo owns the Impression ledger. Day-granular dedup is enforced
// by a unique constraint on (viewer, viewed, destination, impression_date),
// so two tabs rendering the same profile at the same moment still produce
// one row.
type ImpressionRepo struct {
	db *pgxpool.Pool
}

func NewImpressionRepo(db *pgxpool.Pool) *ImpressionRepo {
	return &ImpressionRepo{db: db}
}

// RecordImpression inserts today's impression row unless one already exists.
// Created is false on the same-day duplicate. Self-impressions are filtered
// by the service before reaching here.
func (r *ImpressionRepo) RecordImpression(ctx context.Context, viewerID, viewedUserID, destinationID string) (created bool, err error) {
	const q = `
INSERT INTO profile_impressions (viewer_id, viewed_user_id, destination_id, impression_date)
VALUES ($1, $2, $3, CURRENT_DATE)
ON CONFLICT (viewer_id, viewed_user_id, destination_id, impression_date) DO NOTHING
RETURNING id::text;
`
	var id string
	err = r.db.QueryRow(ctx, q, viewerID, viewedUserID, destinationID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert impression: %w", err)
	}
	return true, nil
}

// CountImpressions returns how many times the user's profile has been shown,
// across all time.
func (r *ImpressionRepo) CountImpressions(ctx context.Context, userID string) (int64, error) {
	const q = `SELECT count(*) FROM profile_impressions WHERE viewed_user_id = $1;`

	var n int64
	if err := r.db.QueryRow(ctx, q, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
