package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripamigo/travel-match-backend/internal/matching/domain"
)

// SkipRepo owns the Skip ledger.
type SkipRepo struct {
	db *pgxpool.Pool
}

func NewSkipRepo(db *pgxpool.Pool) *SkipRepo {
	return &SkipRepo{db: db}
}

// RecordSkip inserts a skip, treating duplicates as success. Created is
// false when the identical skip already existed.
func (r *SkipRepo) RecordSkip(ctx context.Context, userID, skippedEntityID, destinationID string, matchType domain.MatchType) (skipID string, created bool, err error) {
	const q = `
INSERT INTO match_skips (user_id, skipped_entity_id, destination_id, match_type)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, skipped_entity_id, destination_id, match_type) DO NOTHING
RETURNING id::text;
`
	err = r.db.QueryRow(ctx, q, userID, skippedEntityID, destinationID, matchType).Scan(&skipID)
	if errors.Is(err, pgx.ErrNoRows) {
		const existingQ = `
SELECT id::text FROM match_skips
WHERE user_id = $1 AND skipped_entity_id = $2 AND destination_id = $3 AND match_type = $4;
`
		if err = r.db.QueryRow(ctx, existingQ, userID, skippedEntityID, destinationID, matchType).Scan(&skipID); err != nil {
			return "", false, fmt.Errorf("load existing skip: %w", err)
		}
		return skipID, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("insert skip: %w", err)
	}
	return skipID, true, nil
}

// HasSkipped reports whether the user skipped the entity for this
// destination and match type.
func (r *SkipRepo) HasSkipped(ctx context.Context, userID, skippedEntityID, destinationID string, matchType domain.MatchType) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM match_skips
  WHERE user_id = $1 AND skipped_entity_id = $2 AND destination_id = $3 AND match_type = $4
);
`
	var exists bool
	if err := r.db.QueryRow(ctx, q, userID, skippedEntityID, destinationID, matchType).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListSkipped returns the set of entity ids the user has skipped for a
// destination and match type. Discovery uses this to exclude candidates.
func (r *SkipRepo) ListSkipped(ctx context.Context, userID, destinationID string, matchType domain.MatchType) (map[string]struct{}, error) {
	const q = `
SELECT skipped_entity_id FROM match_skips
WHERE user_id = $1 AND destination_id = $2 AND match_type = $3;
`
	rows, err := r.db.Query(ctx, q, userID, destinationID, matchType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}
