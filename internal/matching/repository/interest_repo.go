// Package repository provides the persistent ledgers behind matching:
// interests, matches, skips and impressions. Duplicate signals collapse
// on unique constraints, and reciprocal interest promotion serializes
// writers on a per-pair advisory lock.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripamigo/travel-match-backend/internal/matching/domain"
)

// InterestRepo owns the Interest and Match lifecycles.
type InterestRepo struct {
	db *pgxpool.Pool
}

func NewInterestRepo(db *pgxpool.Pool) *InterestRepo {
	return &InterestRepo{db: db}
}

// ExpressResult reports what an ExpressInterest call did. Created is false
// when the identical interest already existed (idempotent no-op).
type ExpressResult struct {
	InterestID string
	Matched    bool
	Created    bool
}

// ExpressInterest records a directional interest and, when the reverse
// interest is pending, promotes the pair to a Match. An advisory lock on
// the unordered pair serializes reciprocating transactions so the second
// writer always sees the first one's committed row. Without it, two
// concurrent calls can each insert their own direction while the other's
// row is still invisible, and both interests strand as pending. The
// reverse check also runs on the duplicate path, so a retry promotes a
// pair that is already pending on both sides.
func (r *InterestRepo) ExpressInterest(ctx context.Context, fromUserID, toUserID, destinationID string, matchType domain.MatchType) (*ExpressResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	userA, userB := domain.CanonicalPair(fromUserID, toUserID)

	const lockQ = `
SELECT pg_advisory_xact_lock(hashtextextended($1 || '|' || $2 || '|' || $3 || '|' || $4, 0));
`
	if _, err := tx.Exec(ctx, lockQ, userA, userB, destinationID, string(matchType)); err != nil {
		return nil, fmt.Errorf("pair lock: %w", err)
	}

	const insertQ = `
INSERT INTO match_interests (from_user_id, to_user_id, destination_id, match_type, status)
VALUES ($1, $2, $3, $4, 'pending')
ON CONFLICT (from_user_id, to_user_id, destination_id, match_type) DO NOTHING
RETURNING id::text;
`
	created := true
	var interestID string
	err = tx.QueryRow(ctx, insertQ, fromUserID, toUserID, destinationID, matchType).Scan(&interestID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Identical interest already recorded: succeed without a new row.
		created = false
		const existingQ = `
SELECT id::text FROM match_interests
WHERE from_user_id = $1 AND to_user_id = $2 AND destination_id = $3 AND match_type = $4;
`
		if err := tx.QueryRow(ctx, existingQ, fromUserID, toUserID, destinationID, matchType).Scan(&interestID); err != nil {
			return nil, fmt.Errorf("load existing interest: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("insert interest: %w", err)
	}

	matched, err := promotePending(ctx, tx, interestID, fromUserID, toUserID, destinationID, matchType)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &ExpressResult{InterestID: interestID, Matched: matched, Created: created}, nil
}

// promotePending accepts both directions and records the match when the
// reverse interest is still pending. With no pending reverse row it does
// nothing, so replays against an already accepted pair are no-ops.
func promotePending(ctx context.Context, tx pgx.Tx, interestID, fromUserID, toUserID, destinationID string, matchType domain.MatchType) (bool, error) {
	const reverseQ = `
SELECT id::text FROM match_interests
WHERE from_user_id = $1 AND to_user_id = $2 AND destination_id = $3 AND match_type = $4 AND status = 'pending'
FOR UPDATE;
`
	var reverseID string
	err := tx.QueryRow(ctx, reverseQ, toUserID, fromUserID, destinationID, matchType).Scan(&reverseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reverse lookup: %w", err)
	}

	const acceptQ = `
UPDATE match_interests SET status = 'accepted'
WHERE id = ANY($1::uuid[]);
`
	if _, err := tx.Exec(ctx, acceptQ, []string{interestID, reverseID}); err != nil {
		return false, fmt.Errorf("accept interests: %w", err)
	}

	userA, userB := domain.CanonicalPair(fromUserID, toUserID)
	const matchQ = `
INSERT INTO matches (user_a_id, user_b_id, destination_id, match_type, status)
VALUES ($1, $2, $3, $4, 'active')
ON CONFLICT (user_a_id, user_b_id, destination_id, match_type) DO NOTHING;
`
	if _, err := tx.Exec(ctx, matchQ, userA, userB, destinationID, matchType); err != nil {
		return false, fmt.Errorf("create match: %w", err)
	}
	return true, nil
}

// GetInterest loads a directed interest row, mostly for verification.
func (r *InterestRepo) GetInterest(ctx context.Context, fromUserID, toUserID, destinationID string, matchType domain.MatchType) (*domain.Interest, error) {
	const q = `
SELECT id::text, from_user_id::text, to_user_id::text, destination_id, match_type, status, created_at
FROM match_interests
WHERE from_user_id = $1 AND to_user_id = $2 AND destination_id = $3 AND match_type = $4;
`
	var in domain.Interest
	err := r.db.QueryRow(ctx, q, fromUserID, toUserID, destinationID, matchType).
		Scan(&in.ID, &in.FromUserID, &in.ToUserID, &in.DestinationID, &in.MatchType, &in.Status, &in.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInterestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// MatchesForPair returns all matches for an unordered pair at a destination.
// The unique index means the slice has at most one element per match type.
func (r *InterestRepo) MatchesForPair(ctx context.Context, userID1, userID2, destinationID string) ([]domain.Match, error) {
	userA, userB := domain.CanonicalPair(userID1, userID2)

	const q = `
SELECT id::text, user_a_id::text, user_b_id::text, destination_id, match_type, status, created_at
FROM matches
WHERE user_a_id = $1 AND user_b_id = $2 AND destination_id = $3
ORDER BY created_at;
`
	rows, err := r.db.Query(ctx, q, userA, userB, destinationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Match, 0, 2)
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.ID, &m.UserAID, &m.UserBID, &m.DestinationID, &m.MatchType, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
