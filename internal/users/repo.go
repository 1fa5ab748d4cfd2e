package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripamigo/travel-match-backend/internal/matching/domain"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Resolve maps a Firebase UID to the internal user id. Account creation is
// owned by the profile service; an unknown UID is a not-found, never an upsert.
func (r *Repo) Resolve(ctx context.Context, firebaseUID string) (string, error) {
	if firebaseUID == "" {
		return "", fmt.Errorf("firebase_uid required")
	}

	const q = `select id::text from users where firebase_uid = $1;`

	var id string
	err := r.db.QueryRow(ctx, q, firebaseUID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}
