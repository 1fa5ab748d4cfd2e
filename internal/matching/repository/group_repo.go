package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripamigo/travel-match-backend/internal/matching/domain"
)

// GroupRepo reads the group aggregate profiles discovery ranks against.
// The aggregate columns are maintained by the groupsync refresher; this core
// never writes them from the request path.
type GroupRepo struct {
	db *pgxpool.Pool
}

func NewGroupRepo(db *pgxpool.Pool) *GroupRepo {
	return &GroupRepo{db: db}
}

const groupColumns = `
id::text, name, destination_id::text, destination_name, destination_lat, destination_lon,
average_budget, start_date, end_date, average_age,
dominant_languages, top_interests, smoking_policy, drinking_policy, dominant_nationalities
`

// ListByDestination returns the open groups headed to a destination.
// Discovery still applies the geographic filter on top of this.
func (r *GroupRepo) ListByDestination(ctx context.Context, destinationID string) ([]*domain.GroupProfile, error) {
	q := `SELECT ` + groupColumns + ` FROM travel_groups WHERE status = 'open' AND destination_id = $1 ORDER BY created_at DESC;`

	rows, err := r.db.Query(ctx, q, destinationID)
	if err != nil {
		return nil, fmt.Errorf("list groups by destination: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.GroupProfile, 0, 16)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Get loads a single group profile.
func (r *GroupRepo) Get(ctx context.Context, groupID string) (*domain.GroupProfile, error) {
	q := `SELECT ` + groupColumns + ` FROM travel_groups WHERE id = $1;`

	row := r.db.QueryRow(ctx, q, groupID)
	g, err := scanGroup(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// RefreshAggregates recomputes the aggregate columns of every open group
// from its members' profiles. The original system leaned on database
// triggers for this; here a nightly job calls it instead.
func (r *GroupRepo) RefreshAggregates(ctx context.Context) (int64, error) {
	// Scalar and set aggregates run in separate CTEs: unnesting the list
	// columns in the same grouped query would weight the averages by list
	// lengths.
	const q = `
WITH scalars AS (
  SELECT gm.group_id,
         avg(p.budget) AS avg_budget,
         avg(p.age)    AS avg_age,
         array_agg(DISTINCT p.nationality) FILTER (WHERE p.nationality IS NOT NULL) AS nationalities
  FROM group_members gm
  JOIN member_profiles p ON p.user_id = gm.user_id
  GROUP BY gm.group_id
),
langs AS (
  SELECT gm.group_id, array_agg(DISTINCT lang) AS languages
  FROM group_members gm
  JOIN member_profiles p ON p.user_id = gm.user_id,
       unnest(p.languages) AS lang
  GROUP BY gm.group_id
),
intr AS (
  SELECT gm.group_id, array_agg(DISTINCT i) AS interests
  FROM group_members gm
  JOIN member_profiles p ON p.user_id = gm.user_id,
       unnest(p.interests) AS i
  GROUP BY gm.group_id
)
UPDATE travel_groups g
SET average_budget         = coalesce(s.avg_budget, 0),
    average_age            = coalesce(s.avg_age, 0),
    dominant_nationalities = coalesce(s.nationalities, '{}'),
    dominant_languages     = coalesce(l.languages, '{}'),
    top_interests          = coalesce(i.interests, '{}'),
    updated_at             = now()
FROM scalars s
LEFT JOIN langs l ON l.group_id = s.group_id
LEFT JOIN intr i ON i.group_id = s.group_id
WHERE g.id = s.group_id AND g.status = 'open';
`
	tag, err := r.db.Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("refresh group aggregates: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanGroup(row pgx.Row) (*domain.GroupProfile, error) {
	var g domain.GroupProfile
	err := row.Scan(
		&g.GroupID, &g.Name, &g.Destination.ID, &g.Destination.Name, &g.Destination.Lat, &g.Destination.Lon,
		&g.AverageBudget, &g.StartDate, &g.EndDate, &g.AverageAge,
		&g.DominantLanguages, &g.TopInterests, &g.SmokingPolicy, &g.DrinkingPolicy, &g.DominantNationalities,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
