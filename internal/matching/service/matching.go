// Package service orchestrates the matching flows: publishing intents into
// the candidate pool, ranking candidates for discovery, and recording
// interest/skip/impression signals with their side effects.
package service

import (
	"context"
	"sort"
	"time"

	"github.com/tripamigo/travel-match-backend/internal/featurelog"
	"github.com/tripamigo/travel-match-backend/internal/matching/domain"
	"github.com/tripamigo/travel-match-backend/internal/matching/pool"
	"github.com/tripamigo/travel-match-backend/internal/matching/repository"
	"github.com/tripamigo/travel-match-backend/internal/matching/scoring"
)

// maxCandidates caps the discovery feed. The UI renders one page.
const maxCandidates = 10

// InterestLedger is the slice of the interest repository the service needs.
type InterestLedger interface {
	ExpressInterest(ctx context.Context, fromUserID, toUserID, destinationID string, matchType domain.MatchType) (*repository.ExpressResult, error)
}

// SkipLedger records and exposes "not interested" signals.
type SkipLedger interface {
	RecordSkip(ctx context.Context, userID, skippedEntityID, destinationID string, matchType domain.MatchType) (skipID string, created bool, err error)
	ListSkipped(ctx context.Context, userID, destinationID string, matchType domain.MatchType) (map[string]struct{}, error)
}

// ImpressionLedger records profile views.
type ImpressionLedger interface {
	RecordImpression(ctx context.Context, viewerID, viewedUserID, destinationID string) (created bool, err error)
	CountImpressions(ctx context.Context, userID string) (int64, error)
}

// GroupReader exposes group aggregate profiles for discovery.
type GroupReader interface {
	ListByDestination(ctx context.Context, destinationID string) ([]*domain.GroupProfile, error)
}

// EventRecorder is the feature-log sink. Implementations must be best
// effort: Record never blocks the matching flow on failure.
type EventRecorder interface {
	Record(ctx context.Context, ev featurelog.Event)
}

// Config carries the tunables the service reads.
type Config struct {
	IntentTTL     time.Duration
	MaxDistanceKm float64
}

// Matching is the application service tying pool, scorer and ledgers
// together.
type Matching struct {
	cfg         Config
	pool        pool.Store
	interests   InterestLedger
	skips       SkipLedger
	impressions ImpressionLedger
	groups      GroupReader
	events      EventRecorder
}

func NewMatching(cfg Config, p pool.Store, interests InterestLedger, skips SkipLedger, impressions ImpressionLedger, groups GroupReader, events EventRecorder) *Matching {
	return &Matching{
		cfg:         cfg,
		pool:        p,
		interests:   interests,
		skips:       skips,
		impressions: impressions,
		groups:      groups,
		events:      events,
	}
}

// PublishIntent validates and publishes a travel intent, overwriting any
// previous one and resetting its expiry.
func (m *Matching) PublishIntent(ctx context.Context, intent *domain.TravelIntent) error {
	if err := validateIntent(intent); err != nil {
		return err
	}
	intent.CreatedAt = time.Now().UTC()
	return m.pool.Publish(ctx, intent, m.cfg.IntentTTL)
}

// ActiveIntent returns the caller's live intent or domain.ErrIntentNotFound.
func (m *Matching) ActiveIntent(ctx context.Context, userID string) (*domain.TravelIntent, error) {
	return m.pool.Get(ctx, userID)
}

// RankedCandidate is one discovery feed entry. Exactly one of Intent or
// Group is set, matching MatchType.
type RankedCandidate struct {
	ID        string               `json:"id"`
	MatchType domain.MatchType     `json:"match_type"`
	Score     float64              `json:"score"`
	Breakdown map[string]float64   `json:"breakdown"`
	Intent    *domain.TravelIntent `json:"intent,omitempty"`
	Group     *domain.GroupProfile `json:"group,omitempty"`
}

// ListCandidates ranks the discovery feed for a seeker. The seeker needs a
// live intent; without one discovery has nothing to match against and the
// caller gets domain.ErrIntentNotFound. Candidates beyond the distance
// threshold, with no date overlap, or already skipped never appear.
func (m *Matching) ListCandidates(ctx context.Context, seekerID string, matchType domain.MatchType, presetName string) ([]RankedCandidate, error) {
	logger := NewLogger(ctx)

	seeker, err := m.pool.Get(ctx, seekerID)
	if err != nil {
		return nil, err
	}

	skipped, err := m.skips.ListSkipped(ctx, seekerID, seeker.Destination.ID, matchType)
	if err != nil {
		return nil, err
	}

	var ranked []RankedCandidate
	admit := func(cand scoring.Candidate, entry RankedCandidate) error {
		if cand.ID == seekerID {
			return nil
		}
		if _, ok := skipped[cand.ID]; ok {
			return nil
		}
		if !scoring.WithinDistance(seeker.Destination.Lat, seeker.Destination.Lon, cand.Destination.Lat, cand.Destination.Lon, m.cfg.MaxDistanceKm) {
			return nil
		}
		if scoring.DateOverlapScore(seeker.StartDate, seeker.EndDate, cand.StartDate, cand.EndDate) == 0 {
			return nil
		}
		res, err := scoring.Score(seeker, cand, presetName)
		if err != nil {
			return err
		}
		entry.Score = res.Score
		entry.Breakdown = res.Breakdown
		ranked = append(ranked, entry)
		return nil
	}

	switch matchType {
	case domain.MatchTypeSolo:
		err = m.pool.Scan(ctx, func(it *domain.TravelIntent) error {
			cand := scoring.CandidateFromIntent(it)
			return admit(cand, RankedCandidate{ID: it.UserID, MatchType: domain.MatchTypeSolo, Intent: it})
		})
		if err != nil {
			return nil, err
		}

	case domain.MatchTypeGroup:
		groups, err := m.groups.ListByDestination(ctx, seeker.Destination.ID)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			cand := scoring.CandidateFromGroup(g)
			if err := admit(cand, RankedCandidate{ID: g.GroupID, MatchType: domain.MatchTypeGroup, Group: g}); err != nil {
				return nil, err
			}
		}

	default:
		return nil, domain.Invalid("match_type", "must be solo or group")
	}

	// Stable order under equal scores keeps the feed deterministic.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > maxCandidates {
		ranked = ranked[:maxCandidates]
	}

	logger.LogInfof("list_candidates", "seeker=%s match_type=%s preset=%s results=%d", seekerID, matchType, presetName, len(ranked))
	return ranked, nil
}

// ScorePair scores one explicit seeker/candidate pair. withinRange is false
// when the hard distance filter excludes the pair; no score is computed then.
func (m *Matching) ScorePair(seeker *domain.TravelIntent, cand scoring.Candidate, presetName string) (scoring.Result, bool, error) {
	if !scoring.WithinDistance(seeker.Destination.Lat, seeker.Destination.Lon, cand.Destination.Lat, cand.Destination.Lon, m.cfg.MaxDistanceKm) {
		return scoring.Result{}, false, nil
	}
	res, err := scoring.Score(seeker, cand, presetName)
	if err != nil {
		return scoring.Result{}, false, err
	}
	return res, true, nil
}

// ExpressInterest records a directional interest and reports whether it
// completed a reciprocal match. A fresh interest emits a best-effort
// "accept" feature-log event carrying the scorer breakdown when both sides
// still have live intents.
func (m *Matching) ExpressInterest(ctx context.Context, fromUserID, toUserID, destinationID string, matchType domain.MatchType) (*repository.ExpressResult, error) {
	if fromUserID == toUserID {
		return nil, domain.Invalid("to_user_id", "cannot express interest in yourself")
	}
	if !matchType.Valid() {
		return nil, domain.Invalid("match_type", "must be solo or group")
	}

	res, err := m.interests.ExpressInterest(ctx, fromUserID, toUserID, destinationID, matchType)
	if err != nil {
		return nil, err
	}

	if res.Created {
		m.events.Record(ctx, featurelog.Event{
			Event:         featurelog.EventAccept,
			FromUserID:    fromUserID,
			ToUserID:      toUserID,
			DestinationID: destinationID,
			MatchType:     string(matchType),
			Features:      m.pairFeatures(ctx, fromUserID, toUserID),
		})
	}
	return res, nil
}

// SkipCandidate records a "not interested" signal. Idempotent; only the
// first occurrence emits an "ignore" feature-log event.
func (m *Matching) SkipCandidate(ctx context.Context, userID, skippedEntityID, destinationID string, matchType domain.MatchType) (string, bool, error) {
	if userID == skippedEntityID {
		return "", false, domain.Invalid("skipped_entity_id", "cannot skip yourself")
	}
	if !matchType.Valid() {
		return "", false, domain.Invalid("match_type", "must be solo or group")
	}

	skipID, created, err := m.skips.RecordSkip(ctx, userID, skippedEntityID, destinationID, matchType)
	if err != nil {
		return "", false, err
	}

	if created {
		m.events.Record(ctx, featurelog.Event{
			Event:         featurelog.EventIgnore,
			FromUserID:    userID,
			ToUserID:      skippedEntityID,
			DestinationID: destinationID,
			MatchType:     string(matchType),
			Features:      m.pairFeatures(ctx, userID, skippedEntityID),
		})
	}
	return skipID, created, nil
}

// RecordImpression notes that viewer saw viewed's profile today. A self view
// is a silent no-op.
func (m *Matching) RecordImpression(ctx context.Context, viewerID, viewedUserID, destinationID string) (bool, error) {
	if viewerID == viewedUserID {
		return false, nil
	}
	return m.impressions.RecordImpression(ctx, viewerID, viewedUserID, destinationID)
}

// ImpressionCount returns the all-time view count for a user's profile.
func (m *Matching) ImpressionCount(ctx context.Context, userID string) (int64, error) {
	return m.impressions.CountImpressions(ctx, userID)
}

// pairFeatures recomputes the scorer breakdown for a feature-log event.
// Purely opportunistic: either intent may have expired, and the event is
// still worth sending without features.
func (m *Matching) pairFeatures(ctx context.Context, fromUserID, toUserID string) map[string]float64 {
	seeker, err := m.pool.Get(ctx, fromUserID)
	if err != nil {
		return nil
	}
	target, err := m.pool.Get(ctx, toUserID)
	if err != nil {
		return nil
	}

	cand := scoring.CandidateFromIntent(target)
	if !scoring.WithinDistance(seeker.Destination.Lat, seeker.Destination.Lon, cand.Destination.Lat, cand.Destination.Lon, m.cfg.MaxDistanceKm) {
		return nil
	}
	res, err := scoring.Score(seeker, cand, scoring.DefaultPreset)
	if err != nil {
		return nil
	}
	features := res.Breakdown
	features["score"] = res.Score
	return features
}

func validateIntent(intent *domain.TravelIntent) error {
	switch {
	case intent.UserID == "":
		return domain.Invalid("user_id", "required")
	case intent.Destination.ID == "":
		return domain.Invalid("destination.id", "required")
	case intent.Destination.Name == "":
		return domain.Invalid("destination.name", "required")
	case intent.Destination.Lat < -90 || intent.Destination.Lat > 90:
		return domain.Invalid("destination.lat", "out of range")
	case intent.Destination.Lon < -180 || intent.Destination.Lon > 180:
		return domain.Invalid("destination.lon", "out of range")
	case intent.Budget < 0:
		return domain.Invalid("budget", "must be non-negative")
	case intent.StartDate.IsZero() || intent.EndDate.IsZero():
		return domain.Invalid("dates", "start_date and end_date required")
	case intent.EndDate.Before(intent.StartDate):
		return domain.Invalid("end_date", "must not precede start_date")
	}
	return nil
}
