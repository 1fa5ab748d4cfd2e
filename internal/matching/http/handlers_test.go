package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripamigo/travel-match-backend/internal/auth"
	"github.com/tripamigo/travel-match-backend/internal/featurelog"
	"github.com/tripamigo/travel-match-backend/internal/matching/domain"
	"github.com/tripamigo/travel-match-backend/internal/matching/pool"
	"github.com/tripamigo/travel-match-backend/internal/matching/repository"
	"github.com/tripamigo/travel-match-backend/internal/matching/service"
)

type stubInterests struct {
	result *repository.ExpressResult
}

func (s *stubInterests) ExpressInterest(ctx context.Context, fromUserID, toUserID, destinationID string, matchType domain.MatchType) (*repository.ExpressResult, error) {
	return s.result, nil
}

type stubSkips struct{ created bool }

func (s *stubSkips) RecordSkip(ctx context.Context, userID, skippedEntityID, destinationID string, matchType domain.MatchType) (string, bool, error) {
	return "skip-1", s.created, nil
}

func (s *stubSkips) ListSkipped(ctx context.Context, userID, destinationID string, matchType domain.MatchType) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

type stubImpressions struct{ count int64 }

func (s *stubImpressions) RecordImpression(ctx context.Context, viewerID, viewedUserID, destinationID string) (bool, error) {
	return true, nil
}

func (s *stubImpressions) CountImpressions(ctx context.Context, userID string) (int64, error) {
	return s.count, nil
}

type stubGroups struct{}

func (s *stubGroups) ListByDestination(ctx context.Context, destinationID string) ([]*domain.GroupProfile, error) {
	return nil, nil
}

type stubEvents struct{}

func (s *stubEvents) Record(ctx context.Context, ev featurelog.Event) {}

func setupRouter(t *testing.T) (*gin.Engine, pool.Store, *stubInterests) {
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := pool.NewRedisStore(client)
	interests := &stubInterests{result: &repository.ExpressResult{InterestID: "int-1", Matched: false, Created: true}}

	svc := service.NewMatching(service.Config{
		IntentTTL:     time.Hour,
		MaxDistanceKm: 200,
	}, store, interests, &stubSkips{created: true}, &stubImpressions{count: 7}, &stubGroups{}, &stubEvents{})

	r := gin.New()
	group := r.Group("/api/v1/matching")
	group.Use(func(c *gin.Context) {
		c.Set(auth.CtxUserDBID, "caller")
		c.Next()
	})
	New(svc).Register(group)

	return r, store, interests
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func validIntentBody() map[string]any {
	return map[string]any{
		"destination": map[string]any{
			"id": "dest-tokyo", "name": "Tokyo", "lat": 35.6762, "lon": 139.6503,
		},
		"budget":     50000,
		"start_date": "2026-06-01",
		"end_date":   "2026-06-10",
		"static_attributes": map[string]any{
			"age":         28,
			"interests":   []string{"hiking"},
			"languages":   []string{"english"},
			"nationality": "japanese",
		},
	}
}

func TestPublishIntentEndpoint(t *testing.T) {
	r, store, _ := setupRouter(t)

	rr := doJSON(t, r, http.MethodPost, "/api/v1/matching/intents", validIntentBody())
	require.Equal(t, http.StatusCreated, rr.Code)

	it, err := store.Get(context.Background(), "caller")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", it.Destination.Name)
}

func TestPublishIntentRejectsBadDates(t *testing.T) {
	r, _, _ := setupRouter(t)

	body := validIntentBody()
	body["start_date"] = "June 1st"
	rr := doJSON(t, r, http.MethodPost, "/api/v1/matching/intents", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestActiveIntentEndpoint(t *testing.T) {
	r, _, _ := setupRouter(t)

	rr := doJSON(t, r, http.MethodGet, "/api/v1/matching/intents/me", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	doJSON(t, r, http.MethodPost, "/api/v1/matching/intents", validIntentBody())

	rr = doJSON(t, r, http.MethodGet, "/api/v1/matching/intents/me", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestListCandidatesEndpoint(t *testing.T) {
	r, store, _ := setupRouter(t)
	ctx := context.Background()

	doJSON(t, r, http.MethodPost, "/api/v1/matching/intents", validIntentBody())

	other := &domain.TravelIntent{
		UserID:      "other",
		Destination: domain.Destination{ID: "dest-tokyo", Name: "Tokyo", Lat: 35.6762, Lon: 139.6503},
		Budget:      52000,
		StartDate:   time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC),
		Attributes:  domain.StaticAttributes{Age: 30, Interests: []string{"hiking"}, Languages: []string{"english"}},
	}
	require.NoError(t, store.Publish(ctx, other, time.Hour))

	rr := doJSON(t, r, http.MethodGet, "/api/v1/matching/candidates?match_type=solo", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		OK         bool `json:"ok"`
		Candidates []struct {
			ID    string  `json:"id"`
			Score float64 `json:"score"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "other", resp.Candidates[0].ID)
	assert.Greater(t, resp.Candidates[0].Score, 0.0)
}

func TestListCandidatesWithoutIntent(t *testing.T) {
	r, _, _ := setupRouter(t)

	rr := doJSON(t, r, http.MethodGet, "/api/v1/matching/candidates", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListCandidatesBadMatchType(t *testing.T) {
	r, _, _ := setupRouter(t)

	rr := doJSON(t, r, http.MethodGet, "/api/v1/matching/candidates?match_type=both", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExpressInterestEndpoint(t *testing.T) {
	r, _, interests := setupRouter(t)

	body := map[string]any{
		"to_user_id": "other", "destination_id": "dest-tokyo", "match_type": "solo",
	}
	rr := doJSON(t, r, http.MethodPost, "/api/v1/matching/interests", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		OK         bool   `json:"ok"`
		InterestID string `json:"interest_id"`
		Matched    bool   `json:"matched"`
		Created    bool   `json:"created"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "int-1", resp.InterestID)
	assert.True(t, resp.Created)

	// Idempotent replay reports 200 with created=false.
	interests.result = &repository.ExpressResult{InterestID: "int-1", Created: false}
	rr = doJSON(t, r, http.MethodPost, "/api/v1/matching/interests", body)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestExpressInterestSelf(t *testing.T) {
	r, _, _ := setupRouter(t)

	body := map[string]any{
		"to_user_id": "caller", "destination_id": "dest-tokyo", "match_type": "solo",
	}
	rr := doJSON(t, r, http.MethodPost, "/api/v1/matching/interests", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSkipEndpoint(t *testing.T) {
	r, _, _ := setupRouter(t)

	body := map[string]any{
		"skipped_entity_id": "other", "destination_id": "dest-tokyo", "match_type": "solo",
	}
	rr := doJSON(t, r, http.MethodPost, "/api/v1/matching/skips", body)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestImpressionEndpoints(t *testing.T) {
	r, _, _ := setupRouter(t)

	body := map[string]any{"viewed_user_id": "other", "destination_id": "dest-tokyo"}
	rr := doJSON(t, r, http.MethodPost, "/api/v1/matching/impressions", body)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, http.MethodGet, "/api/v1/matching/impressions/count", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Count int64 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.Count)
}

func TestScorePairEndpoint(t *testing.T) {
	r, _, _ := setupRouter(t)

	body := map[string]any{
		"seeker": validIntentBody(),
		"candidate": map[string]any{
			"id": "other",
			"destination": map[string]any{
				"id": "dest-tokyo", "name": "Tokyo", "lat": 35.6762, "lon": 139.6503,
			},
			"budget":     52000,
			"start_date": "2026-06-01",
			"end_date":   "2026-06-10",
			"age":        30,
			"interests":  []string{"hiking"},
			"languages":  []string{"english"},
		},
	}
	rr := doJSON(t, r, http.MethodPost, "/api/v1/matching/score", body)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		OK          bool               `json:"ok"`
		WithinRange bool               `json:"within_range"`
		Score       float64            `json:"score"`
		Breakdown   map[string]float64 `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.WithinRange)
	assert.Greater(t, resp.Score, 0.0)
	assert.NotEmpty(t, resp.Breakdown)
}

func TestScorePairOutOfRange(t *testing.T) {
	r, _, _ := setupRouter(t)

	body := map[string]any{
		"seeker": validIntentBody(),
		"candidate": map[string]any{
			"id": "other",
			"destination": map[string]any{
				// Osaka, ~400 km from Tokyo.
				"id": "dest-osaka", "name": "Osaka", "lat": 34.6937, "lon": 135.5023,
			},
			"budget":     52000,
			"start_date": "2026-06-01",
			"end_date":   "2026-06-10",
		},
	}
	rr := doJSON(t, r, http.MethodPost, "/api/v1/matching/score", body)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		WithinRange bool `json:"within_range"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.WithinRange)
}
