// Package featurelog ships match interaction events to the feature logging
// service. Delivery is best effort: the matching flow never fails because
// the log was unreachable.
package featurelog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const defaultTimeout = 5 * time.Second

// Event is one interaction the feature log records. Features carries the
// scorer breakdown when one was computed for the interaction.
type Event struct {
	EventID       string             `json:"event_id"`
	Event         string             `json:"event"`
	FromUserID    string             `json:"from_user_id"`
	ToUserID      string             `json:"to_user_id"`
	DestinationID string             `json:"destination_id"`
	MatchType     string             `json:"match_type"`
	Features      map[string]float64 `json:"features,omitempty"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

// Events the matching flow emits.
const (
	EventAccept = "accept"
	EventIgnore = "ignore"
)

// Client posts events to the feature log endpoint. A nil or unconfigured
// client drops events silently, which keeps local development free of the
// dependency.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client for baseURL. An empty baseURL yields a no-op
// client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		// Interaction bursts during swiping can be rapid; cap outbound
		// traffic rather than queue it.
		limiter: rate.NewLimiter(rate.Limit(20), 40),
	}
}

// Record sends one event. Errors are logged and swallowed.
func (c *Client) Record(ctx context.Context, ev Event) {
	if c == nil || c.baseURL == "" {
		return
	}
	if !c.limiter.Allow() {
		log.Printf("[warn] operation=featurelog_record dropped event=%s from_user_id=%s (rate limited)", ev.Event, ev.FromUserID)
		return
	}
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	if err := c.post(ctx, ev); err != nil {
		log.Printf("[warn] operation=featurelog_record error=%v", err)
	}
}

func (c *Client) post(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("feature log returned status %d", resp.StatusCode)
	}
	return nil
}
