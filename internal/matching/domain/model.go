package domain

import (
	"strings"
	"time"
)

// MatchType distinguishes traveler-to-traveler from traveler-to-group matching.
type MatchType string

const (
	MatchTypeSolo  MatchType = "solo"
	MatchTypeGroup MatchType = "group"
)

func (t MatchType) Valid() bool {
	return t == MatchTypeSolo || t == MatchTypeGroup
}

// Interest status constants
const (
	InterestPending  = "pending"
	InterestAccepted = "accepted"
)

// Match status constants
const (
	MatchActive = "active"
	MatchEnded  = "ended"
)

// Smoking/drinking policies as used on group profiles. A solo traveler's
// boolean habit maps onto the same vocabulary so scoring has one code path.
const (
	SmokersWelcome  = "Smokers Welcome"
	NonSmoking      = "Non-Smoking"
	DrinkersWelcome = "Drinkers Welcome"
	NonDrinking     = "Non-Drinking"
	PolicyMixed     = "Mixed"
)

// LatLon is a WGS84 coordinate pair.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Destination is a named place a traveler wants to go. ID keys the ledgers;
// the coordinates drive the geographic hard filter.
type Destination struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// StaticAttributes is the profile snapshot frozen into a travel intent at
// publish time, so discovery never has to join back to the profile store.
type StaticAttributes struct {
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	Personality string   `json:"personality"`
	Interests   []string `json:"interests"`
	Languages   []string `json:"languages"`
	Smoking     bool     `json:"smoking"`
	Drinking    bool     `json:"drinking"`
	Nationality string   `json:"nationality"`
	Location    LatLon   `json:"location"`
}

// TravelIntent is a user's currently active "looking for a trip" record.
// At most one live intent per user; a new publish overwrites and resets expiry.
type TravelIntent struct {
	UserID      string           `json:"user_id"`
	Destination Destination      `json:"destination"`
	Budget      float64          `json:"budget"`
	StartDate   time.Time        `json:"start_date"`
	EndDate     time.Time        `json:"end_date"`
	Attributes  StaticAttributes `json:"static_attributes"`
	CreatedAt   time.Time        `json:"created_at"`
}

// GroupProfile is the read-only aggregate a travel group presents to
// discovery. Owned by the profile-aggregation side; this core only reads it.
type GroupProfile struct {
	GroupID               string      `json:"group_id"`
	Name                  string      `json:"name"`
	Destination           Destination `json:"destination"`
	AverageBudget         float64     `json:"average_budget"`
	StartDate             time.Time   `json:"start_date"`
	EndDate               time.Time   `json:"end_date"`
	AverageAge            float64     `json:"average_age"`
	DominantLanguages     []string    `json:"dominant_languages"`
	TopInterests          []string    `json:"top_interests"`
	SmokingPolicy         string      `json:"smoking_policy"`
	DrinkingPolicy        string      `json:"drinking_policy"`
	DominantNationalities []string    `json:"dominant_nationalities"`
}

// Interest is a directional "I'm interested" assertion. Never deleted.
type Interest struct {
	ID            string    `json:"id"`
	FromUserID    string    `json:"from_user_id"`
	ToUserID      string    `json:"to_user_id"`
	DestinationID string    `json:"destination_id"`
	MatchType     MatchType `json:"match_type"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Skip is a "not interested" assertion. Immutable once created.
type Skip struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	SkippedEntityID string    `json:"skipped_entity_id"`
	DestinationID   string    `json:"destination_id"`
	MatchType       MatchType `json:"match_type"`
	CreatedAt       time.Time `json:"created_at"`
}

// Match is a confirmed reciprocal pairing. Participants are stored in
// canonical order: UserAID is always the lexicographically smaller id.
type Match struct {
	ID            string    `json:"id"`
	UserAID       string    `json:"user_a_id"`
	UserBID       string    `json:"user_b_id"`
	DestinationID string    `json:"destination_id"`
	MatchType     MatchType `json:"match_type"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// CanonicalPair orders two participant ids so a pair is represented
// identically regardless of who acted first.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// SmokingPolicyFor maps a solo traveler's habit onto the group policy
// vocabulary used by scoring.
func SmokingPolicyFor(smokes bool) string {
	if smokes {
		return SmokersWelcome
	}
	return NonSmoking
}

// DrinkingPolicyFor maps a solo traveler's habit onto the group policy
// vocabulary used by scoring.
func DrinkingPolicyFor(drinks bool) string {
	if drinks {
		return DrinkersWelcome
	}
	return NonDrinking
}

// NormalizeSet lowercases and trims the values of an interest/language list,
// dropping empties. Scoring compares these sets, so normalization lives here.
func NormalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
