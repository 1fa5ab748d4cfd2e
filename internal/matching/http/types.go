package http

import (
	"time"

	"github.com/tripamigo/travel-match-backend/internal/matching/domain"
)

type destinationReq struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type attributesReq struct {
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	Personality string   `json:"personality"`
	Interests   []string `json:"interests"`
	Languages   []string `json:"languages"`
	Smoking     bool     `json:"smoking"`
	Drinking    bool     `json:"drinking"`
	Nationality string   `json:"nationality"`
	Location    struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"location"`
}

type publishIntentReq struct {
	Destination destinationReq `json:"destination"`
	Budget      float64        `json:"budget"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	Attributes  attributesReq  `json:"static_attributes"`
}

// toIntent builds the domain intent for the authenticated user. Dates are
// ISO calendar dates; time-of-day never matters in trip overlap.
func (r *publishIntentReq) toIntent(userID string) (*domain.TravelIntent, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return nil, domain.Invalid("start_date", "must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return nil, domain.Invalid("end_date", "must be YYYY-MM-DD")
	}

	return &domain.TravelIntent{
		UserID: userID,
		Destination: domain.Destination{
			ID:   r.Destination.ID,
			Name: r.Destination.Name,
			Lat:  r.Destination.Lat,
			Lon:  r.Destination.Lon,
		},
		Budget:    r.Budget,
		StartDate: start,
		EndDate:   end,
		Attributes: domain.StaticAttributes{
			Age:         r.Attributes.Age,
			Gender:      r.Attributes.Gender,
			Personality: r.Attributes.Personality,
			Interests:   r.Attributes.Interests,
			Languages:   r.Attributes.Languages,
			Smoking:     r.Attributes.Smoking,
			Drinking:    r.Attributes.Drinking,
			Nationality: r.Attributes.Nationality,
			Location:    domain.LatLon{Lat: r.Attributes.Location.Lat, Lon: r.Attributes.Location.Lon},
		},
	}, nil
}

type interestReq struct {
	ToUserID      string `json:"to_user_id"`
	DestinationID string `json:"destination_id"`
	MatchType     string `json:"match_type"`
}

type skipReq struct {
	SkippedEntityID string `json:"skipped_entity_id"`
	DestinationID   string `json:"destination_id"`
	MatchType       string `json:"match_type"`
}

type impressionReq struct {
	ViewedUserID  string `json:"viewed_user_id"`
	DestinationID string `json:"destination_id"`
}

type scorePairReq struct {
	Seeker    publishIntentReq `json:"seeker"`
	Candidate candidateReq     `json:"candidate"`
	Preset    string           `json:"preset"`
}

type candidateReq struct {
	ID             string         `json:"id"`
	Destination    destinationReq `json:"destination"`
	Budget         float64        `json:"budget"`
	StartDate      string         `json:"start_date"`
	EndDate        string         `json:"end_date"`
	Age            float64        `json:"age"`
	Interests      []string       `json:"interests"`
	Languages      []string       `json:"languages"`
	SmokingPolicy  string         `json:"smoking_policy"`
	DrinkingPolicy string         `json:"drinking_policy"`
	Nationalities  []string       `json:"nationalities"`
}
