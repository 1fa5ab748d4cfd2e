// Package http exposes the matching flows over the versioned REST surface.
// All routes run behind the identity middleware; handlers read the resolved
// internal user id from the gin context.
package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tripamigo/travel-match-backend/internal/auth"
	"github.com/tripamigo/travel-match-backend/internal/matching/domain"
	"github.com/tripamigo/travel-match-backend/internal/matching/scoring"
	"github.com/tripamigo/travel-match-backend/internal/matching/service"
)

type Handler struct {
	svc *service.Matching
}

func New(svc *service.Matching) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) publishIntent(c *gin.Context) {
	var req publishIntentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	intent, err := req.toIntent(auth.UserDBID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	if err := h.svc.PublishIntent(c.Request.Context(), intent); err != nil {
		if domain.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "intent": intent})
}

func (h *Handler) activeIntent(c *gin.Context) {
	intent, err := h.svc.ActiveIntent(c.Request.Context(), auth.UserDBID(c))
	if errors.Is(err, domain.ErrIntentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no active travel intent"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "intent": intent})
}

func (h *Handler) listCandidates(c *gin.Context) {
	matchType := domain.MatchType(c.DefaultQuery("match_type", string(domain.MatchTypeSolo)))
	if !matchType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "match_type must be solo or group"})
		return
	}
	preset := c.DefaultQuery("preset", scoring.DefaultPreset)

	ranked, err := h.svc.ListCandidates(c.Request.Context(), auth.UserDBID(c), matchType, preset)
	if errors.Is(err, domain.ErrIntentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no active travel intent"})
		return
	}
	if domain.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "candidates": ranked})
}

func (h *Handler) scorePair(c *gin.Context) {
	var req scorePairReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	seeker, err := req.Seeker.toIntent(auth.UserDBID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	cand, err := req.Candidate.toCandidate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	preset := req.Preset
	if preset == "" {
		preset = scoring.DefaultPreset
	}

	res, withinRange, err := h.svc.ScorePair(seeker, cand, preset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if !withinRange {
		c.JSON(http.StatusOK, gin.H{"ok": true, "within_range": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "within_range": true, "score": res.Score, "breakdown": res.Breakdown})
}

func (h *Handler) expressInterest(c *gin.Context) {
	var req interestReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ToUserID) == "" || strings.TrimSpace(req.DestinationID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res, err := h.svc.ExpressInterest(c.Request.Context(), auth.UserDBID(c), req.ToUserID, req.DestinationID, domain.MatchType(req.MatchType))
	if domain.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"ok": true, "interest_id": res.InterestID, "matched": res.Matched, "created": res.Created})
}

func (h *Handler) recordSkip(c *gin.Context) {
	var req skipReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.SkippedEntityID) == "" || strings.TrimSpace(req.DestinationID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	skipID, created, err := h.svc.SkipCandidate(c.Request.Context(), auth.UserDBID(c), req.SkippedEntityID, req.DestinationID, domain.MatchType(req.MatchType))
	if domain.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"ok": true, "skip_id": skipID, "created": created})
}

func (h *Handler) recordImpression(c *gin.Context) {
	var req impressionReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ViewedUserID) == "" || strings.TrimSpace(req.DestinationID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	created, err := h.svc.RecordImpression(c.Request.Context(), auth.UserDBID(c), req.ViewedUserID, req.DestinationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "created": created})
}

func (h *Handler) impressionCount(c *gin.Context) {
	n, err := h.svc.ImpressionCount(c.Request.Context(), auth.UserDBID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": n})
}

// toCandidate converts the request body into the scorer's candidate view.
func (r *candidateReq) toCandidate() (scoring.Candidate, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return scoring.Candidate{}, domain.Invalid("candidate.start_date", "must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return scoring.Candidate{}, domain.Invalid("candidate.end_date", "must be YYYY-MM-DD")
	}

	return scoring.Candidate{
		ID: r.ID,
		Destination: domain.Destination{
			ID:   r.Destination.ID,
			Name: r.Destination.Name,
			Lat:  r.Destination.Lat,
			Lon:  r.Destination.Lon,
		},
		Budget:         r.Budget,
		StartDate:      start,
		EndDate:        end,
		Age:            r.Age,
		Interests:      r.Interests,
		Languages:      r.Languages,
		SmokingPolicy:  r.SmokingPolicy,
		DrinkingPolicy: r.DrinkingPolicy,
		Nationalities:  r.Nationalities,
	}, nil
}
