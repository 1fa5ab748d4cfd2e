package http

import "github.com/gin-gonic/gin"

// Register attaches matching routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/intents", h.publishIntent)
	rg.GET("/intents/me", h.activeIntent)
	rg.GET("/candidates", h.listCandidates)
	rg.POST("/score", h.scorePair)
	rg.POST("/interests", h.expressInterest)
	rg.POST("/skips", h.recordSkip)
	rg.POST("/impressions", h.recordImpression)
	rg.GET("/impressions/count", h.impressionCount)
}
