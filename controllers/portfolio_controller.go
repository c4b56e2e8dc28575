package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eclipse-tracker/services"
)

// PortfolioController serves portfolio-level aggregates
type PortfolioController struct {
	tracker *services.PortfolioTracker
	quotes  *services.QuoteCache
}

// NewPortfolioController creates a new portfolio controller
func NewPortfolioController(tracker *services.PortfolioTracker, quotes *services.QuoteCache) *PortfolioController {
	return &PortfolioController{
		tracker: tracker,
		quotes:  quotes,
	}
}

// HandleSummary returns portfolio totals across open and closed positions
// GET /api/v1/portfolio/summary
func (pc *PortfolioController) HandleSummary(c *gin.Context) {
	metrics := pc.tracker.Metrics(pc.quotes.All())

	c.JSON(http.StatusOK, gin.H{
		"metrics":        metrics,
		"open_count":     len(pc.tracker.ListPositions()),
		"unique_tickers": pc.tracker.UniqueTickers(),
	})
}
