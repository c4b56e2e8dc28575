package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eclipse-tracker/interfaces"
	"eclipse-tracker/services"
)

// ActivityController serves the position lifecycle journal
type ActivityController struct {
	journal *services.ActivityJournal
}

// NewActivityController creates a new activity controller
func NewActivityController(journal *services.ActivityJournal) *ActivityController {
	return &ActivityController{
		journal: journal,
	}
}

// HandleGetActivity returns the journal for a date, defaulting to today
// GET /api/v1/activity?date=2026-02-15
func (ac *ActivityController) HandleGetActivity(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format(interfaces.DateLayout))
	if _, err := time.Parse(interfaces.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "date must be a valid " + interfaces.DateLayout + " date",
		})
		return
	}

	journal, err := ac.journal.GetJournalForDate(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read activity journal",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, journal)
}

// HandleListDates returns the dates with recorded activity
// GET /api/v1/activity/dates
func (ac *ActivityController) HandleListDates(c *gin.Context) {
	dates, err := ac.journal.ListAvailableDates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list activity dates",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dates": dates,
	})
}
