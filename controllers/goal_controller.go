package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eclipse-tracker/services"
)

// GoalController serves goal progress and capital projections
type GoalController struct {
	tracker *services.PortfolioTracker
	quotes  *services.QuoteCache
}

// NewGoalController creates a new goal controller
func NewGoalController(tracker *services.PortfolioTracker, quotes *services.QuoteCache) *GoalController {
	return &GoalController{
		tracker: tracker,
		quotes:  quotes,
	}
}

// HandleListGoals returns every goal with its progress against current
// total P&L
// GET /api/v1/goals
func (gc *GoalController) HandleListGoals(c *gin.Context) {
	metrics := gc.tracker.Metrics(gc.quotes.All())

	goals := gc.tracker.Goals()
	results := make([]gin.H, 0, len(goals))
	for _, goal := range goals {
		progress := services.CalcGoalProgress(metrics.TotalPnL, goal.TargetAmount)
		daysLeft := services.DaysToExpiration(goal.TargetDate)

		// Daily pace needed; past-due goals show the full remaining amount
		dailyTarget := progress.Remaining
		if daysLeft > 0 {
			dailyTarget = progress.Remaining / float64(daysLeft)
		}

		results = append(results, gin.H{
			"goal":         goal,
			"progress":     progress,
			"days_left":    daysLeft,
			"daily_target": dailyTarget,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_pnl": metrics.TotalPnL,
		"goals":     results,
	})
}

// addGoalRequest carries the user's inputs for a new goal
type addGoalRequest struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	TargetDate   string  `json:"target_date"`
}

// HandleAddGoal records a new P&L goal
// POST /api/v1/goals
func (gc *GoalController) HandleAddGoal(c *gin.Context) {
	var req addGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	goal, err := gc.tracker.AddGoal(req.Name, req.TargetAmount, req.TargetDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to add goal",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Goal added",
		"goal":    goal,
	})
}

// HandleProjection sizes the contracts and capital needed to close each
// goal's gap under the assumed per-trade return and premium
// GET /api/v1/goals/projection?return_percent=20&premium=5
func (gc *GoalController) HandleProjection(c *gin.Context) {
	returnPercent, err := strconv.ParseFloat(c.DefaultQuery("return_percent", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "return_percent must be a number",
		})
		return
	}
	premium, err := strconv.ParseFloat(c.DefaultQuery("premium", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "premium must be a number",
		})
		return
	}

	metrics := gc.tracker.Metrics(gc.quotes.All())

	goals := gc.tracker.Goals()
	results := make([]gin.H, 0, len(goals))
	for _, goal := range goals {
		progress := services.CalcGoalProgress(metrics.TotalPnL, goal.TargetAmount)
		results = append(results, gin.H{
			"goal":       goal,
			"remaining":  progress.Remaining,
			"reached":    progress.Remaining <= 0,
			"projection": services.CalcContractsNeeded(progress.Remaining, returnPercent, premium),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"return_percent": returnPercent,
		"premium":        premium,
		"goals":          results,
	})
}
