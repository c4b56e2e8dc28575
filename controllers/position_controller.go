package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eclipse-tracker/services"
)

// PositionController handles position lifecycle operations
type PositionController struct {
	tracker *services.PortfolioTracker
	quotes  *services.QuoteCache
}

// NewPositionController creates a new position controller
func NewPositionController(tracker *services.PortfolioTracker, quotes *services.QuoteCache) *PositionController {
	return &PositionController{
		tracker: tracker,
		quotes:  quotes,
	}
}

// HandleOpenPosition opens a new position
// POST /api/v1/positions
func (pc *PositionController) HandleOpenPosition(c *gin.Context) {
	var req services.OpenPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	position, err := pc.tracker.OpenPosition(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to open position",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Position opened",
		"position": position,
	})
}

// HandleListPositions lists open and closed positions
// GET /api/v1/positions
func (pc *PositionController) HandleListPositions(c *gin.Context) {
	positions := pc.tracker.ListPositions()
	closed := pc.tracker.ListClosedPositions()

	c.JSON(http.StatusOK, gin.H{
		"count":            len(positions),
		"positions":        positions,
		"closed_positions": closed,
	})
}

// HandleGetPosition returns one open position with its current valuation
// GET /api/v1/positions/:id
func (pc *PositionController) HandleGetPosition(c *gin.Context) {
	position, err := pc.tracker.GetPosition(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Position not found",
			"details": err.Error(),
		})
		return
	}

	resp := gin.H{
		"position":           position,
		"breakeven":          services.Breakeven(position.StrikePrice, position.PremiumPaid, position.OptionType),
		"max_loss":           services.MaxLoss(position.PremiumPaid, position.Contracts),
		"days_to_expiration": services.DaysToExpiration(position.ExpirationDate),
	}

	if quote := pc.quotes.Get(position.Ticker); quote != nil && quote.Current > 0 {
		resp["quote"] = quote
		resp["in_the_money"] = services.IsInTheMoney(quote.Current, position.StrikePrice, position.OptionType)
		resp["estimated_value"] = services.EstimatedOptionValue(
			quote.Current,
			position.StrikePrice,
			position.PremiumPaid,
			services.DaysToExpiration(position.ExpirationDate),
			position.OptionType,
		)
		resp["unrealized_pnl"] = services.PositionPnL(position, quote.Current)
		resp["today_return"] = services.CalcTodayReturn(quote.Current, quote.PreviousClose)
	}

	c.JSON(http.StatusOK, resp)
}

// HandleDeletePosition removes an open, undecided position
// DELETE /api/v1/positions/:id
func (pc *PositionController) HandleDeletePosition(c *gin.Context) {
	if err := pc.tracker.DeletePosition(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Position not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Position deleted",
	})
}

// closePositionRequest carries the exit premium per share
type closePositionRequest struct {
	ExitPremium *float64 `json:"exit_premium"`
}

// HandleClosePosition closes a position by sale
// POST /api/v1/positions/:id/close
func (pc *PositionController) HandleClosePosition(c *gin.Context) {
	var req closePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}
	if req.ExitPremium == nil || *req.ExitPremium < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "exit_premium must be zero or positive",
		})
		return
	}

	closed, err := pc.tracker.ClosePosition(c.Param("id"), *req.ExitPremium)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Failed to close position",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Position closed",
		"position": closed,
	})
}

// HandleExpirePosition marks a position as expired worthless
// POST /api/v1/positions/:id/expire
func (pc *PositionController) HandleExpirePosition(c *gin.Context) {
	expired, err := pc.tracker.ExpirePosition(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Failed to expire position",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Position expired",
		"position": expired,
	})
}

// HandleProjection returns the profit-vs-price curve for a position
// GET /api/v1/positions/:id/projection?price=185.50
func (pc *PositionController) HandleProjection(c *gin.Context) {
	position, err := pc.tracker.GetPosition(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Position not found",
			"details": err.Error(),
		})
		return
	}

	var referencePrice float64
	if raw := c.Query("price"); raw != "" {
		referencePrice, err = strconv.ParseFloat(raw, 64)
		if err != nil || referencePrice <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "price must be a positive number",
			})
			return
		}
	} else if quote := pc.quotes.Get(position.Ticker); quote != nil && quote.Current > 0 {
		referencePrice = quote.Current
	} else {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "no price available for " + position.Ticker + "; refresh quotes or pass ?price=",
		})
		return
	}

	points := services.ProjectionRange(
		referencePrice,
		position.StrikePrice,
		position.PremiumPaid,
		position.Contracts,
		position.OptionType,
	)

	c.JSON(http.StatusOK, gin.H{
		"position_id":     position.ID,
		"reference_price": referencePrice,
		"breakeven":       services.Breakeven(position.StrikePrice, position.PremiumPaid, position.OptionType),
		"points":          points,
	})
}
