package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eclipse-tracker/interfaces"
	"eclipse-tracker/services"
)

// QuoteController handles quote refresh, manual prices and market status
type QuoteController struct {
	tracker   *services.PortfolioTracker
	quotes    *services.QuoteCache
	refresher *services.QuoteRefresher
	storage   interfaces.StorageService
}

// NewQuoteController creates a new quote controller
func NewQuoteController(tracker *services.PortfolioTracker, quotes *services.QuoteCache, refresher *services.QuoteRefresher, storage interfaces.StorageService) *QuoteController {
	return &QuoteController{
		tracker:   tracker,
		quotes:    quotes,
		refresher: refresher,
		storage:   storage,
	}
}

// HandleRefresh fetches fresh quotes for every ticker with an open position
// POST /api/v1/quotes/refresh
func (qc *QuoteController) HandleRefresh(c *gin.Context) {
	tickers := qc.tracker.UniqueTickers()
	if len(tickers) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "No open positions to refresh",
			"quotes":  gin.H{},
		})
		return
	}

	fetched := qc.refresher.RefreshBatch(c.Request.Context(), tickers)

	c.JSON(http.StatusOK, gin.H{
		"requested": len(tickers),
		"fetched":   len(fetched),
		"quotes":    fetched,
	})
}

// HandleListQuotes returns the cached quote per ticker
// GET /api/v1/quotes
func (qc *QuoteController) HandleListQuotes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"quotes": qc.quotes.All(),
	})
}

// manualQuoteRequest carries a hand-entered underlying price
type manualQuoteRequest struct {
	Price float64 `json:"price"`
}

// HandleManualQuote stores a manual price for a ticker
// PUT /api/v1/quotes/:ticker/manual
func (qc *QuoteController) HandleManualQuote(c *gin.Context) {
	var req manualQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}
	if req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "price must be positive",
		})
		return
	}

	quote := qc.quotes.SetManual(c.Param("ticker"), req.Price)

	c.JSON(http.StatusOK, gin.H{
		"message": "Manual quote set",
		"quote":   quote,
	})
}

// HandleMarketStatus reports whether the US equity market is in its regular
// session
// GET /api/v1/market/status
func (qc *QuoteController) HandleMarketStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"open": services.IsMarketOpen(),
	})
}

// apiKeyRequest carries the quote provider credential
type apiKeyRequest struct {
	APIKey string `json:"api_key"`
}

// HandleSaveAPIKey stores the quote provider credential
// PUT /api/v1/settings/api-key
func (qc *QuoteController) HandleSaveAPIKey(c *gin.Context) {
	var req apiKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if err := qc.storage.SaveAPIKey(req.APIKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save API key",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "API key saved",
	})
}

// HandleGetAPIKey returns whether a credential is on file
// GET /api/v1/settings/api-key
func (qc *QuoteController) HandleGetAPIKey(c *gin.Context) {
	key, err := qc.storage.LoadAPIKey()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load API key",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"configured": key != "",
	})
}
