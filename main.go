package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"eclipse-tracker/controllers"
	"eclipse-tracker/database"
	"eclipse-tracker/interfaces"
	"eclipse-tracker/services"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Load .env if present; real env vars win
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment")
	}

	dbPath := envOr("TRACKER_DB_PATH", "data/tracker.db")
	journalDir := envOr("TRACKER_JOURNAL_DIR", "data/activity")
	addr := ":" + envOr("PORT", "8080")

	storage, err := database.NewLocalStorage(dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open storage")
	}
	defer storage.Close()

	journal, err := services.NewActivityJournal(journalDir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open activity journal")
	}

	tracker := services.NewPortfolioTracker(storage, journal)
	quotes := services.NewQuoteCache()

	quoteService := buildQuoteService(storage, logger)
	refresher := services.NewQuoteRefresher(quoteService, quotes)

	positionController := controllers.NewPositionController(tracker, quotes)
	portfolioController := controllers.NewPortfolioController(tracker, quotes)
	goalController := controllers.NewGoalController(tracker, quotes)
	quoteController := controllers.NewQuoteController(tracker, quotes, refresher, storage)
	activityController := controllers.NewActivityController(journal)

	router := gin.Default()

	v1 := router.Group("/api/v1")
	{
		v1.POST("/positions", positionController.HandleOpenPosition)
		v1.GET("/positions", positionController.HandleListPositions)
		v1.GET("/positions/:id", positionController.HandleGetPosition)
		v1.DELETE("/positions/:id", positionController.HandleDeletePosition)
		v1.POST("/positions/:id/close", positionController.HandleClosePosition)
		v1.POST("/positions/:id/expire", positionController.HandleExpirePosition)
		v1.GET("/positions/:id/projection", positionController.HandleProjection)

		v1.GET("/portfolio/summary", portfolioController.HandleSummary)

		v1.GET("/goals", goalController.HandleListGoals)
		v1.POST("/goals", goalController.HandleAddGoal)
		v1.GET("/goals/projection", goalController.HandleProjection)

		v1.POST("/quotes/refresh", quoteController.HandleRefresh)
		v1.GET("/quotes", quoteController.HandleListQuotes)
		v1.PUT("/quotes/:ticker/manual", quoteController.HandleManualQuote)
		v1.GET("/market/status", quoteController.HandleMarketStatus)

		v1.PUT("/settings/api-key", quoteController.HandleSaveAPIKey)
		v1.GET("/settings/api-key", quoteController.HandleGetAPIKey)

		v1.GET("/activity", activityController.HandleGetActivity)
		v1.GET("/activity/dates", activityController.HandleListDates)
	}

	// Refresh quotes every minute while the market is open
	go autoRefresh(context.Background(), tracker, refresher, logger)

	logger.WithField("addr", addr).Info("Starting tracker")
	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Server stopped")
	}
}

// buildQuoteService selects the market data provider. Finnhub is the
// default; set QUOTE_PROVIDER=alpaca to use Alpaca snapshots instead.
func buildQuoteService(storage interfaces.StorageService, logger *logrus.Logger) interfaces.QuoteService {
	if os.Getenv("QUOTE_PROVIDER") == "alpaca" {
		logger.Info("Using Alpaca quote provider")
		return services.NewAlpacaQuoteService(
			os.Getenv("ALPACA_API_KEY"),
			os.Getenv("ALPACA_SECRET_KEY"),
		)
	}

	return services.NewFinnhubQuoteService(func() string {
		if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
			return key
		}
		key, err := storage.LoadAPIKey()
		if err != nil {
			logger.WithError(err).Warn("Failed to load API key")
			return ""
		}
		return key
	})
}

// autoRefresh keeps cached quotes current during market hours
func autoRefresh(ctx context.Context, tracker *services.PortfolioTracker, refresher *services.QuoteRefresher, logger *logrus.Logger) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !services.IsMarketOpen() {
				continue
			}
			tickers := tracker.UniqueTickers()
			if len(tickers) == 0 {
				continue
			}
			refresher.RefreshBatch(ctx, tickers)
		}
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
