package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/go-school-search/internal/analytics"
	"github.com/gcbaptista/go-school-search/internal/metrics"
	"github.com/gcbaptista/go-school-search/services"
)

// Options configures the HTTP surface.
type Options struct {
	MaxQueryLength int
	MaxBodyBytes   int64
	// Metrics, when set, instruments requests and serves MetricsPath.
	Metrics     *metrics.Metrics
	MetricsPath string
	// Analytics, when set, records every successful query and serves /analytics.
	Analytics *analytics.Service
	Logger    *logrus.Entry
}

// API holds dependencies for API handlers, primarily the searcher.
type API struct {
	searcher services.Searcher
	opts     Options
	logger   *logrus.Entry
}

// NewAPI creates a new API handler structure.
func NewAPI(searcher services.Searcher, opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.WithField("component", "api")
	}
	return &API{
		searcher: searcher,
		opts:     opts,
		logger:   logger,
	}
}

// SetupRoutes defines all the API routes for the search engine.
func SetupRoutes(router *gin.Engine, searcher services.Searcher, opts Options) {
	apiHandler := NewAPI(searcher, opts)

	router.Use(RequestIDMiddleware(), CORSMiddleware(), LoggingMiddleware(apiHandler.logger), RecoveryMiddleware(apiHandler.logger))
	if opts.MaxBodyBytes > 0 {
		router.Use(RequestSizeLimitMiddleware(opts.MaxBodyBytes))
	}
	if opts.Metrics != nil {
		router.Use(MetricsMiddleware(opts.Metrics))

		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(opts.Metrics.Handler()))
	}

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Index statistics
	router.GET("/stats", apiHandler.StatsHandler)

	if opts.Analytics != nil {
		router.GET("/analytics", apiHandler.AnalyticsHandler)
	}

	// Search routes
	router.GET("/search", apiHandler.SearchGetHandler)
	router.POST("/search", apiHandler.SearchHandler)
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "go-school-search",
		"index_built": api.searcher.Built(),
		"timestamp":   fmt.Sprintf("%d", time.Now().Unix()),
	})
}

// StatsHandler returns statistics for the index
func (api *API) StatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.searcher.Stats())
}

// AnalyticsHandler returns a summary of recent queries
func (api *API) AnalyticsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.opts.Analytics.GetDashboardData())
}
