package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/civicsignal/petition-meter/internal/analysis"
	"github.com/civicsignal/petition-meter/internal/cache"
	"github.com/civicsignal/petition-meter/internal/database"
	"github.com/civicsignal/petition-meter/internal/dataset"
	"github.com/civicsignal/petition-meter/internal/errors"
	"github.com/civicsignal/petition-meter/internal/frontend"
	"github.com/civicsignal/petition-meter/internal/history"
	"github.com/civicsignal/petition-meter/internal/model"
	"github.com/civicsignal/petition-meter/internal/monitoring"
	"github.com/civicsignal/petition-meter/internal/security"
	"github.com/civicsignal/petition-meter/internal/types"
)

const serverVersion = "1.0.0"

// app holds the wired services behind the HTTP surface
type app struct {
	extractor *analysis.Extractor
	scorer    *analysis.Scorer
	history   *history.Service
	dataset   *dataset.Summary
	metrics   *monitoring.Metrics
	logger    *monitoring.Logger
	cache     *cache.Cache
	security  *security.SecurityMiddleware
}

// @title Petition Meter API
// @version 1.0.0
// @description Petition success prediction: text feature extraction, classifier or heuristic scoring, and actionable feedback.
// @BasePath /
func main() {
	// .env is optional, env vars win
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	dataDir := getEnvOrDefault("DATA_DIR", "./data")
	modelPath := os.Getenv("MODEL_PATH")
	datasetPath := os.Getenv("DATASET_PATH")
	port := getEnvOrDefault("PORT", "8080")

	db, err := database.NewDB(dataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer errors.SafeClose(db, "database")

	repo := database.NewRepository(db)
	historyService := history.NewService(repo)

	// A missing or stale artifact must never start a server that
	// silently scores with the wrong rules version.
	var classifier analysis.Classifier
	featureNames := analysis.FeatureNames()
	if modelPath != "" {
		logistic, names, err := model.Load(modelPath, analysis.RulesVersion)
		if err != nil {
			appErr := errors.NewConfigurationError("classifier artifact unusable", err)
			slog.Error("Failed to load classifier artifact", "error", appErr, "path", modelPath)
			os.Exit(1)
		}
		classifier = logistic
		featureNames = names
		slog.Info("Classifier artifact loaded", "path", modelPath, "features", len(names))
	} else {
		slog.Info("No classifier artifact configured, scoring heuristically")
	}

	var datasetSummary *dataset.Summary
	if datasetPath != "" {
		datasetSummary, err = dataset.Load(datasetPath)
		if err != nil {
			slog.Warn("Reference dataset unavailable", "error", err, "path", datasetPath)
		} else {
			slog.Info("Reference dataset loaded", "rows", datasetSummary.Rows)
		}
	}

	a := &app{
		extractor: analysis.NewExtractor(analysis.NewVaderAnalyzer()),
		scorer:    analysis.NewScorer(classifier, featureNames),
		history:   historyService,
		dataset:   datasetSummary,
		metrics:   monitoring.NewMetrics(),
		logger:    monitoring.NewLogger(),
		cache:     cache.NewCache(15 * time.Minute),
		security:  security.NewSecurityMiddleware(security.DefaultSecurityConfig()),
	}

	r := a.buildRouter()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port, "version", serverVersion)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func (a *app) buildRouter() *gin.Engine {
	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(a.metrics, a.logger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(a.security.SecurityHeaders)
	r.Use(a.security.RequestTimeout)
	r.Use(a.security.ValidateContentType)
	r.Use(a.security.RateLimitByIP)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = a.security.Config().AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Cache-Control"}
	r.Use(cors.New(corsConfig))

	r.Use(a.cache.Middleware(a.metrics))

	r.GET("/health", a.handleHealth)
	r.POST("/analyze", a.handleAnalyze)
	r.GET("/features/names", a.handleFeatureNames)
	r.GET("/taxonomy", a.handleTaxonomy)
	r.GET("/benchmarks", a.handleBenchmarks)
	r.GET("/samples", a.handleSamples)
	r.GET("/dataset/summary", a.handleDatasetSummary)
	r.GET("/history/recent", a.handleHistoryRecent)
	r.GET("/history/stats", a.handleHistoryStats)

	r.GET("/metrics", a.handleMetrics)
	r.GET("/cache/stats", a.handleCacheStats)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	distFS, err := frontend.GetDistFS()
	if err != nil {
		slog.Error("Failed to load embedded frontend", "error", err)
	} else {
		r.NoRoute(frontend.NewSPAHandler(distFS))
	}

	return r
}

// handleHealth reports liveness plus a metrics snapshot.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (a *app) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"timestamp":     time.Now().Format(time.RFC3339),
		"version":       serverVersion,
		"rules_version": analysis.RulesVersion,
		"classifier":    a.scorer.HasClassifier(),
		"metrics":       a.metrics.GetStats(),
	})
}

// handleAnalyze scores a petition document and returns the probability,
// feature vector and feedback.
// @Summary Analyze a petition
// @Tags analysis
// @Accept json
// @Produce json
// @Param document body types.AnalyzeRequest true "Petition document"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Failure 429 {object} map[string]interface{}
// @Router /analyze [post]
func (a *app) handleAnalyze(c *gin.Context) {
	start := time.Now()

	var req types.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := errors.NewValidationError("invalid request body", err.Error())
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	doc := req.Document()
	if strings.TrimSpace(doc.Title) == "" && strings.TrimSpace(doc.Description) == "" {
		appErr := errors.NewValidationError("a title or description is required")
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	if err := a.security.ValidateDocument(doc); err != nil {
		appErr := errors.ToAppError(err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	a.metrics.IncrementAnalyze()

	fv := a.extractor.ExtractFeatures(doc)
	result := a.scorer.ScoreDocument(doc, fv)

	if result.Source == analysis.SourceClassifier {
		a.metrics.IncrementClassifierScore()
	} else if a.scorer.HasClassifier() {
		a.metrics.IncrementHeuristicFallback()
	}

	a.logger.AnalysisLogger(
		len(doc.Title), len(doc.Description),
		result.Probability, result.Feedback.Grade, result.Source,
		time.Since(start),
	)

	// persist async so slow disks never block the response
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.history.Record(ctx, doc, result); err != nil {
			slog.Error("Failed to record analysis", "error", err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{
		"probability":   result.Probability,
		"prediction":    result.Prediction,
		"source":        result.Source,
		"rules_version": analysis.RulesVersion,
		"features":      result.Features,
		"feedback":      result.Feedback,
	})
}

// handleFeatureNames returns the declared feature keys for the active
// rules version, in extraction order.
// @Summary Feature key list
// @Tags analysis
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /features/names [get]
func (a *app) handleFeatureNames(c *gin.Context) {
	names := a.scorer.FeatureNames()
	c.JSON(http.StatusOK, gin.H{
		"rules_version": analysis.RulesVersion,
		"count":         len(names),
		"names":         names,
	})
}

// @Summary Keyword taxonomy
// @Tags analysis
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /taxonomy [get]
func (a *app) handleTaxonomy(c *gin.Context) {
	t := a.extractor.Taxonomy()
	c.JSON(http.StatusOK, gin.H{
		"rules_version": analysis.RulesVersion,
		"urgency":       t.Urgency,
		"action":        t.Action,
		"power":         t.Power,
		"authority":     t.Authority,
		"cta_patterns":  t.CTAPatterns,
	})
}

// @Summary Success benchmarks
// @Tags analysis
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /benchmarks [get]
func (a *app) handleBenchmarks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rules_version": analysis.RulesVersion,
		"grades": []gin.H{
			{"grade": "Excellent", "min_probability": 0.8},
			{"grade": "Very Good", "min_probability": 0.7},
			{"grade": "Good", "min_probability": 0.6},
			{"grade": "Moderate", "min_probability": 0.5},
			{"grade": "Needs Work", "min_probability": 0.4},
			{"grade": "Major Revision Needed", "min_probability": 0.0},
		},
		"targets": gin.H{
			"content_length":   2000,
			"html_tags":        15,
			"urgency_keywords": 2,
			"action_keywords":  3,
		},
	})
}

// @Summary Sample petitions
// @Tags analysis
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /samples [get]
func (a *app) handleSamples(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"samples": samplePetitions})
}

// @Summary Reference dataset summary
// @Tags dataset
// @Produce json
// @Success 200 {object} dataset.Summary
// @Failure 404 {object} errors.AppError
// @Router /dataset/summary [get]
func (a *app) handleDatasetSummary(c *gin.Context) {
	if a.dataset == nil {
		appErr := errors.NewNotFoundError("no reference dataset loaded")
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	c.JSON(http.StatusOK, a.dataset)
}

// @Summary Recent analyses
// @Tags history
// @Produce json
// @Param limit query int false "Entries to return (1-100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /history/recent [get]
func (a *app) handleHistoryRecent(c *gin.Context) {
	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	records, err := a.history.Recent(c.Request.Context(), limit)
	if err != nil {
		a.logger.APIErrorLogger(err, "GET", "/history/recent", c.ClientIP(), http.StatusInternalServerError)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": records,
		"total":   len(records),
	})
}

// @Summary Aggregate analysis statistics
// @Tags history
// @Produce json
// @Success 200 {object} database.AnalysisStats
// @Router /history/stats [get]
func (a *app) handleHistoryStats(c *gin.Context) {
	stats, err := a.history.Stats(c.Request.Context())
	if err != nil {
		a.logger.APIErrorLogger(err, "GET", "/history/stats", c.ClientIP(), http.StatusInternalServerError)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary Service metrics
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /metrics [get]
func (a *app) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, a.metrics.GetStats())
}

// @Summary Response cache statistics
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /cache/stats [get]
func (a *app) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, a.cache.Stats())
}

func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
