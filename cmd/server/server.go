package main

import (
	"net/http"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ZanzyTHEbar/github-activity-tracker/docs"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/adapters"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/analysis"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/config"
	apperrors "github.com/ZanzyTHEbar/github-activity-tracker/internal/errors"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/frontend"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/middleware"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/monitoring"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/ratelimit"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/security"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/types"
)

// server owns every long-lived component behind the HTTP routes
type server struct {
	cfg         *config.Config
	logger      *monitoring.Logger
	metrics     *monitoring.Metrics
	github      *adapters.GitHubAdapter
	service     *analysis.Service
	redis       *ratelimit.RedisClient
	limiter     *ratelimit.RateLimiter
	guard       *security.SecurityMiddleware
	compression *middleware.CompressionMiddleware
	pages       *frontend.Handler
}

func newServer(cfg *config.Config, logger *monitoring.Logger, metrics *monitoring.Metrics, redisClient *ratelimit.RedisClient) (*server, error) {
	github := adapters.NewGitHubAdapter(cfg.GitHubAPIURL, logger, metrics)
	service := analysis.NewService(github, logger, metrics)

	guard := security.NewSecurityMiddleware(security.SecurityConfig{
		MaxInputLength: security.DefaultSecurityConfig().MaxInputLength,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.AnalysisTimeout,
	})

	limiterConfig := ratelimit.DefaultConfig()
	limiterConfig.AnalysesPerMin = cfg.RateLimitPerMin

	pages, err := frontend.NewHandler(service, guard, logger.Logger)
	if err != nil {
		_ = github.Close()
		return nil, err
	}

	return &server{
		cfg:         cfg,
		logger:      logger,
		metrics:     metrics,
		github:      github,
		service:     service,
		redis:       redisClient,
		limiter:     ratelimit.NewRateLimiter(redisClient, limiterConfig, metrics),
		guard:       guard,
		compression: middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
		pages:       pages,
	}, nil
}

func (s *server) router() *gin.Engine {
	r := gin.New()

	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(s.logger))
	r.Use(apperrors.RecoveryHandler())
	r.Use(apperrors.ErrorHandler())
	r.Use(security.SecurityHeadersMiddleware())
	r.Use(s.guard.CORS())
	r.Use(s.compression.Handler())

	// Dashboard
	r.GET("/static/*filepath", s.pages.Static)
	pages := r.Group("/", security.CSPMiddleware())
	pages.GET("/", s.pages.Index)
	pages.POST("/analyze",
		s.limiter.AnalysisRateLimitMiddleware(s.pages.RateLimited),
		s.guard.RequestTimeout,
		s.pages.Analyze,
	)

	// JSON API
	api := r.Group("/api")
	api.POST("/analyze",
		s.guard.ValidateContentType,
		s.limiter.AnalysisRateLimitMiddleware(ratelimit.JSONLimited),
		s.guard.RequestTimeout,
		s.handleAnalyze,
	)
	api.GET("/ratelimit", s.limiter.HandleRateLimitStatus())

	// Operations
	r.GET("/health", monitoring.HealthHandler(s.metrics, version))
	r.GET("/metrics", monitoring.MetricsHandler(s.metrics))
	r.GET("/pools/github", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pool": "github", "stats": s.github.GetPoolStats()})
	})
	r.GET("/pools/compression", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pool": "compression", "stats": s.compression.GetStats()})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if s.cfg.EnableProfiling {
		s.logger.Info("Enabling performance profiling endpoints")
		r.GET("/debug/pprof/*filepath", gin.WrapF(pprof.Index))
		r.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
		r.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
		r.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
		r.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	}

	return r
}

// handleAnalyze godoc
// @Summary      Analyze a GitHub user's public activity
// @Description  Fetches public GitHub activity for a user and returns the day series, weekday distribution and, for the repos variant, per-repository commits and language shares
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body      types.AnalyzeRequest  true  "Analysis request"
// @Success      200      {object}  analysis.Result
// @Failure      400      {object}  errors.AppError
// @Failure      429      {object}  errors.AppError
// @Failure      504      {object}  errors.AppError
// @Router       /api/analyze [post]
func (s *server) handleAnalyze(c *gin.Context) {
	var req types.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError("invalid JSON body", err.Error()))
		return
	}

	if err := s.guard.SanitizeRequest(&req); err != nil {
		_ = c.Error(err)
		return
	}

	res, err := s.service.Run(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *server) close() {
	s.limiter.Close()
	apperrors.SafeClose(s.github, "github connection pool")
	if s.redis != nil {
		apperrors.SafeClose(s.redis, "redis client")
	}
}
