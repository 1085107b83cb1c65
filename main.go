package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vineetsarpal/re-ink/agent"
	"github.com/vineetsarpal/re-ink/config"
	"github.com/vineetsarpal/re-ink/handler"
	"github.com/vineetsarpal/re-ink/middleware"
	"github.com/vineetsarpal/re-ink/pkg/logger"
	"github.com/vineetsarpal/re-ink/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	minioService, err := service.NewMinioService(&cfg.Minio)
	if err != nil {
		slog.Error("failed to create minio service", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := minioService.EnsureBucket(ctx); err != nil {
		slog.Error("failed to ensure minio bucket", "error", err)
		cancel()
		os.Exit(1)
	}
	cancel()

	adeService := service.NewAdeService(&cfg.Ade)
	contractStore := service.NewContractStore(&cfg.Store)
	partyStore := service.NewPartyStore()
	jobStore := service.NewExtractionJobStore()

	// Analyzer selection happens once at startup. Offline mode swaps the
	// live model call for deterministic heuristics.
	var intakeAnalyzer agent.IntakeAnalyzer
	var reviewAnalyzer agent.ReviewAnalyzer
	if cfg.Agent.OfflineMode {
		slog.Info("agent running in offline mode")
		offline := agent.NewOfflineAnalyzer()
		intakeAnalyzer = offline
		reviewAnalyzer = offline
	} else {
		live := agent.NewLiveAnalyzer(agent.NewLLMClient(agent.LLMOptions{
			BaseURL:     cfg.Agent.APIURL,
			APIKey:      cfg.Agent.APIKey,
			Model:       cfg.Agent.Model,
			Temperature: cfg.Agent.Temperature,
		}))
		intakeAnalyzer = live
		reviewAnalyzer = live
	}

	intakeAgent := agent.NewIntakeAgent(intakeAnalyzer)
	reviewAgent := agent.NewReviewAgent(reviewAnalyzer)

	authHandler := handler.NewAuthHandler(cfg)
	contractHandler := handler.NewContractHandler(contractStore)
	partyHandler := handler.NewPartyHandler(partyStore)
	documentHandler := handler.NewDocumentHandler(minioService, adeService, jobStore, cfg)
	reviewHandler := handler.NewReviewHandler(contractStore, partyStore, jobStore)
	agentHandler := handler.NewAgentHandler(intakeAgent, reviewAgent, jobStore, contractStore, partyStore)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit(100, time.Minute))
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/contracts", contractHandler.List)
		protected.POST("/contracts", contractHandler.Create)
		protected.GET("/contracts/:id", contractHandler.Get)
		protected.PUT("/contracts/:id", contractHandler.Update)
		protected.PATCH("/contracts/:id/status", contractHandler.UpdateStatus)
		protected.DELETE("/contracts/:id", contractHandler.Delete)

		protected.GET("/parties", partyHandler.List)
		protected.POST("/parties", partyHandler.Create)
		protected.GET("/parties/:id", partyHandler.Get)
		protected.PUT("/parties/:id", partyHandler.Update)
		protected.DELETE("/parties/:id", partyHandler.Delete)

		protected.POST("/documents/upload", documentHandler.Upload)
		protected.GET("/documents/:job_id/status", documentHandler.GetStatus)
		protected.GET("/documents/:job_id/results", documentHandler.GetResults)
		protected.DELETE("/documents/:job_id", documentHandler.Delete)

		protected.POST("/review/approve", reviewHandler.Approve)
		protected.POST("/review/reject", reviewHandler.Reject)

		protected.POST("/agent/intake", agentHandler.Intake)
		protected.POST("/agent/review", agentHandler.Review)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server exited")
}

// corsMiddleware allows the review UI to call the API from another origin
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
