package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/gbgcf/crp-questionnaire/internal/config"
	"github.com/gbgcf/crp-questionnaire/internal/dao"
	"github.com/gbgcf/crp-questionnaire/internal/database"
	"github.com/gbgcf/crp-questionnaire/internal/handlers"
	"github.com/gbgcf/crp-questionnaire/internal/metrics"
	odsclient "github.com/gbgcf/crp-questionnaire/internal/ods-client"
	"github.com/gbgcf/crp-questionnaire/internal/router"
	"github.com/gbgcf/crp-questionnaire/internal/service"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Set Gin to release mode by default (can be overridden by GIN_MODE env var)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
	}).Info("Starting CRP Questionnaire Server...")

	// CONFIG_PATH overrides the configs/config.yaml search
	configPath := os.Getenv("CONFIG_PATH")

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	configureLogger(logger, cfg.Logging)

	logger.WithFields(logrus.Fields{
		"config_path": configPath,
		"log_level":   logger.GetLevel().String(),
	}).Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.Initialize(&cfg.Database.Tracking, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Error("Failed to close database")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		logger.WithError(err).Fatal("Database health check failed")
	}

	logger.Info("Database connection established successfully")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB.DB, cfg.Database.Tracking.Database),
	)
	appMetrics := metrics.New(registry)

	// Initialize DAOs
	trackingDAO := dao.NewPolicyTrackingDAO(db.DB)
	legalEntityDAO := dao.NewLegalEntityDAO(db.DB)
	clientDAO := dao.NewClientDAO(db.DB)

	logger.Info("DAOs initialized successfully")

	// Initialize form provider client
	formClient := odsclient.NewODSClient(&cfg.FormProvider, appMetrics, logger)
	logger.WithField("base_url", cfg.FormProvider.BaseURL).Info("Form provider client initialized")

	// Initialize services
	resolver := service.NewSubjectResolver(legalEntityDAO, clientDAO, cfg.Questionnaire.DefaultPolicyCode)
	questionnaireService := service.NewQuestionnaireService(
		resolver,
		trackingDAO,
		newTrackingMySQLTx(db),
		formClient,
		service.Options{MultipleRetakeEnabled: cfg.Questionnaire.MultipleRetakeEnabled},
		appMetrics,
		logger,
	)

	logger.WithFields(logrus.Fields{
		"policy_code":             cfg.Questionnaire.DefaultPolicyCode,
		"multiple_retake_enabled": cfg.Questionnaire.MultipleRetakeEnabled,
	}).Info("Services initialized successfully")

	// Setup router
	questionnaireHandler := handlers.NewQuestionnaireHandler(questionnaireService, logger)
	ginRouter := router.SetupRouter(questionnaireHandler, db, cfg.Metrics, registry)

	// Configure HTTP server
	serverAddr := cfg.Server.GetServerAddress()
	server := &http.Server{
		Addr:           serverAddr,
		Handler:        ginRouter,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start server in a goroutine
	go func() {
		logger.WithFields(logrus.Fields{
			"hostname": cfg.Server.Hostname,
			"port":     cfg.Server.Port,
			"addr":     serverAddr,
		}).Info("Starting HTTP server...")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithField("address", serverAddr).Info("Server is running")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	db.LogStats()
	logger.Info("Server exited gracefully")
}

func configureLogger(logger *logrus.Logger, cfg config.LoggingConfig) {
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
