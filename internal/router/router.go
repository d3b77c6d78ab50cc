package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gbgcf/crp-questionnaire/internal/config"
	"github.com/gbgcf/crp-questionnaire/internal/handlers"
	"github.com/gbgcf/crp-questionnaire/internal/middleware"
)

// HealthChecker reports whether a backing dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// SetupRouter configures all API routes. Passing a nil gatherer leaves
// /metrics unregistered.
func SetupRouter(
	questionnaireHandler *handlers.QuestionnaireHandler,
	health HealthChecker,
	metricsCfg config.MetricsConfig,
	gatherer prometheus.Gatherer,
) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CorrelationID())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := health.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	if metricsCfg.Enabled && gatherer != nil {
		path := metricsCfg.Path
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/form-data/:journeyType/:customerIdentificationId", questionnaireHandler.GetFormData)
		v1.PUT("/saveODSData", questionnaireHandler.SaveODSData)
		v1.POST("/submitODSData", questionnaireHandler.SubmitODSData)
		v1.GET("/viewForm", questionnaireHandler.ViewForm)
		v1.GET("/reset", questionnaireHandler.ResetForm)
		v1.POST("/retake", questionnaireHandler.RetakeQuestionnaire)
		v1.GET("/questionnaire-error/:journeyType/:customerIdentificationId", questionnaireHandler.GetQuestionnaireError)
		v1.POST("/decision", questionnaireHandler.RecordDecision)
	}

	return router
}
