package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akylbek/payment-system/fraud-gateway/internal/config"
	"github.com/akylbek/payment-system/fraud-gateway/internal/handlers"
	"github.com/akylbek/payment-system/fraud-gateway/internal/metrics"
	"github.com/akylbek/payment-system/fraud-gateway/internal/telemetry"
)

func NewRouter(cfg *config.Config, reg *metrics.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(reg.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "fraud-gateway"})
	})

	// Scoring relay
	predictHandler := handlers.NewPredictHandler(cfg.ScoringServiceURL, reg)
	r.GET("/", predictHandler.Home)
	r.POST("/predict", predictHandler.Predict)

	return r
}
