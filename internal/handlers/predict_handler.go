package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/fraud-gateway/internal/metrics"
	"github.com/akylbek/payment-system/fraud-gateway/internal/telemetry"
)

// PredictHandler is the stateless relay in front of the scoring service. It
// pulls the model selector out of the inbound body, forwards the remaining
// fields, and relays the scoring service's answer without reshaping it.
type PredictHandler struct {
	scoringURL string
	client     *http.Client
	metrics    *metrics.Registry
}

func NewPredictHandler(scoringURL string, reg *metrics.Registry) *PredictHandler {
	return &PredictHandler{
		scoringURL: strings.TrimRight(scoringURL, "/"),
		client:     &http.Client{},
		metrics:    reg,
	}
}

func (h *PredictHandler) Predict(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		h.metrics.RejectedRequests.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var model string
	if raw, ok := body["model"]; ok {
		_ = json.Unmarshal(raw, &model)
	}
	if model == "" {
		h.metrics.RejectedRequests.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Model is required"})
		return
	}
	delete(body, "model")

	payload, err := json.Marshal(body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	target := fmt.Sprintf("%s/predict?model=%s", h.scoringURL, url.QueryEscape(model))
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, target, strings.NewReader(string(payload)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		h.metrics.UpstreamUnreachable.Inc()
		telemetry.Logger.Error("scoring service unreachable",
			zap.String("model", model),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		h.metrics.UpstreamUnreachable.Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.metrics.ScoreLatencySec.Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.metrics.UpstreamErrors.Inc()
		telemetry.Logger.Warn("scoring service returned error",
			zap.String("model", model),
			zap.Int("status", resp.StatusCode),
		)
		// Relay the downstream status; the backend's error text is passed
		// through, not reinterpreted.
		c.JSON(resp.StatusCode, gin.H{"error": upstreamErrorText(resp.StatusCode, data)})
		return
	}

	h.metrics.PredictionsRelayed.WithLabelValues(model).Inc()
	c.Data(http.StatusOK, "application/json", data)
}

// Home describes the gateway's request surface.
func (h *PredictHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Fraud Scoring Gateway",
		"endpoints": gin.H{
			"POST /predict": gin.H{
				"expects_json": gin.H{
					"model":              "string ('lr' or 'rf')",
					"amount":             "number (e.g. 350.0)",
					"category":           "string (e.g. 'Food')",
					"merchant":           "string (e.g. 'ShopSmart')",
					"timestamp":          "ISO datetime (e.g. '2025-10-10T14:30:00Z')",
					"location":           "string (e.g. 'New York')",
					"device":             "string (e.g. 'Mobile' or 'POS')",
					"card_present":       "0 or 1",
					"cvv_present":        "0 or 1",
					"card_bin":           "int (first digits of card)",
					"ip_address":         "string (e.g. '192.168.1.45')",
					"chargeback_history": "int",
				},
			},
		},
	})
}

func upstreamErrorText(status int, body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("scoring service returned status %d", status)
}
