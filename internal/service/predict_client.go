package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/akylbek/payment-system/fraud-gateway/internal/models"
)

// PredictClient is the HTTP Predictor. It posts the payload plus model
// selector to the gateway's /predict endpoint and decodes the verdict. No
// client timeout is set here: a submission runs until it resolves or the
// transport gives up.
type PredictClient struct {
	baseURL string
	client  *http.Client
}

func NewPredictClient(baseURL string) *PredictClient {
	return &PredictClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

func (p *PredictClient) Predict(ctx context.Context, model models.ScoringModel, payload models.Payload) (*models.Outcome, error) {
	body, err := json.Marshal(models.PredictRequest{Model: string(model), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scoring request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading scoring response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(extractError(resp.StatusCode, data))
	}

	var outcome models.Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, fmt.Errorf("malformed scoring response: %w", err)
	}
	return &outcome, nil
}

// extractError pulls the message out of an error response body. Bodies are
// usually {"error": "..."} but plain text is relayed too.
func extractError(status int, body []byte) string {
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
