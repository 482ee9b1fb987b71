package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/fraud-gateway/internal/models"
)

func samplePayload() models.Payload {
	return models.Payload{
		Amount:            350.0,
		Category:          "Food",
		Merchant:          "ShopSmart",
		Timestamp:         "2025-10-10T14:30:00Z",
		Location:          "New York",
		Device:            "Mobile",
		CardPresent:       1,
		CVVPresent:        0,
		CardBIN:           451234,
		IPAddress:         "",
		ChargebackHistory: 2,
	}
}

func TestPredictClient_Success(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predicted_is_fraud": 1, "fraud_probability": 0.87, "model": "rf"}`))
	}))
	defer srv.Close()

	client := NewPredictClient(srv.URL)
	outcome, err := client.Predict(context.Background(), models.ModelRandomForest, samplePayload())
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.PredictedIsFraud)
	assert.Equal(t, 0.87, outcome.FraudProbability)
	assert.Equal(t, "rf", outcome.Model)
	assert.Empty(t, outcome.Error)

	// Wire shape: model travels alongside the record fields, and an absent
	// ip_address is an empty string, never a missing key.
	assert.Equal(t, "rf", got["model"])
	assert.Equal(t, 350.0, got["amount"])
	ip, present := got["ip_address"]
	assert.True(t, present)
	assert.Equal(t, "", ip)
}

func TestPredictClient_BackendErrorExtracted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Unknown model. Use ?model=lr or rf"}`))
	}))
	defer srv.Close()

	client := NewPredictClient(srv.URL)
	outcome, err := client.Predict(context.Background(), "xg", samplePayload())
	assert.Nil(t, outcome)
	require.Error(t, err)
	assert.Equal(t, "Unknown model. Use ?model=lr or rf", err.Error())
}

func TestPredictClient_PlainTextErrorRelayed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewPredictClient(srv.URL)
	_, err := client.Predict(context.Background(), models.ModelLogisticRegression, samplePayload())
	require.Error(t, err)
	assert.Equal(t, "bad gateway", err.Error())
}

func TestPredictClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // nothing is listening anymore

	client := NewPredictClient(srv.URL)
	outcome, err := client.Predict(context.Background(), models.ModelLogisticRegression, samplePayload())
	assert.Nil(t, outcome)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scoring request failed")
}

func TestPredictClient_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewPredictClient(srv.URL)
	_, err := client.Predict(context.Background(), models.ModelLogisticRegression, samplePayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed scoring response")
}
