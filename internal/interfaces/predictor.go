package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/fraud-gateway/internal/models"
)

// Predictor defines the contract for obtaining a fraud verdict for one
// assembled payload. An error return means scoring could not be completed;
// a non-nil outcome is the scoring service's verdict as-is.
type Predictor interface {
	Predict(ctx context.Context, model models.ScoringModel, payload models.Payload) (*models.Outcome, error)
}
