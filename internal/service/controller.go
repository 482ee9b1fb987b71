package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/akylbek/payment-system/fraud-gateway/internal/interfaces"
	"github.com/akylbek/payment-system/fraud-gateway/internal/models"
	"github.com/akylbek/payment-system/fraud-gateway/internal/schema"
	"github.com/akylbek/payment-system/fraud-gateway/internal/telemetry"
)

// ErrSubmissionInFlight is returned when a submission is attempted while a
// previous one from the same controller has not resolved yet.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// Controller runs the validated submission pipeline: normalize the raw form
// values, build the payload, issue exactly one scoring request, and map the
// result (or failure) into a displayable outcome. It is not re-entrant: the
// in-flight flag rejects duplicate submissions until the current one resolves.
type Controller struct {
	predictor interfaces.Predictor

	inFlight atomic.Bool

	mu   sync.Mutex
	last *models.Outcome
}

func NewController(predictor interfaces.Predictor) *Controller {
	return &Controller{predictor: predictor}
}

// Submit validates raw form values and scores the resulting record.
//
// Validation failure returns a *schema.ValidationError and no outcome: the
// backend is never contacted. A duplicate submission while one is in flight
// returns ErrSubmissionInFlight. Every completed attempt returns an outcome:
// backend and transport failures are converted into the fail-safe error
// outcome rather than propagated.
func (c *Controller) Submit(ctx context.Context, raw models.RawRecord, model models.ScoringModel) (*models.Outcome, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	rec, fieldErrs := schema.Validate(raw, model)
	if fieldErrs != nil {
		return nil, &schema.ValidationError{Fields: fieldErrs}
	}

	payload := schema.BuildPayload(rec)

	outcome, err := c.predictor.Predict(ctx, model, payload)
	if err != nil {
		telemetry.Logger.Warn("scoring failed, applying fail-safe verdict",
			zap.String("model", string(model)),
			zap.Error(err),
		)
		outcome = models.ErrorOutcome(err.Error())
	} else {
		telemetry.Logger.Info("transaction scored",
			zap.String("model", outcome.Model),
			zap.Int("predicted_is_fraud", outcome.PredictedIsFraud),
			zap.Float64("fraud_probability", outcome.FraudProbability),
		)
	}

	c.setLast(outcome)
	return outcome, nil
}

// LastOutcome returns the result of the most recent completed submission, or
// nil when none has completed yet. Each attempt fully replaces the prior one.
func (c *Controller) LastOutcome() *models.Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Controller) setLast(o *models.Outcome) {
	c.mu.Lock()
	c.last = o
	c.mu.Unlock()
}
