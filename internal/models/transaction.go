package models

import "time"

// ScoringModel identifies which trained model the scoring service should run.
type ScoringModel string

const (
	ModelLogisticRegression ScoringModel = "lr"
	ModelRandomForest       ScoringModel = "rf"
)

// ScoringModels is the closed set of selectable models.
var ScoringModels = []ScoringModel{ModelLogisticRegression, ModelRandomForest}

func (m ScoringModel) Valid() bool {
	for _, known := range ScoringModels {
		if m == known {
			return true
		}
	}
	return false
}

// Categories is the closed set of transaction categories accepted by the
// scoring service.
var Categories = []string{
	"Food",
	"Electronics",
	"Clothing",
	"Travel",
	"Groceries",
	"Entertainment",
	"Other",
}

// Devices is the closed set of device types a transaction can originate from.
var Devices = []string{"Mobile", "Desktop", "Tablet", "POS", "Web"}

func ValidCategory(s string) bool { return contains(Categories, s) }
func ValidDevice(s string) bool   { return contains(Devices, s) }

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// RawRecord holds one transaction exactly as the operator entered it. Every
// field is still text, including the numeric and boolean ones: an empty string
// must be distinguishable from a zero, so coercion is deferred to validation.
type RawRecord struct {
	Amount            string
	Category          string
	Merchant          string
	Timestamp         string
	Location          string
	Device            string
	CardPresent       string
	CVVPresent        string
	CardBIN           string
	IPAddress         string
	ChargebackHistory string
}

// Record is the canonical validated transaction. CardBIN stays a digit string
// here; it is converted to an integer only when the wire payload is built.
type Record struct {
	Amount            float64
	Category          string
	Merchant          string
	Timestamp         time.Time // zero when the operator left the field empty
	Location          string
	Device            string
	CardPresent       bool
	CVVPresent        bool
	CardBIN           string
	IPAddress         string
	ChargebackHistory int
}

// Payload is the wire form of a record as the scoring service expects it.
// IPAddress has no omitempty on purpose: an absent address transmits as an
// empty string, never as a missing key.
type Payload struct {
	Amount            float64 `json:"amount"`
	Category          string  `json:"category"`
	Merchant          string  `json:"merchant"`
	Timestamp         string  `json:"timestamp"`
	Location          string  `json:"location"`
	Device            string  `json:"device"`
	CardPresent       int     `json:"card_present"`
	CVVPresent        int     `json:"cvv_present"`
	CardBIN           int64   `json:"card_bin"`
	IPAddress         string  `json:"ip_address"`
	ChargebackHistory int     `json:"chargeback_history"`
}

// PredictRequest is the gateway's inbound body: the payload fields plus the
// model selector.
type PredictRequest struct {
	Model string `json:"model"`
	Payload
}

// Outcome is the displayable result of one submission attempt. Exactly one of
// {verdict, probability, model} or {error} is meaningful: when Error is set the
// verdict fields carry the fail-safe values and must not be read as a real
// prediction.
type Outcome struct {
	PredictedIsFraud int     `json:"predicted_is_fraud"`
	FraudProbability float64 `json:"fraud_probability"`
	Model            string  `json:"model"`
	Error            string  `json:"error,omitempty"`
}

// Fraud reports whether the outcome is in the alerting state.
func (o *Outcome) Fraud() bool { return o.PredictedIsFraud == 1 }

// Failed reports whether the outcome represents a scoring failure rather than
// a real verdict.
func (o *Outcome) Failed() bool { return o.Error != "" }

// ErrorOutcome builds the fail-safe outcome used when scoring could not be
// completed: verdict defaults to fraud so a failure is never displayed as safe.
func ErrorOutcome(msg string) *Outcome {
	return &Outcome{
		PredictedIsFraud: 1,
		FraudProbability: 0,
		Model:            "error",
		Error:            msg,
	}
}
