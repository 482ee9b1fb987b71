package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/fraud-gateway/internal/models"
)

func validRaw() models.RawRecord {
	return models.RawRecord{
		Amount:            "350.0",
		Category:          "Food",
		Merchant:          "ShopSmart",
		Timestamp:         "2025-10-10T14:30:00Z",
		Location:          "New York",
		Device:            "Mobile",
		CardPresent:       "1",
		CVVPresent:        "0",
		CardBIN:           "451234",
		IPAddress:         "192.168.1.45",
		ChargebackHistory: "2",
	}
}

func TestValidate_ValidRecord(t *testing.T) {
	rec, errs := Validate(validRaw(), models.ModelRandomForest)
	require.Empty(t, errs)
	require.NotNil(t, rec)

	assert.Equal(t, 350.0, rec.Amount)
	assert.Equal(t, "Food", rec.Category)
	assert.Equal(t, "ShopSmart", rec.Merchant)
	assert.Equal(t, time.Date(2025, 10, 10, 14, 30, 0, 0, time.UTC), rec.Timestamp)
	assert.True(t, rec.CardPresent)
	assert.False(t, rec.CVVPresent)
	assert.Equal(t, "451234", rec.CardBIN)
	assert.Equal(t, 2, rec.ChargebackHistory)
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.RawRecord)
		field   string
		message string
	}{
		{
			name:    "empty amount is not a number",
			mutate:  func(r *models.RawRecord) { r.Amount = "" },
			field:   "amount",
			message: "amount must be a number",
		},
		{
			name:    "non-numeric amount",
			mutate:  func(r *models.RawRecord) { r.Amount = "lots" },
			field:   "amount",
			message: "amount must be a number",
		},
		{
			name:    "zero amount out of range",
			mutate:  func(r *models.RawRecord) { r.Amount = "0" },
			field:   "amount",
			message: "amount must be greater than 0",
		},
		{
			name:   "negative amount out of range",
			mutate: func(r *models.RawRecord) { r.Amount = "-5" },
			field:  "amount",
		},
		{
			name:   "unknown category",
			mutate: func(r *models.RawRecord) { r.Category = "Weapons" },
			field:  "category",
		},
		{
			name:   "merchant too short",
			mutate: func(r *models.RawRecord) { r.Merchant = "X" },
			field:  "merchant",
		},
		{
			name:   "unparseable timestamp",
			mutate: func(r *models.RawRecord) { r.Timestamp = "yesterday" },
			field:  "timestamp",
		},
		{
			name:   "location too short",
			mutate: func(r *models.RawRecord) { r.Location = "A" },
			field:  "location",
		},
		{
			name:   "unknown device",
			mutate: func(r *models.RawRecord) { r.Device = "Fax" },
			field:  "device",
		},
		{
			name:   "card_present outside 0/1",
			mutate: func(r *models.RawRecord) { r.CardPresent = "yes" },
			field:  "card_present",
		},
		{
			name:   "cvv_present empty",
			mutate: func(r *models.RawRecord) { r.CVVPresent = "" },
			field:  "cvv_present",
		},
		{
			name:   "card_bin too short",
			mutate: func(r *models.RawRecord) { r.CardBIN = "123" },
			field:  "card_bin",
		},
		{
			name:   "card_bin too long",
			mutate: func(r *models.RawRecord) { r.CardBIN = "1234567890123" },
			field:  "card_bin",
		},
		{
			name:   "card_bin with non-digits",
			mutate: func(r *models.RawRecord) { r.CardBIN = "12a456" },
			field:  "card_bin",
		},
		{
			name:   "ip_address too short when present",
			mutate: func(r *models.RawRecord) { r.IPAddress = "1.2.3" },
			field:  "ip_address",
		},
		{
			name:    "empty chargeback_history is not a number",
			mutate:  func(r *models.RawRecord) { r.ChargebackHistory = "" },
			field:   "chargeback_history",
			message: "chargeback_history must be a number",
		},
		{
			name:   "negative chargeback_history",
			mutate: func(r *models.RawRecord) { r.ChargebackHistory = "-1" },
			field:  "chargeback_history",
		},
		{
			name:   "fractional chargeback_history",
			mutate: func(r *models.RawRecord) { r.ChargebackHistory = "1.5" },
			field:  "chargeback_history",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(&raw)

			rec, errs := Validate(raw, models.ModelLogisticRegression)
			assert.Nil(t, rec, "no record may be returned on failure")
			require.Len(t, errs, 1)
			require.Contains(t, errs, tt.field)
			if tt.message != "" {
				assert.Equal(t, tt.message, errs[tt.field])
			}
		})
	}
}

func TestValidate_OptionalFieldsMayBeEmpty(t *testing.T) {
	raw := validRaw()
	raw.Timestamp = ""
	raw.IPAddress = ""

	rec, errs := Validate(raw, models.ModelLogisticRegression)
	require.Empty(t, errs)
	assert.True(t, rec.Timestamp.IsZero())
	assert.Equal(t, "", rec.IPAddress)
}

func TestValidate_UnknownModel(t *testing.T) {
	rec, errs := Validate(validRaw(), "xgboost")
	assert.Nil(t, rec)
	require.Contains(t, errs, "model")
}

func TestValidate_ReportsAllFailuresTogether(t *testing.T) {
	raw := validRaw()
	raw.Amount = ""
	raw.Merchant = ""
	raw.CardBIN = "12"

	rec, errs := Validate(raw, models.ModelLogisticRegression)
	assert.Nil(t, rec)
	assert.Len(t, errs, 3)
	assert.Contains(t, errs, "amount")
	assert.Contains(t, errs, "merchant")
	assert.Contains(t, errs, "card_bin")
}

func TestValidate_ZonelessTimestampAccepted(t *testing.T) {
	raw := validRaw()
	raw.Timestamp = "2025-10-10T14:30:00"

	rec, errs := Validate(raw, models.ModelLogisticRegression)
	require.Empty(t, errs)
	assert.False(t, rec.Timestamp.IsZero())
}

func TestBuildPayload_Conversions(t *testing.T) {
	rec, errs := Validate(validRaw(), models.ModelRandomForest)
	require.Empty(t, errs)

	p := BuildPayload(rec)
	assert.Equal(t, 350.0, p.Amount)
	assert.Equal(t, 1, p.CardPresent)
	assert.Equal(t, 0, p.CVVPresent)
	assert.Equal(t, int64(451234), p.CardBIN)
	assert.Equal(t, 2, p.ChargebackHistory)
	assert.Equal(t, "2025-10-10T14:30:00Z", p.Timestamp)
}

func TestBuildPayload_TimestampDefaultsToSubmissionInstant(t *testing.T) {
	submission := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	restore := Now
	Now = func() time.Time { return submission }
	defer func() { Now = restore }()

	raw := validRaw()
	raw.Timestamp = ""
	rec, errs := Validate(raw, models.ModelRandomForest)
	require.Empty(t, errs)

	p := BuildPayload(rec)
	assert.Equal(t, submission.Format(time.RFC3339), p.Timestamp)
}

func TestBuildPayload_AbsentIPTransmitsAsEmptyString(t *testing.T) {
	raw := validRaw()
	raw.IPAddress = ""
	rec, errs := Validate(raw, models.ModelRandomForest)
	require.Empty(t, errs)

	p := BuildPayload(rec)
	assert.Equal(t, "", p.IPAddress)
}
