package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akylbek/payment-system/fraud-gateway/internal/models"
)

const (
	minMerchantLen = 2
	minLocationLen = 2
	minIPLen       = 7
	minBINDigits   = 4
	maxBINDigits   = 12
)

// Timestamp layouts accepted on input. Operators typically paste either a full
// RFC3339 instant or the zone-less form produced by datetime widgets.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Now returns the submission instant. Split for testability.
var Now = func() time.Time { return time.Now().UTC() }

// FieldErrors maps a field name to a human-readable validation message.
type FieldErrors map[string]string

// ValidationError reports one message per invalid field. It is a local,
// synchronous failure: no request is made when validation fails.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// Validate coerces raw form values into a canonical record. It checks every
// field and reports all failures together; a record is returned only when the
// error map is empty, never partially typed.
func Validate(raw models.RawRecord, model models.ScoringModel) (*models.Record, FieldErrors) {
	errs := FieldErrors{}
	rec := &models.Record{}

	rec.Amount = checkNumber(errs, "amount", raw.Amount, func(v float64) string {
		if v <= 0 {
			return "amount must be greater than 0"
		}
		return ""
	})

	if !models.ValidCategory(raw.Category) {
		errs["category"] = "category must be one of: " + strings.Join(models.Categories, ", ")
	}
	rec.Category = raw.Category

	if len(raw.Merchant) < minMerchantLen {
		errs["merchant"] = fmt.Sprintf("merchant must be at least %d characters", minMerchantLen)
	}
	rec.Merchant = raw.Merchant

	// Timestamp is optional; only a provided value has to parse. Defaulting to
	// the submission instant happens later, in BuildPayload.
	if raw.Timestamp != "" {
		ts, err := parseTimestamp(raw.Timestamp)
		if err != nil {
			errs["timestamp"] = "timestamp must be an ISO-8601 date-time"
		}
		rec.Timestamp = ts
	}

	if len(raw.Location) < minLocationLen {
		errs["location"] = fmt.Sprintf("location must be at least %d characters", minLocationLen)
	}
	rec.Location = raw.Location

	if !models.ValidDevice(raw.Device) {
		errs["device"] = "device must be one of: " + strings.Join(models.Devices, ", ")
	}
	rec.Device = raw.Device

	rec.CardPresent = checkFlag(errs, "card_present", raw.CardPresent)
	rec.CVVPresent = checkFlag(errs, "cvv_present", raw.CVVPresent)

	// The BIN is validated as a digit string; conversion to a number happens
	// only after validation passes, when the payload is assembled.
	if !digitsOnly(raw.CardBIN) || len(raw.CardBIN) < minBINDigits || len(raw.CardBIN) > maxBINDigits {
		errs["card_bin"] = fmt.Sprintf("card_bin must be %d-%d digits", minBINDigits, maxBINDigits)
	}
	rec.CardBIN = raw.CardBIN

	if raw.IPAddress != "" && len(raw.IPAddress) < minIPLen {
		errs["ip_address"] = fmt.Sprintf("ip_address must be at least %d characters", minIPLen)
	}
	rec.IPAddress = raw.IPAddress

	if raw.ChargebackHistory == "" {
		errs["chargeback_history"] = "chargeback_history must be a number"
	} else if n, err := strconv.Atoi(raw.ChargebackHistory); err != nil {
		errs["chargeback_history"] = "chargeback_history must be a number"
	} else if n < 0 {
		errs["chargeback_history"] = "chargeback_history must be 0 or more"
	} else {
		rec.ChargebackHistory = n
	}

	if !model.Valid() {
		errs["model"] = "model must be one of: lr, rf"
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rec, nil
}

// BuildPayload converts a validated record into its wire form, applying the
// submit-time defaults: an absent timestamp becomes the submission instant and
// the BIN digits become an integer.
func BuildPayload(rec *models.Record) models.Payload {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = Now()
	}

	// Safe: card_bin was validated as 4-12 digits.
	bin, _ := strconv.ParseInt(rec.CardBIN, 10, 64)

	return models.Payload{
		Amount:            rec.Amount,
		Category:          rec.Category,
		Merchant:          rec.Merchant,
		Timestamp:         ts.Format(time.RFC3339),
		Location:          rec.Location,
		Device:            rec.Device,
		CardPresent:       boolToInt(rec.CardPresent),
		CVVPresent:        boolToInt(rec.CVVPresent),
		CardBIN:           bin,
		IPAddress:         rec.IPAddress,
		ChargebackHistory: rec.ChargebackHistory,
	}
}

// checkNumber parses a numeric field. An empty string is "not a number" and
// fails validation; it never silently becomes zero.
func checkNumber(errs FieldErrors, field, raw string, constraint func(float64) string) float64 {
	if raw == "" {
		errs[field] = field + " must be a number"
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs[field] = field + " must be a number"
		return 0
	}
	if msg := constraint(v); msg != "" {
		errs[field] = msg
	}
	return v
}

func checkFlag(errs FieldErrors, field, raw string) bool {
	switch raw {
	case "1":
		return true
	case "0":
		return false
	default:
		errs[field] = field + " must be 0 or 1"
		return false
	}
}

func parseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
