// Command score is the operator front end of the fraud scoring pipeline: it
// collects one transaction record from flags, validates and normalizes it, and
// submits it through the gateway, printing the verdict.
package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/fraud-gateway/internal/config"
	"github.com/akylbek/payment-system/fraud-gateway/internal/geo"
	"github.com/akylbek/payment-system/fraud-gateway/internal/models"
	"github.com/akylbek/payment-system/fraud-gateway/internal/schema"
	"github.com/akylbek/payment-system/fraud-gateway/internal/service"
	"github.com/akylbek/payment-system/fraud-gateway/internal/telemetry"
)

var (
	flagAmount      string
	flagCategory    string
	flagMerchant    string
	flagTimestamp   string
	flagLocation    string
	flagDevice      string
	flagCardPresent string
	flagCVVPresent  string
	flagCardBIN     string
	flagIPAddress   string
	flagChargebacks string
	flagModel       string

	rootCmd = &cobra.Command{
		Use:   "score",
		Short: "Submit a transaction for fraud scoring",
		Long: `Submit one transaction record to the fraud scoring gateway and print the
verdict. Location and ip_address are pre-filled from a geolocation lookup when
left empty; every other field must be provided.`,
		RunE:          runScore,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.Flags().StringVar(&flagAmount, "amount", "", "transaction amount (e.g. 350.0)")
	rootCmd.Flags().StringVar(&flagCategory, "category", "", "transaction category (e.g. Food)")
	rootCmd.Flags().StringVar(&flagMerchant, "merchant", "", "merchant name")
	rootCmd.Flags().StringVar(&flagTimestamp, "timestamp", "", "ISO-8601 instant (default: submission time)")
	rootCmd.Flags().StringVar(&flagLocation, "location", "", "transaction location (default: geolocation lookup)")
	rootCmd.Flags().StringVar(&flagDevice, "device", "", "device type (e.g. Mobile)")
	rootCmd.Flags().StringVar(&flagCardPresent, "card-present", "0", "1 if the card was present, else 0")
	rootCmd.Flags().StringVar(&flagCVVPresent, "cvv-present", "0", "1 if the CVV was provided, else 0")
	rootCmd.Flags().StringVar(&flagCardBIN, "card-bin", "", "card BIN, 4-12 digits")
	rootCmd.Flags().StringVar(&flagIPAddress, "ip-address", "", "client IP address (default: geolocation lookup)")
	rootCmd.Flags().StringVar(&flagChargebacks, "chargeback-history", "0", "number of past chargebacks")
	rootCmd.Flags().StringVar(&flagModel, "model", "lr", "scoring model: lr or rf")
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	if err := telemetry.InitLogger(); err != nil {
		return err
	}
	defer telemetry.Logger.Sync()

	raw := prefillRecord(cmd, cfg)
	raw.Amount = flagAmount
	raw.Category = flagCategory
	raw.Merchant = flagMerchant
	raw.Timestamp = flagTimestamp
	raw.Device = flagDevice
	raw.CardPresent = flagCardPresent
	raw.CVVPresent = flagCVVPresent
	raw.CardBIN = flagCardBIN
	raw.ChargebackHistory = flagChargebacks
	if flagLocation != "" {
		raw.Location = flagLocation
	}
	if flagIPAddress != "" {
		raw.IPAddress = flagIPAddress
	}

	controller := service.NewController(service.NewPredictClient(cfg.GatewayURL))

	outcome, err := controller.Submit(cmd.Context(), raw, models.ScoringModel(flagModel))
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(os.Stderr, "Invalid record:")
		for _, field := range sortedFields(verr.Fields) {
			fmt.Fprintf(os.Stderr, "  %-20s %s\n", field, verr.Fields[field])
		}
		return errors.New("record failed validation")
	}
	if err != nil {
		return err
	}

	printOutcome(outcome)
	return nil
}

// prefillRecord performs the one-shot geolocation lookup and republishes a
// complete default record. A failed lookup is a no-op, not an error.
func prefillRecord(cmd *cobra.Command, cfg *config.Config) models.RawRecord {
	defaults, err := geo.NewClient(cfg.GeoServiceURL).Lookup(cmd.Context())
	if err != nil {
		telemetry.Logger.Warn("geolocation prefill unavailable", zap.Error(err))
		return geo.DefaultRecord(geo.Defaults{})
	}
	return geo.DefaultRecord(defaults)
}

func printOutcome(o *models.Outcome) {
	switch {
	case o.Failed():
		fmt.Printf("ALERT  scoring failed: %s (fail-safe verdict: fraud)\n", o.Error)
	case o.Fraud():
		fmt.Printf("ALERT  fraud predicted  probability=%.4f  model=%s\n", o.FraudProbability, o.Model)
	default:
		fmt.Printf("CLEAR  no fraud predicted  probability=%.4f  model=%s\n", o.FraudProbability, o.Model)
	}
}

func sortedFields(fields schema.FieldErrors) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
