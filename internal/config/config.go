package config

import "os"

type Config struct {
	Port              string
	ScoringServiceURL string
	GeoServiceURL     string
	GatewayURL        string
	JaegerEndpoint    string
}

func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8084"
	}

	scoringURL := os.Getenv("SCORING_SERVICE_URL")
	if scoringURL == "" {
		scoringURL = "http://localhost:8000"
	}

	geoURL := os.Getenv("GEO_SERVICE_URL")
	if geoURL == "" {
		geoURL = "http://ip-api.com/json"
	}

	gatewayURL := os.Getenv("GATEWAY_URL")
	if gatewayURL == "" {
		gatewayURL = "http://localhost:" + port
	}

	return &Config{
		Port:              port,
		ScoringServiceURL: scoringURL,
		GeoServiceURL:     geoURL,
		GatewayURL:        gatewayURL,
		JaegerEndpoint:    os.Getenv("JAEGER_ENDPOINT"),
	}
}
