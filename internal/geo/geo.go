package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/akylbek/payment-system/fraud-gateway/internal/models"
)

// Client performs the one-shot geolocation lookup used to pre-fill the
// location and ip_address fields. The lookup is best-effort: a failure leaves
// the fields empty and never blocks the rest of the form.
type Client struct {
	url    string
	client *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url: url,
		// Bounded: this runs once at startup and must not stall the operator.
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Defaults carries the prefill values returned by the geo service.
type Defaults struct {
	Country string
	IP      string
}

func (c *Client) Lookup(ctx context.Context) (Defaults, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Defaults{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Defaults{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Defaults{}, fmt.Errorf("geo lookup returned status %d", resp.StatusCode)
	}

	var body struct {
		Country string `json:"country"`
		Query   string `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Defaults{}, err
	}
	return Defaults{Country: body.Country, IP: body.Query}, nil
}

// DefaultRecord republishes a complete fresh form state with the prefill
// applied. It is a full-state reset, not a partial patch: every other field
// starts empty, the same as after a failed lookup.
func DefaultRecord(d Defaults) models.RawRecord {
	return models.RawRecord{
		Location:  d.Country,
		IPAddress: d.IP,
	}
}
