package vehicle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const autoDevURL = "https://api.auto.dev/vin/%s"

// Vehicle is a best-effort descriptor decoded from a registry response.
type Vehicle struct {
	Make  string
	Model string
	Year  string
}

// Empty reports whether nothing at all was decoded.
func (v Vehicle) Empty() bool {
	return v.Make == "" && v.Model == "" && v.Year == ""
}

// Line renders "Make Model, Year" for display, with unknowns as dashes.
func (v Vehicle) Line() string {
	dash := func(s string) string {
		if s == "" {
			return "—"
		}
		return s
	}
	return fmt.Sprintf("%s %s, %s", dash(v.Make), dash(v.Model), dash(v.Year))
}

// AutoDevClient decodes VINs via the Auto.dev API.
type AutoDevClient struct {
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAutoDevClient creates a client with a 12s request timeout.
func NewAutoDevClient(apiKey string, logger *zap.Logger) *AutoDevClient {
	return &AutoDevClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 12 * time.Second},
		logger:     logger,
	}
}

// flexString decodes a JSON field that may arrive as a string or a
// number, e.g. "year": 2003 vs "year": "2003".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	// Unexpected shape: leave the field unknown rather than fail the decode.
	*f = ""
	return nil
}

// autoDevPayload mirrors the loosely-shaped Auto.dev response: the same
// fact can arrive under several names at several depths.
type autoDevPayload struct {
	Make         string          `json:"make"`
	Manufacturer string          `json:"manufacturer"`
	Model        string          `json:"model"`
	Year         flexString      `json:"year"`
	Data         *autoDevNested  `json:"data"`
	Vehicle      *autoDevNested  `json:"vehicle"`
	Specs        *autoDevNested  `json:"specs"`
	Results      []autoDevNested `json:"results"`
}

type autoDevNested struct {
	Make              string     `json:"make"`
	Manufacturer      string     `json:"manufacturer"`
	Model             string     `json:"model"`
	Year              flexString `json:"year"`
	ModelYear         flexString `json:"model_year"`
	YearOfManufacture flexString `json:"year_of_manufacture"`
}

// DecodeVIN fetches the vehicle descriptor for a VIN. A nil Vehicle with
// nil error means the service answered but knew nothing useful.
func (c *AutoDevClient) DecodeVIN(ctx context.Context, vin string) (*Vehicle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(autoDevURL, vin), nil)
	if err != nil {
		return nil, fmt.Errorf("autodev request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("autodev do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("autodev unexpected status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("autodev http %d", resp.StatusCode)
	}

	var payload autoDevPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("autodev decode: %w", err)
	}

	v := extractAutoDevVehicle(&payload)
	if v.Empty() {
		return nil, nil
	}
	return &v, nil
}

// extractAutoDevVehicle applies the ordered extraction rules: top-level
// fields win, then the data/vehicle/specs objects, then the first results
// entry.
func extractAutoDevVehicle(p *autoDevPayload) Vehicle {
	v := Vehicle{
		Make:  firstOf(p.Make, p.Manufacturer),
		Model: p.Model,
		Year:  string(p.Year),
	}

	nested := []*autoDevNested{p.Data, p.Vehicle, p.Specs}
	if len(p.Results) > 0 {
		nested = append(nested, &p.Results[0])
	}
	for _, n := range nested {
		if n == nil {
			continue
		}
		v.Make = firstOf(v.Make, n.Make, n.Manufacturer)
		v.Model = firstOf(v.Model, n.Model)
		v.Year = firstOf(v.Year, string(n.Year), string(n.ModelYear), string(n.YearOfManufacture))
	}
	return v
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
