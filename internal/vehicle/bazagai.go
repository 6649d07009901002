package vehicle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const bazaGAIURL = "https://baza-gai.com.ua/nomer/%s"

// PlateInfo is the registry's answer for a plate lookup.
type PlateInfo struct {
	Plate    string
	Vendor   string
	Model    string
	Year     string
	VIN      string
	IsStolen bool
}

// PlateClient looks plates up in the national registry. With no API key
// it runs in mock mode and fabricates a plausible answer, so the rest of
// the flow stays testable without credentials.
type PlateClient struct {
	apiKey     string
	mock       bool
	httpClient *http.Client
	logger     *zap.Logger
}

// NewPlateClient creates a client; timeoutSec falls back to 10.
func NewPlateClient(apiKey string, mock bool, timeoutSec int, logger *zap.Logger) *PlateClient {
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &PlateClient{
		apiKey:     apiKey,
		mock:       mock || apiKey == "",
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		logger:     logger,
	}
}

type bazaGAIPayload struct {
	Vendor    string     `json:"vendor"`
	Make      string     `json:"make"`
	Model     string     `json:"model"`
	ModelYear flexString `json:"model_year"`
	Year      flexString `json:"year"`
	VIN       string     `json:"vin"`
	IsStolen  bool       `json:"is_stolen"`
}

// Lookup fetches the vehicle behind a plate. Returns nil with nil error
// when the registry has no record.
func (c *PlateClient) Lookup(ctx context.Context, plate string) (*PlateInfo, error) {
	plate = NormalizePlate(plate)
	if !ValidPlateFormat(plate) {
		return nil, fmt.Errorf("bazagai: bad plate format %q", plate)
	}

	if c.mock {
		c.logger.Info("bazagai mock lookup", zap.String("plate", plate))
		return &PlateInfo{
			Plate:  plate,
			Vendor: "Renault",
			Model:  "Megane",
			Year:   "2015",
		}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(bazaGAIURL, plate), nil)
	if err != nil {
		return nil, fmt.Errorf("bazagai request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bazagai do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("bazagai unexpected status",
			zap.Int("status", resp.StatusCode),
			zap.String("plate", plate))
		return nil, nil
	}

	var payload bazaGAIPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("bazagai decode: %w", err)
	}

	return &PlateInfo{
		Plate:    plate,
		Vendor:   firstOf(payload.Vendor, payload.Make),
		Model:    payload.Model,
		Year:     firstOf(string(payload.ModelYear), string(payload.Year)),
		VIN:      payload.VIN,
		IsStolen: payload.IsStolen,
	}, nil
}
