package vehicle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const vpicURL = "https://vpic.nhtsa.dot.gov/api/vehicles/DecodeVinValues/%s?format=json&modelyear=%d"

// VPICClient is the secondary VIN verifier (NHTSA vPIC). Used only when
// the primary registry gave nothing; its unavailability never blocks a
// checksum-valid VIN.
type VPICClient struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewVPICClient creates a client with a 10s request timeout.
func NewVPICClient(logger *zap.Logger) *VPICClient {
	return &VPICClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type vpicResponse struct {
	Results []struct {
		ErrorCode flexString `json:"ErrorCode"`
		ErrorText string     `json:"ErrorText"`
	} `json:"Results"`
}

// Verify asks vPIC to confirm the VIN, trying the current and previous
// model years. Returns (verified, note). A transport failure counts as
// verified with a note, since the checksum already passed.
func (c *VPICClient) Verify(ctx context.Context, vin string, now time.Time) (bool, string) {
	for _, year := range []int{now.Year(), now.Year() - 1} {
		ok, text, err := c.tryYear(ctx, vin, year)
		if err != nil {
			c.logger.Warn("vpic error", zap.Error(err))
			return true, "vPIC недоступний"
		}
		if ok {
			if text == "" {
				text = "vPIC OK"
			}
			return true, text
		}
	}
	return false, "vPIC: VIN не підтверджено"
}

func (c *VPICClient) tryYear(ctx context.Context, vin string, year int) (bool, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(vpicURL, vin, year), nil)
	if err != nil {
		return false, "", fmt.Errorf("vpic request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, "", fmt.Errorf("vpic do: %w", err)
	}
	defer resp.Body.Close()

	var payload vpicResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, "", fmt.Errorf("vpic decode: %w", err)
	}
	if len(payload.Results) == 0 {
		return false, "", nil
	}

	code := strings.TrimSpace(string(payload.Results[0].ErrorCode))
	// 0 = clean decode; 7/8-prefixed codes are warnings vPIC still
	// considers a plausible VIN.
	for _, prefix := range []string{"0", "7", "8"} {
		if strings.HasPrefix(code, prefix) {
			return true, payload.Results[0].ErrorText, nil
		}
	}
	return false, "", nil
}
