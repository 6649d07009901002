package vehicle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// VINDecoder is the primary enrichment source.
type VINDecoder interface {
	DecodeVIN(ctx context.Context, vin string) (*Vehicle, error)
}

// VINFallback is the secondary verification source.
type VINFallback interface {
	Verify(ctx context.Context, vin string, now time.Time) (bool, string)
}

// Verifier runs the full VIN check: local format and checksum first,
// then best-effort enrichment. Enrichment failure never invalidates a
// checksum-valid VIN; the descriptor just stays empty.
type Verifier struct {
	decoder  VINDecoder
	fallback VINFallback
	logger   *zap.Logger
}

// NewVerifier wires the two registry sources.
func NewVerifier(decoder VINDecoder, fallback VINFallback, logger *zap.Logger) *Verifier {
	return &Verifier{decoder: decoder, fallback: fallback, logger: logger}
}

// VerifyVIN returns (ok, user-facing note, descriptor or nil).
func (v *Verifier) VerifyVIN(ctx context.Context, vin string, now time.Time) (bool, string, *Vehicle) {
	vin = NormalizeVIN(vin)

	if !ValidVINFormat(vin) {
		return false, "Формат VIN має бути 17 символів (без I/O/Q).", nil
	}
	if !VINChecksumOK(vin) {
		return false, "Контрольна цифра VIN не сходиться (ISO-3779).", nil
	}

	if v.decoder != nil {
		vehicle, err := v.decoder.DecodeVIN(ctx, vin)
		if err != nil {
			v.logger.Warn("vin decode failed", zap.String("vin", vin), zap.Error(err))
		} else if vehicle != nil {
			return true, "VIN підтверджено (Auto.dev).", vehicle
		}
	}

	if v.fallback != nil {
		if ok, note := v.fallback.Verify(ctx, vin, now); ok {
			return true, fmt.Sprintf("VIN підтверджено (%s).", note), nil
		}
	}

	return false, "Не вдалося підтвердити VIN. Перевір правильність або спробуй інший.", nil
}
