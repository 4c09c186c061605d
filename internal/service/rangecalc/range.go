// Package rangecalc estimates how far an EV can drive on its remaining
// battery charge.
package rangecalc

import (
	"math"

	"github.com/vietcharge/vietcharge/internal/apperrors"
)

type Estimate struct {
	RangeKm          float64 `json:"rangeKm"`
	CurrentEnergyKwh float64 `json:"currentEnergyKwh"`
}

// Calculate returns the drivable range for the given battery state.
// All inputs must be positive; batteryPercent is a percentage, not a fraction.
func Calculate(batteryPercent, capacityKwh, consumptionKwhPerKm float64) (Estimate, error) {
	if math.IsNaN(batteryPercent) || math.IsNaN(capacityKwh) || math.IsNaN(consumptionKwhPerKm) {
		return Estimate{}, apperrors.New(apperrors.KindValidation, "parameters must be numbers", 400)
	}

	if batteryPercent <= 0 || capacityKwh <= 0 || consumptionKwhPerKm <= 0 {
		return Estimate{}, apperrors.New(apperrors.KindValidation, "parameters must be positive", 400)
	}

	currentEnergyKwh := batteryPercent / 100 * capacityKwh
	maxDistanceKm := currentEnergyKwh / consumptionKwhPerKm

	return Estimate{
		RangeKm:          math.Round(maxDistanceKm*10) / 10,
		CurrentEnergyKwh: math.Round(currentEnergyKwh*10) / 10,
	}, nil
}
