package rangecalc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vietcharge/vietcharge/internal/apperrors"
)

func Test_Calculate(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		// 80% of 87.7 kWh at 0.2 kWh/km
		got, err := Calculate(80, 87.7, 0.2)

		require.NoError(t, err)
		require.Equal(t, 70.2, got.CurrentEnergyKwh)
		require.Equal(t, 350.8, got.RangeKm)
	})

	t.Run("results rounded to 0.1", func(t *testing.T) {
		got, err := Calculate(33, 50, 0.17)

		require.NoError(t, err)
		require.Equal(t, 16.5, got.CurrentEnergyKwh)
		require.Equal(t, 97.1, got.RangeKm)
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		tests := []struct {
			name                string
			batteryPercent      float64
			capacityKwh         float64
			consumptionKwhPerKm float64
		}{
			{name: "zero battery", batteryPercent: 0, capacityKwh: 87.7, consumptionKwhPerKm: 0.2},
			{name: "negative battery", batteryPercent: -5, capacityKwh: 87.7, consumptionKwhPerKm: 0.2},
			{name: "zero capacity", batteryPercent: 80, capacityKwh: 0, consumptionKwhPerKm: 0.2},
			{name: "zero consumption", batteryPercent: 80, capacityKwh: 87.7, consumptionKwhPerKm: 0},
			{name: "nan input", batteryPercent: math.NaN(), capacityKwh: 87.7, consumptionKwhPerKm: 0.2},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := Calculate(tt.batteryPercent, tt.capacityKwh, tt.consumptionKwhPerKm)
				require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			})
		}
	})
}
