package handlers

import (
	"net/http"

	"github.com/vietcharge/vietcharge/internal/handlers/render"
	"github.com/vietcharge/vietcharge/internal/service/rangecalc"
)

func handleRangeCalculate() http.Handler {
	type RangeRequest struct {
		BatteryPercent      float64 `json:"batteryPercent" validate:"required,min=0,max=100"`
		CapacityKwh         float64 `json:"capacityKwh" validate:"required,gt=0"`
		ConsumptionKwhPerKm float64 `json:"consumptionKwhPerKm" validate:"required,gt=0"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[RangeRequest](w, r)
		if err != nil {
			return
		}

		estimate, err := rangecalc.Calculate(data.BatteryPercent, data.CapacityKwh, data.ConsumptionKwhPerKm)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, estimate)
	})
}
