package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/vietcharge/vietcharge/internal/apperrors"
	"github.com/vietcharge/vietcharge/internal/handlers/render"
	"github.com/vietcharge/vietcharge/internal/logger"
	"github.com/vietcharge/vietcharge/internal/models"
	"github.com/vietcharge/vietcharge/internal/repository"
	"github.com/vietcharge/vietcharge/internal/service/station"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	defaultRangeKm = 10.0
	maxUploadBytes = 5 << 20
)

type StationHandler struct {
	stationService stationService
	logger         logger.Logger
}

func NewStation(stations stationService, l logger.Logger) *StationHandler {
	return &StationHandler{stationService: stations, logger: l}
}

// StationRequest is the write payload for create and update.
type StationRequest struct {
	Name           string        `json:"name" validate:"required,min=2,max=200"`
	Address        string        `json:"address" validate:"required"`
	Lat            float64       `json:"lat" validate:"required,min=-90,max=90"`
	Lng            float64       `json:"lng" validate:"required,min=-180,max=180"`
	Ports          []models.Port `json:"ports"`
	TotalPorts     int           `json:"totalPorts" validate:"min=0"`
	MaxPowerKw     float64       `json:"maxPowerKw" validate:"min=0"`
	OperatingHours string        `json:"operatingHours"`
	Parking        string        `json:"parking"`
	StationType    string        `json:"stationType"`
	Status         string        `json:"status" validate:"omitempty,oneof=active maintenance inactive"`
}

func (req StationRequest) params() station.CreateStationParams {
	return station.CreateStationParams{
		Name:           req.Name,
		Address:        req.Address,
		Lat:            req.Lat,
		Lng:            req.Lng,
		Ports:          req.Ports,
		TotalPorts:     req.TotalPorts,
		MaxPowerKw:     req.MaxPowerKw,
		OperatingHours: req.OperatingHours,
		Parking:        req.Parking,
		StationType:    req.StationType,
		Status:         req.Status,
	}
}

func (h *StationHandler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repository.StationFilter{
		Page:   queryInt(query.Get("page"), 1),
		Limit:  queryInt(query.Get("limit"), defaultPageLimit),
		Search: query.Get("search"),
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	if raw := query.Get("minPowerKw"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			render.Error(w, apperrors.New(apperrors.KindValidation, "minPowerKw must be a number", http.StatusBadRequest))
			return
		}
		filter.MinPowerKw = &value
	}

	if raw := query.Get("open247"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			render.Error(w, apperrors.New(apperrors.KindValidation, "open247 must be true or false", http.StatusBadRequest))
			return
		}
		filter.Open247 = &value
	}

	stations, total, err := h.stationService.ListStations(r.Context(), filter)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSONWithMeta(w, stations, render.Pagination(filter.Page, filter.Limit, total))
}

func (h *StationHandler) get(w http.ResponseWriter, r *http.Request) {
	stationID, ok := pathID(w, r)
	if !ok {
		return
	}

	found, err := h.stationService.GetStation(r.Context(), stationID)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, found)
}

func (h *StationHandler) create(w http.ResponseWriter, r *http.Request) {
	data, err := render.BindAndValidate[StationRequest](w, r)
	if err != nil {
		return
	}

	created, err := h.stationService.CreateStation(r.Context(), data.params())
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSONWithStatus(w, created, http.StatusCreated)
}

func (h *StationHandler) update(w http.ResponseWriter, r *http.Request) {
	stationID, ok := pathID(w, r)
	if !ok {
		return
	}

	data, err := render.BindAndValidate[StationRequest](w, r)
	if err != nil {
		return
	}

	updated, err := h.stationService.UpdateStation(r.Context(), stationID, data.params())
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, updated)
}

func (h *StationHandler) delete(w http.ResponseWriter, r *http.Request) {
	type DeleteResponse struct {
		Message string `json:"message"`
	}

	stationID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.stationService.DeleteStation(r.Context(), stationID); err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, DeleteResponse{Message: "station deleted"})
}

func (h *StationHandler) nearest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, lng, ok := queryCoords(w, query.Get("lat"), query.Get("lng"))
	if !ok {
		return
	}

	stations, err := h.stationService.Nearest(r.Context(), lat, lng, queryInt(query.Get("limit"), 0))
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, stations)
}

func (h *StationHandler) inRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, lng, ok := queryCoords(w, query.Get("lat"), query.Get("lng"))
	if !ok {
		return
	}

	radiusKm := defaultRangeKm
	if raw := query.Get("radius"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value <= 0 {
			render.Error(w, apperrors.New(apperrors.KindValidation, "radius must be a positive number", http.StatusBadRequest))
			return
		}
		radiusKm = value
	}

	stations, err := h.stationService.InRange(r.Context(), lat, lng, radiusKm)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, stations)
}

// importCSV accepts the station catalog either as a multipart form with a
// 'file' field or as a raw text/csv request body.
func (h *StationHandler) importCSV(w http.ResponseWriter, r *http.Request) {
	var reader io.Reader = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if file, ok := h.multipartFile(r); ok {
		defer file.Close() // nolint:errcheck
		reader = file
	}

	summary, err := h.stationService.ImportCSV(r.Context(), reader)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, summary)
}

func (h *StationHandler) multipartFile(r *http.Request) (multipart.File, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, false
	}
	return file, true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.Error(w, apperrors.New(apperrors.KindValidation, "invalid id", http.StatusBadRequest))
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func queryCoords(w http.ResponseWriter, rawLat, rawLng string) (float64, float64, bool) {
	lat, latErr := strconv.ParseFloat(rawLat, 64)
	lng, lngErr := strconv.ParseFloat(rawLng, 64)
	if latErr != nil || lngErr != nil {
		render.Error(w, apperrors.New(apperrors.KindValidation, "lat and lng query params are required", http.StatusBadRequest))
		return 0, 0, false
	}
	return lat, lng, true
}
