package station

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/vietcharge/vietcharge/internal/apperrors"
	"github.com/vietcharge/vietcharge/internal/models"
	"github.com/vietcharge/vietcharge/internal/repository"
)

const defaultNearestLimit = 10

type Service struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *Service {
	return &Service{storage: storage}
}

type CreateStationParams struct {
	Name           string
	Address        string
	Lat            float64
	Lng            float64
	Ports          []models.Port
	TotalPorts     int
	MaxPowerKw     float64
	OperatingHours string
	Parking        string
	StationType    string
	Status         string
}

func (s *Service) CreateStation(ctx context.Context, params CreateStationParams) (models.Station, error) {
	station := models.Station{
		Name:           params.Name,
		Address:        params.Address,
		Lat:            params.Lat,
		Lng:            params.Lng,
		Ports:          params.Ports,
		TotalPorts:     params.TotalPorts,
		MaxPowerKw:     params.MaxPowerKw,
		OperatingHours: defaultString(params.OperatingHours, models.Open247),
		Parking:        defaultString(params.Parking, "Unknown"),
		StationType:    defaultString(params.StationType, "public"),
		Status:         defaultString(params.Status, models.StationActive),
	}

	// Derive the aggregates from the port groups unless the caller
	// provided them explicitly
	if station.TotalPorts == 0 || station.MaxPowerKw == 0 {
		station.RecalcPorts()
	}

	return s.storage.Station().CreateStation(ctx, station)
}

func (s *Service) GetStation(ctx context.Context, stationID uuid.UUID) (models.Station, error) {
	return s.storage.Station().GetStationByID(ctx, stationID)
}

func (s *Service) ListStations(ctx context.Context, filter repository.StationFilter) ([]models.Station, int, error) {
	return s.storage.Station().ListStations(ctx, filter)
}

func (s *Service) UpdateStation(ctx context.Context, stationID uuid.UUID, params CreateStationParams) (models.Station, error) {
	station, err := s.storage.Station().GetStationByID(ctx, stationID)
	if err != nil {
		return station, err
	}

	station.Name = params.Name
	station.Address = params.Address
	station.Lat = params.Lat
	station.Lng = params.Lng
	station.Ports = params.Ports
	station.OperatingHours = defaultString(params.OperatingHours, station.OperatingHours)
	station.Parking = defaultString(params.Parking, station.Parking)
	station.StationType = defaultString(params.StationType, station.StationType)
	station.Status = defaultString(params.Status, station.Status)
	station.RecalcPorts()

	return s.storage.Station().UpdateStation(ctx, station)
}

func (s *Service) DeleteStation(ctx context.Context, stationID uuid.UUID) error {
	return s.storage.Station().DeleteStation(ctx, stationID)
}

// Nearest returns up to limit active stations ranked by distance from
// the query point
func (s *Service) Nearest(ctx context.Context, lat, lng float64, limit int) ([]models.StationWithDistance, error) {
	if err := validateCoords(lat, lng); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultNearestLimit
	}

	ranked, err := s.rankByDistance(ctx, lat, lng)
	if err != nil {
		return nil, err
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// InRange returns active stations within radiusKm of the query point,
// nearest first
func (s *Service) InRange(ctx context.Context, lat, lng, radiusKm float64) ([]models.StationWithDistance, error) {
	if err := validateCoords(lat, lng); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		return nil, apperrors.New(apperrors.KindValidation, "radiusKm must be positive", 400)
	}

	ranked, err := s.rankByDistance(ctx, lat, lng)
	if err != nil {
		return nil, err
	}

	inRange := ranked[:0]
	for _, station := range ranked {
		if station.DistanceKm <= radiusKm {
			inRange = append(inRange, station)
		}
	}
	return inRange, nil
}

func (s *Service) rankByDistance(ctx context.Context, lat, lng float64) ([]models.StationWithDistance, error) {
	stations, err := s.storage.Station().ListActiveStations(ctx)
	if err != nil {
		return nil, err
	}

	origin := orb.Point{lng, lat}

	ranked := make([]models.StationWithDistance, 0, len(stations))
	for _, station := range stations {
		distanceKm := geo.DistanceHaversine(origin, orb.Point{station.Lng, station.Lat}) / 1000

		ranked = append(ranked, models.StationWithDistance{
			Station:    station,
			DistanceKm: math.Round(distanceKm*10) / 10,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	return ranked, nil
}

func validateCoords(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return apperrors.New(apperrors.KindValidation, "lat and lng must be valid coordinates", 400)
	}
	return nil
}

func defaultString(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
