package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vietcharge/vietcharge/internal/apperrors"
	"github.com/vietcharge/vietcharge/internal/models"
	"github.com/vietcharge/vietcharge/internal/repository"
)

type StationRepo struct {
	DB DBTX
}

const createStation = `-- name: CreateStation
INSERT INTO stations (id, name, address, lat, lng, ports, total_ports, max_power_kw,
                      operating_hours, parking, station_type, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id, name, address, lat, lng, ports, total_ports, max_power_kw,
          operating_hours, parking, station_type, status, created_at, updated_at
`

func (r *StationRepo) CreateStation(ctx context.Context, station models.Station) (models.Station, error) {
	id := station.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createStation,
		id, station.Name, station.Address, station.Lat, station.Lng, station.Ports,
		station.TotalPorts, station.MaxPowerKw, station.OperatingHours,
		station.Parking, station.StationType, station.Status,
	)
	created, err := pgx.CollectOneRow(rows, rowToStation)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getStationByID = `-- name: GetStationByID
SELECT id, name, address, lat, lng, ports, total_ports, max_power_kw,
       operating_hours, parking, station_type, status, created_at, updated_at
FROM stations
WHERE id = $1
`

func (r *StationRepo) GetStationByID(ctx context.Context, stationID uuid.UUID) (models.Station, error) {
	rows, _ := r.DB.Query(ctx, getStationByID, stationID)
	station, err := pgx.CollectOneRow(rows, rowToStation)

	switch {
	case err == nil:
		return station, nil
	case errors.Is(err, pgx.ErrNoRows):
		return station, apperrors.ErrStationNotFound
	default:
		return station, fmt.Errorf("db error: %w", err)
	}
}

const listStations = `-- name: ListStations
SELECT id, name, address, lat, lng, ports, total_ports, max_power_kw,
       operating_hours, parking, station_type, status, created_at, updated_at,
       count(*) OVER() AS total
FROM stations
WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR address ILIKE '%' || $1 || '%')
  AND ($2::float8 IS NULL OR max_power_kw >= $2)
  AND ($3::bool IS NULL OR (operating_hours = '24/7') = $3)
ORDER BY created_at DESC
LIMIT $4 OFFSET $5
`

func (r *StationRepo) ListStations(ctx context.Context, filter repository.StationFilter) ([]models.Station, int, error) {
	offset := (filter.Page - 1) * filter.Limit

	total := 0
	rows, _ := r.DB.Query(ctx, listStations, filter.Search, filter.MinPowerKw, filter.Open247, filter.Limit, offset)
	stations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Station, error) {
		var s models.Station
		err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Lat, &s.Lng, &s.Ports, &s.TotalPorts, &s.MaxPowerKw,
			&s.OperatingHours, &s.Parking, &s.StationType, &s.Status, &s.CreatedAt, &s.UpdatedAt, &total)
		return s, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return stations, total, nil
}

const listActiveStations = `-- name: ListActiveStations
SELECT id, name, address, lat, lng, ports, total_ports, max_power_kw,
       operating_hours, parking, station_type, status, created_at, updated_at
FROM stations
WHERE status = 'active'
`

func (r *StationRepo) ListActiveStations(ctx context.Context) ([]models.Station, error) {
	rows, _ := r.DB.Query(ctx, listActiveStations)
	stations, err := pgx.CollectRows(rows, rowToStation)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stations, nil
}

const updateStation = `-- name: UpdateStation
UPDATE stations
SET name = $2, address = $3, lat = $4, lng = $5, ports = $6, total_ports = $7,
    max_power_kw = $8, operating_hours = $9, parking = $10, station_type = $11,
    status = $12, updated_at = now()
WHERE id = $1
RETURNING id, name, address, lat, lng, ports, total_ports, max_power_kw,
          operating_hours, parking, station_type, status, created_at, updated_at
`

func (r *StationRepo) UpdateStation(ctx context.Context, station models.Station) (models.Station, error) {
	rows, _ := r.DB.Query(ctx, updateStation,
		station.ID, station.Name, station.Address, station.Lat, station.Lng, station.Ports,
		station.TotalPorts, station.MaxPowerKw, station.OperatingHours,
		station.Parking, station.StationType, station.Status,
	)
	updated, err := pgx.CollectOneRow(rows, rowToStation)

	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, pgx.ErrNoRows):
		return updated, apperrors.ErrStationNotFound
	default:
		return updated, fmt.Errorf("db error: %w", err)
	}
}

const deleteStation = `-- name: DeleteStation
DELETE FROM stations
WHERE id = $1
RETURNING id
`

func (r *StationRepo) DeleteStation(ctx context.Context, stationID uuid.UUID) error {
	rows, _ := r.DB.Query(ctx, deleteStation, stationID)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrStationNotFound
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func rowToStation(row pgx.CollectableRow) (models.Station, error) {
	var s models.Station
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Lat, &s.Lng, &s.Ports, &s.TotalPorts, &s.MaxPowerKw,
		&s.OperatingHours, &s.Parking, &s.StationType, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
