package models

import (
	"time"

	"github.com/google/uuid"
)

// Station statuses
const (
	StationActive      = "active"
	StationMaintenance = "maintenance"
	StationInactive    = "inactive"
)

// Operating hours value that means the station never closes
const Open247 = "24/7"

// One group of identical charging ports at a station
type Port struct {
	PowerKw       float64 `json:"powerKw"`
	Quantity      int     `json:"quantity"`
	Category      string  `json:"category,omitempty"`
	ConnectorType string  `json:"connectorType,omitempty"`
}

type Station struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	Ports          []Port    `json:"ports"`
	TotalPorts     int       `json:"totalPorts"`
	MaxPowerKw     float64   `json:"maxPowerKw"`
	OperatingHours string    `json:"operatingHours"`
	Parking        string    `json:"parking"`
	StationType    string    `json:"stationType"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (s Station) Open247() bool {
	return s.OperatingHours == Open247
}

// RecalcPorts derives totalPorts and maxPowerKw from the port groups
func (s *Station) RecalcPorts() {
	s.TotalPorts = 0
	s.MaxPowerKw = 0
	for _, p := range s.Ports {
		s.TotalPorts += p.Quantity
		if p.PowerKw > s.MaxPowerKw {
			s.MaxPowerKw = p.PowerKw
		}
	}
}

// Station with the distance from a query point attached
type StationWithDistance struct {
	Station
	DistanceKm float64 `json:"distanceKm"`
}
