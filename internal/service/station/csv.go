package station

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vietcharge/vietcharge/internal/apperrors"
	"github.com/vietcharge/vietcharge/internal/models"
)

// Port columns recognized in import files, highest power first
var portColumns = []struct {
	Column   string
	PowerKw  float64
	Category string
}{
	{"ports_250kw", 250, "superfast"},
	{"ports_180kw", 180, "superfast"},
	{"ports_150kw", 150, "superfast"},
	{"ports_120kw", 120, "superfast"},
	{"ports_80kw", 80, "fast"},
	{"ports_60kw", 60, "fast"},
	{"ports_40kw", 40, "normal"},
	{"ports_ac", 7, "slow"},
}

// Outcome of importing one CSV row
type ImportRowResult struct {
	Name    string `json:"station"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type ImportSummary struct {
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Results []ImportRowResult `json:"results"`
}

// ImportCSV reads station rows from r and creates them one by one.
// A bad row does not abort the import: its error is collected and the
// remaining rows are still processed.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (ImportSummary, error) {
	params, err := parseCSV(r)
	if err != nil {
		return ImportSummary{}, err
	}

	if len(params) == 0 {
		return ImportSummary{}, apperrors.New(apperrors.KindValidation, "no valid stations found in CSV", 400)
	}

	summary := ImportSummary{Total: len(params)}
	for _, p := range params {
		_, err := s.CreateStation(ctx, p)
		if err != nil {
			summary.Failed++
			summary.Results = append(summary.Results, ImportRowResult{Name: p.Name, Error: err.Error()})
			continue
		}

		summary.Success++
		summary.Results = append(summary.Results, ImportRowResult{Name: p.Name, Success: true})
	}

	return summary, nil
}

func parseCSV(r io.Reader) ([]CreateStationParams, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, "CSV is empty or malformed", 400)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var params []CreateStationParams
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.New(apperrors.KindValidation, fmt.Sprintf("malformed CSV row: %v", err), 400)
		}

		lat, latErr := strconv.ParseFloat(field(row, "latitude"), 64)
		lng, lngErr := strconv.ParseFloat(field(row, "longitude"), 64)
		if latErr != nil || lngErr != nil {
			continue // rows without coordinates are unusable
		}

		var ports []models.Port
		for _, pc := range portColumns {
			quantity, _ := strconv.Atoi(field(row, pc.Column))
			if quantity > 0 {
				ports = append(ports, models.Port{
					PowerKw:  pc.PowerKw,
					Quantity: quantity,
					Category: pc.Category,
				})
			}
		}

		params = append(params, CreateStationParams{
			Name:           field(row, "name"),
			Address:        field(row, "address"),
			Lat:            lat,
			Lng:            lng,
			Ports:          ports,
			OperatingHours: field(row, "operatingHours"),
			Parking:        field(row, "parking"),
			StationType:    field(row, "stationType"),
			Status:         field(row, "status"),
		})
	}

	return params, nil
}
