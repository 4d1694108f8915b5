package restaurant

import (
	"fmt"
	"strconv"
	"strings"
)

// Restaurant is a single directory entry as published by the remote endpoint.
type Restaurant struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Neighborhood   string            `json:"neighborhood"`
	CuisineType    string            `json:"cuisine_type"`
	Photograph     string            `json:"photograph,omitempty"`
	Address        string            `json:"address,omitempty"`
	LatLng         LatLng            `json:"latlng"`
	OperatingHours map[string]string `json:"operating_hours,omitempty"`
	Reviews        []Review          `json:"reviews,omitempty"`
}

// LatLng is the map position of a restaurant.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Review is a visitor review attached to a restaurant.
type Review struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

// ParseID converts an id received as text (query string, CLI argument) into
// a restaurant id.
func ParseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("restaurant: id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("restaurant: invalid id %q: %w", raw, err)
	}
	return id, nil
}
