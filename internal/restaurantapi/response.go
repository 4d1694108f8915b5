// Package restaurantapi decodes the payload published by the restaurants
// endpoint into a validated collection.
package restaurantapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Ratio1/restaurant_directory_go/pkg/restaurant"
)

// requiredFields must be present on every record of the collection.
var requiredFields = []string{"id", "cuisine_type", "neighborhood"}

// ErrEmptyBody is returned for a response without a payload.
var ErrEmptyBody = errors.New("restaurantapi: empty response body")

// ExtractCollection returns the raw JSON array holding the collection. A bare
// array is returned as is; an object is unwrapped through its "result" or
// "restaurants" field. A field holding a JSON-encoded string is decoded once
// more so double-encoded payloads are accepted.
func ExtractCollection(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrEmptyBody
	}

	switch trimmed[0] {
	case '[':
		return trimmed, nil
	case '{':
	default:
		return nil, fmt.Errorf("restaurantapi: expected a JSON array or object, got %q", preview(trimmed))
	}

	var envelope struct {
		Result      json.RawMessage `json:"result"`
		Restaurants json.RawMessage `json:"restaurants"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("restaurantapi: decode envelope: %w", err)
	}
	inner := envelope.Result
	if inner == nil {
		inner = envelope.Restaurants
	}
	if inner == nil {
		return nil, errors.New("restaurantapi: object payload has no result or restaurants field")
	}

	var asString string
	if err := json.Unmarshal(inner, &asString); err == nil {
		if unquoted, err := strconv.Unquote(asString); err == nil {
			asString = unquoted
		}
		inner = []byte(asString)
	}
	inner = bytes.TrimSpace(inner)
	if len(inner) == 0 || inner[0] != '[' {
		return nil, fmt.Errorf("restaurantapi: envelope does not hold an array, got %q", preview(inner))
	}
	return inner, nil
}

// DecodeCollection parses a response body into restaurants. Every record must
// carry the id and both facet fields, and ids must be unique; any violation
// rejects the whole collection.
func DecodeCollection(body []byte) ([]restaurant.Restaurant, error) {
	payload, err := ExtractCollection(body)
	if err != nil {
		return nil, err
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil {
		return nil, fmt.Errorf("restaurantapi: decode collection: %w", err)
	}

	out := make([]restaurant.Restaurant, 0, len(raws))
	seen := make(map[int64]int, len(raws))
	for i, raw := range raws {
		r, err := decodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("restaurantapi: record %d: %w", i, err)
		}
		if prev, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("restaurantapi: record %d: duplicate id %d (first seen at record %d)", i, r.ID, prev)
		}
		seen[r.ID] = i
		out = append(out, r)
	}
	return out, nil
}

func decodeRecord(raw json.RawMessage) (restaurant.Restaurant, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return restaurant.Restaurant{}, err
	}
	if fields == nil {
		return restaurant.Restaurant{}, errors.New("record is null")
	}
	for _, name := range requiredFields {
		v, ok := fields[name]
		if !ok || string(v) == "null" {
			return restaurant.Restaurant{}, fmt.Errorf("missing %q", name)
		}
	}

	var r restaurant.Restaurant
	if err := json.Unmarshal(raw, &r); err != nil {
		return restaurant.Restaurant{}, err
	}
	return r, nil
}

func preview(b []byte) string {
	const max = 32
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
