// Package devseed loads restaurant collections from local files. Seeds feed
// the sandbox endpoint and pre-populate the in-memory store during
// development.
package devseed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Ratio1/restaurant_directory_go/internal/restaurantapi"
	"github.com/Ratio1/restaurant_directory_go/pkg/restaurant"
)

// LoadRestaurants reads a seed file. Files ending in .yaml or .yml are parsed
// as YAML, everything else as JSON. Both formats go through the same
// validation as a remote response.
func LoadRestaurants(path string) ([]restaurant.Restaurant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("devseed: read %s: %w", path, err)
	}
	return ParseRestaurants(data, filepath.Ext(path))
}

// ParseRestaurants decodes seed bytes; ext selects the format (".yaml",
// ".yml", or anything else for JSON).
func ParseRestaurants(data []byte, ext string) ([]restaurant.Restaurant, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		data = converted
	}
	records, err := restaurantapi.DecodeCollection(data)
	if err != nil {
		return nil, fmt.Errorf("devseed: %w", err)
	}
	return records, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("devseed: decode yaml: %w", err)
	}
	normalized, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("devseed: re-encode yaml as json: %w", err)
	}
	return out, nil
}

// normalize rewrites map[any]any nodes (non-string YAML keys) into
// map[string]any so the document can be encoded as JSON.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			n, err := normalize(child)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			n, err := normalize(child)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = n
		}
		return out, nil
	case []any:
		for i, child := range t {
			n, err := normalize(child)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	default:
		return v, nil
	}
}
