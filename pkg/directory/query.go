package directory

import "github.com/Ratio1/restaurant_directory_go/pkg/restaurant"

// All is the facet value that disables filtering on that facet.
const All = "all"

// FindByID returns the first restaurant whose id matches.
func FindByID(rs []restaurant.Restaurant, id int64) (restaurant.Restaurant, error) {
	for _, r := range rs {
		if r.ID == id {
			return r, nil
		}
	}
	return restaurant.Restaurant{}, &restaurant.NotFoundError{ID: id}
}

// FilterByCuisine keeps the restaurants whose cuisine type equals cuisine.
func FilterByCuisine(rs []restaurant.Restaurant, cuisine string) []restaurant.Restaurant {
	return filter(rs, func(r restaurant.Restaurant) bool { return r.CuisineType == cuisine })
}

// FilterByNeighborhood keeps the restaurants located in neighborhood.
func FilterByNeighborhood(rs []restaurant.Restaurant, neighborhood string) []restaurant.Restaurant {
	return filter(rs, func(r restaurant.Restaurant) bool { return r.Neighborhood == neighborhood })
}

// FilterByCuisineAndNeighborhood intersects both filters. A facet equal to
// All matches every restaurant.
func FilterByCuisineAndNeighborhood(rs []restaurant.Restaurant, cuisine, neighborhood string) []restaurant.Restaurant {
	return filter(rs, func(r restaurant.Restaurant) bool {
		return (cuisine == All || r.CuisineType == cuisine) &&
			(neighborhood == All || r.Neighborhood == neighborhood)
	})
}

// UniqueNeighborhoods returns each neighborhood once, in order of first
// occurrence.
func UniqueNeighborhoods(rs []restaurant.Restaurant) []string {
	return unique(rs, func(r restaurant.Restaurant) string { return r.Neighborhood })
}

// UniqueCuisines returns each cuisine type once, in order of first
// occurrence.
func UniqueCuisines(rs []restaurant.Restaurant) []string {
	return unique(rs, func(r restaurant.Restaurant) string { return r.CuisineType })
}

func filter(rs []restaurant.Restaurant, keep func(restaurant.Restaurant) bool) []restaurant.Restaurant {
	out := make([]restaurant.Restaurant, 0, len(rs))
	for _, r := range rs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func unique(rs []restaurant.Restaurant, facet func(restaurant.Restaurant) string) []string {
	seen := make(map[string]struct{}, len(rs))
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		v := facet(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
