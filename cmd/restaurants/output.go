package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Ratio1/restaurant_directory_go/pkg/restaurant"
)

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (c *cli) printRestaurants(rs []restaurant.Restaurant) error {
	if c.asJSON {
		return c.printJSON(rs)
	}
	if len(rs) == 0 {
		_, err := fmt.Fprintln(c.out, "No results")
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCUISINE\tNEIGHBORHOOD\tPAGE")
	for _, r := range rs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.CuisineType, r.Neighborhood, restaurant.URLFor(r))
	}
	return tw.Flush()
}

func (c *cli) printRestaurant(r restaurant.Restaurant) error {
	if c.asJSON {
		return c.printJSON(r)
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", r.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", r.Name)
	fmt.Fprintf(tw, "Cuisine:\t%s\n", r.CuisineType)
	fmt.Fprintf(tw, "Neighborhood:\t%s\n", r.Neighborhood)
	if r.Address != "" {
		fmt.Fprintf(tw, "Address:\t%s\n", r.Address)
	}
	fmt.Fprintf(tw, "Location:\t%.6f, %.6f\n", r.LatLng.Lat, r.LatLng.Lng)
	if r.Photograph != "" {
		fmt.Fprintf(tw, "Image:\t%s\n", restaurant.LargeImageURLFor(r))
	}
	if len(r.OperatingHours) > 0 {
		days := make([]string, 0, len(r.OperatingHours))
		for day := range r.OperatingHours {
			days = append(days, day)
		}
		sort.Strings(days)
		for _, day := range days {
			fmt.Fprintf(tw, "%s:\t%s\n", day, r.OperatingHours[day])
		}
	}
	if n := len(r.Reviews); n > 0 {
		fmt.Fprintf(tw, "Reviews:\t%d\n", n)
	}
	return tw.Flush()
}

func (c *cli) printValues(values []string) error {
	if c.asJSON {
		return c.printJSON(values)
	}
	_, err := fmt.Fprintln(c.out, strings.Join(values, "\n"))
	return err
}

func (c *cli) printFacets(f facets) error {
	if c.asJSON {
		return c.printJSON(f)
	}
	_, err := fmt.Fprintf(c.out, "Neighborhoods: %s\nCuisines: %s\n",
		strings.Join(f.Neighborhoods, ", "), strings.Join(f.Cuisines, ", "))
	return err
}
