package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Ratio1/restaurant_directory_go/pkg/directory"
	"github.com/Ratio1/restaurant_directory_go/pkg/restaurant"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every restaurant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := c.svc.ResolveAll(cmd.Context())
			if err != nil {
				return err
			}
			return c.printRestaurants(rs)
		},
	}
}

func (c *cli) filterCmd() *cobra.Command {
	var cuisine, neighborhood string
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List restaurants matching a cuisine and/or neighborhood",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := c.svc.ByCuisineAndNeighborhood(cmd.Context(), cuisine, neighborhood)
			if err != nil {
				return err
			}
			return c.printRestaurants(rs)
		},
	}
	cmd.Flags().StringVar(&cuisine, "cuisine", directory.All, `cuisine type, or "all"`)
	cmd.Flags().StringVar(&neighborhood, "neighborhood", directory.All, `neighborhood, or "all"`)
	return cmd
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := restaurant.ParseID(args[0])
			if err != nil {
				return err
			}
			r, err := c.svc.ByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.printRestaurant(r)
		},
	}
}

func (c *cli) neighborhoodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "neighborhoods",
		Short: "List distinct neighborhoods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := c.svc.Neighborhoods(cmd.Context())
			if err != nil {
				return err
			}
			return c.printValues(values)
		},
	}
}

func (c *cli) cuisinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cuisines",
		Short: "List distinct cuisine types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := c.svc.Cuisines(cmd.Context())
			if err != nil {
				return err
			}
			return c.printValues(values)
		},
	}
}

// facets mirrors the directory page load, which requests both facet lists at
// once.
func (c *cli) facetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "List neighborhoods and cuisines together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f facets
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				f.Neighborhoods, err = c.svc.Neighborhoods(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				f.Cuisines, err = c.svc.Cuisines(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}
			return c.printFacets(f)
		},
	}
}

type facets struct {
	Neighborhoods []string `json:"neighborhoods"`
	Cuisines      []string `json:"cuisines"`
}

