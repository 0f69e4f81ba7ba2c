package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanshika/campusnav/backend/internal/generator"
)

func newGenerateCmd() *cobra.Command {
	cfg := generator.DefaultConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic campus dataset to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := generator.New(cfg).Generate(cmd.Context())
			if err != nil {
				return err
			}
			if err := generator.WriteDataset(ds, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d locations, %d POIs, %d emergency services to %s\n",
				len(ds.Locations), len(ds.POIs), len(ds.EmergencyServices), out)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.Buildings, "buildings", cfg.Buildings, "number of buildings")
	flags.IntVar(&cfg.Floors, "floors", cfg.Floors, "floors per building")
	flags.IntVar(&cfg.RoomsPerFloor, "rooms", cfg.RoomsPerFloor, "rooms per floor, stairwell included")
	flags.Float64Var(&cfg.Spacing, "spacing", cfg.Spacing, "coordinate distance between neighbouring rooms")
	flags.Float64Var(&cfg.POIChance, "poi-chance", cfg.POIChance, "probability that a room hosts a POI")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	flags.StringVarP(&out, "out", "o", "campus.json", "output file")
	return cmd
}
