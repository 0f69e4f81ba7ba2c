package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type pathOutput struct {
	Route         []int64  `json:"route"`
	Names         []string `json:"names"`
	TotalDistance float64  `json:"total_distance"`
	EstimatedTime float64  `json:"estimated_time"`
}

func newPathCmd() *cobra.Command {
	var from, to int64

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Compute the shortest walking route between two locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := openCampus(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			path, err := c.service.ComputePath(ctx, from, to)
			if err != nil {
				return fmt.Errorf("route %d -> %d: %w", from, to, err)
			}

			out := pathOutput{
				TotalDistance: path.TotalDistance,
				EstimatedTime: path.EstimatedTime,
			}
			for _, seg := range path.Segments {
				out.Route = append(out.Route, seg.LocationID)
				out.Names = append(out.Names, seg.Name)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().Int64Var(&from, "from", 0, "start location id")
	cmd.Flags().Int64Var(&to, "to", 0, "destination location id")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
