package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/campusnav/backend/internal/generator"
	"github.com/vanshika/campusnav/backend/internal/service"
)

func newSeedCmd() *cobra.Command {
	var (
		file    string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a campus dataset into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := generator.ReadDataset(file)
			if err != nil {
				return err
			}
			if len(ds.Locations) == 0 {
				return fmt.Errorf("%s contains no locations", file)
			}

			ctx := cmd.Context()
			c, err := openCampus(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			ingestor := service.NewBulkIngestor(c.service, workers)
			start := time.Now()

			c.logger.Info("ingesting locations", "count", len(ds.Locations), "workers", workers)
			if err := ingestor.IngestLocations(ctx, ds.Locations); err != nil {
				return fmt.Errorf("ingest locations: %w", err)
			}
			c.logger.Info("ingesting points of interest", "count", len(ds.POIs))
			if err := ingestor.IngestPOIs(ctx, ds.POIs); err != nil {
				return fmt.Errorf("ingest points of interest: %w", err)
			}
			c.logger.Info("ingesting emergency services", "count", len(ds.EmergencyServices))
			if err := ingestor.IngestEmergencyServices(ctx, ds.EmergencyServices); err != nil {
				return fmt.Errorf("ingest emergency services: %w", err)
			}

			c.logger.Info("ingestion complete", "duration", time.Since(start).String())
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d locations\n", len(ds.Locations))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "campus.json", "dataset file written by generate")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent ingestion workers")
	return cmd
}
