package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildatlas/zootrack/internal/outlier"
)

var coordsBBoxCmd = &cobra.Command{
	Use:   "bbox",
	Short: "Show per-country bounding boxes",
	Long:  "Prints the geographic extent of each country's valid records, a quick way to spot an import whose whole group drifted.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := st.ListGeoRecords(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%-25s %6s %12s %12s %12s %12s\n",
			"Country", "Count", "MinLat", "MaxLat", "MinLon", "MaxLon")
		for _, b := range outlier.BoundsByCountry(records) {
			country := "(none)"
			if b.Country != nil {
				country = *b.Country
			}
			fmt.Printf("%-25s %6d %12.5f %12.5f %12.5f %12.5f\n",
				country, b.Count, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
		}
		return nil
	},
}

func init() { coordsCmd.AddCommand(coordsBBoxCmd) }
