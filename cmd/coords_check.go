package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wildatlas/zootrack/internal/outlier"
	"github.com/wildatlas/zootrack/internal/report"
)

var coordsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report suspicious coordinates",
	Long:  "Prints every zoo whose coordinates are missing, outside the valid domain, or beyond the IQR fences of its country, ranked by severity. Nothing is auto-corrected.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")
		if format != "tsv" && format != "yaml" {
			return eris.Errorf("unknown format %q", format)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := st.ListGeoRecords(ctx)
		if err != nil {
			return err
		}

		reports := outlier.FindSuspicious(records)
		rows := report.Build(records, outlier.Ranked(reports))
		zap.L().Info("coordinate check complete",
			zap.Int("records", len(records)), zap.Int("flagged", len(rows)))

		if outPath != "" {
			if err := report.WriteXLSX(outPath, rows); err != nil {
				return err
			}
			zap.L().Info("report written", zap.String("path", outPath))
		}

		if format == "yaml" {
			return report.WriteYAML(os.Stdout, rows)
		}
		return report.WriteTSV(os.Stdout, rows)
	},
}

func init() {
	coordsCmd.AddCommand(coordsCheckCmd)
	coordsCheckCmd.Flags().String("format", "tsv", "Output format (tsv or yaml)")
	coordsCheckCmd.Flags().String("out", "", "Also write the report to an .xlsx file")
}
