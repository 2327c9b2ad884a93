package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wildatlas/zootrack/internal/clean"
	"github.com/wildatlas/zootrack/internal/store"
)

var cleanCountriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "Translate localized country names to English",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		dryRun, _ := cmd.Flags().GetBool("dry-run")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rows, err := st.ListZooCountries(ctx)
		if err != nil {
			return err
		}
		fixes := clean.CountryFixes(rows)

		for _, f := range fixes {
			fmt.Printf("%s\t%q -> %q\n", f.ID, f.Old, f.New)
		}
		fmt.Printf("-- zoo: %d countries to translate\n", len(fixes))
		if dryRun {
			fmt.Println("dry run, nothing written")
			return nil
		}
		if len(fixes) == 0 {
			return nil
		}

		if err := backupBeforeWrite(st); err != nil {
			return err
		}
		runID, err := st.StartRun(ctx, "clean:countries")
		if err != nil {
			return err
		}
		if err := st.ApplyCountryFixes(ctx, fixes); err != nil {
			if finishErr := st.FinishRun(ctx, runID, store.RunFailed, err.Error()); finishErr != nil {
				zap.L().Warn("finish run", zap.Error(finishErr))
			}
			return err
		}
		return st.FinishRun(ctx, runID, store.RunDone, fmt.Sprintf("%d countries translated", len(fixes)))
	},
}

func init() {
	cleanCmd.AddCommand(cleanCountriesCmd)
	cleanCountriesCmd.Flags().Bool("dry-run", false, "Print fixes without writing")
}
