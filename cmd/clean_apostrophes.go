package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wildatlas/zootrack/internal/clean"
	"github.com/wildatlas/zootrack/internal/store"
)

var cleanApostrophesCmd = &cobra.Command{
	Use:   "apostrophes",
	Short: "Normalize apostrophe variants in display names",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		table, _ := cmd.Flags().GetString("table")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rows, err := st.ListNames(ctx, table)
		if err != nil {
			return err
		}
		fixes := clean.ApostropheFixes(rows)

		for _, f := range fixes {
			fmt.Printf("%s\t%q -> %q\n", f.ID, f.Old, f.New)
		}
		fmt.Printf("-- %s: %d names to fix\n", table, len(fixes))
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
		runID, err := st.StartRun(ctx, "clean:apostrophes:"+table)
		if err != nil {
			return err
		}
		if err := st.ApplyNameFixes(ctx, table, fixes); err != nil {
			if finishErr := st.FinishRun(ctx, runID, store.RunFailed, err.Error()); finishErr != nil {
				zap.L().Warn("finish run", zap.Error(finishErr))
			}
			return err
		}
		return st.FinishRun(ctx, runID, store.RunDone, fmt.Sprintf("%d names fixed", len(fixes)))
	},
}

func init() {
	cleanCmd.AddCommand(cleanApostrophesCmd)
	cleanApostrophesCmd.Flags().String("table", store.TableAnimal, "Table to repair (animal or zoo)")
	cleanApostrophesCmd.Flags().Bool("dry-run", false, "Print fixes without writing")
}
