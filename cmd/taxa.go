package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wildatlas/zootrack/internal/store"
	"github.com/wildatlas/zootrack/internal/taxonomy"
)

var taxaCmd = &cobra.Command{
	Use:   "taxa",
	Short: "Taxonomy maintenance",
}

var taxaLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Resolve parent links from imported parent names",
	Long:  "Matches each animal's parent-name column against animal names and fills in parent ids. Ambiguous or unmatched names are reported and left alone.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		dryRun, _ := cmd.Flags().GetBool("dry-run")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		nodes, err := st.ListAnimalNodes(ctx)
		if err != nil {
			return err
		}
		links, skips := taxonomy.ResolveParents(nodes)

		for _, l := range links {
			fmt.Printf("%s -> %s\n", l.ChildID, l.ParentID)
		}
		for _, s := range skips {
			fmt.Printf("skip %s (%q): %s\n", s.ChildID, s.ParentName, s.Reason)
		}
		fmt.Printf("-- %d links, %d skipped\n", len(links), len(skips))
		if dryRun {
			fmt.Println("dry run, nothing written")
			return nil
		}
		if len(links) == 0 {
			return nil
		}

		if err := backupBeforeWrite(st); err != nil {
			return err
		}
		runID, err := st.StartRun(ctx, "taxa:link")
		if err != nil {
			return err
		}
		if err := st.LinkParents(ctx, links); err != nil {
			if finishErr := st.FinishRun(ctx, runID, store.RunFailed, err.Error()); finishErr != nil {
				zap.L().Warn("finish run", zap.Error(finishErr))
			}
			return err
		}
		return st.FinishRun(ctx, runID, store.RunDone,
			fmt.Sprintf("%d parents linked, %d skipped", len(links), len(skips)))
	},
}

func init() {
	rootCmd.AddCommand(taxaCmd)
	taxaCmd.AddCommand(taxaLinkCmd)
	taxaLinkCmd.Flags().Bool("dry-run", false, "Print links without writing")
}
