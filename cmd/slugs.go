package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wildatlas/zootrack/internal/slug"
	"github.com/wildatlas/zootrack/internal/store"
)

var slugsCmd = &cobra.Command{
	Use:   "slugs",
	Short: "URL slug assignment",
	Long:  "Derives unique URL slugs from display names for animals and zoos.",
}

var slugsAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign slugs to rows that lack one",
	Long:  "Computes a collision-free slug plan and applies it in one transaction. With --reset, existing slugs are discarded and every row gets a fresh slug.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		table, _ := cmd.Flags().GetString("table")
		allTables, _ := cmd.Flags().GetBool("all-tables")
		reset, _ := cmd.Flags().GetBool("reset")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		tables := []string{table}
		if allTables {
			tables = []string{store.TableAnimal, store.TableZoo}
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		// Planning is read-only, so tables can be planned concurrently;
		// applies stay sequential to keep one transaction per table.
		plans := make([][]slug.Assignment, len(tables))
		g, gctx := errgroup.WithContext(ctx)
		for i, tbl := range tables {
			g.Go(func() error {
				plan, err := slugPlan(gctx, st, tbl, reset)
				if err != nil {
					return err
				}
				plans[i] = plan
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, tbl := range tables {
			printSlugPlan(tbl, plans[i])
		}
		if dryRun {
			fmt.Println("dry run, nothing written")
			return nil
		}

		if err := backupBeforeWrite(st); err != nil {
			return err
		}
		for i, tbl := range tables {
			if err := applySlugPlan(ctx, st, tbl, reset, plans[i]); err != nil {
				return err
			}
		}
		return nil
	},
}

// slugPlan reads targets and existing slugs for one table and computes the
// assignment plan. With reset, every row is a target and the existing set is
// treated as empty.
func slugPlan(ctx context.Context, st store.Store, table string, reset bool) ([]slug.Assignment, error) {
	targets, err := st.ListSlugTargets(ctx, table, reset)
	if err != nil {
		return nil, err
	}

	var existing []string
	if !reset {
		existing, err = st.ListSlugs(ctx, table)
		if err != nil {
			return nil, err
		}
	}

	return slug.Assignments(targets, existing), nil
}

// applySlugPlan writes one table's plan under an audit run. A reset clears
// and reassigns inside one store transaction, so a write failure leaves the
// prior slugs untouched.
func applySlugPlan(ctx context.Context, st store.Store, table string, reset bool, plan []slug.Assignment) error {
	if len(plan) == 0 && !reset {
		zap.L().Info("no slugs to assign", zap.String("table", table))
		return nil
	}

	runID, err := st.StartRun(ctx, "slugs:"+table)
	if err != nil {
		return err
	}

	apply := st.ApplySlugs
	if reset {
		apply = st.ReplaceSlugs
	}
	if err := apply(ctx, table, plan); err != nil {
		if finishErr := st.FinishRun(ctx, runID, store.RunFailed, err.Error()); finishErr != nil {
			zap.L().Warn("finish run", zap.Error(finishErr))
		}
		return err
	}

	detail := fmt.Sprintf("%d slugs assigned", len(plan))
	if err := st.FinishRun(ctx, runID, store.RunDone, detail); err != nil {
		return err
	}
	zap.L().Info("slugs assigned", zap.String("table", table), zap.Int("count", len(plan)))
	return nil
}

func printSlugPlan(table string, plan []slug.Assignment) {
	fmt.Printf("-- %s: %d assignments\n", table, len(plan))
	for _, a := range plan {
		fmt.Printf("%s\t%s\n", a.Slug, a.ID)
	}
}

func init() {
	rootCmd.AddCommand(slugsCmd)
	slugsCmd.AddCommand(slugsAssignCmd)
	slugsAssignCmd.Flags().String("table", store.TableAnimal, "Table to slug (animal or zoo)")
	slugsAssignCmd.Flags().Bool("all-tables", false, "Assign slugs for both tables")
	slugsAssignCmd.Flags().Bool("reset", false, "Discard existing slugs and reassign everything")
	slugsAssignCmd.Flags().Bool("dry-run", false, "Print the plan without writing")
}
