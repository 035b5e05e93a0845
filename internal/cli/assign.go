package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/rolepref"
	"github.com/arloliu/rolepref/source"
)

func (a *app) assignCmd() *cobra.Command {
	var (
		poolPath     string
		strategyName string
		budget       int
	)

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign roles to a pool and update the records",
		Long: `Assign roles to the identities of a YAML pool file and fold the achieved
ranks into their records.

Pool file format:

  capacity:
    classd: 4
    scientist: 2
  candidates:
    - identity: alice
      role: classd
    - identity: carol`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			if strategyName != "" {
				cfg.Strategy = strategyName
			}
			if budget > 0 {
				cfg.MaxOperationBudget = budget
			}

			engine, err := rolepref.NewEngine(&cfg, a.store, rolepref.WithLogger(a.logger))
			if err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd)
			defer cancel()

			pool, err := source.NewFile(poolPath, a.catalog).LoadPool(ctx)
			if err != nil {
				return err
			}

			res, err := engine.Assign(ctx, pool.Candidates, pool.Capacity)
			if err != nil {
				return fmt.Errorf("assignment failed: %w", err)
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "IDENTITY\tFROM\tTO\tRANK")
			fmt.Fprintln(w, "--------\t----\t--\t----")
			for _, c := range pool.Candidates {
				rank := "-"
				if r, ranked := res.Ranks[c.Identity]; ranked {
					rank = fmt.Sprintf("%d", r+1)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Identity,
					a.catalog.Name(c.Role), a.catalog.Name(res.Assignment[c.Identity]), rank)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			diag := res.Diagnostics
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s %s: satisfaction %.2f%% over %d ranked, %d/%d operations\n",
				statusLabel(diag.Status), diag.Strategy, diag.Satisfaction, diag.RankedCount, diag.Tries, diag.Limit)

			return nil
		}),
	}
	cmd.Flags().StringVarP(&poolPath, "pool", "p", "", "YAML pool file")
	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "Strategy override (search, swap)")
	cmd.Flags().IntVar(&budget, "budget", 0, "Operation budget override")
	_ = cmd.MarkFlagRequired("pool")

	return cmd
}

func (a *app) dumpCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write a JSON snapshot of all records",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = a.cfg.SnapshotDir
			}
			if dir == "" {
				return fmt.Errorf("no snapshot directory\nHint: use --out or set snapshotDir in the config")
			}

			path, err := a.store.WriteSnapshot(dir, a.cfg.WeightMultiplier, time.Now())
			if err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %d records to %s\n", ok(), a.store.Len(), path)

			return nil
		}),
	}
	cmd.Flags().StringVarP(&dir, "out", "o", "", "Snapshot directory (defaults to config snapshotDir)")

	return cmd
}
