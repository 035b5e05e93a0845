package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arloliu/rolepref/record"
	"github.com/arloliu/rolepref/types"
)

// maxRoleDistance is the largest edit distance accepted when matching role names.
const maxRoleDistance = 2

func (a *app) recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"record", "rec"},
		Short:   "Manage preference records",
		Long:    "Create, inspect, edit and delete per-identity role preference records",
	}

	cmd.AddCommand(a.recordsListCmd())
	cmd.AddCommand(a.recordsShowCmd())
	cmd.AddCommand(a.recordsCreateCmd())
	cmd.AddCommand(a.recordsDeleteCmd())
	cmd.AddCommand(a.recordsSetCmd())
	cmd.AddCommand(a.recordsMoveCmd())
	cmd.AddCommand(a.recordsHashCmd())
	cmd.AddCommand(a.recordsReloadCmd())

	return cmd
}

func (a *app) recordsListCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all records",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			ids := a.store.Identities()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No records found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "IDENTITY\tAVERAGE\tCOUNT\tHASH\tTOP")
			fmt.Fprintln(w, "--------\t-------\t-----\t----\t---")
			for _, id := range ids {
				rec, ok := a.store.Get(id)
				if !ok {
					continue
				}
				prefs := rec.Preferences()
				fmt.Fprintf(w, "%s\t%.3f\t%d\t%s\t%s\n",
					id, rec.AverageRank(), rec.AverageCount(), rec.Hash(),
					strings.Join(a.roleNames(prefs[:min(max(top, 0), len(prefs))]), ", "))
			}

			return w.Flush()
		}),
	}
	cmd.Flags().IntVar(&top, "top", 3, "Number of top preferences to show")

	return cmd
}

func (a *app) recordsShowCmd() *cobra.Command {
	var weight float64

	cmd := &cobra.Command{
		Use:   "show [identity]",
		Short: "Show a record with its per-role ratings",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			rec, err := a.record(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("weight") {
				weight = a.cfg.WeightMultiplier
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", bold(args[0]), faint(rec.Hash()))
			fmt.Fprintf(out, "  Average rank: %.3f (%d rounds)\n", rec.AverageRank(), rec.AverageCount())
			fmt.Fprintln(out)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tROLE\tRATING")
			for i, role := range rec.Preferences() {
				rating, _ := rec.Rating(role, weight)
				fmt.Fprintf(w, "%d\t%s\t%.3f\n", i+1, a.catalog.Name(role), rating)
			}

			return w.Flush()
		}),
	}
	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight multiplier for ratings (defaults to config)")

	return cmd
}

func (a *app) recordsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [identity...]",
		Short: "Create records with a shuffled preference order",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.timeout(cmd)
			defer cancel()

			for _, id := range args {
				rec, err := a.store.Create(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to create record: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Created record %s: %s\n", ok(), id, rec.Hash())
			}

			return nil
		}),
	}
}

func (a *app) recordsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [identity]",
		Aliases: []string{"rm"},
		Short:   "Delete a record",
		Args:    cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.timeout(cmd)
			defer cancel()

			if err := a.store.Remove(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete record: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Record %s deleted\n", ok(), args[0])

			return nil
		}),
	}
}

func (a *app) recordsSetCmd() *cobra.Command {
	var hash string

	cmd := &cobra.Command{
		Use:   "set [identity] [role...]",
		Short: "Replace the preference order of a record",
		Long: `Replace the preference order of a record, creating it if needed.

Roles are given most preferred first; roles left out are appended in catalog
order. Alternatively --hash restores an order exported by "records hash".`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			var (
				prefs []types.Role
				err   error
			)
			switch {
			case hash != "" && len(args) > 1:
				return fmt.Errorf("--hash and role arguments are mutually exclusive")
			case hash != "":
				prefs, err = record.ParseHash(a.catalog, hash)
			default:
				prefs, err = a.preferences(args[1:])
			}
			if err != nil {
				return err
			}

			ctx, cancel := a.timeout(cmd)
			defer cancel()

			rec, err := a.store.Put(ctx, args[0], prefs)
			if err != nil {
				return fmt.Errorf("failed to set preferences: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Preferences of %s set: %s\n", ok(), args[0], rec.Hash())

			return nil
		}),
	}
	cmd.Flags().StringVar(&hash, "hash", "", "Preference hash to restore")

	return cmd
}

func (a *app) recordsMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move [identity] [role] [rank]",
		Short: "Move a role to a rank (1 = most preferred)",
		Long: `Move a role to a rank by swapping it with the role currently holding that
rank. Ranks are 1-based.`,
		Args: cobra.ExactArgs(3),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			role, err := a.role(args[1])
			if err != nil {
				return err
			}
			rank, err := strconv.Atoi(args[2])
			if err != nil || rank < 1 || rank > a.catalog.Len() {
				return fmt.Errorf("rank must be between 1 and %d, got %q", a.catalog.Len(), args[2])
			}

			ctx, cancel := a.timeout(cmd)
			defer cancel()

			if err := a.store.MoveRole(ctx, args[0], role, rank-1); err != nil {
				return fmt.Errorf("failed to move role: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Moved %s to rank %d for %s\n", ok(), a.catalog.Name(role), rank, args[0])

			return nil
		}),
	}
}

func (a *app) recordsHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash [identity]",
		Short: "Print the preference hash of a record",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			rec, err := a.record(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rec.Hash())

			return nil
		}),
	}
}

func (a *app) recordsReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload [identity]",
		Short: "Re-read records from storage",
		Long: `Re-read one record from storage, repairing it if damaged. Without an
identity, all records are re-read.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.timeout(cmd)
			defer cancel()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				if err := a.store.Load(ctx); err != nil {
					return fmt.Errorf("failed to reload records: %w", err)
				}
				fmt.Fprintf(out, "%s Reloaded %d records\n", ok(), a.store.Len())

				return nil
			}

			if err := a.store.Reload(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to reload record: %w", err)
			}
			fmt.Fprintf(out, "%s Reloaded record %s\n", ok(), args[0])

			return nil
		}),
	}
}

func (a *app) rolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List the role catalog",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tROLE")
			for _, role := range a.catalog.Roles() {
				fmt.Fprintf(w, "%s\t%s\n", strconv.FormatInt(int64(a.catalog.Code(role)), 36), a.catalog.Name(role))
			}

			return w.Flush()
		}),
	}
}

// record returns the loaded record of identity.
func (a *app) record(identity string) (*record.Record, error) {
	rec, found := a.store.Get(identity)
	if !found {
		return nil, fmt.Errorf("%w: %q", types.ErrRecordNotFound, identity)
	}

	return rec, nil
}

// role resolves an operator supplied role name, tolerating small typos.
func (a *app) role(name string) (types.Role, error) {
	role, dist := a.catalog.Match(name)
	if dist > maxRoleDistance {
		return types.RoleNone, fmt.Errorf("%w: %q (closest is %s)", types.ErrUnknownRole, name, a.catalog.Name(role))
	}

	return role, nil
}

// preferences resolves names to a full preference order, appending the roles not
// named in catalog order.
func (a *app) preferences(names []string) ([]types.Role, error) {
	prefs := make([]types.Role, 0, a.catalog.Len())
	for _, name := range names {
		role, err := a.role(name)
		if err != nil {
			return nil, err
		}
		if slices.Contains(prefs, role) {
			return nil, fmt.Errorf("%w: role %s listed twice", types.ErrInvalidPreferences, a.catalog.Name(role))
		}
		prefs = append(prefs, role)
	}

	for _, role := range a.catalog.Roles() {
		if !slices.Contains(prefs, role) {
			prefs = append(prefs, role)
		}
	}

	return prefs, nil
}

func (a *app) roleNames(roles []types.Role) []string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = a.catalog.Name(role)
	}

	return names
}
