package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/troskovi/internal/model"
)

func newRulesCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage exclusion rules",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List exclusion rules",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, opts, func(_ context.Context, a *app) error {
					rules := a.rules.Settings().ExclusionRules
					rows := make([][]string, len(rules))
					for i, r := range rules {
						rows[i] = []string{strconv.Itoa(i + 1), r.Pattern, onOff(r.Enabled)}
					}
					return a.out.Table([]string{"#", "Pattern", "Enabled"}, rows)
				})
			},
		},
		settingsEdit(opts, "add <pattern>", "Add an enabled exclusion rule", 1,
			func(ctx context.Context, a *app, args []string) (string, error) {
				return fmt.Sprintf("exclude %q", args[0]), a.rules.AddExclusion(ctx, args[0])
			}),
		settingsEdit(opts, "toggle <n>", "Enable or disable rule n", 1,
			func(ctx context.Context, a *app, args []string) (string, error) {
				i, err := ruleIndex(args[0])
				if err != nil {
					return "", err
				}
				return "toggle exclusion rule " + args[0], a.rules.ToggleExclusion(ctx, i)
			}),
		settingsEdit(opts, "delete <n>", "Delete rule n", 1,
			func(ctx context.Context, a *app, args []string) (string, error) {
				i, err := ruleIndex(args[0])
				if err != nil {
					return "", err
				}
				return "delete exclusion rule " + args[0], a.rules.DeleteExclusion(ctx, i)
			}),
	)

	return cmd
}

func newIncomeCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Manage income sources",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List income sources",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, opts, func(_ context.Context, a *app) error {
					return a.out.Table([]string{"#", "Name", "Pattern", "Enabled"}, incomeRows(a.rules.Settings().IncomeSources))
				})
			},
		},
		settingsEdit(opts, "add <name> <pattern>", "Add an enabled income source", 2,
			func(ctx context.Context, a *app, args []string) (string, error) {
				return fmt.Sprintf("income source %s (%q)", args[0], args[1]), a.rules.AddIncomeSource(ctx, args[0], args[1])
			}),
		settingsEdit(opts, "toggle <n>", "Enable or disable income source n", 1,
			func(ctx context.Context, a *app, args []string) (string, error) {
				i, err := ruleIndex(args[0])
				if err != nil {
					return "", err
				}
				return "toggle income source " + args[0], a.rules.ToggleIncomeSource(ctx, i)
			}),
		settingsEdit(opts, "delete <n>", "Delete income source n", 1,
			func(ctx context.Context, a *app, args []string) (string, error) {
				i, err := ruleIndex(args[0])
				if err != nil {
					return "", err
				}
				return "delete income source " + args[0], a.rules.DeleteIncomeSource(ctx, i)
			}),
	)

	return cmd
}

func settingsEdit(opts *globalOptions, use, short string, nargs int,
	edit func(ctx context.Context, a *app, args []string) (string, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				what, err := edit(ctx, a, args)
				if err != nil {
					return err
				}
				a.out.Success(what)
				return a.commit("settings: " + what)
			})
		},
	}
}

func incomeRows(sources []model.IncomeSource) [][]string {
	rows := make([][]string, len(sources))
	for i, s := range sources {
		rows[i] = []string{strconv.Itoa(i + 1), s.Name, s.Pattern, onOff(s.Enabled)}
	}
	return rows
}

// ruleIndex converts a 1-based list number into an index.
func ruleIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", arg)
	}
	return n - 1, nil
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
