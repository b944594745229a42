package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/troskovi/internal/importer"
	"github.com/cleared-dev/troskovi/internal/ledger"
	"github.com/cleared-dev/troskovi/internal/ui"
)

func newTransactionsCommand(opts *globalOptions) *cobra.Command {
	var (
		q               ledger.Query
		all             bool
		includeExcluded bool
	)

	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List transactions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch q.SortBy {
			case ledger.SortDate, ledger.SortName, ledger.SortAmount:
			default:
				return fmt.Errorf("invalid sort %q: must be date, name or amount", q.SortBy)
			}
			q.ExpensesOnly = !all
			q.ExcludeRules = !includeExcluded
			return withApp(cmd, opts, func(_ context.Context, a *app) error {
				txns := q.Run(a.ledger.All(), a.rules.Settings())
				rows := make([][]string, len(txns))
				for i, t := range txns {
					rows[i] = []string{
						t.Date.Format(dateFormat),
						t.Description,
						importer.FormatAmount(t.Amount),
						ui.EUR(t.AmountEur),
						t.Category,
					}
				}
				if err := a.out.Table([]string{"Date", "Description", "Amount", "EUR", "Category"}, rows); err != nil {
					return err
				}
				a.out.Info(fmt.Sprintf("%d of %d transactions", len(txns), a.ledger.Len()))
				if len(txns) == 0 && q.Category != ledger.AllCategories {
					a.out.Info("Categories in use: " + strings.Join(ledger.CategoryNames(a.ledger.All()), ", "))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&q.Search, "search", "", "filter by description substring")
	cmd.Flags().StringVar(&q.Category, "category", ledger.AllCategories, "filter by category")
	cmd.Flags().StringVar(&q.SortBy, "sort", ledger.SortDate, "sort by date, name or amount")
	cmd.Flags().BoolVar(&all, "all", false, "include income as well as expenses")
	cmd.Flags().BoolVar(&includeExcluded, "include-excluded", false, "include transactions hit by exclusion rules")

	return cmd
}

func newExportCommand(opts *globalOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all transactions as a tab-separated statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(_ context.Context, a *app) error {
				var w io.Writer = cmd.OutOrStdout()
				if outPath != "" && outPath != "-" {
					f, err := os.Create(outPath)
					if err != nil {
						return fmt.Errorf("creating export: %w", err)
					}
					defer f.Close()
					w = f
				}
				if err := ledger.WriteTSV(w, a.ledger.All()); err != nil {
					return fmt.Errorf("writing export: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")

	return cmd
}
