package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/troskovi/internal/daterange"
	"github.com/cleared-dev/troskovi/internal/summary"
	"github.com/cleared-dev/troskovi/internal/ui"
)

const dateFormat = "02.01.2006"

func newSummaryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show monthly averages by category and income source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(_ context.Context, a *app) error {
				report := summary.New().Report(a.ledger.All(), a.rules.Settings())
				return printReport(a.out, report)
			})
		},
	}
}

func printReport(out *ui.Printer, r summary.Report) error {
	out.Header("Expenses")
	out.Info(fmt.Sprintf("Total: %s", ui.EUR(r.Expenses.TotalEur)))
	out.Info(fmt.Sprintf("Monthly average: %s over %s", ui.EUR(r.Expenses.MonthlyEur), windowText(r.Expenses.Window)))

	out.Header("Income")
	rows := make([][]string, 0, len(r.Income.Sources))
	for _, s := range r.Income.Sources {
		rows = append(rows, []string{s.Source.Name, ui.EUR(s.TotalEur), ui.EUR(s.MonthlyEur), windowText(s.Window)})
	}
	if err := out.Table([]string{"Source", "Total", "Monthly", "Window"}, rows); err != nil {
		return err
	}
	out.Info(fmt.Sprintf("Total: %s, monthly: %s", ui.EUR(r.Income.TotalEur), ui.EUR(r.Income.MonthlyEur)))

	out.Header("Categories")
	if len(r.Categories) == 0 {
		out.Info("No expenses")
		return nil
	}
	rows = rows[:0]
	for _, c := range r.Categories {
		rows = append(rows, []string{c.Category, ui.EUR(c.TotalEur), ui.Percent(c.Percentage)})
	}
	if err := out.Table([]string{"Category", "Monthly", "Share"}, rows); err != nil {
		return err
	}
	out.Info(fmt.Sprintf("Monthly total: %s", ui.EUR(r.CategoryMonthly)))
	return nil
}

func windowText(w daterange.Window) string {
	return fmt.Sprintf("%s - %s (%d mo)", w.Start.Format(dateFormat), w.End.Format(dateFormat), w.Months)
}
