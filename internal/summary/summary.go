// Package summary computes category and income aggregates with monthly
// averages.
package summary

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/troskovi/internal/daterange"
	"github.com/cleared-dev/troskovi/internal/model"
	"github.com/cleared-dev/troskovi/internal/rules"
)

var hundred = decimal.NewFromInt(100)

// CategoryTotal is one category's share of expenses. TotalEur is the
// monthly average over the shared expense window.
type CategoryTotal struct {
	Category   string
	Total      decimal.Decimal
	TotalEur   decimal.Decimal
	Percentage decimal.Decimal
}

// ExpenseSummary totals all counted expenses.
type ExpenseSummary struct {
	TotalEur   decimal.Decimal
	MonthlyEur decimal.Decimal
	Window     daterange.Window
}

// SourceIncome is the income attributed to one source over its own window.
type SourceIncome struct {
	Source     model.IncomeSource
	TotalEur   decimal.Decimal
	MonthlyEur decimal.Decimal
	Window     daterange.Window
}

// IncomeSummary holds per-source income plus grand totals. MonthlyEur is
// the sum of the per-source monthly averages.
type IncomeSummary struct {
	Sources    []SourceIncome
	TotalEur   decimal.Decimal
	MonthlyEur decimal.Decimal
}

// Report bundles every aggregate shown by the summary view.
type Report struct {
	Categories      []CategoryTotal
	CategoryMonthly decimal.Decimal
	Expenses        ExpenseSummary
	Income          IncomeSummary
}

// Aggregator computes summaries. The zero value uses the wall clock.
type Aggregator struct {
	Window daterange.Calculator
}

// New returns an Aggregator using the wall clock.
func New() *Aggregator {
	return &Aggregator{Window: daterange.New()}
}

// expenses returns negative, non-excluded transactions in input order.
func expenses(txns []model.Transaction, settings model.Settings) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.IsExpense() && !rules.ShouldExclude(t.Description, settings) {
			out = append(out, t)
		}
	}
	return out
}

func dates(txns []model.Transaction) []time.Time {
	out := make([]time.Time, len(txns))
	for i, t := range txns {
		out[i] = t.Date
	}
	return out
}

// CategoryTotals groups counted expenses by category. Every category is
// averaged over one window spanning all counted expenses. Results are sorted
// by percentage, descending, keeping first-seen order on ties.
func (a *Aggregator) CategoryTotals(txns []model.Transaction, settings model.Settings) []CategoryTotal {
	exp := expenses(txns, settings)
	if len(exp) == 0 {
		return nil
	}

	var totals []CategoryTotal
	index := make(map[string]int)
	grand := decimal.Zero
	for _, t := range exp {
		i, ok := index[t.Category]
		if !ok {
			i = len(totals)
			index[t.Category] = i
			totals = append(totals, CategoryTotal{Category: t.Category})
		}
		totals[i].Total = totals[i].Total.Add(t.Amount.Abs())
		totals[i].TotalEur = totals[i].TotalEur.Add(t.AmountEur.Abs())
		grand = grand.Add(t.Amount.Abs())
	}

	months := decimal.NewFromInt(int64(a.Window.Range(dates(exp)).Months))
	for i := range totals {
		totals[i].TotalEur = totals[i].TotalEur.Div(months)
		if !grand.IsZero() {
			totals[i].Percentage = totals[i].Total.Div(grand).Mul(hundred)
		}
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Percentage.GreaterThan(totals[j].Percentage)
	})
	return totals
}

// Expenses totals counted expenses in EUR and averages them over their
// window.
func (a *Aggregator) Expenses(txns []model.Transaction, settings model.Settings) ExpenseSummary {
	exp := expenses(txns, settings)
	total := decimal.Zero
	for _, t := range exp {
		total = total.Add(t.AmountEur.Abs())
	}
	w := a.Window.Range(dates(exp))
	return ExpenseSummary{
		TotalEur:   total,
		MonthlyEur: total.Div(decimal.NewFromInt(int64(w.Months))),
		Window:     w,
	}
}

// Income sums amountEur per configured source. Each source is averaged over
// the span of its own matches; exclusion rules do not apply here.
func (a *Aggregator) Income(txns []model.Transaction, settings model.Settings) IncomeSummary {
	var out IncomeSummary
	for _, src := range settings.IncomeSources {
		var matched []model.Transaction
		total := decimal.Zero
		for _, t := range txns {
			if rules.IsIncomeFromSource(t.Description, src) {
				matched = append(matched, t)
				total = total.Add(t.AmountEur)
			}
		}
		w := a.Window.Range(dates(matched))
		si := SourceIncome{
			Source:     src,
			TotalEur:   total,
			MonthlyEur: total.Div(decimal.NewFromInt(int64(w.Months))),
			Window:     w,
		}
		out.Sources = append(out.Sources, si)
		out.TotalEur = out.TotalEur.Add(si.TotalEur)
		out.MonthlyEur = out.MonthlyEur.Add(si.MonthlyEur)
	}
	return out
}

// Report computes all aggregates at once.
func (a *Aggregator) Report(txns []model.Transaction, settings model.Settings) Report {
	cats := a.CategoryTotals(txns, settings)
	monthly := decimal.Zero
	for _, c := range cats {
		monthly = monthly.Add(c.TotalEur)
	}
	return Report{
		Categories:      cats,
		CategoryMonthly: monthly,
		Expenses:        a.Expenses(txns, settings),
		Income:          a.Income(txns, settings),
	}
}
