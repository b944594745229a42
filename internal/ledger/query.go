package ledger

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cleared-dev/troskovi/internal/model"
	"github.com/cleared-dev/troskovi/internal/rules"
)

// Sort orders for Query.
const (
	SortDate   = "date"
	SortName   = "name"
	SortAmount = "amount"
)

// AllCategories matches every category in a Query.
const AllCategories = "all"

// Query filters and orders the collection for listing.
type Query struct {
	Search       string // case-insensitive substring of the description
	Category     string // "" or AllCategories for any
	ExpensesOnly bool
	ExcludeRules bool // drop transactions hit by an enabled exclusion rule
	SortBy       string
}

// Run applies q to txns and returns a new slice.
func (q Query) Run(txns []model.Transaction, settings model.Settings) []model.Transaction {
	search := strings.ToLower(q.Search)
	var out []model.Transaction
	for _, t := range txns {
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if q.Category != "" && q.Category != AllCategories && t.Category != q.Category {
			continue
		}
		if q.ExpensesOnly && !t.IsExpense() {
			continue
		}
		if q.ExcludeRules && rules.ShouldExclude(t.Description, settings) {
			continue
		}
		out = append(out, t)
	}

	switch q.SortBy {
	case SortName:
		col := collate.New(language.SerbianLatin, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Description, out[j].Description) < 0
		})
	case SortAmount:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Amount.Abs().GreaterThan(out[j].Amount.Abs())
		})
	case "", SortDate:
		SortByDateDesc(out)
	}
	return out
}

// CategoryNames returns the distinct categories present, in first-seen order.
func CategoryNames(txns []model.Transaction) []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range txns {
		if !seen[t.Category] {
			seen[t.Category] = true
			names = append(names, t.Category)
		}
	}
	return names
}
