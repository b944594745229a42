// Package ledger holds the transaction collection: deduplicated merging,
// persistence, querying and export.
package ledger

import (
	"fmt"
	"sort"

	"github.com/cleared-dev/troskovi/internal/model"
)

// Key returns the identity of a transaction: date instant, amount and
// description. Two transactions with equal keys are the same transaction.
func Key(t model.Transaction) string {
	return fmt.Sprintf("%d|%s|%s", t.Date.UnixMilli(), t.Amount.String(), t.Description)
}

// Merge appends the incoming transactions whose key is not already present,
// including repeats within incoming itself, and returns the combined
// collection sorted by date descending along with the number added.
// existing is not modified.
func Merge(existing, incoming []model.Transaction) ([]model.Transaction, int) {
	seen := make(map[string]bool, len(existing)+len(incoming))
	merged := make([]model.Transaction, 0, len(existing)+len(incoming))
	for _, t := range existing {
		seen[Key(t)] = true
		merged = append(merged, t)
	}

	added := 0
	for _, t := range incoming {
		k := Key(t)
		if seen[k] {
			continue
		}
		seen[k] = true
		merged = append(merged, t)
		added++
	}

	SortByDateDesc(merged)
	return merged, added
}

// SortByDateDesc orders newest first, keeping the relative order of
// transactions on the same date.
func SortByDateDesc(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})
}
