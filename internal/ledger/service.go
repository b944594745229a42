package ledger

import (
	"context"
	"fmt"

	"github.com/cleared-dev/troskovi/internal/categories"
	"github.com/cleared-dev/troskovi/internal/log"
	"github.com/cleared-dev/troskovi/internal/model"
	"github.com/cleared-dev/troskovi/internal/store"
)

// Service owns the live transaction collection. The collection is replaced
// wholesale on every change and persisted as one document.
type Service struct {
	docs   store.Documents
	logger *log.Logger
	txns   []model.Transaction
}

// Load reads the collection from docs. A missing or malformed document
// yields an empty collection.
func Load(ctx context.Context, docs store.Documents, logger *log.Logger) (*Service, error) {
	if logger == nil {
		logger = log.Nop()
	}
	var txns []model.Transaction
	ok, err := store.LoadJSON(ctx, docs, store.KeyTransactions, &txns, logger)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	if !ok {
		txns = nil
	}
	SortByDateDesc(txns)
	return &Service{docs: docs, logger: logger.WithComponent(log.ComponentLedger), txns: txns}, nil
}

// All returns a copy of the collection, newest first.
func (s *Service) All() []model.Transaction {
	return append([]model.Transaction(nil), s.txns...)
}

// Len returns the number of transactions held.
func (s *Service) Len() int {
	return len(s.txns)
}

// Save persists the collection as it is.
func (s *Service) Save(ctx context.Context) error {
	txns := s.txns
	if txns == nil {
		txns = []model.Transaction{}
	}
	if err := store.SaveJSON(ctx, s.docs, store.KeyTransactions, txns); err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}
	return nil
}

// Import merges parsed transactions into the collection, dropping any whose
// identity already exists, and persists the result. It returns how many
// were added.
func (s *Service) Import(ctx context.Context, incoming []model.Transaction) (int, error) {
	merged, added := Merge(s.txns, incoming)
	if added == 0 {
		return 0, nil
	}
	if err := store.SaveJSON(ctx, s.docs, store.KeyTransactions, merged); err != nil {
		return 0, fmt.Errorf("saving transactions: %w", err)
	}
	s.txns = merged
	s.logger.Info("transactions merged", log.FieldAdded, added, log.FieldSkipped, len(incoming)-added)
	return added, nil
}

// Recategorize restamps every transaction with m and persists the result.
// Call it after every category edit.
func (s *Service) Recategorize(ctx context.Context, m *categories.Matcher) (int, error) {
	next := categories.Recategorize(s.txns, m)
	changed := 0
	for i := range next {
		if next[i].Category != s.txns[i].Category {
			changed++
		}
	}
	if err := store.SaveJSON(ctx, s.docs, store.KeyTransactions, next); err != nil {
		return 0, fmt.Errorf("saving transactions: %w", err)
	}
	s.txns = next
	s.logger.Debug("transactions recategorized", "changed", changed)
	return changed, nil
}
