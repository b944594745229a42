// Package store persists whole JSON documents under string keys.
// Callers always read and write complete documents; there are no partial
// updates.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cleared-dev/troskovi/internal/log"
)

// Document keys.
const (
	KeyTransactions = "expense_transactions"
	KeyCategories   = "troskovi_categories"
	KeySettings     = "troskovi_settings"
)

// ErrNotFound is returned by Get when no document exists under a key.
var ErrNotFound = errors.New("document not found")

// Documents is a key-value store of whole documents.
type Documents interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Close() error
}

// LoadJSON decodes the document under key into v. It reports false when the
// document is missing or malformed, leaving v untouched so the caller can
// fall back to a default. Malformed documents are logged, not returned.
func LoadJSON(ctx context.Context, docs Documents, key string, v any, logger *log.Logger) (bool, error) {
	data, err := docs.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		if logger != nil {
			logger.Warn("malformed document, using defaults", log.FieldKey, key, log.FieldError, err)
		}
		return false, nil
	}
	return true, nil
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(ctx context.Context, docs Documents, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := docs.Set(ctx, key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
