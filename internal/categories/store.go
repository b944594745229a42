// Package categories owns the category keyword map and assigns categories
// to transaction descriptions.
package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/cleared-dev/troskovi/internal/log"
	"github.com/cleared-dev/troskovi/internal/model"
	"github.com/cleared-dev/troskovi/internal/store"
)

// Store holds the category map and persists the whole map after every
// successful edit. Edits do not touch stamped transactions: callers must
// re-categorize their collection after each one.
type Store struct {
	docs     store.Documents
	logger   *log.Logger
	fallback string
	data     *model.CategoryData
	matcher  *Matcher
}

// New creates a Store over data without reading docs.
func New(docs store.Documents, data *model.CategoryData, fallback string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Nop()
	}
	s := &Store{docs: docs, logger: logger.WithComponent(log.ComponentCategories), fallback: fallback}
	s.replace(data.Clone())
	return s
}

// Load reads the category map from docs. A missing or malformed document
// yields the built-in defaults.
func Load(ctx context.Context, docs store.Documents, fallback string, logger *log.Logger) (*Store, error) {
	data := &model.CategoryData{}
	ok, err := store.LoadJSON(ctx, docs, store.KeyCategories, data, logger)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	if !ok {
		data = Defaults()
	}
	return New(docs, data, fallback, logger), nil
}

// Data returns a copy of the current map.
func (s *Store) Data() *model.CategoryData {
	return s.data.Clone()
}

// Names returns category names in match order.
func (s *Store) Names() []string {
	return s.data.Names()
}

// Matcher returns the matcher for the current map.
func (s *Store) Matcher() *Matcher {
	return s.matcher
}

// Categorize matches description against the current map.
func (s *Store) Categorize(description string) string {
	return s.matcher.Categorize(description)
}

// Save persists the current map.
func (s *Store) Save(ctx context.Context) error {
	return store.SaveJSON(ctx, s.docs, store.KeyCategories, s.data)
}

// AddCategory appends an empty category.
func (s *Store) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &Error{Op: "add category", Err: ErrEmptyName}
	}
	next := s.data.Clone()
	if !next.Add(name) {
		return &Error{Op: "add category", Category: name, Err: ErrDuplicateCategory}
	}
	return s.commit(ctx, next, "category added", log.FieldCategory, name)
}

// DeleteCategory removes a category and its keywords.
func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	next := s.data.Clone()
	if !next.Remove(name) {
		return &Error{Op: "delete category", Category: name, Err: ErrCategoryNotFound}
	}
	return s.commit(ctx, next, "category deleted", log.FieldCategory, name)
}

// AddKeyword normalizes raw and appends it to category.
func (s *Store) AddKeyword(ctx context.Context, category, raw string) error {
	kw := NormalizeKeyword(raw)
	if kw == "" {
		return &Error{Op: "add keyword", Category: category, Err: ErrEmptyKeyword}
	}
	keywords, ok := s.data.Keywords(category)
	if !ok {
		return &Error{Op: "add keyword", Category: category, Keyword: kw, Err: ErrCategoryNotFound}
	}
	if indexOf(keywords, kw) >= 0 {
		return &Error{Op: "add keyword", Category: category, Keyword: kw, Err: ErrDuplicateKeyword}
	}

	next := s.data.Clone()
	next.SetKeywords(category, append(keywords, kw))
	return s.commit(ctx, next, "keyword added", log.FieldCategory, category, "keyword", kw)
}

// DeleteKeyword removes every keyword of category equal to raw after
// normalization. Deleting an absent keyword is not an error.
func (s *Store) DeleteKeyword(ctx context.Context, category, raw string) error {
	keywords, ok := s.data.Keywords(category)
	if !ok {
		return &Error{Op: "delete keyword", Category: category, Keyword: raw, Err: ErrCategoryNotFound}
	}
	kept, _ := without(keywords, NormalizeKeyword(raw))

	next := s.data.Clone()
	next.SetKeywords(category, kept)
	return s.commit(ctx, next, "keyword deleted", log.FieldCategory, category, "keyword", raw)
}

// MoveKeyword removes a keyword from one category and appends it to another
// unless the target already has it. The stored spelling is carried over.
func (s *Store) MoveKeyword(ctx context.Context, raw, from, to string) error {
	kw := NormalizeKeyword(raw)
	if kw == "" {
		return &Error{Op: "move keyword", Category: from, Err: ErrEmptyKeyword}
	}
	src, ok := s.data.Keywords(from)
	if !ok {
		return &Error{Op: "move keyword", Category: from, Keyword: kw, Err: ErrCategoryNotFound}
	}
	dst, ok := s.data.Keywords(to)
	if !ok {
		return &Error{Op: "move keyword", Category: to, Keyword: kw, Err: ErrCategoryNotFound}
	}

	kept, removed := without(src, kw)
	moved := kw
	if len(removed) > 0 {
		moved = removed[0]
	}

	next := s.data.Clone()
	next.SetKeywords(from, kept)
	if from == to {
		dst = kept
	}
	if indexOf(dst, kw) < 0 {
		dst = append(dst, moved)
	}
	next.SetKeywords(to, dst)
	return s.commit(ctx, next, "keyword moved", "keyword", kw, "from", from, "to", to)
}

// commit persists next and only then makes it current.
func (s *Store) commit(ctx context.Context, next *model.CategoryData, msg string, args ...any) error {
	if err := store.SaveJSON(ctx, s.docs, store.KeyCategories, next); err != nil {
		return fmt.Errorf("saving categories: %w", err)
	}
	s.replace(next)
	s.logger.Info(msg, args...)
	return nil
}

func (s *Store) replace(data *model.CategoryData) {
	s.data = data
	s.matcher = Compile(data, s.fallback)
}

// indexOf finds kw (already normalized) among keywords by normalized form.
func indexOf(keywords []string, kw string) int {
	for i, k := range keywords {
		if NormalizeKeyword(k) == kw {
			return i
		}
	}
	return -1
}

func without(keywords []string, kw string) (kept, removed []string) {
	kept = []string{}
	for _, k := range keywords {
		if NormalizeKeyword(k) == kw {
			removed = append(removed, k)
			continue
		}
		kept = append(kept, k)
	}
	return kept, removed
}
