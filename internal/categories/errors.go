package categories

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateCategory = errors.New("category already exists")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateKeyword  = errors.New("keyword already exists in category")
	ErrEmptyName         = errors.New("category name is empty")
	ErrEmptyKeyword      = errors.New("keyword is empty")
)

// Error describes a rejected category edit. Nothing is changed or persisted
// when one is returned.
type Error struct {
	Op       string
	Category string
	Keyword  string
	Err      error
}

func (e *Error) Error() string {
	if e.Keyword != "" {
		return fmt.Sprintf("%s %q in %q: %v", e.Op, e.Keyword, e.Category, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Category, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
