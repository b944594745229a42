package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/troskovi/internal/log"
	"github.com/cleared-dev/troskovi/internal/model"
	"github.com/cleared-dev/troskovi/internal/store"
)

var (
	ErrEmptyPattern    = errors.New("pattern is empty")
	ErrEmptyName       = errors.New("name is empty")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Service owns the settings document. Every edit replaces and persists the
// whole document.
type Service struct {
	docs     store.Documents
	logger   *log.Logger
	settings model.Settings
}

// Load reads settings from docs, falling back to Defaults when the document
// is missing or malformed.
func Load(ctx context.Context, docs store.Documents, logger *log.Logger) (*Service, error) {
	if logger == nil {
		logger = log.Nop()
	}
	var s model.Settings
	ok, err := store.LoadJSON(ctx, docs, store.KeySettings, &s, logger)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if !ok {
		s = Defaults()
	}
	return &Service{docs: docs, logger: logger.WithComponent(log.ComponentRules), settings: s}, nil
}

// Settings returns a copy of the current settings.
func (s *Service) Settings() model.Settings {
	return s.settings.Clone()
}

// Save persists the current settings.
func (s *Service) Save(ctx context.Context) error {
	return store.SaveJSON(ctx, s.docs, store.KeySettings, s.settings)
}

// AddExclusion appends an enabled exclusion rule.
func (s *Service) AddExclusion(ctx context.Context, pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return ErrEmptyPattern
	}
	next := s.settings.Clone()
	next.ExclusionRules = append(next.ExclusionRules, model.ExclusionRule{Pattern: pattern, Enabled: true})
	return s.commit(ctx, next, "exclusion rule added", "pattern", pattern)
}

// ToggleExclusion flips the enabled flag of the rule at index.
func (s *Service) ToggleExclusion(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.settings.ExclusionRules) {
		return fmt.Errorf("exclusion rule %d: %w", index, ErrIndexOutOfRange)
	}
	next := s.settings.Clone()
	next.ExclusionRules[index].Enabled = !next.ExclusionRules[index].Enabled
	return s.commit(ctx, next, "exclusion rule toggled", "index", index, "enabled", next.ExclusionRules[index].Enabled)
}

// DeleteExclusion removes the rule at index.
func (s *Service) DeleteExclusion(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.settings.ExclusionRules) {
		return fmt.Errorf("exclusion rule %d: %w", index, ErrIndexOutOfRange)
	}
	next := s.settings.Clone()
	next.ExclusionRules = append(next.ExclusionRules[:index], next.ExclusionRules[index+1:]...)
	return s.commit(ctx, next, "exclusion rule deleted", "index", index)
}

// AddIncomeSource appends an enabled income source.
func (s *Service) AddIncomeSource(ctx context.Context, name, pattern string) error {
	name, pattern = strings.TrimSpace(name), strings.TrimSpace(pattern)
	if name == "" {
		return ErrEmptyName
	}
	if pattern == "" {
		return ErrEmptyPattern
	}
	next := s.settings.Clone()
	next.IncomeSources = append(next.IncomeSources, model.IncomeSource{Name: name, Pattern: pattern, Enabled: true})
	return s.commit(ctx, next, "income source added", "name", name)
}

// ToggleIncomeSource flips the enabled flag of the source at index.
func (s *Service) ToggleIncomeSource(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.settings.IncomeSources) {
		return fmt.Errorf("income source %d: %w", index, ErrIndexOutOfRange)
	}
	next := s.settings.Clone()
	next.IncomeSources[index].Enabled = !next.IncomeSources[index].Enabled
	return s.commit(ctx, next, "income source toggled", "index", index, "enabled", next.IncomeSources[index].Enabled)
}

// DeleteIncomeSource removes the source at index.
func (s *Service) DeleteIncomeSource(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.settings.IncomeSources) {
		return fmt.Errorf("income source %d: %w", index, ErrIndexOutOfRange)
	}
	next := s.settings.Clone()
	next.IncomeSources = append(next.IncomeSources[:index], next.IncomeSources[index+1:]...)
	return s.commit(ctx, next, "income source deleted", "index", index)
}

func (s *Service) commit(ctx context.Context, next model.Settings, msg string, args ...any) error {
	if err := store.SaveJSON(ctx, s.docs, store.KeySettings, next); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	s.settings = next
	s.logger.Info(msg, args...)
	return nil
}
