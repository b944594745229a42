package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/troskovi/internal/currency"
	"github.com/cleared-dev/troskovi/internal/log"
	"github.com/cleared-dev/troskovi/internal/model"
	"github.com/cleared-dev/troskovi/internal/store"
)

// FileName is the config file at the root of a data directory.
const FileName = "troskovi.yaml"

// Environment overrides, applied after the file is read.
const (
	EnvStorageBackend   = "TROSKOVI_STORAGE_BACKEND"
	EnvStoragePath      = "TROSKOVI_STORAGE_PATH"
	EnvFirestoreProject = "TROSKOVI_FIRESTORE_PROJECT"
	EnvLogLevel         = "TROSKOVI_LOG_LEVEL"
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// Config represents the top-level troskovi.yaml configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Currency   CurrencyConfig   `yaml:"currency,omitempty"`
	Categories CategoriesConfig `yaml:"categories"`
	Log        LogConfig        `yaml:"log"`
	Git        GitConfig        `yaml:"git"`
}

// StorageConfig selects where documents are persisted.
type StorageConfig struct {
	Backend             string `yaml:"backend"`
	Path                string `yaml:"path,omitempty"`
	FirestoreProject    string `yaml:"firestore_project,omitempty"`
	FirestoreCollection string `yaml:"firestore_collection,omitempty"`
	CredentialsFile     string `yaml:"credentials_file,omitempty"`
}

// CurrencyConfig adds conversion rates (RSD per unit) for codes beyond the
// built-in EUR, USD and HUF.
type CurrencyConfig struct {
	Rates map[string]string `yaml:"rates,omitempty"`
}

// CategoriesConfig controls categorization.
type CategoriesConfig struct {
	Default string `yaml:"default"` // fallback when no keyword matches
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls git integration for the file backend.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a troskovi.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadDir loads <root>/.env (if any) and <root>/troskovi.yaml, then applies
// environment overrides. A missing config file yields the defaults.
func LoadDir(root string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := Load(filepath.Join(root, FileName))
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: store.BackendFile,
			Path:    "data",
		},
		Categories: CategoriesConfig{
			Default: model.DefaultCategory,
		},
		Log: LogConfig{
			Level: "info",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Troskovi",
			AuthorEmail: "troskovi@localhost",
		},
	}
}

// ApplyEnv overrides fields from TROSKOVI_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvStorageBackend); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv(EnvStoragePath); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(EnvFirestoreProject); v != "" {
		c.Storage.FirestoreProject = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Backend {
	case store.BackendFile, store.BackendSQLite, store.BackendMemory:
	case store.BackendFirestore:
		if c.Storage.FirestoreProject == "" {
			errs = append(errs, errors.New("storage.firestore_project is required for the firestore backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid storage backend %q: must be one of file, sqlite, firestore, memory", c.Storage.Backend))
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	if strings.TrimSpace(c.Categories.Default) == "" {
		errs = append(errs, errors.New("categories.default cannot be empty"))
	}

	codes := make([]string, 0, len(c.Currency.Rates))
	for code := range c.Currency.Rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		switch {
		case !currencyCode.MatchString(code):
			errs = append(errs, fmt.Errorf("currency code %q: want three upper-case letters", code))
		case code == currency.RSD || currency.IsBuiltin(code):
			errs = append(errs, fmt.Errorf("currency %s has a built-in rate", code))
		default:
			if _, err := parseRate(c.Currency.Rates[code]); err != nil {
				errs = append(errs, fmt.Errorf("currency %s: %w", code, err))
			}
		}
	}

	return errors.Join(errs...)
}

// Converter returns the default converter extended with configured rates.
// Invalid entries are skipped; Validate reports them.
func (c *Config) Converter() *currency.Converter {
	extra := make(map[string]decimal.Decimal)
	for code, raw := range c.Currency.Rates {
		if r, err := parseRate(raw); err == nil {
			extra[strings.ToUpper(code)] = r
		}
	}
	return currency.Default().WithRates(extra)
}

func parseRate(raw string) (decimal.Decimal, error) {
	r, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate %q", raw)
	}
	if !r.IsPositive() {
		return decimal.Zero, fmt.Errorf("rate %s must be positive", raw)
	}
	return r, nil
}

// StoreOptions maps the storage section onto store.Options rooted at root.
func (c *Config) StoreOptions(root string) store.Options {
	return store.Options{
		Backend:             c.Storage.Backend,
		Path:                c.Storage.Path,
		Root:                root,
		FirestoreProject:    c.Storage.FirestoreProject,
		FirestoreCollection: c.Storage.FirestoreCollection,
		CredentialsFile:     c.Storage.CredentialsFile,
	}
}

// GitEnabled reports whether mutations should be committed to git. Only the
// file backend keeps its documents in the working tree.
func (c *Config) GitEnabled() bool {
	return c.Git.AutoCommit && c.Storage.Backend == store.BackendFile
}
