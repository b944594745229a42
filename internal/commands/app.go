package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/troskovi/internal/categories"
	"github.com/cleared-dev/troskovi/internal/config"
	"github.com/cleared-dev/troskovi/internal/gitops"
	"github.com/cleared-dev/troskovi/internal/ledger"
	"github.com/cleared-dev/troskovi/internal/log"
	"github.com/cleared-dev/troskovi/internal/rules"
	"github.com/cleared-dev/troskovi/internal/store"
	"github.com/cleared-dev/troskovi/internal/ui"
)

// app is the wiring for one command invocation: config, storage and the
// three document owners.
type app struct {
	root   string
	cfg    *config.Config
	logger *log.Logger
	docs   store.Documents
	cats   *categories.Store
	rules  *rules.Service
	ledger *ledger.Service
	out    *ui.Printer
}

func openApp(ctx context.Context, cmd *cobra.Command, opts *globalOptions) (*app, error) {
	root, err := filepath.Abs(opts.dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadDir(root)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logCfg := log.DefaultConfig()
	logCfg.Level, _ = log.ParseLevel(cfg.Log.Level)
	logCfg.Output = cmd.ErrOrStderr()
	logger := log.New(logCfg)

	docs, err := store.Open(ctx, cfg.StoreOptions(root))
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	logger.Debug("storage opened", log.FieldBackend, cfg.Storage.Backend)

	a := &app{
		root:   root,
		cfg:    cfg,
		logger: logger,
		docs:   docs,
		out:    ui.New(cmd.OutOrStdout()),
	}
	if err := a.load(ctx); err != nil {
		docs.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) load(ctx context.Context) error {
	var err error
	if a.cats, err = categories.Load(ctx, a.docs, a.cfg.Categories.Default, a.logger); err != nil {
		return err
	}
	if a.rules, err = rules.Load(ctx, a.docs, a.logger); err != nil {
		return err
	}
	if a.ledger, err = ledger.Load(ctx, a.docs, a.logger); err != nil {
		return err
	}
	return nil
}

func (a *app) Close() error {
	return a.docs.Close()
}

// recategorize re-runs the matcher over the whole collection after a
// category edit.
func (a *app) recategorize(ctx context.Context) error {
	changed, err := a.ledger.Recategorize(ctx, a.cats.Matcher())
	if err != nil {
		return fmt.Errorf("recategorizing: %w", err)
	}
	if changed > 0 {
		a.out.Info(fmt.Sprintf("%d transactions recategorized", changed))
	}
	return nil
}

// commit records data changes in git when auto-commit is enabled.
func (a *app) commit(message string) error {
	if !a.cfg.GitEnabled() || !gitops.IsRepo(a.root) {
		return nil
	}
	author := gitops.Author{Name: a.cfg.Git.AuthorName, Email: a.cfg.Git.AuthorEmail}
	hash, err := gitops.CommitIfChanged(a.root, message, author)
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	if hash != "" {
		a.logger.Debug("committed", "hash", hash)
	}
	return nil
}

// withApp opens the app, runs fn, and closes the app.
func withApp(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, a *app) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, cmd, opts)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()
	return fn(ctx, a)
}
