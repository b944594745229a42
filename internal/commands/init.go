package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/troskovi/internal/config"
	"github.com/cleared-dev/troskovi/internal/gitops"
	"github.com/cleared-dev/troskovi/internal/store"
)

func newInitCommand(opts *globalOptions) *cobra.Command {
	var backend string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a data directory with default categories and rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.dataDir = args[0]
			}
			absDir, err := filepath.Abs(opts.dataDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			if err := scaffold(absDir, backend, useGit); err != nil {
				return err
			}
			opts.dataDir = absDir
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				return runInit(ctx, a, useGit)
			})
		},
	}

	cmd.Flags().StringVar(&backend, "backend", store.BackendFile, "storage backend: file, sqlite, firestore, memory")
	cmd.Flags().BoolVar(&useGit, "git", false, "version the data directory with git")

	return cmd
}

// scaffold creates the directory layout and troskovi.yaml.
func scaffold(dir, backend string, useGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	dirs := []string{
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Storage.Backend = backend
	switch backend {
	case store.BackendSQLite:
		cfg.Storage.Path = "troskovi.db"
	case store.BackendFile:
	default:
		cfg.Storage.Path = ""
	}
	cfg.Git.AutoCommit = useGit
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}
	gitignore := ".env\n*.db\nimport/processed/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	return nil
}

func runInit(ctx context.Context, a *app, useGit bool) error {
	if err := a.cats.Save(ctx); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}
	if err := a.rules.Save(ctx); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := a.ledger.Save(ctx); err != nil {
		return fmt.Errorf("writing transactions: %w", err)
	}

	if useGit && !gitops.IsRepo(a.root) {
		if err := gitops.Init(a.root); err != nil {
			return err
		}
	}
	if err := a.commit("init: default categories and rules"); err != nil {
		return err
	}

	a.out.Success(fmt.Sprintf("Initialized %s (%s storage)", a.root, a.cfg.Storage.Backend))
	return nil
}
