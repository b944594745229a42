package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/troskovi/internal/importer"
	"github.com/cleared-dev/troskovi/internal/importlog"
	"github.com/cleared-dev/troskovi/internal/log"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import statement files (default: everything in <data>/import/)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				return runImport(ctx, a, args, format)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "parser to use: statement or ofx (default: by extension)")

	return cmd
}

type importFile struct {
	path    string
	scanned bool // found in import/, moved to processed/ afterwards
}

func runImport(ctx context.Context, a *app, args []string, format string) error {
	files := make([]importFile, 0, len(args))
	for _, p := range args {
		files = append(files, importFile{path: p})
	}
	if len(files) == 0 {
		scanned, err := importer.Scan(a.root)
		if err != nil {
			return err
		}
		for _, f := range scanned {
			files = append(files, importFile{path: f.Path, scanned: true})
		}
	}
	if len(files) == 0 {
		a.out.Info("No statement files to import")
		return nil
	}

	registry := importer.DefaultRegistry(a.cfg.Converter(), a.cats)
	logger := a.logger.WithComponent(log.ComponentImport)
	batch := importlog.NewBatchID()
	logger = logger.With(log.FieldBatch, batch)

	total := 0
	for i, f := range files {
		name := filepath.Base(f.path)
		a.out.Step(i+1, len(files), name)

		parser := registry.ForFile(name)
		if format != "" {
			parser = registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q", format)
			}
		}

		res, err := parseFile(f.path, parser)
		if err != nil {
			return err
		}
		for _, rowErr := range res.Errors {
			logger.Warn("skipped row", log.FieldFile, name, log.FieldLine, rowErr.Line, log.FieldError, rowErr.Err)
			a.out.Warning(fmt.Sprintf("line %d: %v", rowErr.Line, rowErr.Err))
		}

		added, err := a.ledger.Import(ctx, res.Transactions)
		if err != nil {
			return fmt.Errorf("importing %s: %w", name, err)
		}
		logger.Info("imported",
			log.FieldFile, name,
			log.FieldFormat, parser.Format(),
			log.FieldParsed, len(res.Transactions),
			log.FieldAdded, added,
			log.FieldSkipped, len(res.Errors))
		a.out.Success(fmt.Sprintf("%d parsed, %d new, %d skipped", len(res.Transactions), added, len(res.Errors)))

		entry := importlog.Entry{
			Timestamp: time.Now().UTC(),
			BatchID:   batch,
			File:      name,
			Format:    parser.Format(),
			Parsed:    len(res.Transactions),
			Added:     added,
			Skipped:   len(res.Errors),
		}
		if err := importlog.Append(a.root, []importlog.Entry{entry}); err != nil {
			return fmt.Errorf("writing import log: %w", err)
		}
		total += added

		if f.scanned {
			if err := importer.MarkProcessed(a.root, name); err != nil {
				return err
			}
		}
	}

	if err := a.commit(fmt.Sprintf("import: %d new transactions", total)); err != nil {
		return err
	}

	a.out.Info(fmt.Sprintf("%d transactions in total", a.ledger.Len()))
	return nil
}

func parseFile(path string, parser importer.Parser) (importer.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.Result{}, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	res, err := parser.Parse(f)
	if err != nil {
		return importer.Result{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return res, nil
}
