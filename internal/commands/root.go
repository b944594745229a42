package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/troskovi/internal/buildinfo"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	dataDir string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "troskovi",
		Short:   "Track and categorize bank statement expenses",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data", ".", "data directory")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newImportCommand(opts),
		newCategoriesCommand(opts),
		newRulesCommand(opts),
		newIncomeCommand(opts),
		newSummaryCommand(opts),
		newTransactionsCommand(opts),
		newExportCommand(opts),
		newRecategorizeCommand(opts),
	)

	return rootCmd
}
