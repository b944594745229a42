package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCategoriesCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage categories and their keywords",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories in match order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, opts, func(_ context.Context, a *app) error {
					data := a.cats.Data()
					rows := make([][]string, 0, data.Len())
					data.Each(func(name string, keywords []string) bool {
						rows = append(rows, []string{name, strings.Join(keywords, ", ")})
						return true
					})
					if err := a.out.Table([]string{"Category", "Keywords"}, rows); err != nil {
						return err
					}
					a.out.Info("Unmatched descriptions go to " + a.cats.Matcher().Fallback())
					return nil
				})
			},
		},
		categoryEdit(opts, "add <name>", "Add an empty category", 1,
			func(ctx context.Context, a *app, args []string) (string, error) {
				return "add category " + args[0], a.cats.AddCategory(ctx, args[0])
			}),
		categoryEdit(opts, "delete <name>", "Delete a category", 1,
			func(ctx context.Context, a *app, args []string) (string, error) {
				return "delete category " + args[0], a.cats.DeleteCategory(ctx, args[0])
			}),
		categoryEdit(opts, "add-keyword <category> <keyword>", "Add a keyword to a category", 2,
			func(ctx context.Context, a *app, args []string) (string, error) {
				return fmt.Sprintf("add keyword %q to %s", args[1], args[0]), a.cats.AddKeyword(ctx, args[0], args[1])
			}),
		categoryEdit(opts, "delete-keyword <category> <keyword>", "Remove a keyword from a category", 2,
			func(ctx context.Context, a *app, args []string) (string, error) {
				return fmt.Sprintf("delete keyword %q from %s", args[1], args[0]), a.cats.DeleteKeyword(ctx, args[0], args[1])
			}),
		categoryEdit(opts, "move-keyword <keyword> <from> <to>", "Move a keyword between categories", 3,
			func(ctx context.Context, a *app, args []string) (string, error) {
				return fmt.Sprintf("move keyword %q from %s to %s", args[0], args[1], args[2]), a.cats.MoveKeyword(ctx, args[0], args[1], args[2])
			}),
	)

	return cmd
}

// categoryEdit builds a subcommand that mutates the category map and then
// recategorizes the collection.
func categoryEdit(opts *globalOptions, use, short string, nargs int,
	edit func(ctx context.Context, a *app, args []string) (string, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				what, err := edit(ctx, a, args)
				if err != nil {
					return err
				}
				a.out.Success(what)
				if err := a.recategorize(ctx); err != nil {
					return err
				}
				return a.commit("categories: " + what)
			})
		},
	}
}

func newRecategorizeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recategorize",
		Short: "Re-run category matching over all transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				changed, err := a.ledger.Recategorize(ctx, a.cats.Matcher())
				if err != nil {
					return err
				}
				a.out.Success(fmt.Sprintf("%d of %d transactions changed category", changed, a.ledger.Len()))
				return a.commit("recategorize")
			})
		},
	}
}
