package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starlet/starlet/internal/app"
	"github.com/starlet/starlet/internal/domain"
	reindexuc "github.com/starlet/starlet/internal/usecase/reindex"
)

var reindexKind string

func init() {
	reindexCmd.Flags().StringVar(&reindexKind, "kind", "all", "kind to rebuild: movie, actor or all")
	rootCmd.AddCommand(reindexCmd)
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild search indexes from the record store",
	Long: `Drop and rebuild the search index of one kind, or of every indexed kind.
Items the index rejects are listed in the summary; the command fails only
when the run itself cannot proceed.

Examples:
  # Rebuild everything
  starletctl reindex

  # Rebuild people only
  starletctl reindex --kind actor`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

func runReindex(cmd *cobra.Command, _ []string) error {
	kinds, err := reindexKinds(reindexKind)
	if err != nil {
		return err
	}
	return withApp(func(ctx context.Context, a *app.App, _ *session) error {
		runs := make([]reindexuc.Summary, 0, len(kinds))
		for _, k := range kinds {
			sum, err := a.Reindex.Reindex(ctx, k)
			if err != nil {
				return fmt.Errorf("reindex %s: %w", k, err)
			}
			runs = append(runs, sum)
		}
		return printJSON(cmd.OutOrStdout(), runs)
	})
}

func reindexKinds(flag string) ([]domain.Kind, error) {
	if flag == "all" {
		return domain.IndexedKinds(), nil
	}
	k, err := domain.ParseKind(flag)
	if err != nil {
		return nil, err
	}
	if !k.Indexed() {
		return nil, fmt.Errorf("%w: %s has no search index", domain.ErrUnknownKind, k)
	}
	return []domain.Kind{k}, nil
}
