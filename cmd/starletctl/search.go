package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/starlet/starlet/internal/app"
	"github.com/starlet/starlet/internal/domain"
	searchuc "github.com/starlet/starlet/internal/usecase/search"
)

var (
	searchKind  string
	searchLimit int
)

func init() {
	searchCmd.Flags().StringVar(&searchKind, "kind", "movie", "kind to search: movie or actor")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Run a catalog search",
	Long: `Run the same search the API serves and print the results in order.
The header line tells whether the search index ranked them or the record
store fallback answered.

Examples:
  starletctl search матр
  starletctl search --kind actor --limit 5 keanu`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	kind, err := domain.ParseKind(searchKind)
	if err != nil {
		return err
	}
	text := strings.Join(args, " ")

	return withApp(func(ctx context.Context, a *app.App, _ *session) error {
		res, err := a.Search.Search(ctx, kind, text, searchLimit)
		if err != nil {
			return err
		}
		return writeResult(cmd.OutOrStdout(), res)
	})
}

func writeResult(w io.Writer, res searchuc.Result) error {
	source := "index"
	if !res.Ranked {
		source = "fallback"
	}
	if _, err := fmt.Fprintf(w, "%d %s result(s) from %s\n", res.Len(), res.Kind, source); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range res.Movies {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", m.ID, m.Title(), m.Slug)
	}
	for _, p := range res.People {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, p.Slug)
	}
	return tw.Flush()
}
