package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/starlet/starlet/internal/app"
	ingestuc "github.com/starlet/starlet/internal/usecase/ingest"
)

var ingestFile string

func init() {
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "JSON file with an array of scraped movies, or - for stdin (required)")
	_ = ingestCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load scraped movies into the catalog",
	Long: `Load a scraper dump into the record store. New movies are created with
their genres, directors and cast; sparse existing movies get their empty
fields filled. Every saved record is mirrored into the search index.

Examples:
  # Load a dump
  starletctl ingest --file films.json

  # Load from a pipe
  cat films.json | starletctl ingest --file -`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, _ []string) error {
	var in io.Reader = cmd.InOrStdin()
	if ingestFile != "-" {
		f, err := os.Open(filepath.Clean(ingestFile))
		if err != nil {
			return fmt.Errorf("open %s: %w", ingestFile, err)
		}
		defer f.Close()
		in = f
	}

	movies, err := readScraped(in)
	if err != nil {
		return err
	}

	return withApp(func(ctx context.Context, a *app.App, rt *session) error {
		details, err := a.Ingest.Load(ctx, movies)
		if err != nil {
			return err
		}
		created, existed, failed := tally(details)
		rt.logger.Info("Ingest finished",
			zap.Int("movies", len(movies)),
			zap.Int("created", created),
			zap.Int("existed", existed),
			zap.Int("failed", failed),
		)
		return printJSON(cmd.OutOrStdout(), details)
	})
}

func readScraped(r io.Reader) ([]ingestuc.ScrapedMovie, error) {
	var movies []ingestuc.ScrapedMovie
	if err := json.NewDecoder(r).Decode(&movies); err != nil {
		return nil, fmt.Errorf("decode scraped movies: %w", err)
	}
	return movies, nil
}

func tally(details []ingestuc.Detail) (created, existed, failed int) {
	for _, d := range details {
		switch d.Status {
		case ingestuc.StatusCreated:
			created++
		case ingestuc.StatusExists:
			existed++
		default:
			failed++
		}
	}
	return created, existed, failed
}
