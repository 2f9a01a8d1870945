package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/catalog"
	ingestuc "github.com/starlet/starlet/internal/usecase/ingest"
	searchuc "github.com/starlet/starlet/internal/usecase/search"
)

func TestRootCmd_Subcommands(t *testing.T) {
	want := map[string]bool{"migrate": false, "reindex": false, "ingest": false, "search": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s command not registered", name)
		}
	}
}

func TestCommands_HaveHelp(t *testing.T) {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Short == "" {
			t.Errorf("%s: missing Short description", cmd.Name())
		}
	}
	if ingestCmd.Flags().Lookup("file") == nil {
		t.Error("ingest: --file flag missing")
	}
	if f := reindexCmd.Flags().Lookup("kind"); f == nil || f.DefValue != "all" {
		t.Error("reindex: --kind should default to all")
	}
}

func TestReindexKinds(t *testing.T) {
	kinds, err := reindexKinds("all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kinds) != 2 || kinds[0] != domain.KindMovie || kinds[1] != domain.KindActor {
		t.Errorf("all: got %v", kinds)
	}

	kinds, err = reindexKinds("person")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kinds) != 1 || kinds[0] != domain.KindActor {
		t.Errorf("person: got %v", kinds)
	}

	for _, bad := range []string{"genre", "song"} {
		if _, err := reindexKinds(bad); !errors.Is(err, domain.ErrUnknownKind) {
			t.Errorf("%s: expected ErrUnknownKind, got %v", bad, err)
		}
	}
}

func TestReadScraped(t *testing.T) {
	in := `[{"ru_title":"Матрица","release_date":["31","3","1999"],"cast":[{"name":"Keanu Reeves"}]}]`
	movies, err := readScraped(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 1 || movies[0].RuTitle != "Матрица" || len(movies[0].Cast) != 1 {
		t.Errorf("unexpected movies: %+v", movies)
	}

	if _, err := readScraped(strings.NewReader(`{"ru_title":"x"}`)); err == nil {
		t.Error("expected error for non-array input")
	}
}

func TestTally(t *testing.T) {
	created, existed, failed := tally([]ingestuc.Detail{
		{Status: ingestuc.StatusCreated},
		{Status: ingestuc.StatusCreated},
		{Status: ingestuc.StatusExists},
		{Status: ingestuc.StatusFailed},
	})
	if created != 2 || existed != 1 || failed != 1 {
		t.Errorf("got %d/%d/%d, want 2/1/1", created, existed, failed)
	}
}

func TestWriteResult(t *testing.T) {
	var buf bytes.Buffer
	err := writeResult(&buf, searchuc.Result{
		Kind:   domain.KindMovie,
		Ranked: true,
		Movies: []catalog.Movie{{ID: 7, RuTitle: "Матрица", Slug: "7-matritsa"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "1 movie result(s) from index\n") {
		t.Errorf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "7-matritsa") {
		t.Errorf("missing row: %q", out)
	}

	buf.Reset()
	if err := writeResult(&buf, searchuc.Result{Kind: domain.KindActor}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "0 actor result(s) from fallback\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
