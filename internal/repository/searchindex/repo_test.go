package searchindex

import (
	"context"
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/starlet/starlet/internal/db"
	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/searchdoc"
)

// --- Keys ---

func TestKeys(t *testing.T) {
	k := NewKeys("")
	if got := k.Index(domain.KindMovie); got != "starlet:movie:idx" {
		t.Errorf("Index = %q", got)
	}
	if got := k.Doc(domain.KindActor, 9); got != "starlet:actor:9" {
		t.Errorf("Doc = %q", got)
	}
	if got := NewKeys("test:").DocPrefix(domain.KindMovie); got != "test:movie:" {
		t.Errorf("DocPrefix = %q", got)
	}
}

// --- EnsureIndex ---

func TestEnsureIndex_Creates(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		got = def
		return nil
	}

	if err := repo.EnsureIndex(context.Background(), domain.KindMovie); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "starlet:movie:idx" {
		t.Errorf("name = %q", got.Name)
	}
	if !slices.Equal(got.Prefixes, []string{"starlet:movie:"}) {
		t.Errorf("prefixes = %v", got.Prefixes)
	}
	names := make([]string, len(got.Fields))
	for i, f := range got.Fields {
		names[i] = f.Name
	}
	if !slices.Equal(names, []string{"orig_title", "ru_title", "id"}) {
		t.Errorf("fields = %v", names)
	}
}

func TestEnsureIndex_AlreadyExistsIsSuccess(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error { return db.ErrIndexExists }

	if err := repo.EnsureIndex(context.Background(), domain.KindActor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndex_BackendError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		return &db.Error{Op: db.OpCreateIndex, Err: context.DeadlineExceeded}
	}

	err := repo.EnsureIndex(context.Background(), domain.KindMovie)
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
}

func TestEnsureIndex_UnindexedKind(t *testing.T) {
	repo, _ := newTestRepo(t)
	err := repo.EnsureIndex(context.Background(), domain.KindGenre)
	if !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

// --- DropIndex ---

func TestDropIndex_DeletesDocuments(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.dropIndexFn = func(_ context.Context, name string, deleteDocs bool) error {
		if name != "starlet:actor:idx" {
			t.Errorf("name = %q", name)
		}
		if !deleteDocs {
			t.Error("expected documents to be dropped with the index")
		}
		return nil
	}
	if err := repo.DropIndex(context.Background(), domain.KindActor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDropIndex_MissingIsNoop(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.dropIndexFn = func(context.Context, string, bool) error { return db.ErrIndexNotFound }
	if err := repo.DropIndex(context.Background(), domain.KindMovie); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIndexExists_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexExistsFn = func(context.Context, string) (bool, error) {
		return false, &db.Error{Op: db.OpIndexInfo, Err: errors.New("connection reset")}
	}
	_, err := repo.IndexExists(context.Background(), domain.KindMovie)
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}

// --- PutDocument / DeleteDocument ---

func TestPutDocument(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		if key != "starlet:movie:42" {
			t.Errorf("key = %q", key)
		}
		if fields["id"] != "42" || fields["slug"] != "42-matritsa" || fields["ru_title"] != "м ма" {
			t.Errorf("fields = %v", fields)
		}
		return nil
	}

	doc := searchdoc.Document{
		Kind: domain.KindMovie, ID: 42, Slug: "42-matritsa",
		Text: map[string]string{"ru_title": "м ма"},
	}
	if err := repo.PutDocument(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPutDocument_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetFn = func(context.Context, string, map[string]string) error {
		return &db.Error{Op: db.OpHSet, Err: errors.New("READONLY")}
	}
	err := repo.PutDocument(context.Background(), searchdoc.Document{Kind: domain.KindActor, ID: 1})
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	repo, ms := newTestRepo(t)
	var deleted string
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key
		return nil
	}
	if err := repo.DeleteDocument(context.Background(), domain.KindActor, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "starlet:actor:5" {
		t.Errorf("deleted = %q", deleted)
	}
}

// --- BulkPut ---

func docs(kind domain.Kind, ids ...int64) iter.Seq[searchdoc.Document] {
	return func(yield func(searchdoc.Document) bool) {
		for _, id := range ids {
			if !yield(searchdoc.Document{Kind: kind, ID: id, Text: map[string]string{"name": "x"}}) {
				return
			}
		}
	}
}

func TestBulkPut_Chunks(t *testing.T) {
	repo, ms := newTestRepo(t)
	repo.WithChunkSize(2)

	var chunks [][]string
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) []error {
		keys := make([]string, len(items))
		for i, it := range items {
			keys[i] = it.Key
		}
		chunks = append(chunks, keys)
		return make([]error, len(items))
	}

	report := repo.BulkPut(context.Background(), domain.KindActor, docs(domain.KindActor, 1, 2, 3, 4, 5))
	if report.Succeeded() != 5 || report.Failed() != 0 {
		t.Fatalf("report = %d ok / %d failed", report.Succeeded(), report.Failed())
	}
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	if !slices.Equal(chunks[2], []string{"starlet:actor:5"}) {
		t.Errorf("last chunk = %v", chunks[2])
	}
}

func TestBulkPut_PartialFailure(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) []error {
		errs := make([]error, len(items))
		errs[1] = &db.Error{Op: db.OpHSet, Err: errors.New("OOM")}
		return errs
	}

	report := repo.BulkPut(context.Background(), domain.KindMovie, docs(domain.KindMovie, 10, 11, 12))
	if report.Succeeded() != 2 || report.Failed() != 1 {
		t.Fatalf("report = %d ok / %d failed", report.Succeeded(), report.Failed())
	}
	f := report.Failures()[0]
	if f.ID() != 11 {
		t.Errorf("failed id = %d, want 11", f.ID())
	}
	if !errors.Is(f.Err(), domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", f.Err())
	}
}

func TestBulkPut_WrongKindItem(t *testing.T) {
	repo, _ := newTestRepo(t)
	seq := func(yield func(searchdoc.Document) bool) {
		_ = yield(searchdoc.Document{Kind: domain.KindMovie, ID: 1}) &&
			yield(searchdoc.Document{Kind: domain.KindActor, ID: 2})
	}
	report := repo.BulkPut(context.Background(), domain.KindMovie, seq)
	if report.Succeeded() != 1 || report.Failed() != 1 {
		t.Fatalf("report = %d ok / %d failed", report.Succeeded(), report.Failed())
	}
}

func TestBulkPut_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetMultiFn = func(context.Context, []db.HashSetItem) []error {
		t.Error("unexpected HSetMulti for empty input")
		return nil
	}
	report := repo.BulkPut(context.Background(), domain.KindMovie, docs(domain.KindMovie))
	if report.Total() != 0 {
		t.Errorf("total = %d, want 0", report.Total())
	}
}

func TestBulkPut_CancelledContext(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetMultiFn = func(context.Context, []db.HashSetItem) []error {
		t.Error("unexpected HSetMulti after cancel")
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := repo.BulkPut(ctx, domain.KindMovie, docs(domain.KindMovie, 1, 2))
	if report.Total() != 0 {
		t.Errorf("total = %d, want 0", report.Total())
	}
}

// --- Search ---

func TestSearch_RankOrder(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchTextFn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		if q.IndexName != "starlet:movie:idx" {
			t.Errorf("index = %q", q.IndexName)
		}
		if !slices.Equal(q.Fields, []string{"orig_title", "ru_title"}) {
			t.Errorf("fields = %v", q.Fields)
		}
		if q.Limit != 3 {
			t.Errorf("limit = %d, want 3", q.Limit)
		}
		return &db.SearchResult{Total: 3, Entries: []db.SearchEntry{
			{Key: "starlet:movie:9", Score: 4, Fields: map[string]string{"id": "9"}},
			{Key: "starlet:movie:3", Score: 2},
			{Key: "starlet:movie:5", Score: 1, Fields: map[string]string{"id": "5"}},
		}}, nil
	}

	hits, err := repo.Search(context.Background(), domain.KindMovie, []string{"мат"}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(searchdoc.HitIDs(hits), []int64{9, 3, 5}) {
		t.Errorf("ids = %v", searchdoc.HitIDs(hits))
	}
	if hits[0].Rank != 1 || hits[2].Rank != 3 {
		t.Errorf("ranks = %d..%d", hits[0].Rank, hits[2].Rank)
	}
}

func TestSearch_NoLimitUsesMax(t *testing.T) {
	repo, ms := newTestRepo(t)
	repo.WithMaxHits(50)
	ms.searchTextFn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		if q.Limit != 50 {
			t.Errorf("limit = %d, want 50", q.Limit)
		}
		return &db.SearchResult{}, nil
	}
	if _, err := repo.Search(context.Background(), domain.KindActor, []string{"a"}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_NoTerms(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchTextFn = func(context.Context, *db.TextQuery) (*db.SearchResult, error) {
		t.Error("unexpected search call")
		return nil, nil
	}
	hits, err := repo.Search(context.Background(), domain.KindMovie, nil, 10)
	if err != nil || len(hits) != 0 {
		t.Fatalf("hits=%v err=%v", hits, err)
	}
}

func TestSearch_BackendErrorIsUnavailable(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchTextFn = func(context.Context, *db.TextQuery) (*db.SearchResult, error) {
		return nil, &db.Error{Op: db.OpSearch, Err: db.ErrTextSearchUnsupported}
	}
	_, err := repo.Search(context.Background(), domain.KindMovie, []string{"x"}, 10)
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestSearch_UnindexedKind(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Search(context.Background(), domain.KindCollection, []string{"x"}, 10)
	if !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}
