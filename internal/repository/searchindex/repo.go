package searchindex

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/starlet/starlet/internal/db"
	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/batch"
	"github.com/starlet/starlet/internal/domain/searchdoc"
)

// Defaults for bulk writes and unbounded queries.
const (
	DefaultChunkSize = 500
	DefaultMaxHits   = 1000
)

// store is the consumer interface for the index (ISP).
//
//nolint:interfacebloat // writer needs hash + index management + search operations
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) []error
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo writes index documents and runs ranked queries against the per-kind indexes.
type Repo struct {
	store     store
	keys      Keys
	chunkSize int
	maxHits   int
}

// New creates an index repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{
		store:     s,
		keys:      NewKeys(keyPrefix),
		chunkSize: DefaultChunkSize,
		maxHits:   DefaultMaxHits,
	}
}

// WithChunkSize sets how many documents BulkPut pipelines per round-trip.
func (r *Repo) WithChunkSize(n int) *Repo {
	if n > 0 {
		r.chunkSize = n
	}
	return r
}

// WithMaxHits caps the number of ids fetched when the caller passes no limit.
func (r *Repo) WithMaxHits(n int) *Repo {
	if n > 0 {
		r.maxHits = n
	}
	return r
}

// Keys exposes the key scheme.
func (r *Repo) Keys() Keys { return r.keys }

// EnsureIndex creates the kind's index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context, kind domain.Kind) error {
	def, err := buildIndex(r.keys, kind)
	if err != nil {
		return err
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return unavailable("create index "+def.Name, err)
	}
	return nil
}

// DropIndex removes the kind's index together with its documents. A missing index is a no-op.
func (r *Repo) DropIndex(ctx context.Context, kind domain.Kind) error {
	if !kind.Indexed() {
		return fmt.Errorf("%w: %s has no index", domain.ErrUnknownKind, kind)
	}
	name := r.keys.Index(kind)
	if err := r.store.DropIndex(ctx, name, true); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil
		}
		return unavailable("drop index "+name, err)
	}
	return nil
}

// IndexExists reports whether the kind's index is present.
func (r *Repo) IndexExists(ctx context.Context, kind domain.Kind) (bool, error) {
	if !kind.Indexed() {
		return false, fmt.Errorf("%w: %s has no index", domain.ErrUnknownKind, kind)
	}
	ok, err := r.store.IndexExists(ctx, r.keys.Index(kind))
	if err != nil {
		return false, unavailable("index info", err)
	}
	return ok, nil
}

// PutDocument writes doc under its record identity, replacing any previous version.
func (r *Repo) PutDocument(ctx context.Context, doc searchdoc.Document) error {
	if !doc.Kind.Indexed() {
		return fmt.Errorf("%w: %s has no index", domain.ErrUnknownKind, doc.Kind)
	}
	key := r.keys.Doc(doc.Kind, doc.ID)
	if err := r.store.HSet(ctx, key, documentToHash(doc)); err != nil {
		return unavailable("hset "+key, err)
	}
	return nil
}

// DeleteDocument removes one document. Removing an absent document succeeds.
func (r *Repo) DeleteDocument(ctx context.Context, kind domain.Kind, id int64) error {
	if !kind.Indexed() {
		return fmt.Errorf("%w: %s has no index", domain.ErrUnknownKind, kind)
	}
	key := r.keys.Doc(kind, id)
	if err := r.store.Del(ctx, key); err != nil {
		return unavailable("del "+key, err)
	}
	return nil
}

// BulkPut drains docs in pipelined chunks and reports every item.
// A failed item never stops the batch; a cancelled context stops consuming docs.
func (r *Repo) BulkPut(ctx context.Context, kind domain.Kind, docs iter.Seq[searchdoc.Document]) batch.Report {
	var report batch.Report
	items := make([]db.HashSetItem, 0, r.chunkSize)
	ids := make([]int64, 0, r.chunkSize)

	flush := func() {
		if len(items) == 0 {
			return
		}
		errs := r.store.HSetMulti(ctx, items)
		for i, id := range ids {
			if i < len(errs) && errs[i] != nil {
				report.Add(batch.NewError(id, unavailable("hset", errs[i])))
				continue
			}
			report.Add(batch.NewOK(id))
		}
		items = items[:0]
		ids = ids[:0]
	}

	for doc := range docs {
		if ctx.Err() != nil {
			break
		}
		if doc.Kind != kind {
			report.Add(batch.NewError(doc.ID, fmt.Errorf("%w: document kind %s in %s batch",
				domain.ErrUnknownKind, doc.Kind, kind)))
			continue
		}
		items = append(items, db.HashSetItem{Key: r.keys.Doc(kind, doc.ID), Fields: documentToHash(doc)})
		ids = append(ids, doc.ID)
		if len(items) >= r.chunkSize {
			flush()
		}
	}
	if ctx.Err() == nil {
		flush()
	}

	return report
}

// Search runs a ranked text query on the kind's analyzed fields.
// Hits come back in engine relevance order; limit <= 0 means up to the configured maximum.
func (r *Repo) Search(ctx context.Context, kind domain.Kind, terms []string, limit int) ([]searchdoc.Hit, error) {
	fields := searchdoc.TextFields(kind)
	if fields == nil {
		return nil, fmt.Errorf("%w: %s has no index", domain.ErrUnknownKind, kind)
	}
	if len(terms) == 0 {
		return []searchdoc.Hit{}, nil
	}
	if limit <= 0 || limit > r.maxHits {
		limit = r.maxHits
	}

	sr, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    r.keys.Index(kind),
		Fields:       fields,
		Terms:        terms,
		Limit:        limit,
		ReturnFields: []string{searchdoc.FieldID},
	})
	if err != nil {
		return nil, unavailable("search "+string(kind), err)
	}

	hits := make([]searchdoc.Hit, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		id, err := hitID(e.Key, e.Fields)
		if err != nil {
			return nil, unavailable("parse hit", err)
		}
		hits = append(hits, searchdoc.Hit{ID: id, Score: e.Score, Rank: len(hits) + 1})
	}
	return hits, nil
}

// unavailable classifies a backend failure so callers can test for domain.ErrIndexUnavailable.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrIndexUnavailable, op, err)
}
