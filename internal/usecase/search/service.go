// Package search is the query engine: ranked index search hydrated from the
// record store, with a substring fallback when the index is unavailable.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/catalog"
	"github.com/starlet/starlet/internal/domain/searchdoc"
	"github.com/starlet/starlet/internal/metrics"
)

// DefaultMaxResults caps results when the caller passes no limit.
const DefaultMaxResults = 1000

// Result is the same shape on both paths. Ranked is false for fallback
// results, which come in record store order.
type Result struct {
	Kind   domain.Kind      `json:"kind"`
	Ranked bool             `json:"ranked"`
	Movies []catalog.Movie  `json:"movies,omitempty"`
	People []catalog.Person `json:"people,omitempty"`
}

// Len returns the number of records in the result.
func (r Result) Len() int { return len(r.Movies) + len(r.People) }

// Service executes searches.
type Service struct {
	index      Index
	store      RecordStore
	logger     *zap.Logger
	maxResults int
}

// New creates a search service.
func New(index Index, store RecordStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{index: index, store: store, logger: logger, maxResults: DefaultMaxResults}
}

// WithMaxResults sets the cap applied when limit <= 0.
func (s *Service) WithMaxResults(n int) *Service {
	if n > 0 {
		s.maxResults = n
	}
	return s
}

// Search returns records of kind matching text. Empty text matches nothing.
// An index failure is logged and answered from the record store instead;
// record store failures are returned.
func (s *Service) Search(ctx context.Context, kind domain.Kind, text string, limit int) (Result, error) {
	res := Result{Kind: kind}
	if !kind.Indexed() {
		return res, fmt.Errorf("%w: %s is not searchable", domain.ErrUnknownKind, kind)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return res, nil
	}
	if limit <= 0 || limit > s.maxResults {
		limit = s.maxResults
	}

	start := time.Now()
	path := metrics.PathIndex
	err := s.searchIndex(ctx, &res, text, limit)
	if errors.Is(err, domain.ErrIndexUnavailable) {
		s.logger.Warn("Search index unavailable, using record store fallback",
			zap.String("kind", string(kind)),
			zap.String("query", text),
			zap.Error(err),
		)
		path = metrics.PathFallback
		res = Result{Kind: kind}
		err = s.fallback(ctx, &res, text, limit)
	}
	if err != nil {
		return Result{Kind: kind}, err
	}

	metrics.SearchQueriesTotal.WithLabelValues(string(kind), path).Inc()
	metrics.SearchDuration.WithLabelValues(string(kind), path).Observe(time.Since(start).Seconds())
	return res, nil
}

func (s *Service) searchIndex(ctx context.Context, res *Result, text string, limit int) error {
	hits, err := s.index.Search(ctx, res.Kind, searchdoc.AnalyzeQuery(text), limit)
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}
	ids := searchdoc.HitIDs(hits)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	res.Ranked = true

	switch res.Kind {
	case domain.KindMovie:
		movies, err := s.store.GetMoviesByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("hydrate movies: %w", err)
		}
		res.Movies = inHitOrder(ids, movies, func(m catalog.Movie) int64 { return m.ID })
	case domain.KindActor:
		people, err := s.store.GetPeopleByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("hydrate people: %w", err)
		}
		res.People = inHitOrder(ids, people, func(p catalog.Person) int64 { return p.ID })
	}
	return nil
}

func (s *Service) fallback(ctx context.Context, res *Result, text string, limit int) error {
	var err error
	switch res.Kind {
	case domain.KindMovie:
		res.Movies, err = s.store.FilterMovies(ctx, text, limit)
	case domain.KindActor:
		res.People, err = s.store.FilterPeople(ctx, text, limit)
	}
	if err != nil {
		return fmt.Errorf("fallback filter: %w", err)
	}
	return nil
}

// inHitOrder re-sorts records into ids order. Ids without a record are skipped.
func inHitOrder[T any](ids []int64, recs []T, id func(T) int64) []T {
	byID := make(map[int64]T, len(recs))
	for _, r := range recs {
		byID[id(r)] = r
	}
	out := make([]T, 0, len(ids))
	for _, i := range ids {
		if r, ok := byID[i]; ok {
			out = append(out, r)
		}
	}
	return out
}
