// Package reindex rebuilds a search index from the full record set.
package reindex

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/catalog"
	"github.com/starlet/starlet/internal/domain/searchdoc"
	"github.com/starlet/starlet/internal/metrics"
)

// ItemError describes one document the index rejected.
type ItemError struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// Summary reports one reindex run.
type Summary struct {
	RunID     uuid.UUID     `json:"run_id"`
	Kind      domain.Kind   `json:"kind"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Errors    []ItemError   `json:"errors,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// Service runs full index rebuilds.
//
// A save of the same kind that lands while a run is streaming can be
// overwritten by the run's older snapshot of that record (last write wins).
// The next save or run repairs it.
type Service struct {
	index   IndexAdmin
	records RecordSource
	logger  *zap.Logger
}

// New creates a reindex service.
func New(index IndexAdmin, records RecordSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{index: index, records: records, logger: logger}
}

// Reindex drops, recreates and repopulates the kind's index.
// Index setup and record streaming failures abort the run; per-document
// failures are only reported in the summary.
func (s *Service) Reindex(ctx context.Context, kind domain.Kind) (Summary, error) {
	sum := Summary{RunID: uuid.New(), Kind: kind}
	if !kind.Indexed() {
		return sum, fmt.Errorf("%w: %s has no index", domain.ErrUnknownKind, kind)
	}
	start := time.Now()
	log := s.logger.With(zap.String("run_id", sum.RunID.String()), zap.String("kind", string(kind)))

	exists, err := s.index.IndexExists(ctx, kind)
	if err != nil {
		return sum, fmt.Errorf("check index: %w", err)
	}
	if exists {
		log.Info("Dropping index before reindex")
		if err := s.index.DropIndex(ctx, kind); err != nil {
			return sum, fmt.Errorf("drop index: %w", err)
		}
	}
	if err := s.index.EnsureIndex(ctx, kind); err != nil {
		return sum, fmt.Errorf("create index: %w", err)
	}

	var streamErr error
	docs := func(yield func(searchdoc.Document) bool) {
		for rec, err := range s.stream(ctx, kind) {
			if err != nil {
				streamErr = err
				return
			}
			doc, err := searchdoc.Map(rec)
			if err != nil {
				streamErr = err
				return
			}
			if !yield(doc) {
				return
			}
		}
	}
	report := s.index.BulkPut(ctx, kind, docs)

	sum.Succeeded = report.Succeeded()
	sum.Failed = report.Failed()
	for _, f := range report.Failures() {
		sum.Errors = append(sum.Errors, ItemError{ID: f.ID(), Error: f.Err().Error()})
	}
	sum.Duration = time.Since(start)
	metrics.ReindexItemsTotal.WithLabelValues(string(kind), metrics.StatusOK).Add(float64(sum.Succeeded))
	metrics.ReindexItemsTotal.WithLabelValues(string(kind), metrics.StatusError).Add(float64(sum.Failed))

	if streamErr == nil {
		streamErr = ctx.Err()
	}
	if streamErr != nil {
		log.Error("Reindex aborted", zap.Int("written", sum.Succeeded), zap.Error(streamErr))
		return sum, fmt.Errorf("stream records: %w", streamErr)
	}

	log.Info("Reindex completed",
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
		zap.Duration("duration", sum.Duration),
	)
	return sum, nil
}

// ReindexAll rebuilds every indexed kind in turn, stopping at the first aborted run.
func (s *Service) ReindexAll(ctx context.Context) ([]Summary, error) {
	kinds := domain.IndexedKinds()
	out := make([]Summary, 0, len(kinds))
	for _, kind := range kinds {
		sum, err := s.Reindex(ctx, kind)
		out = append(out, sum)
		if err != nil {
			return out, fmt.Errorf("reindex %s: %w", kind, err)
		}
	}
	return out, nil
}

func (s *Service) stream(ctx context.Context, kind domain.Kind) iter.Seq2[catalog.Record, error] {
	switch kind {
	case domain.KindMovie:
		return records(s.records.StreamMovies(ctx))
	case domain.KindActor:
		return records(s.records.StreamPeople(ctx))
	}
	return func(yield func(catalog.Record, error) bool) {
		yield(nil, errors.New("no record stream for "+string(kind)))
	}
}

func records[T catalog.Record](seq iter.Seq2[T, error]) iter.Seq2[catalog.Record, error] {
	return func(yield func(catalog.Record, error) bool) {
		for rec, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}
