// Package indexsync keeps index documents current with committed record changes.
package indexsync

import (
	"context"

	"go.uber.org/zap"

	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/catalog"
	"github.com/starlet/starlet/internal/domain/searchdoc"
	"github.com/starlet/starlet/internal/metrics"
)

// Synchronizer is the record store's sink. It runs inside the saving request
// and never reports failure back to it: the record store write always wins and
// a failed index update stays stale until the next save or reindex.
type Synchronizer struct {
	writer IndexWriter
	logger *zap.Logger
}

// New creates a Synchronizer.
func New(writer IndexWriter, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{writer: writer, logger: logger}
}

// OnSaved re-derives and writes the index document of a saved record.
// Records of unindexed kinds are ignored.
func (s *Synchronizer) OnSaved(ctx context.Context, rec catalog.Record) {
	kind := rec.RecordKind()
	if !kind.Indexed() {
		return
	}

	doc, err := searchdoc.Map(rec)
	if err == nil {
		err = s.writer.PutDocument(ctx, doc)
	}
	s.observe(kind, rec.RecordID(), "put", err)
}

// OnDeleted removes the index document of a deleted record.
func (s *Synchronizer) OnDeleted(ctx context.Context, kind domain.Kind, id int64) {
	if !kind.Indexed() {
		return
	}
	s.observe(kind, id, "delete", s.writer.DeleteDocument(ctx, kind, id))
}

func (s *Synchronizer) observe(kind domain.Kind, id int64, op string, err error) {
	if err != nil {
		metrics.IndexSyncTotal.WithLabelValues(string(kind), metrics.StatusError).Inc()
		s.logger.Warn("Index sync failed, document left stale",
			zap.String("kind", string(kind)),
			zap.Int64("id", id),
			zap.String("op", op),
			zap.Error(err),
		)
		return
	}
	metrics.IndexSyncTotal.WithLabelValues(string(kind), metrics.StatusOK).Inc()
	s.logger.Debug("Index document synced",
		zap.String("kind", string(kind)),
		zap.Int64("id", id),
		zap.String("op", op),
	)
}
