package reindex

import (
	"context"
	"iter"

	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/batch"
	"github.com/starlet/starlet/internal/domain/catalog"
	"github.com/starlet/starlet/internal/domain/searchdoc"
)

// IndexAdmin rebuilds whole indexes.
type IndexAdmin interface {
	IndexExists(ctx context.Context, kind domain.Kind) (bool, error)
	DropIndex(ctx context.Context, kind domain.Kind) error
	EnsureIndex(ctx context.Context, kind domain.Kind) error
	BulkPut(ctx context.Context, kind domain.Kind, docs iter.Seq[searchdoc.Document]) batch.Report
}

// RecordSource streams every record of an indexed kind.
type RecordSource interface {
	StreamMovies(ctx context.Context) iter.Seq2[*catalog.Movie, error]
	StreamPeople(ctx context.Context) iter.Seq2[*catalog.Person, error]
}
