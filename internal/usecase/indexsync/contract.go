package indexsync

import (
	"context"

	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/searchdoc"
)

// IndexWriter applies single-document changes to the search index.
type IndexWriter interface {
	PutDocument(ctx context.Context, doc searchdoc.Document) error
	DeleteDocument(ctx context.Context, kind domain.Kind, id int64) error
}
