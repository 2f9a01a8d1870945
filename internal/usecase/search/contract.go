package search

import (
	"context"

	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/catalog"
	"github.com/starlet/starlet/internal/domain/searchdoc"
)

// Index runs ranked text queries.
type Index interface {
	Search(ctx context.Context, kind domain.Kind, terms []string, limit int) ([]searchdoc.Hit, error)
}

// RecordStore hydrates hits and serves the substring fallback.
type RecordStore interface {
	GetMoviesByIDs(ctx context.Context, ids []int64) ([]catalog.Movie, error)
	GetPeopleByIDs(ctx context.Context, ids []int64) ([]catalog.Person, error)
	FilterMovies(ctx context.Context, text string, limit int) ([]catalog.Movie, error)
	FilterPeople(ctx context.Context, text string, limit int) ([]catalog.Person, error)
}
