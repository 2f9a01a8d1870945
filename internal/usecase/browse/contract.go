package browse

import (
	"context"

	"github.com/starlet/starlet/internal/domain/catalog"
)

// Store reads detail and listing views from the record store.
type Store interface {
	GetMovieBySlug(ctx context.Context, slug string) (*catalog.Movie, error)
	GetPersonBySlug(ctx context.Context, slug string) (*catalog.Person, error)
	GetGenreBySlug(ctx context.Context, slug string) (*catalog.Genre, error)
	ListGenreMovies(ctx context.Context, genreID int64, offset, limit int) ([]catalog.Movie, int, error)
	ListCollections(ctx context.Context, limit int) ([]catalog.Collection, error)
	GetCollection(ctx context.Context, id int64) (*catalog.Collection, error)
}
