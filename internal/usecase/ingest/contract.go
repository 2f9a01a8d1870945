package ingest

import (
	"context"
	"time"

	"github.com/starlet/starlet/internal/domain/catalog"
)

// Store is the record store surface the loader writes through.
// Every Save* call notifies the store's sink, so loaded records reach the search index.
type Store interface {
	FindMovieByRuTitle(ctx context.Context, ruTitle string) (*catalog.Movie, error)
	SaveMovie(ctx context.Context, m *catalog.Movie) error
	CountMovieLinks(ctx context.Context, movieID int64) (catalog.LinkCounts, error)
	AttachGenres(ctx context.Context, movieID int64, genreIDs ...int64) error
	AttachDirectors(ctx context.Context, movieID int64, personIDs ...int64) error
	AttachCast(ctx context.Context, movieID int64, personIDs ...int64) error

	GetOrCreateGenre(ctx context.Context, title string) (*catalog.Genre, bool, error)
	FindPerson(ctx context.Context, name string, birthDate *time.Time, birthPlace string) (*catalog.Person, error)
	SavePerson(ctx context.Context, p *catalog.Person) error
}
