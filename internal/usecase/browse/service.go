// Package browse serves the catalog's detail and listing views.
package browse

import (
	"context"
	"fmt"

	"github.com/starlet/starlet/internal/domain/catalog"
)

// GenrePageSize is the number of movies per genre page.
const GenrePageSize = 42

// GenrePage is one page of a genre's movies, newest release first.
type GenrePage struct {
	Genre  catalog.Genre   `json:"genre"`
	Movies []catalog.Movie `json:"movies"`
	Page   int             `json:"page"`
	Pages  int             `json:"pages"`
	Total  int             `json:"total"`
}

// Service reads catalog views.
type Service struct {
	store    Store
	pageSize int
}

// New creates a browse service.
func New(store Store) *Service {
	return &Service{store: store, pageSize: GenrePageSize}
}

// Movie returns a movie with genres, directors and the leading cast.
func (s *Service) Movie(ctx context.Context, slug string) (*catalog.Movie, error) {
	return s.store.GetMovieBySlug(ctx, slug)
}

// Actor returns a person with their movies.
func (s *Service) Actor(ctx context.Context, slug string) (*catalog.Person, error) {
	return s.store.GetPersonBySlug(ctx, slug)
}

// Genre returns one page of the genre's movies. page is 1-based; values below 1
// select the first page and values past the end select the last one.
func (s *Service) Genre(ctx context.Context, slug string, page int) (GenrePage, error) {
	g, err := s.store.GetGenreBySlug(ctx, slug)
	if err != nil {
		return GenrePage{}, err
	}

	page = max(page, 1)
	movies, total, err := s.store.ListGenreMovies(ctx, g.ID, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return GenrePage{}, fmt.Errorf("list genre movies: %w", err)
	}
	pages := PageCount(total, s.pageSize)
	if page > pages {
		page = pages
		movies, total, err = s.store.ListGenreMovies(ctx, g.ID, (page-1)*s.pageSize, s.pageSize)
		if err != nil {
			return GenrePage{}, fmt.Errorf("list genre movies: %w", err)
		}
	}

	return GenrePage{Genre: *g, Movies: movies, Page: page, Pages: pages, Total: total}, nil
}

// Collections returns the newest collections with a preview of their movies.
func (s *Service) Collections(ctx context.Context) ([]catalog.Collection, error) {
	return s.store.ListCollections(ctx, 0)
}

// Collection returns one collection with all its movies.
func (s *Service) Collection(ctx context.Context, id int64) (*catalog.Collection, error) {
	return s.store.GetCollection(ctx, id)
}

// PageCount returns the number of pages for total items; an empty list still has one page.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 1
	}
	return (total + size - 1) / size
}
