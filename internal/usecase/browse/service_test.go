package browse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/catalog"
)

// --- Mocks ---

type mockStore struct {
	genreMovies int
	offsets     []int
	genreErr    error
}

func (m *mockStore) GetMovieBySlug(_ context.Context, slug string) (*catalog.Movie, error) {
	if slug == "1-matritsa" {
		return &catalog.Movie{ID: 1, Slug: slug}, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetPersonBySlug(_ context.Context, slug string) (*catalog.Person, error) {
	return &catalog.Person{ID: 2, Slug: slug}, nil
}

func (m *mockStore) GetGenreBySlug(_ context.Context, slug string) (*catalog.Genre, error) {
	if m.genreErr != nil {
		return nil, m.genreErr
	}
	return &catalog.Genre{ID: 3, Title: "Драма", Slug: slug}, nil
}

func (m *mockStore) ListGenreMovies(_ context.Context, _ int64, offset, limit int) ([]catalog.Movie, int, error) {
	m.offsets = append(m.offsets, offset)
	var out []catalog.Movie
	for i := offset; i < m.genreMovies && i < offset+limit; i++ {
		out = append(out, catalog.Movie{ID: int64(i + 1)})
	}
	return out, m.genreMovies, nil
}

func (m *mockStore) ListCollections(_ context.Context, _ int) ([]catalog.Collection, error) {
	return []catalog.Collection{{ID: 1}}, nil
}

func (m *mockStore) GetCollection(_ context.Context, id int64) (*catalog.Collection, error) {
	return &catalog.Collection{ID: id}, nil
}

// --- Tests ---

func TestGenre_Pages(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		page      int
		wantPage  int
		wantPages int
		wantLen   int
	}{
		{"first page", 100, 1, 1, 3, 42},
		{"last partial page", 100, 3, 3, 3, 16},
		{"zero selects first", 100, 0, 1, 3, 42},
		{"negative selects first", 100, -4, 1, 3, 42},
		{"past end selects last", 100, 9, 3, 3, 16},
		{"empty genre", 0, 2, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockStore{genreMovies: tt.total})

			gp, err := svc.Genre(context.Background(), "drama", tt.page)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPage, gp.Page)
			assert.Equal(t, tt.wantPages, gp.Pages)
			assert.Len(t, gp.Movies, tt.wantLen)
			assert.Equal(t, tt.total, gp.Total)
			assert.Equal(t, "drama", gp.Genre.Slug)
		})
	}
}

func TestGenre_PastEndRequeriesLastPage(t *testing.T) {
	store := &mockStore{genreMovies: 50}
	svc := New(store)

	gp, err := svc.Genre(context.Background(), "drama", 5)
	require.NoError(t, err)

	assert.Equal(t, []int{168, 42}, store.offsets)
	assert.Equal(t, int64(43), gp.Movies[0].ID)
}

func TestGenre_NotFound(t *testing.T) {
	svc := New(&mockStore{genreErr: domain.ErrNotFound})

	_, err := svc.Genre(context.Background(), "nope", 1)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMovie_NotFoundPropagates(t *testing.T) {
	svc := New(&mockStore{})

	_, err := svc.Movie(context.Background(), "missing")

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 42))
	assert.Equal(t, 1, PageCount(42, 42))
	assert.Equal(t, 2, PageCount(43, 42))
}
