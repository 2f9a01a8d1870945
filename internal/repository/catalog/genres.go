package catalog

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/starlet/starlet/internal/domain"
	domcat "github.com/starlet/starlet/internal/domain/catalog"
)

func collectGenres(rows pgx.Rows) ([]domcat.Genre, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domcat.Genre, error) {
		var g domcat.Genre
		err := row.Scan(&g.ID, &g.Title, &g.Slug)
		return g, err
	})
}

// GetOrCreateGenre returns the genre with the title's slug, creating it when absent.
// created reports whether this call inserted it.
func (r *Repo) GetOrCreateGenre(ctx context.Context, title string) (g *domcat.Genre, created bool, err error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, false, domain.NewValidationError("title", "is required")
	}
	out := domcat.Genre{Title: title, Slug: domcat.GenreSlug(title)}
	if out.Slug == "" {
		return nil, false, domain.NewValidationError("title", "has no sluggable characters")
	}
	// DO UPDATE makes RETURNING yield the existing row too; xmax = 0 only on insert.
	err = r.db.QueryRow(ctx, `
		INSERT INTO genres (title, slug) VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, title, (xmax = 0)`, out.Title, out.Slug,
	).Scan(&out.ID, &out.Title, &created)
	if err != nil {
		return nil, false, mapErr("get or create genre", err)
	}
	return &out, created, nil
}

// GetGenreBySlug returns one genre.
func (r *Repo) GetGenreBySlug(ctx context.Context, slug string) (*domcat.Genre, error) {
	var g domcat.Genre
	err := r.db.QueryRow(ctx, `SELECT id, title, slug FROM genres WHERE slug = $1`, slug).
		Scan(&g.ID, &g.Title, &g.Slug)
	if err != nil {
		return nil, mapErr("get genre "+slug, err)
	}
	return &g, nil
}

// ListGenres returns all genres by title.
func (r *Repo) ListGenres(ctx context.Context) ([]domcat.Genre, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, slug FROM genres ORDER BY title`)
	if err != nil {
		return nil, mapErr("list genres", err)
	}
	genres, err := collectGenres(rows)
	if err != nil {
		return nil, mapErr("scan genres", err)
	}
	return genres, nil
}
