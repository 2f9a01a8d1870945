package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/starlet/starlet/internal/domain"
	domcat "github.com/starlet/starlet/internal/domain/catalog"
)

// Collection listing defaults.
const (
	CollectionsPreview     = 10
	CollectionMoviePreview = 8
)

const collectionColumns = `c.id, c.title, c.owner_id, c.image, c.created_at, c.updated_at`

func scanCollection(row pgx.Row) (domcat.Collection, error) {
	var c domcat.Collection
	err := row.Scan(&c.ID, &c.Title, &c.OwnerID, &c.Image, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// SaveCollection inserts or updates a collection and replaces its movie list in order.
func (r *Repo) SaveCollection(ctx context.Context, c *domcat.Collection, movieIDs []int64) error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return domain.NewValidationError("title", "is required")
	}
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if c.ID == 0 {
			err := tx.QueryRow(ctx, `INSERT INTO collections (title, owner_id, image)
				VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
				c.Title, c.OwnerID, c.Image,
			).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
			if err != nil {
				return mapErr("insert collection", err)
			}
		} else {
			err := tx.QueryRow(ctx, `UPDATE collections SET title = $2, owner_id = $3, image = $4,
				updated_at = now() WHERE id = $1 RETURNING created_at, updated_at`,
				c.ID, c.Title, c.OwnerID, c.Image,
			).Scan(&c.CreatedAt, &c.UpdatedAt)
			if err != nil {
				return mapErr(fmt.Sprintf("update collection %d", c.ID), err)
			}
			if _, err := tx.Exec(ctx, `DELETE FROM collection_movies WHERE collection_id = $1`, c.ID); err != nil {
				return mapErr("clear collection movies", err)
			}
		}
		if len(movieIDs) == 0 {
			return nil
		}
		_, err := tx.Exec(ctx, `INSERT INTO collection_movies (collection_id, movie_id, position)
			SELECT $1, t.id, t.pos FROM unnest($2::bigint[]) WITH ORDINALITY AS t(id, pos)
			ON CONFLICT DO NOTHING`, c.ID, movieIDs)
		return mapErr("set collection movies", err)
	})
	if err != nil {
		return err
	}
	r.sink.OnSaved(ctx, c)
	return nil
}

// ListCollections returns the newest collections with a preview of their movies.
func (r *Repo) ListCollections(ctx context.Context, limit int) ([]domcat.Collection, error) {
	if limit <= 0 {
		limit = CollectionsPreview
	}
	rows, err := r.db.Query(ctx, `SELECT `+collectionColumns+` FROM collections c
		ORDER BY c.updated_at DESC, c.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, mapErr("list collections", err)
	}
	cols, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domcat.Collection, error) {
		return scanCollection(row)
	})
	if err != nil {
		return nil, mapErr("scan collections", err)
	}
	for i := range cols {
		if cols[i].Movies, err = r.collectionMovies(ctx, cols[i].ID, CollectionMoviePreview); err != nil {
			return nil, err
		}
	}
	return cols, nil
}

// GetCollection returns one collection with all its movies.
func (r *Repo) GetCollection(ctx context.Context, id int64) (*domcat.Collection, error) {
	c, err := scanCollection(r.db.QueryRow(ctx, `SELECT `+collectionColumns+` FROM collections c WHERE c.id = $1`, id))
	if err != nil {
		return nil, mapErr(fmt.Sprintf("get collection %d", id), err)
	}
	if c.Movies, err = r.collectionMovies(ctx, id, 0); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) collectionMovies(ctx context.Context, collectionID int64, limit int) ([]domcat.Movie, error) {
	rows, err := r.db.Query(ctx, `SELECT `+movieColumns+` FROM movies m
		JOIN collection_movies cm ON cm.movie_id = m.id
		WHERE cm.collection_id = $1
		ORDER BY cm.position, m.id`+limitClause(limit), collectionID)
	if err != nil {
		return nil, mapErr("collection movies", err)
	}
	movies, err := collectMovies(rows)
	if err != nil {
		return nil, mapErr("scan movies", err)
	}
	return movies, nil
}
