package catalog

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/starlet/starlet/internal/domain"
	domcat "github.com/starlet/starlet/internal/domain/catalog"
)

// CastPreview is how many cast members a movie detail carries.
const CastPreview = 8

const movieColumns = `m.id, m.orig_title, m.ru_title, COALESCE(m.slug, ''), m.description, m.country,
	m.age_limit, m.tagline, m.imdb_rating::float8, m.release_date, m.duration, m.fullness,
	m.poster, m.updated_at`

func scanMovie(row pgx.Row) (domcat.Movie, error) {
	var m domcat.Movie
	err := row.Scan(
		&m.ID, &m.OrigTitle, &m.RuTitle, &m.Slug, &m.Description, &m.Country,
		&m.AgeLimit, &m.Tagline, &m.IMDbRating, &m.ReleaseDate, &m.Duration, &m.Fullness,
		&m.Poster, &m.UpdatedAt,
	)
	return m, err
}

func collectMovies(rows pgx.Rows) ([]domcat.Movie, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domcat.Movie, error) {
		return scanMovie(row)
	})
}

// SaveMovie inserts (ID == 0) or updates a movie, derives its slug and notifies the sink after commit.
func (r *Repo) SaveMovie(ctx context.Context, m *domcat.Movie) error {
	m.Normalize()
	if err := m.Validate(); err != nil {
		return err
	}

	var updatedAt time.Time
	var slug string
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		id := m.ID
		if id == 0 {
			err := tx.QueryRow(ctx, `
				INSERT INTO movies (orig_title, ru_title, description, country, age_limit, tagline,
					imdb_rating, release_date, duration, fullness, poster)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				RETURNING id`,
				m.OrigTitle, m.RuTitle, m.Description, m.Country, m.AgeLimit, m.Tagline,
				m.IMDbRating, m.ReleaseDate, m.Duration, m.Fullness, m.Poster,
			).Scan(&id)
			if err != nil {
				return mapErr("insert movie", err)
			}
		} else {
			tag, err := tx.Exec(ctx, `
				UPDATE movies SET orig_title = $2, ru_title = $3, description = $4, country = $5,
					age_limit = $6, tagline = $7, imdb_rating = $8, release_date = $9, duration = $10,
					fullness = $11, poster = $12
				WHERE id = $1`,
				id, m.OrigTitle, m.RuTitle, m.Description, m.Country, m.AgeLimit, m.Tagline,
				m.IMDbRating, m.ReleaseDate, m.Duration, m.Fullness, m.Poster,
			)
			if err != nil {
				return mapErr("update movie", err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("update movie %d: %w", id, domain.ErrNotFound)
			}
		}

		slug = domcat.MovieSlug(id, m.RuTitle)
		err := tx.QueryRow(ctx,
			`UPDATE movies SET slug = $2, updated_at = now() WHERE id = $1 RETURNING updated_at`,
			id, slug,
		).Scan(&updatedAt)
		if err != nil {
			return mapErr("set movie slug", err)
		}
		m.ID = id
		return nil
	})
	if err != nil {
		return err
	}

	m.Slug = slug
	m.UpdatedAt = updatedAt
	r.sink.OnSaved(ctx, m)
	return nil
}

// DeleteMovie removes a movie and its links.
func (r *Repo) DeleteMovie(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete movie", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete movie %d: %w", id, domain.ErrNotFound)
	}
	r.sink.OnDeleted(ctx, domain.KindMovie, id)
	return nil
}

// GetMovie returns the scalar fields of one movie.
func (r *Repo) GetMovie(ctx context.Context, id int64) (*domcat.Movie, error) {
	m, err := scanMovie(r.db.QueryRow(ctx, `SELECT `+movieColumns+` FROM movies m WHERE m.id = $1`, id))
	if err != nil {
		return nil, mapErr(fmt.Sprintf("get movie %d", id), err)
	}
	return &m, nil
}

// GetMovieBySlug returns a movie with its genres, directors and the first CastPreview cast members.
func (r *Repo) GetMovieBySlug(ctx context.Context, slug string) (*domcat.Movie, error) {
	m, err := scanMovie(r.db.QueryRow(ctx, `SELECT `+movieColumns+` FROM movies m WHERE m.slug = $1`, slug))
	if err != nil {
		return nil, mapErr("get movie "+slug, err)
	}
	if m.Genres, err = r.movieGenres(ctx, m.ID); err != nil {
		return nil, err
	}
	if m.Directors, err = r.moviePeople(ctx, "movie_directors", m.ID, 0); err != nil {
		return nil, err
	}
	if m.Cast, err = r.moviePeople(ctx, "movie_cast", m.ID, CastPreview); err != nil {
		return nil, err
	}
	return &m, nil
}

// FindMovieByRuTitle returns the oldest movie with the given localized title.
func (r *Repo) FindMovieByRuTitle(ctx context.Context, ruTitle string) (*domcat.Movie, error) {
	m, err := scanMovie(r.db.QueryRow(ctx,
		`SELECT `+movieColumns+` FROM movies m WHERE m.ru_title = $1 ORDER BY m.id LIMIT 1`, ruTitle))
	if err != nil {
		return nil, mapErr("find movie by title", err)
	}
	return &m, nil
}

// GetMoviesByIDs returns the movies that exist among ids, in no particular order.
func (r *Repo) GetMoviesByIDs(ctx context.Context, ids []int64) ([]domcat.Movie, error) {
	if len(ids) == 0 {
		return []domcat.Movie{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+movieColumns+` FROM movies m WHERE m.id = ANY($1)`, ids)
	if err != nil {
		return nil, mapErr("get movies by ids", err)
	}
	movies, err := collectMovies(rows)
	if err != nil {
		return nil, mapErr("scan movies", err)
	}
	return movies, nil
}

// FilterMovies matches text case-insensitively against both titles, newest first.
func (r *Repo) FilterMovies(ctx context.Context, text string, limit int) ([]domcat.Movie, error) {
	rows, err := r.db.Query(ctx, `SELECT `+movieColumns+` FROM movies m
		WHERE m.ru_title ILIKE $1 OR m.orig_title ILIKE $1
		ORDER BY m.updated_at DESC, m.id DESC`+limitClause(limit), likePattern(text))
	if err != nil {
		return nil, mapErr("filter movies", err)
	}
	movies, err := collectMovies(rows)
	if err != nil {
		return nil, mapErr("scan movies", err)
	}
	return movies, nil
}

// StreamMovies yields every movie in id order, fetching keyset pages lazily.
// Iteration stops after the first error.
func (r *Repo) StreamMovies(ctx context.Context) iter.Seq2[*domcat.Movie, error] {
	return func(yield func(*domcat.Movie, error) bool) {
		var after int64
		for {
			rows, err := r.db.Query(ctx, `SELECT `+movieColumns+` FROM movies m
				WHERE m.id > $1 ORDER BY m.id LIMIT $2`, after, r.pageSize)
			if err != nil {
				yield(nil, mapErr("stream movies", err))
				return
			}
			page, err := collectMovies(rows)
			if err != nil {
				yield(nil, mapErr("stream movies", err))
				return
			}
			for i := range page {
				if !yield(&page[i], nil) {
					return
				}
			}
			if len(page) < r.pageSize {
				return
			}
			after = page[len(page)-1].ID
		}
	}
}

// ListGenreMovies returns one page of a genre's movies by release date, newest first, plus the total.
func (r *Repo) ListGenreMovies(ctx context.Context, genreID int64, offset, limit int) ([]domcat.Movie, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM movie_genres WHERE genre_id = $1`, genreID).Scan(&total)
	if err != nil {
		return nil, 0, mapErr("count genre movies", err)
	}
	rows, err := r.db.Query(ctx, `SELECT `+movieColumns+` FROM movies m
		JOIN movie_genres mg ON mg.movie_id = m.id
		WHERE mg.genre_id = $1
		ORDER BY m.release_date DESC NULLS LAST, m.id DESC
		OFFSET $2`+limitClause(limit), genreID, offset)
	if err != nil {
		return nil, 0, mapErr("list genre movies", err)
	}
	movies, err := collectMovies(rows)
	if err != nil {
		return nil, 0, mapErr("scan movies", err)
	}
	return movies, total, nil
}

// CountMovieLinks returns the link counts of one movie.
func (r *Repo) CountMovieLinks(ctx context.Context, movieID int64) (domcat.LinkCounts, error) {
	var c domcat.LinkCounts
	err := r.db.QueryRow(ctx, `SELECT
		(SELECT count(*) FROM movie_genres WHERE movie_id = $1),
		(SELECT count(*) FROM movie_directors WHERE movie_id = $1),
		(SELECT count(*) FROM movie_cast WHERE movie_id = $1)`, movieID,
	).Scan(&c.Genres, &c.Directors, &c.Cast)
	if err != nil {
		return domcat.LinkCounts{}, mapErr("count movie links", err)
	}
	return c, nil
}

// AttachGenres links genres to a movie; existing links are kept.
func (r *Repo) AttachGenres(ctx context.Context, movieID int64, genreIDs ...int64) error {
	return r.attach(ctx, "movie_genres", "genre_id", movieID, genreIDs)
}

// AttachDirectors links directors to a movie; existing links are kept.
func (r *Repo) AttachDirectors(ctx context.Context, movieID int64, personIDs ...int64) error {
	return r.attach(ctx, "movie_directors", "person_id", movieID, personIDs)
}

// AttachCast links cast members to a movie; existing links are kept.
func (r *Repo) AttachCast(ctx context.Context, movieID int64, personIDs ...int64) error {
	return r.attach(ctx, "movie_cast", "person_id", movieID, personIDs)
}

func (r *Repo) attach(ctx context.Context, table, column string, movieID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `INSERT INTO `+table+` (movie_id, `+column+`)
		SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`, movieID, ids)
	return mapErr("attach "+table, err)
}

func (r *Repo) movieGenres(ctx context.Context, movieID int64) ([]domcat.Genre, error) {
	rows, err := r.db.Query(ctx, `SELECT g.id, g.title, g.slug FROM genres g
		JOIN movie_genres mg ON mg.genre_id = g.id
		WHERE mg.movie_id = $1 ORDER BY g.title`, movieID)
	if err != nil {
		return nil, mapErr("movie genres", err)
	}
	genres, err := collectGenres(rows)
	return genres, mapErr("scan genres", err)
}

func (r *Repo) moviePeople(ctx context.Context, table string, movieID int64, limit int) ([]domcat.Person, error) {
	rows, err := r.db.Query(ctx, `SELECT `+personColumns+` FROM people p
		JOIN `+table+` l ON l.person_id = p.id
		WHERE l.movie_id = $1
		ORDER BY p.updated_at DESC, p.id DESC`+limitClause(limit), movieID)
	if err != nil {
		return nil, mapErr("movie people", err)
	}
	people, err := collectPeople(rows)
	return people, mapErr("scan people", err)
}
