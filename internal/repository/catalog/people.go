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

const personColumns = `p.id, p.name, p.localized_names, COALESCE(p.slug, ''), p.photo, p.biography,
	p.career, p.gender, p.birth_date, p.birth_place, p.updated_at`

func scanPerson(row pgx.Row) (domcat.Person, error) {
	var p domcat.Person
	err := row.Scan(
		&p.ID, &p.Name, &p.LocalizedNames, &p.Slug, &p.Photo, &p.Biography,
		&p.Career, &p.Gender, &p.BirthDate, &p.BirthPlace, &p.UpdatedAt,
	)
	return p, err
}

func collectPeople(rows pgx.Rows) ([]domcat.Person, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domcat.Person, error) {
		return scanPerson(row)
	})
}

// SavePerson inserts (ID == 0) or updates a person, derives the slug and notifies the sink after commit.
func (r *Repo) SavePerson(ctx context.Context, p *domcat.Person) error {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	names := p.LocalizedNames
	if names == nil {
		names = []string{}
	}

	var updatedAt time.Time
	var slug string
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		id := p.ID
		if id == 0 {
			err := tx.QueryRow(ctx, `
				INSERT INTO people (name, localized_names, photo, biography, career, gender,
					birth_date, birth_place)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING id`,
				p.Name, names, p.Photo, p.Biography, p.Career, p.Gender, p.BirthDate, p.BirthPlace,
			).Scan(&id)
			if err != nil {
				return mapErr("insert person", err)
			}
		} else {
			tag, err := tx.Exec(ctx, `
				UPDATE people SET name = $2, localized_names = $3, photo = $4, biography = $5,
					career = $6, gender = $7, birth_date = $8, birth_place = $9
				WHERE id = $1`,
				id, p.Name, names, p.Photo, p.Biography, p.Career, p.Gender, p.BirthDate, p.BirthPlace,
			)
			if err != nil {
				return mapErr("update person", err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("update person %d: %w", id, domain.ErrNotFound)
			}
		}

		slug = domcat.PersonSlug(id, p.Name)
		err := tx.QueryRow(ctx,
			`UPDATE people SET slug = $2, updated_at = now() WHERE id = $1 RETURNING updated_at`,
			id, slug,
		).Scan(&updatedAt)
		if err != nil {
			return mapErr("set person slug", err)
		}
		p.ID = id
		return nil
	})
	if err != nil {
		return err
	}

	p.Slug = slug
	p.UpdatedAt = updatedAt
	r.sink.OnSaved(ctx, p)
	return nil
}

// DeletePerson removes a person and all credits.
func (r *Repo) DeletePerson(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM people WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete person", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete person %d: %w", id, domain.ErrNotFound)
	}
	r.sink.OnDeleted(ctx, domain.KindActor, id)
	return nil
}

// GetPerson returns the scalar fields of one person.
func (r *Repo) GetPerson(ctx context.Context, id int64) (*domcat.Person, error) {
	p, err := scanPerson(r.db.QueryRow(ctx, `SELECT `+personColumns+` FROM people p WHERE p.id = $1`, id))
	if err != nil {
		return nil, mapErr(fmt.Sprintf("get person %d", id), err)
	}
	return &p, nil
}

// GetPersonBySlug returns a person with every movie they are cast in, newest release first.
func (r *Repo) GetPersonBySlug(ctx context.Context, slug string) (*domcat.Person, error) {
	p, err := scanPerson(r.db.QueryRow(ctx, `SELECT `+personColumns+` FROM people p WHERE p.slug = $1`, slug))
	if err != nil {
		return nil, mapErr("get person "+slug, err)
	}
	rows, err := r.db.Query(ctx, `SELECT `+movieColumns+` FROM movies m
		JOIN movie_cast mc ON mc.movie_id = m.id
		WHERE mc.person_id = $1
		ORDER BY m.release_date DESC NULLS LAST, m.id DESC`, p.ID)
	if err != nil {
		return nil, mapErr("person movies", err)
	}
	if p.Movies, err = collectMovies(rows); err != nil {
		return nil, mapErr("scan movies", err)
	}
	return &p, nil
}

// FindPerson looks a person up by identity: name, birth date and birth place.
func (r *Repo) FindPerson(ctx context.Context, name string, birthDate *time.Time, birthPlace string) (*domcat.Person, error) {
	p, err := scanPerson(r.db.QueryRow(ctx, `SELECT `+personColumns+` FROM people p
		WHERE p.name = $1 AND p.birth_date IS NOT DISTINCT FROM $2 AND p.birth_place = $3`,
		name, birthDate, birthPlace))
	if err != nil {
		return nil, mapErr("find person "+name, err)
	}
	return &p, nil
}

// GetPeopleByIDs returns the people that exist among ids, in no particular order.
func (r *Repo) GetPeopleByIDs(ctx context.Context, ids []int64) ([]domcat.Person, error) {
	if len(ids) == 0 {
		return []domcat.Person{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+personColumns+` FROM people p WHERE p.id = ANY($1)`, ids)
	if err != nil {
		return nil, mapErr("get people by ids", err)
	}
	people, err := collectPeople(rows)
	if err != nil {
		return nil, mapErr("scan people", err)
	}
	return people, nil
}

// FilterPeople matches text case-insensitively against the name, most recently updated first.
func (r *Repo) FilterPeople(ctx context.Context, text string, limit int) ([]domcat.Person, error) {
	rows, err := r.db.Query(ctx, `SELECT `+personColumns+` FROM people p
		WHERE p.name ILIKE $1
		ORDER BY p.updated_at DESC, p.id DESC`+limitClause(limit), likePattern(text))
	if err != nil {
		return nil, mapErr("filter people", err)
	}
	people, err := collectPeople(rows)
	if err != nil {
		return nil, mapErr("scan people", err)
	}
	return people, nil
}

// StreamPeople yields every person in id order, fetching keyset pages lazily.
// Iteration stops after the first error.
func (r *Repo) StreamPeople(ctx context.Context) iter.Seq2[*domcat.Person, error] {
	return func(yield func(*domcat.Person, error) bool) {
		var after int64
		for {
			rows, err := r.db.Query(ctx, `SELECT `+personColumns+` FROM people p
				WHERE p.id > $1 ORDER BY p.id LIMIT $2`, after, r.pageSize)
			if err != nil {
				yield(nil, mapErr("stream people", err))
				return
			}
			page, err := collectPeople(rows)
			if err != nil {
				yield(nil, mapErr("stream people", err))
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
