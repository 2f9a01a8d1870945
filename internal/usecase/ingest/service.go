// Package ingest upserts scraped movies into the record store.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/catalog"
)

// Fullness marks how complete a movie record is. Scraped movies are stored at
// ScrapedFullness; records at or below RefillFullness get their gaps filled.
const (
	ScrapedFullness = 70
	RefillFullness  = 60
)

// Detail statuses.
const (
	StatusCreated = "created"
	StatusExists  = "exists"
	StatusFailed  = "error"

	LinkCreated = "created"
	LinkAdded   = "added"
)

// Detail reports what loading one scraped movie changed.
type Detail struct {
	Title     string            `json:"title"`
	Status    string            `json:"status"`
	Changed   []string          `json:"changed,omitempty"`
	Genres    map[string]string `json:"genres,omitempty"`
	Directors map[string]string `json:"directors,omitempty"`
	Cast      map[string]string `json:"cast,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Loader writes scraped movies through the record store.
type Loader struct {
	store  Store
	logger *zap.Logger
}

// NewLoader creates a Loader.
func NewLoader(store Store, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{store: store, logger: logger}
}

// Load upserts every movie and returns one detail per input, in input order.
// A failing movie is reported and skipped; only cancellation stops the run.
func (l *Loader) Load(ctx context.Context, movies []ScrapedMovie) ([]Detail, error) {
	details := make([]Detail, 0, len(movies))
	for _, sm := range movies {
		if err := ctx.Err(); err != nil {
			return details, err
		}
		d, err := l.loadOne(ctx, sm)
		if err != nil {
			l.logger.Warn("Scraped movie not loaded",
				zap.String("title", sm.RuTitle),
				zap.Error(err),
			)
			d.Status = StatusFailed
			d.Error = err.Error()
		}
		details = append(details, d)
	}
	return details, nil
}

func (l *Loader) loadOne(ctx context.Context, sm ScrapedMovie) (Detail, error) {
	d := Detail{Title: sm.RuTitle}

	film, err := l.store.FindMovieByRuTitle(ctx, sm.RuTitle)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		d.Status = StatusCreated
		return d, l.create(ctx, sm)
	case err != nil:
		return d, err
	}

	d.Status = StatusExists
	if film.Fullness > RefillFullness {
		return d, nil
	}
	return d, l.refill(ctx, film, sm, &d)
}

func (l *Loader) create(ctx context.Context, sm ScrapedMovie) error {
	film := &catalog.Movie{
		RuTitle:     sm.RuTitle,
		OrigTitle:   sm.OrigTitle,
		ReleaseDate: sm.Release(),
		Description: sm.Description,
		AgeLimit:    sm.AgeLimit,
		Tagline:     sm.Tagline,
		IMDbRating:  sm.IMDbRating,
		Duration:    sm.Duration,
		Poster:      sm.Poster,
		Fullness:    ScrapedFullness,
	}
	if err := l.store.SaveMovie(ctx, film); err != nil {
		return fmt.Errorf("save movie: %w", err)
	}
	if _, err := l.attachGenres(ctx, film.ID, sm.Genres); err != nil {
		return err
	}
	if _, err := l.attachPeople(ctx, film.ID, sm.Directors, l.store.AttachDirectors); err != nil {
		return err
	}
	_, err := l.attachPeople(ctx, film.ID, castOrder(sm.Cast), l.store.AttachCast)
	return err
}

// refill fills only the gaps of an existing, incomplete movie.
func (l *Loader) refill(ctx context.Context, film *catalog.Movie, sm ScrapedMovie, d *Detail) error {
	d.Changed = []string{}
	film.Fullness = ScrapedFullness
	fill := func(field string, empty bool, set func()) {
		if empty {
			set()
			d.Changed = append(d.Changed, field)
		}
	}
	fill("orig_title", film.OrigTitle == nil || *film.OrigTitle == "", func() { film.OrigTitle = sm.OrigTitle })
	fill("description", film.Description == "", func() { film.Description = sm.Description })
	fill("age_limit", film.AgeLimit == "" || film.AgeLimit == catalog.DefaultAgeLimit, func() { film.AgeLimit = sm.AgeLimit })
	fill("tagline", film.Tagline == "", func() { film.Tagline = sm.Tagline })
	fill("imdb_rating", film.IMDbRating == 0, func() { film.IMDbRating = sm.IMDbRating })
	fill("release_date", film.ReleaseDate == nil, func() { film.ReleaseDate = sm.Release() })
	fill("duration", film.Duration == nil || *film.Duration == 0, func() { film.Duration = sm.Duration })
	fill("poster", film.Poster == "" && sm.Poster != "", func() { film.Poster = sm.Poster })

	counts, err := l.store.CountMovieLinks(ctx, film.ID)
	if err != nil {
		return fmt.Errorf("count links: %w", err)
	}
	if counts.Genres == 0 {
		if d.Genres, err = l.attachGenres(ctx, film.ID, sm.Genres); err != nil {
			return err
		}
	}
	if counts.Directors == 0 {
		if d.Directors, err = l.attachPeople(ctx, film.ID, sm.Directors, l.store.AttachDirectors); err != nil {
			return err
		}
	}
	if counts.Cast == 0 {
		if d.Cast, err = l.attachPeople(ctx, film.ID, castOrder(sm.Cast), l.store.AttachCast); err != nil {
			return err
		}
	}

	if err := l.store.SaveMovie(ctx, film); err != nil {
		return fmt.Errorf("save movie: %w", err)
	}
	return nil
}

func (l *Loader) attachGenres(ctx context.Context, movieID int64, titles []string) (map[string]string, error) {
	report := make(map[string]string, len(titles))
	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		g, created, err := l.store.GetOrCreateGenre(ctx, title)
		if err != nil {
			return report, fmt.Errorf("genre %q: %w", title, err)
		}
		report[title] = linkStatus(created)
		ids = append(ids, g.ID)
	}
	if err := l.store.AttachGenres(ctx, movieID, ids...); err != nil {
		return report, fmt.Errorf("attach genres: %w", err)
	}
	return report, nil
}

type attachFunc func(ctx context.Context, movieID int64, personIDs ...int64) error

func (l *Loader) attachPeople(
	ctx context.Context, movieID int64, people []ScrapedPerson, attach attachFunc,
) (map[string]string, error) {
	report := make(map[string]string, len(people))
	ids := make([]int64, 0, len(people))
	for _, sp := range people {
		p, created, err := l.getOrCreatePerson(ctx, sp)
		if err != nil {
			return report, fmt.Errorf("person %q: %w", sp.Name, err)
		}
		report[p.Name] = linkStatus(created)
		ids = append(ids, p.ID)
	}
	if err := attach(ctx, movieID, ids...); err != nil {
		return report, fmt.Errorf("attach people: %w", err)
	}
	return report, nil
}

// getOrCreatePerson matches on name, birth date and birth place.
func (l *Loader) getOrCreatePerson(ctx context.Context, sp ScrapedPerson) (*catalog.Person, bool, error) {
	birth := sp.Birth()
	p, err := l.store.FindPerson(ctx, sp.Name, birth, sp.BirthPlace)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	p = &catalog.Person{
		Name:       sp.Name,
		Biography:  sp.Biography,
		Career:     sp.Career,
		Gender:     sp.Gender,
		BirthDate:  birth,
		BirthPlace: sp.BirthPlace,
	}
	if sp.Photo != nil {
		p.Photo = *sp.Photo
	}
	err = l.store.SavePerson(ctx, p)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Lost a race with a concurrent load of the same person.
		p, err = l.store.FindPerson(ctx, sp.Name, birth, sp.BirthPlace)
		return p, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// castOrder attaches the billed-first actor last, so it is the most recently
// updated and is listed first.
func castOrder(cast []ScrapedPerson) []ScrapedPerson {
	out := make([]ScrapedPerson, len(cast))
	for i, p := range cast {
		out[len(cast)-1-i] = p
	}
	return out
}

func linkStatus(created bool) string {
	if created {
		return LinkCreated
	}
	return LinkAdded
}
