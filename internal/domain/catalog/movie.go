package catalog

import (
	"strings"
	"time"

	"github.com/starlet/starlet/internal/domain"
)

// DefaultAgeLimit is stored when a movie has no explicit age rating.
const DefaultAgeLimit = "0+"

// Movie is a film with localized and original titles.
type Movie struct {
	ID          int64      `json:"id"`
	OrigTitle   *string    `json:"orig_title,omitempty"`
	RuTitle     string     `json:"ru_title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Country     string     `json:"country,omitempty"`
	AgeLimit    string     `json:"age_limit"`
	Tagline     string     `json:"tagline,omitempty"`
	IMDbRating  float64    `json:"imdb_rating"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Duration    *int       `json:"duration,omitempty"`
	Fullness    int        `json:"fullness"`
	Poster      string     `json:"poster,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Genres    []Genre  `json:"genres,omitempty"`
	Directors []Person `json:"directors,omitempty"`
	Cast      []Person `json:"cast,omitempty"`
}

// RecordKind implements Record.
func (m *Movie) RecordKind() domain.Kind { return domain.KindMovie }

// RecordID implements Record.
func (m *Movie) RecordID() int64 { return m.ID }

// Title returns the localized title, falling back to the original one.
func (m *Movie) Title() string {
	if m.RuTitle != "" {
		return m.RuTitle
	}
	if m.OrigTitle != nil {
		return *m.OrigTitle
	}
	return ""
}

// Normalize trims text fields and applies defaults before validation.
func (m *Movie) Normalize() {
	m.RuTitle = strings.TrimSpace(m.RuTitle)
	if m.OrigTitle != nil {
		t := strings.TrimSpace(*m.OrigTitle)
		if t == "" {
			m.OrigTitle = nil
		} else {
			m.OrigTitle = &t
		}
	}
	if strings.TrimSpace(m.AgeLimit) == "" {
		m.AgeLimit = DefaultAgeLimit
	}
}

// Validate checks the invariants enforced before a save.
func (m *Movie) Validate() error {
	switch {
	case m.RuTitle == "":
		return domain.NewValidationError("ru_title", "is required")
	case len([]rune(m.RuTitle)) > 70:
		return domain.NewValidationError("ru_title", "is longer than 70 characters")
	case m.OrigTitle != nil && len([]rune(*m.OrigTitle)) > 70:
		return domain.NewValidationError("orig_title", "is longer than 70 characters")
	case m.IMDbRating < 0 || m.IMDbRating > 10:
		return domain.NewValidationError("imdb_rating", "must be within 0..10")
	case m.Fullness < 0 || m.Fullness > 100:
		return domain.NewValidationError("fullness", "must be within 0..100")
	case m.Duration != nil && *m.Duration < 0:
		return domain.NewValidationError("duration", "must not be negative")
	}
	return nil
}

// LinkCounts reports how many genres, directors and cast members a movie has.
type LinkCounts struct {
	Genres    int
	Directors int
	Cast      int
}

// MovieSlug builds the public slug "<id>-<transliterated title>".
func MovieSlug(id int64, ruTitle string) string {
	return IDSlug(id, ruTitle, 70)
}
