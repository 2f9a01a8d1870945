package ingest

import (
	"strconv"
	"strings"
	"time"
)

// ScrapedMovie is one movie as produced by the scraper.
type ScrapedMovie struct {
	RuTitle     string          `json:"ru_title"`
	OrigTitle   *string         `json:"orig_title"`
	ReleaseDate []string        `json:"release_date"` // day, month, year
	Description string          `json:"description"`
	AgeLimit    string          `json:"age_limit"`
	Tagline     string          `json:"tagline"`
	IMDbRating  float64         `json:"imdb_rating"`
	Duration    *int            `json:"duration"`
	Poster      string          `json:"poster"`
	Genres      []string        `json:"genres"`
	Directors   []ScrapedPerson `json:"directors"`
	Cast        []ScrapedPerson `json:"cast"`
}

// ScrapedPerson is a credited person as produced by the scraper.
type ScrapedPerson struct {
	Name       string   `json:"name"`
	Biography  string   `json:"biography"`
	Career     string   `json:"career"`
	Gender     string   `json:"gender"`
	BirthDate  []string `json:"birth_date"` // year, month, day
	BirthPlace string   `json:"birth_place"`
	Photo      *string  `json:"photo"`
}

// Release returns the release date; the scraper emits it as day, month, year.
func (m ScrapedMovie) Release() *time.Time {
	parts := make([]string, len(m.ReleaseDate))
	for i, p := range m.ReleaseDate {
		parts[len(parts)-1-i] = p
	}
	return parseDate(parts)
}

// Birth returns the birth date, nil when absent or malformed.
func (p ScrapedPerson) Birth() *time.Time {
	return parseDate(p.BirthDate)
}

// parseDate builds a date from year, month, day parts. Anything that is not
// three integers forming a real calendar date yields nil.
func parseDate(parts []string) *time.Time {
	if len(parts) != 3 {
		return nil
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil
		}
		n[i] = v
	}
	d := time.Date(n[0], time.Month(n[1]), n[2], 0, 0, 0, 0, time.UTC)
	if d.Year() != n[0] || int(d.Month()) != n[1] || d.Day() != n[2] {
		return nil
	}
	return &d
}
