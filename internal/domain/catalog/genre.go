package catalog

import "github.com/starlet/starlet/internal/domain"

// Genre is a movie genre; the slug is derived from the title.
type Genre struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// RecordKind implements Record.
func (g *Genre) RecordKind() domain.Kind { return domain.KindGenre }

// RecordID implements Record.
func (g *Genre) RecordID() int64 { return g.ID }

// GenreSlug transliterates the title.
func GenreSlug(title string) string {
	return truncateSlug(Slugify(title), 50)
}
