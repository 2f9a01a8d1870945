package catalog

import (
	"strings"
	"time"

	"github.com/starlet/starlet/internal/domain"
)

// Person is anyone credited on a movie: actor, director, crew.
type Person struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	LocalizedNames []string   `json:"localized_names,omitempty"`
	Slug           string     `json:"slug"`
	Photo          string     `json:"photo,omitempty"`
	Biography      string     `json:"biography,omitempty"`
	Career         string     `json:"career,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	BirthPlace     string     `json:"birth_place,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Movies []Movie `json:"movies,omitempty"`
}

// Gender values accepted by the store.
const (
	GenderMale   = "Мужской"
	GenderFemale = "Женский"
)

// RecordKind implements Record.
func (p *Person) RecordKind() domain.Kind { return domain.KindActor }

// RecordID implements Record.
func (p *Person) RecordID() int64 { return p.ID }

// Normalize trims the name and drops blank or duplicate localized names.
func (p *Person) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	names := p.LocalizedNames[:0]
	seen := map[string]bool{}
	for _, n := range p.LocalizedNames {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	p.LocalizedNames = names
}

// Validate checks the invariants enforced before a save.
func (p *Person) Validate() error {
	switch {
	case p.Name == "":
		return domain.NewValidationError("name", "is required")
	case len([]rune(p.Name)) > 50:
		return domain.NewValidationError("name", "is longer than 50 characters")
	case p.Gender != "" && p.Gender != GenderMale && p.Gender != GenderFemale:
		return domain.NewValidationError("gender", "is not a known value")
	}
	return nil
}

// PersonSlug builds the public slug "<id>-<transliterated name>".
func PersonSlug(id int64, name string) string {
	return IDSlug(id, name, 50)
}
