package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/starlet/starlet/internal/domain"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Матрица", "matritsa"},
		{"Ёжик в тумане", "yozhik-v-tumane"},
		{"Щука", "schuka"},
		{"The Matrix: Reloaded", "the-matrix-reloaded"},
		{"  Пёс -- Барбос ", "pyos-barbos"},
		{"Объект", "obekt"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMovieSlug(t *testing.T) {
	if got := MovieSlug(12, "Матрица"); got != "12-matritsa" {
		t.Errorf("MovieSlug = %q, want 12-matritsa", got)
	}
	long := MovieSlug(1, strings.Repeat("очень длинное название ", 10))
	if len(long) > 70 {
		t.Errorf("slug length = %d, want <= 70", len(long))
	}
	if strings.HasSuffix(long, "-") {
		t.Errorf("slug %q must not end with a dash", long)
	}
}

func TestGenreSlug(t *testing.T) {
	if got := GenreSlug("Научная фантастика"); got != "nauchnaya-fantastika" {
		t.Errorf("GenreSlug = %q", got)
	}
}

func TestMovie_NormalizeAndValidate(t *testing.T) {
	blank := "   "
	m := &Movie{RuTitle: "  Матрица ", OrigTitle: &blank}
	m.Normalize()

	if m.RuTitle != "Матрица" {
		t.Errorf("RuTitle = %q", m.RuTitle)
	}
	if m.OrigTitle != nil {
		t.Errorf("blank OrigTitle should become nil, got %q", *m.OrigTitle)
	}
	if m.AgeLimit != DefaultAgeLimit {
		t.Errorf("AgeLimit = %q, want %q", m.AgeLimit, DefaultAgeLimit)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMovie_ValidateErrors(t *testing.T) {
	neg := -5
	tests := []struct {
		name  string
		movie Movie
	}{
		{"no title", Movie{}},
		{"rating too high", Movie{RuTitle: "x", IMDbRating: 10.5}},
		{"fullness out of range", Movie{RuTitle: "x", Fullness: 101}},
		{"negative duration", Movie{RuTitle: "x", Duration: &neg}},
		{"title too long", Movie{RuTitle: strings.Repeat("я", 71)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.movie.Validate()
			if !errors.Is(err, domain.ErrInvalidRecord) {
				t.Errorf("expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}

func TestMovie_Title(t *testing.T) {
	orig := "The Matrix"
	if got := (&Movie{OrigTitle: &orig}).Title(); got != orig {
		t.Errorf("Title = %q, want %q", got, orig)
	}
	if got := (&Movie{RuTitle: "Матрица", OrigTitle: &orig}).Title(); got != "Матрица" {
		t.Errorf("Title = %q, want Матрица", got)
	}
}

func TestPerson_Normalize(t *testing.T) {
	p := &Person{Name: " Киану Ривз ", LocalizedNames: []string{"Keanu Reeves", "", "Keanu Reeves", " Киану "}}
	p.Normalize()
	if p.Name != "Киану Ривз" {
		t.Errorf("Name = %q", p.Name)
	}
	if len(p.LocalizedNames) != 2 || p.LocalizedNames[0] != "Keanu Reeves" || p.LocalizedNames[1] != "Киану" {
		t.Errorf("LocalizedNames = %v", p.LocalizedNames)
	}
}

func TestPerson_Validate(t *testing.T) {
	if err := (&Person{Name: "Киану Ривз", Gender: GenderMale}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (&Person{}).Validate(); !errors.Is(err, domain.ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord for empty name, got %v", err)
	}
	if err := (&Person{Name: "x", Gender: "other"}).Validate(); !errors.Is(err, domain.ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord for gender, got %v", err)
	}
}

func TestRecordKinds(t *testing.T) {
	records := map[domain.Kind]Record{
		domain.KindMovie:      &Movie{ID: 1},
		domain.KindActor:      &Person{ID: 2},
		domain.KindGenre:      &Genre{ID: 3},
		domain.KindCollection: &Collection{ID: 4},
	}
	for want, rec := range records {
		if rec.RecordKind() != want {
			t.Errorf("RecordKind = %q, want %q", rec.RecordKind(), want)
		}
	}
}
