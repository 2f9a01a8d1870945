package searchdoc

import (
	"fmt"
	"strings"

	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/catalog"
)

// Map dispatches on the record kind. Unindexed kinds return domain.ErrUnknownKind.
func Map(rec catalog.Record) (Document, error) {
	switch r := rec.(type) {
	case *catalog.Movie:
		return MapMovie(r), nil
	case *catalog.Person:
		return MapPerson(r), nil
	default:
		return Document{}, fmt.Errorf("%w: %s is not indexed", domain.ErrUnknownKind, rec.RecordKind())
	}
}

// MapMovie projects the original and localized titles plus identity.
func MapMovie(m *catalog.Movie) Document {
	doc := Document{
		Kind: domain.KindMovie,
		ID:   m.ID,
		Slug: m.Slug,
		Text: make(map[string]string, 2),
	}
	if m.OrigTitle != nil {
		setAnalyzed(doc.Text, FieldOrigTitle, *m.OrigTitle)
	}
	setAnalyzed(doc.Text, FieldRuTitle, m.RuTitle)
	return doc
}

// MapPerson projects the display name and, when known, every localized name.
func MapPerson(p *catalog.Person) Document {
	doc := Document{
		Kind: domain.KindActor,
		ID:   p.ID,
		Slug: p.Slug,
		Text: make(map[string]string, 2),
	}
	setAnalyzed(doc.Text, FieldName, p.Name)
	if len(p.LocalizedNames) > 0 {
		setAnalyzed(doc.Text, FieldNames, strings.Join(p.LocalizedNames, " "))
	}
	return doc
}

func setAnalyzed(dst map[string]string, field, text string) {
	frags := Analyze(text)
	if len(frags) == 0 {
		return
	}
	dst[field] = strings.Join(frags, " ")
}
