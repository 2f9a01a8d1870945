package searchindex

import (
	"fmt"

	"github.com/starlet/starlet/internal/db"
	"github.com/starlet/starlet/internal/domain"
	"github.com/starlet/starlet/internal/domain/searchdoc"
)

// buildIndex returns the fixed schema of a kind's index.
// Text fields hold pre-analyzed edge fragments, so stemming and stop words are off.
func buildIndex(keys Keys, kind domain.Kind) (*db.IndexDefinition, error) {
	b := db.NewIndex(keys.Index(kind)).
		Prefix(keys.DocPrefix(kind)).
		NoStopWords()

	switch kind {
	case domain.KindMovie:
		b = b.AnalyzedText(searchdoc.FieldOrigTitle, 1).
			AnalyzedText(searchdoc.FieldRuTitle, 1)
	case domain.KindActor:
		b = b.AnalyzedText(searchdoc.FieldName, 1).
			AnalyzedText(searchdoc.FieldNames, 1)
	default:
		return nil, fmt.Errorf("%w: %s has no index", domain.ErrUnknownKind, kind)
	}

	def, err := b.SortableNumeric(searchdoc.FieldID).Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}
	return def, nil
}
