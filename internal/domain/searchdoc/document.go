// Package searchdoc maps catalog records to search index documents.
// Everything here is pure: no I/O, no clocks, no randomness.
package searchdoc

import "github.com/starlet/starlet/internal/domain"

// Index document field names.
const (
	FieldID        = "id"
	FieldSlug      = "slug"
	FieldOrigTitle = "orig_title"
	FieldRuTitle   = "ru_title"
	FieldName      = "name"
	FieldNames     = "names"
)

// Document is the searchable projection of one record.
// Text holds analyzed fields as space-joined fragments; absent optional fields have no entry.
type Document struct {
	Kind domain.Kind
	ID   int64
	Slug string
	Text map[string]string
}

// Hit is one ranked match returned by the index. Rank starts at 1.
type Hit struct {
	ID    int64
	Score float64
	Rank  int
}

// TextFields returns the analyzed fields queried for kind, in schema order.
func TextFields(kind domain.Kind) []string {
	switch kind {
	case domain.KindMovie:
		return []string{FieldOrigTitle, FieldRuTitle}
	case domain.KindActor:
		return []string{FieldName, FieldNames}
	default:
		return nil
	}
}

// HitIDs returns hit ids in rank order.
func HitIDs(hits []Hit) []int64 {
	ids := make([]int64, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}
