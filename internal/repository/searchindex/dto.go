package searchindex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/starlet/starlet/internal/domain/searchdoc"
)

// documentToHash converts an index document to the HSET field map.
func documentToHash(doc searchdoc.Document) map[string]string {
	m := make(map[string]string, len(doc.Text)+2)
	for field, text := range doc.Text {
		m[field] = text
	}
	m[searchdoc.FieldID] = strconv.FormatInt(doc.ID, 10)
	if doc.Slug != "" {
		m[searchdoc.FieldSlug] = doc.Slug
	}
	return m
}

// hitID reads the record id from the returned id field, falling back to the key suffix.
func hitID(key string, fields map[string]string) (int64, error) {
	raw, ok := fields[searchdoc.FieldID]
	if !ok {
		idx := strings.LastIndexByte(key, ':')
		raw = key[idx+1:]
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id in hit %s: %w", key, err)
	}
	return id, nil
}
