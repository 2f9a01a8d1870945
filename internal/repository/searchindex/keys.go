package searchindex

import (
	"strconv"

	"github.com/starlet/starlet/internal/domain"
)

// DefaultKeyPrefix namespaces every index and document key.
const DefaultKeyPrefix = "starlet:"

// Keys derives index names and document keys from the configured prefix.
type Keys struct {
	prefix string
}

// NewKeys creates a key scheme; an empty prefix falls back to DefaultKeyPrefix.
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return Keys{prefix: prefix}
}

// Index returns the FT index name, e.g. "starlet:movie:idx".
func (k Keys) Index(kind domain.Kind) string {
	return k.prefix + string(kind) + ":idx"
}

// DocPrefix returns the hash key prefix covered by the kind's index.
func (k Keys) DocPrefix(kind domain.Kind) string {
	return k.prefix + string(kind) + ":"
}

// Doc returns the hash key of one document, e.g. "starlet:movie:42".
func (k Keys) Doc(kind domain.Kind, id int64) string {
	return k.DocPrefix(kind) + strconv.FormatInt(id, 10)
}
