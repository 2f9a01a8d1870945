package domain

import (
	"fmt"
	"strings"
)

// Kind names a record type and, for indexed kinds, its search index.
type Kind string

// Record kinds.
const (
	KindMovie      Kind = "movie"
	KindActor      Kind = "actor"
	KindGenre      Kind = "genre"
	KindCollection Kind = "collection"
)

// ParseKind normalizes s and returns the matching kind.
// "person" is accepted as an alias of "actor".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindMovie, KindActor, KindGenre, KindCollection:
		return k, nil
	case "person", "people":
		return KindActor, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Indexed reports whether records of this kind are mirrored into a search index.
func (k Kind) Indexed() bool {
	return k == KindMovie || k == KindActor
}

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// IndexedKinds lists the kinds with a search index, in reindex order.
func IndexedKinds() []Kind {
	return []Kind{KindMovie, KindActor}
}
