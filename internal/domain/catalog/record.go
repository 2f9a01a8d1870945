// Package catalog holds the records owned by the relational store:
// movies, people, genres and user collections.
package catalog

import "github.com/starlet/starlet/internal/domain"

// Record is anything the store persists under a stable numeric identity.
type Record interface {
	RecordKind() domain.Kind
	RecordID() int64
}

// Compile-time checks.
var (
	_ Record = (*Movie)(nil)
	_ Record = (*Person)(nil)
	_ Record = (*Genre)(nil)
	_ Record = (*Collection)(nil)
)
