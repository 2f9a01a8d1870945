package redis

import (
	"time"

	"github.com/redis/rueidis"
)

// NewStoreForTest creates a Store with the provided rueidis client (test-only).
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c, timeout: DefaultTimeout}
}

// NewStoreWithClient wraps an existing client, e.g. one shared with another store.
func NewStoreWithClient(c rueidis.Client, timeout time.Duration) *Store {
	return &Store{client: c, timeout: timeoutOrDefault(timeout)}
}
