package catalog

import (
	"time"

	"github.com/starlet/starlet/internal/domain"
)

// Collection is a user-curated list of movies.
type Collection struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	OwnerID   *int64    `json:"owner_id,omitempty"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Movies []Movie `json:"movies,omitempty"`
}

// RecordKind implements Record.
func (c *Collection) RecordKind() domain.Kind { return domain.KindCollection }

// RecordID implements Record.
func (c *Collection) RecordID() int64 { return c.ID }
