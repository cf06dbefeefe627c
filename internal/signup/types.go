package signup

import (
	"time"

	"github.com/google/uuid"
)

// List is a mailing list. Lists pre-exist in the database and are read-only
// from this service's perspective.
type List struct {
	ID string
}

// Signup is one mailing-list membership row.
type Signup struct {
	ID        uuid.UUID
	ListID    string
	Email     string
	CreatedAt time.Time
}
