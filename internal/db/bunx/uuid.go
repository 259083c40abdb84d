package bunx

import "github.com/google/uuid"

// NewID generates a time-ordered UUIDv7 for primary keys. Insert order and key
// order agree, which keeps B-tree indexes compact on both dialects.
//
// It panics only if the entropy source fails.
func NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}
