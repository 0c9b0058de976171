// Package traverse provides member identity and the recursive search and
// rebuild primitives the tree operations are composed from. No function in
// this package modifies a member it is given.
package traverse

import "github.com/google/uuid"

// NewID returns a fresh member ID. IDs are UUID v7: a millisecond timestamp
// followed by random bits, so collisions within a process are negligible and
// IDs minted later sort later.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
