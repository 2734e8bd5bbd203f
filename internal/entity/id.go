package entity

import "github.com/google/uuid"

// ID identifies an entity owned by the host world.
type ID = uuid.UUID

// None is the zero ID; no entity ever carries it.
var None = uuid.Nil

// New returns a fresh random entity ID.
func New() ID {
	return uuid.New()
}

// Parse converts the string form of an ID back into an ID.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}
