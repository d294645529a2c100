package core

import "github.com/google/uuid"

// NewIdentifier returns a random identifier used to tag runs and GPU-side
// resources in logs.
func NewIdentifier() string {
	return uuid.NewString()
}

// ShortIdentifier trims an identifier to its first group for compact logs.
func ShortIdentifier(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}
