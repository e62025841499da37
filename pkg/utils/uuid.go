package utils

import "github.com/google/uuid"

// GenerateUUID returns a random RFC 4122 v4 identifier.
func GenerateUUID() string {
	return uuid.NewString()
}
