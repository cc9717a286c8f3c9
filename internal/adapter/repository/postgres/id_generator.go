package postgres

import (
	"github.com/google/uuid"
)

// UUIDGenerator generates random 128-bit wallet IDs. Collision probability is
// negligible, so simultaneous creations are not special-cased.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUIDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate generates a new UUIDv4 string.
func (g *UUIDGenerator) Generate() string {
	return uuid.NewString()
}
