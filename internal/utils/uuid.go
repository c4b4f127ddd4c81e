// Package utils provides general-purpose helper utilities used across
// different parts of the application: sync identifier generation and
// normalization, and content hashing.
package utils

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidSyncID is returned when a value cannot be normalized into the
// canonical sync identifier form.
var ErrInvalidSyncID = errors.New("invalid sync identifier")

type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a fresh sync identifier in canonical lowercase form.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// NormalizeSyncID validates value as a UUID and returns the single canonical
// textual representation used everywhere in the queue and on the wire:
// lowercase, dash-separated. Any value that does not parse as a UUID is
// rejected with [ErrInvalidSyncID].
func NormalizeSyncID(value string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", ErrInvalidSyncID
	}

	return strings.ToLower(parsed.String()), nil
}
