package moderation

import (
	"errors"
	"strings"
)

var (
	// ErrValidation is wrapped by every *ValidationError
	ErrValidation = errors.New("moderation: validation failed")
	// ErrUnknownEntity is returned when an entity type string names no collection
	ErrUnknownEntity = errors.New("moderation: unknown entity type")
)

// ValidationError lists the add-company fields that were missing.
// Field names use the form/JSON names (registrationNumber, name, ...).
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "moderation: missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ParseEntityType converts a raw entity label into an EntityType
func ParseEntityType(s string) (EntityType, error) {
	e := EntityType(strings.TrimSpace(s))
	if !e.Valid() {
		return "", ErrUnknownEntity
	}
	return e, nil
}
