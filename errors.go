package cohort

import "errors"

var (
	// ErrEntityNotFound is returned when an entity ID is not in the store.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrCohortNotFound is returned when a cohort ID is not in the store.
	ErrCohortNotFound = errors.New("cohort not found")

	// ErrDuplicateEntity is returned when two entities with the same ID are loaded.
	ErrDuplicateEntity = errors.New("duplicate entity")

	// ErrMalformedPredicate is returned when a predicate specification, such as
	// an age interval, cannot be parsed.
	ErrMalformedPredicate = errors.New("malformed predicate")

	// ErrUnrecognizedField is returned when a rule refers to a field that is not
	// part of the entity schema. Unknown fields are never skipped.
	ErrUnrecognizedField = errors.New("unrecognized field")

	// ErrMalformedRule is returned when rule text cannot be split into key:value
	// tokens, or has no cohort token.
	ErrMalformedRule = errors.New("malformed rule")

	// ErrMalformedEntity is returned when an entity value cannot be evaluated,
	// for example an email address without an @.
	ErrMalformedEntity = errors.New("malformed entity")
)
