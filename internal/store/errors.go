package store

import "errors"

var (
	// ErrNotFound is returned when no record matches a key
	ErrNotFound = errors.New("record not found")

	// ErrUnknownType is returned for a resource type without a schema
	ErrUnknownType = errors.New("unknown resource type")

	// ErrMaxDepthExceeded is returned when an include path is nested too deeply
	ErrMaxDepthExceeded = errors.New("maximum relationship depth exceeded")

	// ErrInvalidRelationType is returned when an invalid relationship type is encountered
	ErrInvalidRelationType = errors.New("invalid relationship type")

	// ErrCompositeKey is returned when a relationship joins on a composite primary key
	ErrCompositeKey = errors.New("relationships require a single column primary key")

	// ErrInvalidQuery is returned for a query window that cannot be applied
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidFixture is returned for malformed fixture documents
	ErrInvalidFixture = errors.New("invalid fixture")
)
