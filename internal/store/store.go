package store

import "context"

// Store finds records of a resource type with their relations loaded
type Store interface {
	// Find returns the record whose formatted key equals id
	Find(ctx context.Context, typeName, id string, includes []string) (*Record, error)
	// List returns a window of records matching the query's conditions
	List(ctx context.Context, typeName string, q Query) ([]*Record, error)
	// Count returns the number of records matching the conditions
	Count(ctx context.Context, typeName string, where ...Condition) (int, error)
}

// Condition is an equality filter on a column
type Condition struct {
	Column string
	Value  any
}

// Query selects a window of records
type Query struct {
	Where    []Condition
	Offset   int
	Limit    int // 0 means no limit
	Includes []string
}
