package store

import (
	"github.com/conduit-lang/jsonres/pkg/resource"
)

// Record is a loaded row together with the relations loaded for it.
// It implements resource.Entity.
type Record struct {
	schema    *Schema
	fields    map[string]any
	relations map[string]resource.Relation
}

// NewRecord creates a record for a schema
func NewRecord(schema *Schema, fields map[string]any) *Record {
	if fields == nil {
		fields = make(map[string]any)
	}
	return &Record{
		schema:    schema,
		fields:    fields,
		relations: make(map[string]resource.Relation),
	}
}

// Key returns the primary key value; composite keys are returned as a
// slice in column order
func (r *Record) Key() any {
	if len(r.schema.PrimaryKey) == 1 {
		return r.fields[r.schema.PrimaryKey[0]]
	}
	parts := make([]any, len(r.schema.PrimaryKey))
	for i, column := range r.schema.PrimaryKey {
		parts[i] = r.fields[column]
	}
	return parts
}

// TypeName returns the schema's resource type
func (r *Record) TypeName() string {
	return r.schema.Type
}

// Field returns a column value
func (r *Record) Field(name string) (any, bool) {
	value, ok := r.fields[name]
	return value, ok
}

// Relation returns a loaded relation, or resource.NoRelation when it was
// not loaded
func (r *Record) Relation(name string) resource.Relation {
	if rel, ok := r.relations[name]; ok {
		return rel
	}
	return resource.NoRelation
}

// SetRelation stores a loaded relation
func (r *Record) SetRelation(name string, rel resource.Relation) {
	r.relations[name] = rel
}

// Loaded reports whether a relation has been loaded
func (r *Record) Loaded(name string) bool {
	_, ok := r.relations[name]
	return ok
}

// Schema returns the record's schema
func (r *Record) Schema() *Schema {
	return r.schema
}

// Entities converts records for resource.Collection
func Entities(records []*Record) []resource.Entity {
	entities := make([]resource.Entity, len(records))
	for i, r := range records {
		entities[i] = r
	}
	return entities
}
