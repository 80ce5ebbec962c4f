// Package store loads records and their relations from SQL databases or
// YAML fixtures, ready to be serialized as JSON:API resources.
package store

import (
	"fmt"
	"strings"
)

// RelationType defines the type of relationship
type RelationType int

const (
	// BelongsTo holds the foreign key on the owner (post.author_id)
	BelongsTo RelationType = iota
	// HasOne holds the foreign key on the single target (profile.user_id)
	HasOne
	// HasMany holds the foreign key on every target (comment.post_id)
	HasMany
)

// String returns the string representation of RelationType
func (t RelationType) String() string {
	switch t {
	case BelongsTo:
		return "belongs_to"
	case HasOne:
		return "has_one"
	case HasMany:
		return "has_many"
	default:
		return "unknown"
	}
}

// ParseRelationType parses "belongs_to", "has_one" or "has_many"
func ParseRelationType(s string) (RelationType, error) {
	switch strings.ToLower(s) {
	case "belongs_to":
		return BelongsTo, nil
	case "has_one":
		return HasOne, nil
	case "has_many":
		return HasMany, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRelationType, s)
	}
}

// Relationship describes how a relation is stored
type Relationship struct {
	Name       string       // relation name (e.g., "author")
	Type       RelationType // belongs_to, has_one or has_many
	Target     string       // target resource type (e.g., "users")
	ForeignKey string       // foreign key column (e.g., "author_id")
	OrderBy    string       // optional ORDER BY for has_one/has_many
}

// Schema describes the table behind a resource type
type Schema struct {
	Type          string
	Table         string
	PrimaryKey    []string
	relationships []*Relationship
}

// NewSchema creates a schema whose table is named like the type, keyed by "id"
func NewSchema(typeName string) *Schema {
	return &Schema{
		Type:       typeName,
		Table:      typeName,
		PrimaryKey: []string{"id"},
	}
}

// WithTable sets the table name
func (s *Schema) WithTable(table string) *Schema {
	s.Table = table
	return s
}

// WithPrimaryKey sets the primary key columns
func (s *Schema) WithPrimaryKey(columns ...string) *Schema {
	s.PrimaryKey = columns
	return s
}

// BelongsTo adds a belongs-to relation. An empty foreign key defaults to
// "<name>_id".
func (s *Schema) BelongsTo(name, target, foreignKey string) *Schema {
	if foreignKey == "" {
		foreignKey = name + "_id"
	}
	return s.Relate(&Relationship{Name: name, Type: BelongsTo, Target: target, ForeignKey: foreignKey})
}

// HasOne adds a has-one relation
func (s *Schema) HasOne(name, target, foreignKey string) *Schema {
	return s.Relate(&Relationship{Name: name, Type: HasOne, Target: target, ForeignKey: foreignKey})
}

// HasMany adds a has-many relation
func (s *Schema) HasMany(name, target, foreignKey, orderBy string) *Schema {
	return s.Relate(&Relationship{Name: name, Type: HasMany, Target: target, ForeignKey: foreignKey, OrderBy: orderBy})
}

// Relate adds a relation, replacing one with the same name
func (s *Schema) Relate(rel *Relationship) *Schema {
	for i, existing := range s.relationships {
		if existing.Name == rel.Name {
			s.relationships[i] = rel
			return s
		}
	}
	s.relationships = append(s.relationships, rel)
	return s
}

// Relationships returns the relations in declaration order
func (s *Schema) Relationships() []*Relationship {
	return s.relationships
}

// Relationship returns a relation by name
func (s *Schema) Relationship(name string) (*Relationship, bool) {
	for _, rel := range s.relationships {
		if rel.Name == name {
			return rel, true
		}
	}
	return nil, false
}

// keyColumn returns the single primary key column used by joins
func (s *Schema) keyColumn() (string, error) {
	if len(s.PrimaryKey) != 1 {
		return "", fmt.Errorf("%w: %s", ErrCompositeKey, s.Type)
	}
	return s.PrimaryKey[0], nil
}
