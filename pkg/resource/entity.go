// Package resource serializes domain entities into JSON:API documents.
//
// A Descriptor declares how one kind of entity is exposed: its attributes,
// attribute renames and overrides, the relations that may be linked or
// included, and the named route used for links. A Resource wraps a single
// Entity with its Descriptor and a Sequence wraps an ordered list of them.
// The Serializer turns either into a Document with a deduplicated
// "included" section and, when a route is configured, self and pagination
// links.
//
// Entities are supplied by the caller with their relations already loaded;
// nothing in this package performs I/O.
package resource

// Entity is a read-only record supplied by the entity store.
type Entity interface {
	// Key returns the primary key. Composite keys are returned as a slice.
	Key() any
	// TypeName returns a stable type discriminator, usually the table name.
	TypeName() string
	// Field returns the raw value of a field and whether the entity has it.
	Field(name string) (any, bool)
	// Relation returns an already loaded relation.
	Relation(name string) Relation
}

// RelationKind tells whether a loaded relation is absent, a single entity
// or a sequence of entities.
type RelationKind int

const (
	// RelationAbsent is a relation that is not loaded or is null
	RelationAbsent RelationKind = iota
	// RelationOne is a to-one relation
	RelationOne
	// RelationMany is a to-many relation
	RelationMany
)

// String returns the string representation of RelationKind
func (k RelationKind) String() string {
	switch k {
	case RelationAbsent:
		return "absent"
	case RelationOne:
		return "one"
	case RelationMany:
		return "many"
	default:
		return "unknown"
	}
}

// Relation is the value of a named relation on an Entity.
type Relation struct {
	kind RelationKind
	one  Entity
	many []Entity
}

// NoRelation is returned for relations that are missing or null.
var NoRelation = Relation{}

// One returns a to-one relation. A nil entity yields NoRelation.
func One(e Entity) Relation {
	if e == nil {
		return NoRelation
	}
	return Relation{kind: RelationOne, one: e}
}

// Many returns a to-many relation. An empty list is still a to-many
// relation and serializes as an empty linkage array.
func Many(entities ...Entity) Relation {
	return Relation{kind: RelationMany, many: entities}
}

// Kind returns the relation kind
func (r Relation) Kind() RelationKind {
	return r.kind
}

// Entity returns the related entity of a to-one relation
func (r Relation) Entity() Entity {
	return r.one
}

// Entities returns the related entities of a to-many relation
func (r Relation) Entities() []Entity {
	return r.many
}
