package resource

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MediaType is the JSON:API media type
const MediaType = "application/vnd.api+json"

// Identifier is a resource identifier object
type Identifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Object is a resource object
type Object struct {
	ID            string                                             `json:"id"`
	Type          string                                             `json:"type"`
	Attributes    *orderedmap.OrderedMap[string, any]                `json:"attributes"`
	Relationships *orderedmap.OrderedMap[string, RelationshipObject] `json:"relationships,omitempty"`
}

// Identifier returns the object's identifier
func (o *Object) Identifier() Identifier {
	return Identifier{ID: o.ID, Type: o.Type}
}

// RelationshipObject is one entry of a resource's relationships
type RelationshipObject struct {
	Data  Linkage            `json:"data"`
	Links *RelationshipLinks `json:"links,omitempty"`
}

// RelationshipLinks holds the related link of a relationship
type RelationshipLinks struct {
	Related string `json:"related"`
}

// Linkage is the data of a relationship: null, one identifier or a list
type Linkage struct {
	kind Kind
	one  Identifier
	many []Identifier
}

// LinkageOf builds the linkage of a resolved relation
func LinkageOf(n Node) Linkage {
	switch n.Kind() {
	case KindOne:
		return Linkage{kind: KindOne, one: n.Resource().Identifier()}
	case KindMany:
		ids := make([]Identifier, 0, n.Sequence().Len())
		for _, item := range n.Sequence().Items() {
			ids = append(ids, item.Identifier())
		}
		return Linkage{kind: KindMany, many: ids}
	default:
		return Linkage{}
	}
}

// Kind returns the linkage kind
func (l Linkage) Kind() Kind {
	return l.kind
}

// One returns the identifier of a to-one linkage
func (l Linkage) One() Identifier {
	return l.one
}

// Many returns the identifiers of a to-many linkage
func (l Linkage) Many() []Identifier {
	return l.many
}

// MarshalJSON implements json.Marshaler
func (l Linkage) MarshalJSON() ([]byte, error) {
	switch l.kind {
	case KindOne:
		return json.Marshal(l.one)
	case KindMany:
		if l.many == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(l.many)
	default:
		return []byte("null"), nil
	}
}

// Links holds top-level document links. Only self is written unless the
// links describe a page, in which case prev and next are written as null
// at the boundaries.
type Links struct {
	Self  string
	First string
	Prev  *string
	Next  *string
	Last  string

	paginated bool
}

// Paginated reports whether the links describe a page
func (l *Links) Paginated() bool {
	return l.paginated
}

// MarshalJSON implements json.Marshaler
func (l *Links) MarshalJSON() ([]byte, error) {
	if !l.paginated {
		return json.Marshal(struct {
			Self string `json:"self"`
		}{Self: l.Self})
	}
	return json.Marshal(struct {
		Self  string  `json:"self"`
		First string  `json:"first"`
		Prev  *string `json:"prev"`
		Next  *string `json:"next"`
		Last  string  `json:"last"`
	}{
		Self:  l.Self,
		First: l.First,
		Prev:  l.Prev,
		Next:  l.Next,
		Last:  l.Last,
	})
}

// PrimaryData is the top-level data member: null, one object or a list
type PrimaryData struct {
	kind Kind
	one  *Object
	many []*Object
}

// Kind returns the primary data kind
func (p PrimaryData) Kind() Kind {
	return p.kind
}

// One returns the object of single-resource data
func (p PrimaryData) One() *Object {
	return p.one
}

// Many returns the objects of collection data
func (p PrimaryData) Many() []*Object {
	return p.many
}

// MarshalJSON implements json.Marshaler
func (p PrimaryData) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case KindOne:
		return json.Marshal(p.one)
	case KindMany:
		if p.many == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(p.many)
	default:
		return []byte("null"), nil
	}
}

// Document is a top-level JSON:API document
type Document struct {
	Data     PrimaryData `json:"data"`
	Included []*Object   `json:"included,omitempty"`
	Links    *Links      `json:"links,omitempty"`
	Meta     *PageMeta   `json:"meta,omitempty"`
}
