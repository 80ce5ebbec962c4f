package resource

// Resource wraps one Entity with its Descriptor. Derived values are
// memoized for the lifetime of the wrapper, which is one document.
type Resource struct {
	entity   Entity
	desc     *Descriptor
	includes []string

	typeName  string
	relations []Relationship
	resolved  bool
}

// New wraps an entity
func New(desc *Descriptor, e Entity) *Resource {
	return &Resource{entity: e, desc: desc}
}

// Include sets the include paths requested for this resource
func (r *Resource) Include(paths ...string) *Resource {
	r.includes = paths
	return r
}

// Includes returns the requested include paths
func (r *Resource) Includes() []string {
	return r.includes
}

// Entity returns the wrapped entity
func (r *Resource) Entity() Entity {
	return r.entity
}

// Descriptor returns the resource's descriptor
func (r *Resource) Descriptor() *Descriptor {
	return r.desc
}

// ID returns the resource id
func (r *Resource) ID() string {
	return FormatKey(r.entity.Key())
}

// Type returns the resource type
func (r *Resource) Type() string {
	if r.typeName == "" {
		if r.desc.Type != "" {
			r.typeName = r.desc.Type
		} else {
			r.typeName = r.entity.TypeName()
		}
	}
	return r.typeName
}

// Identifier returns the resource identifier object
func (r *Resource) Identifier() Identifier {
	return Identifier{ID: r.ID(), Type: r.Type()}
}

// RouteParam returns the route parameter bound to this resource's own id
func (r *Resource) RouteParam() string {
	if r.desc.RouteParam != "" {
		return r.desc.RouteParam
	}
	return r.Type()
}

// Node returns the resource as a tagged node
func (r *Resource) Node() Node {
	return Node{kind: KindOne, one: r}
}

// Sequence wraps an ordered list of entities that share one item
// Descriptor, optionally as a paginated window.
type Sequence struct {
	desc     *Descriptor
	items    []*Resource
	page     PageSource
	includes []string
}

// Collection wraps entities with the item descriptor
func Collection(desc *Descriptor, entities []Entity) *Sequence {
	items := make([]*Resource, len(entities))
	for i, e := range entities {
		items[i] = New(desc, e)
	}
	return &Sequence{desc: desc, items: items}
}

// Paginate wraps one page of entities
func Paginate(desc *Descriptor, entities []Entity, page PageSource) *Sequence {
	s := Collection(desc, entities)
	s.page = page
	return s
}

// sequenceOf builds a sequence from already wrapped resources so that
// their memoized relations are reused.
func sequenceOf(desc *Descriptor, items []*Resource) *Sequence {
	return &Sequence{desc: desc, items: items}
}

// Include sets the include paths requested for every item
func (s *Sequence) Include(paths ...string) *Sequence {
	s.includes = paths
	return s
}

// Includes returns the requested include paths
func (s *Sequence) Includes() []string {
	return s.includes
}

// Descriptor returns the item descriptor
func (s *Sequence) Descriptor() *Descriptor {
	return s.desc
}

// Items returns the wrapped items in order
func (s *Sequence) Items() []*Resource {
	return s.items
}

// Len returns the number of items
func (s *Sequence) Len() int {
	return len(s.items)
}

// Page returns the pagination source, or nil
func (s *Sequence) Page() PageSource {
	return s.page
}

// Paginated reports whether the sequence is a paginated window
func (s *Sequence) Paginated() bool {
	return s.page != nil
}

// Node returns the sequence as a tagged node
func (s *Sequence) Node() Node {
	return Node{kind: KindMany, many: s}
}

// Kind tags the value held by a Node
type Kind int

const (
	// KindNull is an absent resource
	KindNull Kind = iota
	// KindOne is a single Resource
	KindOne
	// KindMany is a Sequence
	KindMany
)

// Node is either nothing, a Resource or a Sequence.
type Node struct {
	kind Kind
	one  *Resource
	many *Sequence
}

// Null returns an empty node
func Null() Node {
	return Node{}
}

// Kind returns the node kind
func (n Node) Kind() Kind {
	return n.kind
}

// Resource returns the resource of a KindOne node
func (n Node) Resource() *Resource {
	return n.one
}

// Sequence returns the sequence of a KindMany node
func (n Node) Sequence() *Sequence {
	return n.many
}

// Resources flattens the node: nothing, the resource itself, or every item
func (n Node) Resources() []*Resource {
	switch n.kind {
	case KindOne:
		return []*Resource{n.one}
	case KindMany:
		return n.many.items
	default:
		return nil
	}
}
