package resource

import "fmt"

// AttributeFunc overrides the raw value of one attribute before it is
// formatted and written to the document.
type AttributeFunc func(value any) any

// Descriptor declares how one kind of entity is exposed. Build it once at
// configuration time and share it between all resources of that kind.
type Descriptor struct {
	// Type overrides the entity's TypeName as the resource type
	Type string
	// Attributes lists the exposed fields, in output order
	Attributes []string
	// Rename maps a field name to the attribute key used in the document
	Rename map[string]string
	// Overrides maps a field name to a function applied to its raw value
	Overrides map[string]AttributeFunc
	// Route is the named route for the resource's own self link
	Route string
	// RouteParam is the route parameter bound to the resource's own id.
	// Defaults to the resource type.
	RouteParam string

	relations []relationDef
	index     map[string]int
}

type relationDef struct {
	name   string
	target *Descriptor
}

// Define creates a descriptor exposing the given attributes
func Define(attributes ...string) *Descriptor {
	return &Descriptor{
		Attributes: attributes,
		Rename:     make(map[string]string),
		Overrides:  make(map[string]AttributeFunc),
		index:      make(map[string]int),
	}
}

// As sets an explicit resource type
func (d *Descriptor) As(typeName string) *Descriptor {
	d.Type = typeName
	return d
}

// RenameAttribute exposes field under a different attribute key
func (d *Descriptor) RenameAttribute(field, key string) *Descriptor {
	if d.Rename == nil {
		d.Rename = make(map[string]string)
	}
	d.Rename[field] = key
	return d
}

// Override registers a function applied to the raw value of field
func (d *Descriptor) Override(field string, fn AttributeFunc) *Descriptor {
	if d.Overrides == nil {
		d.Overrides = make(map[string]AttributeFunc)
	}
	d.Overrides[field] = fn
	return d
}

// WithRoute sets the named route used for self and related links
func (d *Descriptor) WithRoute(route string) *Descriptor {
	d.Route = route
	return d
}

// WithRouteParam sets the route parameter bound to the resource's own id
func (d *Descriptor) WithRouteParam(param string) *Descriptor {
	d.RouteParam = param
	return d
}

// Relate declares a relation and the descriptor used for its targets.
// Declaring the same name twice replaces the target but keeps the
// original position. Relate panics on a nil target: relations are linked
// at configuration time and a nil target is a programming error.
func (d *Descriptor) Relate(name string, target *Descriptor) *Descriptor {
	if target == nil {
		panic(fmt.Sprintf("resource: nil target descriptor for relation %q", name))
	}
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[name]; ok {
		d.relations[i].target = target
		return d
	}
	d.index[name] = len(d.relations)
	d.relations = append(d.relations, relationDef{name: name, target: target})
	return d
}

// Relations returns the declared relation names in declaration order
func (d *Descriptor) Relations() []string {
	names := make([]string, len(d.relations))
	for i, rel := range d.relations {
		names[i] = rel.name
	}
	return names
}

// HasRelations reports whether any relation is declared
func (d *Descriptor) HasRelations() bool {
	return len(d.relations) > 0
}

// Target returns the descriptor declared for a relation
func (d *Descriptor) Target(name string) (*Descriptor, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.relations[i].target, true
}

func (d *Descriptor) attributeKey(field string) string {
	if key, ok := d.Rename[field]; ok {
		return key
	}
	return field
}
