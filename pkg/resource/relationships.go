package resource

// Relationship is one resolved relation of a resource
type Relationship struct {
	Name string
	Node Node
}

// Relationships resolves every declared relation in declaration order.
// The entity is consulted once; later calls return the memoized result.
func (r *Resource) Relationships() []Relationship {
	if r.resolved {
		return r.relations
	}

	relations := make([]Relationship, len(r.desc.relations))
	for i, def := range r.desc.relations {
		relations[i] = Relationship{
			Name: def.name,
			Node: wrapRelation(r.entity.Relation(def.name), def.target),
		}
	}

	r.relations = relations
	r.resolved = true
	return relations
}

// Related returns the resolved relation with the given name. The boolean
// is false when the descriptor does not declare the relation.
func (r *Resource) Related(name string) (Node, bool) {
	i, ok := r.desc.index[name]
	if !ok {
		return Null(), false
	}
	return r.Relationships()[i].Node, true
}

func wrapRelation(rel Relation, target *Descriptor) Node {
	switch rel.Kind() {
	case RelationOne:
		return New(target, rel.Entity()).Node()
	case RelationMany:
		return Collection(target, rel.Entities()).Node()
	default:
		return Null()
	}
}
