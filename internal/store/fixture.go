package store

import (
	"context"
	"fmt"
	"os"

	"github.com/conduit-lang/jsonres/pkg/resource"
	"gopkg.in/yaml.v3"
)

// Fixture is a read-only Store held in memory. Its YAML document maps
// resource types to record lists; relations are given by key:
//
//	posts:
//	  - id: 1
//	    title: Hello
//	    author: 7         # belongs_to
//	    comments: [3, 4]  # has_many
//
// Relations left out are derived from foreign key fields instead. Every
// relation is linked up front, so includes need no further loading.
type Fixture struct {
	schemas map[string]*Schema
	records map[string][]*Record
	index   map[string]map[string]*Record
}

// LoadFixture reads a fixture file
func LoadFixture(path string, schemas []*Schema) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	return ParseFixture(data, schemas)
}

// ParseFixture decodes a fixture document and links its relations
func ParseFixture(data []byte, schemas []*Schema) (*Fixture, error) {
	var doc map[string][]map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFixture, err)
	}

	f := &Fixture{
		schemas: make(map[string]*Schema, len(schemas)),
		records: make(map[string][]*Record),
		index:   make(map[string]map[string]*Record),
	}
	for _, s := range schemas {
		f.schemas[s.Type] = s
		f.index[s.Type] = make(map[string]*Record)
	}

	refs := make(map[*Record]map[string]any)
	for typeName, rows := range doc {
		s, ok := f.schemas[typeName]
		if !ok {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvalidFixture, ErrUnknownType, typeName)
		}
		for _, row := range rows {
			fields := make(map[string]any, len(row))
			relationRefs := make(map[string]any)
			for name, value := range row {
				if _, isRelation := s.Relationship(name); isRelation {
					relationRefs[name] = value
					continue
				}
				fields[name] = value
			}

			r := NewRecord(s, fields)
			key := resource.FormatKey(r.Key())
			if _, dup := f.index[typeName][key]; dup {
				return nil, fmt.Errorf("%w: duplicate %s %s", ErrInvalidFixture, typeName, key)
			}
			f.index[typeName][key] = r
			f.records[typeName] = append(f.records[typeName], r)
			refs[r] = relationRefs
		}
	}

	// belongs_to links fill in foreign keys that children lookups read
	for _, pass := range []func(RelationType) bool{
		func(t RelationType) bool { return t == BelongsTo },
		func(t RelationType) bool { return t != BelongsTo },
	} {
		for _, s := range schemas {
			for _, r := range f.records[s.Type] {
				for _, rel := range s.Relationships() {
					if !pass(rel.Type) {
						continue
					}
					if err := f.link(r, rel, refs[r]); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	return f, nil
}

func (f *Fixture) link(r *Record, rel *Relationship, refs map[string]any) error {
	ref, given := refs[rel.Name]

	switch rel.Type {
	case BelongsTo:
		if !given {
			ref = r.fields[rel.ForeignKey]
		}
		if ref == nil {
			r.SetRelation(rel.Name, resource.NoRelation)
			return nil
		}
		target, err := f.lookup(rel.Target, ref)
		if err != nil {
			return err
		}
		r.fields[rel.ForeignKey] = target.Key()
		r.SetRelation(rel.Name, resource.One(target))

	case HasOne:
		if given {
			if ref == nil {
				r.SetRelation(rel.Name, resource.NoRelation)
				return nil
			}
			target, err := f.lookup(rel.Target, ref)
			if err != nil {
				return err
			}
			r.SetRelation(rel.Name, resource.One(target))
			return nil
		}
		children := f.childrenOf(r, rel)
		if len(children) == 0 {
			r.SetRelation(rel.Name, resource.NoRelation)
			return nil
		}
		r.SetRelation(rel.Name, resource.One(children[0]))

	case HasMany:
		if !given {
			r.SetRelation(rel.Name, resource.Many(Entities(f.childrenOf(r, rel))...))
			return nil
		}
		list, ok := ref.([]any)
		if !ok && ref != nil {
			return fmt.Errorf("%w: %s.%s must be a list", ErrInvalidFixture, r.schema.Type, rel.Name)
		}
		targets := make([]*Record, 0, len(list))
		for _, item := range list {
			target, err := f.lookup(rel.Target, item)
			if err != nil {
				return err
			}
			targets = append(targets, target)
		}
		r.SetRelation(rel.Name, resource.Many(Entities(targets)...))

	default:
		return fmt.Errorf("%w: %s", ErrInvalidRelationType, rel.Type)
	}

	return nil
}

func (f *Fixture) lookup(typeName string, ref any) (*Record, error) {
	target, ok := f.index[typeName][resource.FormatKey(ref)]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s is referenced but not defined", ErrInvalidFixture, typeName, resource.FormatKey(ref))
	}
	return target, nil
}

func (f *Fixture) childrenOf(r *Record, rel *Relationship) []*Record {
	key := resource.FormatKey(r.Key())
	var children []*Record
	for _, candidate := range f.records[rel.Target] {
		if value, ok := candidate.fields[rel.ForeignKey]; ok && resource.FormatKey(value) == key {
			children = append(children, candidate)
		}
	}
	return children
}

// Find implements Store. Includes are ignored since relations are
// always linked.
func (f *Fixture) Find(_ context.Context, typeName, id string, _ []string) (*Record, error) {
	records, ok := f.index[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}
	r, ok := records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, typeName, id)
	}
	return r, nil
}

// List implements Store, keeping the document's order
func (f *Fixture) List(_ context.Context, typeName string, q Query) ([]*Record, error) {
	matched, err := f.match(typeName, q.Where)
	if err != nil {
		return nil, err
	}

	if q.Offset < 0 {
		return nil, fmt.Errorf("%w: offset %d", ErrInvalidQuery, q.Offset)
	}
	if q.Offset >= len(matched) {
		return []*Record{}, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Count implements Store
func (f *Fixture) Count(_ context.Context, typeName string, where ...Condition) (int, error) {
	matched, err := f.match(typeName, where)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (f *Fixture) match(typeName string, where []Condition) ([]*Record, error) {
	if _, ok := f.schemas[typeName]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}

	matched := make([]*Record, 0, len(f.records[typeName]))
	for _, r := range f.records[typeName] {
		if matches(r, where) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func matches(r *Record, where []Condition) bool {
	for _, cond := range where {
		value, ok := r.fields[cond.Column]
		if !ok || resource.FormatKey(value) != resource.FormatKey(cond.Value) {
			return false
		}
	}
	return true
}
