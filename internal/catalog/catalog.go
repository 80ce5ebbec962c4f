// Package catalog turns the configured resources into serializer
// descriptors, store schemas and route definitions that agree with each
// other.
package catalog

import (
	"errors"
	"fmt"

	"github.com/conduit-lang/jsonres/internal/cli/config"
	"github.com/conduit-lang/jsonres/internal/store"
	"github.com/conduit-lang/jsonres/internal/web/router"
	"github.com/conduit-lang/jsonres/pkg/resource"
)

var (
	// ErrUnknownTarget is returned when a relationship names an undeclared resource
	ErrUnknownTarget = errors.New("unknown relationship target")

	// ErrInvalidRelationship is returned for incomplete relationship declarations
	ErrInvalidRelationship = errors.New("invalid relationship")
)

// Resource is one configured resource type
type Resource struct {
	Config     config.ResourceConfig
	Definition *router.ResourceDefinition
	Descriptor *resource.Descriptor
	Schema     *store.Schema
}

// Type returns the JSON:API type
func (r *Resource) Type() string {
	return r.Definition.PluralName
}

// Nested is a collection of children scoped to one parent, served at
// /<parents>/{param}/<children>
type Nested struct {
	Parent *Resource
	Child  *Resource
	// Param is the child's belongs_to relation pointing back at the parent
	Param      string
	ForeignKey string
}

// RouteName returns the nested route's name
func (n *Nested) RouteName() string {
	return n.Parent.Type() + "." + n.Child.Type()
}

// Catalog holds every configured resource
type Catalog struct {
	resources []*Resource
	byName    map[string]*Resource
	byType    map[string]*Resource
	nested    []*Nested
}

// New builds a catalog. Relationship targets are linked here, so an
// unknown target is a configuration error rather than a render error.
func New(configs []config.ResourceConfig) (*Catalog, error) {
	c := &Catalog{
		byName: make(map[string]*Resource, len(configs)),
		byType: make(map[string]*Resource, len(configs)),
	}

	for _, cfg := range configs {
		res := newResource(cfg)
		if _, dup := c.byType[res.Type()]; dup {
			return nil, fmt.Errorf("resource type %s is declared twice", res.Type())
		}
		c.resources = append(c.resources, res)
		c.byName[cfg.Name] = res
		c.byType[res.Type()] = res
	}

	for _, res := range c.resources {
		for _, rel := range res.Config.Relationships {
			if err := c.relate(res, rel); err != nil {
				return nil, fmt.Errorf("resource %s: %w", res.Config.Name, err)
			}
		}
	}

	return c, nil
}

func newResource(cfg config.ResourceConfig) *Resource {
	def := router.NewResourceDefinition(cfg.Name)
	if cfg.Type != "" {
		def.PluralName = cfg.Type
		def.BasePath = "/" + cfg.Type
	}

	desc := resource.Define(cfg.Attributes...).
		As(def.PluralName).
		WithRoute(def.ShowRoute()).
		WithRouteParam(def.IDParamName)
	for field, key := range cfg.Rename {
		desc.RenameAttribute(field, key)
	}

	schema := store.NewSchema(def.PluralName)
	if cfg.Table != "" {
		schema.WithTable(cfg.Table)
	}
	if len(cfg.PrimaryKey) > 0 {
		schema.WithPrimaryKey(cfg.PrimaryKey...)
	}

	return &Resource{
		Config:     cfg,
		Definition: def,
		Descriptor: desc,
		Schema:     schema,
	}
}

func (c *Catalog) relate(owner *Resource, cfg config.RelationshipConfig) error {
	target, ok := c.resolve(cfg.Target)
	if !ok {
		return fmt.Errorf("%w: %s.%s -> %s", ErrUnknownTarget, owner.Type(), cfg.Name, cfg.Target)
	}

	kind, err := store.ParseRelationType(cfg.Kind)
	if err != nil {
		return fmt.Errorf("%w: %s.%s: %w", ErrInvalidRelationship, owner.Type(), cfg.Name, err)
	}

	foreignKey := cfg.ForeignKey
	switch kind {
	case store.BelongsTo:
		if foreignKey == "" {
			foreignKey = cfg.Name + "_id"
		}
	default:
		if foreignKey == "" {
			return fmt.Errorf("%w: %s.%s needs a foreign_key", ErrInvalidRelationship, owner.Type(), cfg.Name)
		}
	}

	owner.Descriptor.Relate(cfg.Name, target.Descriptor)
	owner.Schema.Relate(&store.Relationship{
		Name:       cfg.Name,
		Type:       kind,
		Target:     target.Type(),
		ForeignKey: foreignKey,
		OrderBy:    cfg.OrderBy,
	})

	if !cfg.Route {
		return nil
	}
	if kind != store.HasMany {
		return fmt.Errorf("%w: %s.%s: only has_many relationships can be routed", ErrInvalidRelationship, owner.Type(), cfg.Name)
	}

	param, ok := c.inverse(owner, target, foreignKey)
	if !ok {
		return fmt.Errorf("%w: %s.%s: %s has no belongs_to relationship on %s to bind the route",
			ErrInvalidRelationship, owner.Type(), cfg.Name, target.Type(), foreignKey)
	}
	c.nested = append(c.nested, &Nested{
		Parent:     owner,
		Child:      target,
		Param:      param,
		ForeignKey: foreignKey,
	})
	return nil
}

// inverse finds the child's belongs_to relation that stores parent keys
// in foreignKey
func (c *Catalog) inverse(parent, child *Resource, foreignKey string) (string, bool) {
	for _, rel := range child.Config.Relationships {
		if kind, err := store.ParseRelationType(rel.Kind); err != nil || kind != store.BelongsTo {
			continue
		}
		if target, ok := c.resolve(rel.Target); !ok || target != parent {
			continue
		}
		fk := rel.ForeignKey
		if fk == "" {
			fk = rel.Name + "_id"
		}
		if fk == foreignKey {
			return rel.Name, true
		}
	}
	return "", false
}

// resolve finds a resource by configured name or by type
func (c *Catalog) resolve(name string) (*Resource, bool) {
	if res, ok := c.byName[name]; ok {
		return res, true
	}
	res, ok := c.byType[name]
	return res, ok
}

// Resources returns the resources in configuration order
func (c *Catalog) Resources() []*Resource {
	return c.resources
}

// Lookup finds a resource by JSON:API type or configured name
func (c *Catalog) Lookup(name string) (*Resource, bool) {
	return c.resolve(name)
}

// Nested returns the routed has_many relationships
func (c *Catalog) Nested() []*Nested {
	return c.nested
}

// Schemas returns the store schemas of every resource
func (c *Catalog) Schemas() []*store.Schema {
	schemas := make([]*store.Schema, len(c.resources))
	for i, res := range c.resources {
		schemas[i] = res.Schema
	}
	return schemas
}
