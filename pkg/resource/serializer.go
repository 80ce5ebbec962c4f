package resource

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
)

// Options configures one document
type Options struct {
	// Include lists include paths, merged with those set on the resource
	Include []string
	// Route is the named route of the document's self link. For a single
	// resource it defaults to the descriptor's route.
	Route string
}

// Serializer assembles documents. It holds no per-request state and may
// be shared between goroutines.
type Serializer struct {
	links  *LinkResolver
	logger *zap.Logger
}

// Option configures a Serializer
type Option func(*Serializer)

// WithLogger sets the serializer's logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Serializer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSerializer creates a serializer resolving links through routes
func NewSerializer(routes RouteRegistry, opts ...Option) *Serializer {
	s := &Serializer{
		links:  NewLinkResolver(routes),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Links returns the serializer's link resolver
func (s *Serializer) Links() *LinkResolver {
	return s.links
}

// ToDocument assembles the document for a resource, a sequence or nothing
func (s *Serializer) ToDocument(n Node, opts Options) (*Document, error) {
	switch n.Kind() {
	case KindOne:
		return s.single(n.Resource(), opts)
	case KindMany:
		return s.collection(n.Sequence(), opts)
	default:
		return &Document{}, nil
	}
}

// Marshal assembles the document and encodes it as JSON
func (s *Serializer) Marshal(n Node, opts Options) ([]byte, error) {
	doc, err := s.ToDocument(n, opts)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

func (s *Serializer) single(r *Resource, opts Options) (*Document, error) {
	obj, err := s.object(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{Data: PrimaryData{kind: KindOne, one: obj}}

	paths := mergePaths(r.Includes(), opts.Include)
	doc.Included, err = s.included(r.Included(paths...), []Identifier{obj.Identifier()})
	if err != nil {
		return nil, err
	}

	route := opts.Route
	if route == "" {
		route = r.Descriptor().Route
	}
	if route != "" {
		self, err := s.links.SelfLink(r, route)
		if err != nil {
			return nil, err
		}
		doc.Links = &Links{Self: self}
	}

	return doc, nil
}

func (s *Serializer) collection(seq *Sequence, opts Options) (*Document, error) {
	objects := make([]*Object, 0, seq.Len())
	primary := make([]Identifier, 0, seq.Len())
	for _, item := range seq.Items() {
		obj, err := s.object(item)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
		primary = append(primary, obj.Identifier())
	}

	doc := &Document{Data: PrimaryData{kind: KindMany, many: objects}}

	var err error
	paths := mergePaths(seq.Includes(), opts.Include)
	doc.Included, err = s.included(seq.Included(paths...), primary)
	if err != nil {
		return nil, err
	}

	if opts.Route == "" {
		return doc, nil
	}

	if seq.Paginated() {
		doc.Links, doc.Meta, err = s.links.Pagination(seq, opts.Route)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}

	self, err := s.links.CollectionLink(seq, opts.Route)
	if err != nil {
		return nil, err
	}
	doc.Links = &Links{Self: self}

	return doc, nil
}

// object builds the resource object of r. Null relations are declared
// with null data and no links.
func (s *Serializer) object(r *Resource) (*Object, error) {
	obj := &Object{
		ID:         r.ID(),
		Type:       r.Type(),
		Attributes: r.Attributes(),
	}

	if !r.Descriptor().HasRelations() {
		return obj, nil
	}

	var related string
	if route := r.Descriptor().Route; route != "" {
		link, err := s.links.SelfLink(r, route)
		if err != nil {
			return nil, err
		}
		related = link
	}

	relationships := orderedmap.New[string, RelationshipObject]()
	for _, rel := range r.Relationships() {
		ro := RelationshipObject{Data: LinkageOf(rel.Node)}
		if related != "" && rel.Node.Kind() != KindNull {
			ro.Links = &RelationshipLinks{Related: related}
		}
		relationships.Set(rel.Name, ro)
	}
	obj.Relationships = relationships

	return obj, nil
}

// included builds the included objects, skipping primary resources and
// repeated identifiers.
func (s *Serializer) included(result IncludeResult, primary []Identifier) ([]*Object, error) {
	for _, path := range result.Skipped {
		s.logger.Debug("skipping include path without relation config", zap.String("path", path))
	}

	seen := make(map[Identifier]struct{}, len(primary)+len(result.Resources))
	for _, id := range primary {
		seen[id] = struct{}{}
	}

	var objects []*Object
	for _, res := range result.Resources {
		id := res.Identifier()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		obj, err := s.object(res)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}

	return objects, nil
}

func mergePaths(sets ...[]string) []string {
	var merged []string
	seen := make(map[string]struct{})
	for _, set := range sets {
		for _, path := range set {
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			merged = append(merged, path)
		}
	}
	return merged
}
