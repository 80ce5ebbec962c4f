package resource

import (
	"fmt"
	"net/url"
)

// RouteRegistry resolves named routes into URLs
type RouteRegistry interface {
	// ParameterNames returns the route's path parameters in order
	ParameterNames(route string) ([]string, error)
	// URL renders the route with the given parameters
	URL(route string, params map[string]string) (string, error)
}

// LinkResolver builds origin-independent links from named routes
type LinkResolver struct {
	routes RouteRegistry
}

// NewLinkResolver creates a link resolver. routes may be nil when no
// descriptor or document configures a route.
func NewLinkResolver(routes RouteRegistry) *LinkResolver {
	return &LinkResolver{routes: routes}
}

// SelfLink renders route for a resource. A parameter named like the
// resource's route parameter binds its id; a parameter named like a
// resolved to-one relation binds that resource's id; anything else is
// left for the registry to reject or default.
func (l *LinkResolver) SelfLink(r *Resource, route string) (string, error) {
	names, err := l.parameterNames(route)
	if err != nil {
		return "", err
	}

	params := make(map[string]string, len(names))
	for _, name := range names {
		if name == r.RouteParam() {
			params[name] = r.ID()
			continue
		}
		if node, ok := r.Related(name); ok && node.Kind() == KindOne {
			params[name] = node.Resource().ID()
		}
	}

	return l.render(route, params)
}

// CollectionLink renders route for a sequence. Parameters are bound from
// the to-one relations of the first item, which covers nested collection
// routes such as /users/{user}/posts.
func (l *LinkResolver) CollectionLink(s *Sequence, route string) (string, error) {
	names, err := l.parameterNames(route)
	if err != nil {
		return "", err
	}

	params := make(map[string]string, len(names))
	if s.Len() > 0 {
		first := s.Items()[0]
		for _, name := range names {
			if node, ok := first.Related(name); ok && node.Kind() == KindOne {
				params[name] = node.Resource().ID()
			}
		}
	}

	return l.render(route, params)
}

func (l *LinkResolver) parameterNames(route string) ([]string, error) {
	if l.routes == nil {
		return nil, fmt.Errorf("%w: route %q", ErrNoRouteRegistry, route)
	}
	names, err := l.routes.ParameterNames(route)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownRoute, route, err)
	}
	return names, nil
}

func (l *LinkResolver) render(route string, params map[string]string) (string, error) {
	raw, err := l.routes.URL(route, params)
	if err != nil {
		return "", fmt.Errorf("%w: route %q: %w", ErrUnroutableReference, route, err)
	}
	return StripOrigin(raw)
}

// StripOrigin drops scheme and host, keeping path and query
func StripOrigin(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidURL, raw, err)
	}

	result := u.EscapedPath()
	if result == "" {
		result = "/"
	}
	if u.RawQuery != "" {
		result += "?" + u.RawQuery
	}
	return result, nil
}
