package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/conduit-lang/jsonres/internal/web/middleware"
	"github.com/go-chi/chi/v5"
)

// Router manages HTTP routing using chi and doubles as the named route
// registry used to render resource links.
type Router struct {
	mux     chi.Router
	baseURL string
	routes  []*Route

	chain *middleware.Chain
}

// Route represents a single registered route
type Route struct {
	Pattern string           // /posts/{post}
	Method  string           // GET
	Handler http.HandlerFunc // Handler function
	Name    string           // Named route for URL generation

	// Resource metadata (if registered through RegisterResource)
	ResourceName string
	Operation    Operation
}

// RouteInfo provides metadata about a route for introspection
type RouteInfo struct {
	Pattern      string
	Method       string
	Name         string
	ResourceName string
	Operation    string
	Parameters   []string
}

// Operation represents a read-only REST operation type
type Operation int

const (
	// OpIndex represents the collection operation (GET /)
	OpIndex Operation = iota
	// OpShow represents the single resource operation (GET /{id})
	OpShow
	// OpRelated represents a nested collection (GET /parents/{parent}/children)
	OpRelated
)

// String returns the string representation of Operation
func (o Operation) String() string {
	switch o {
	case OpIndex:
		return "index"
	case OpShow:
		return "show"
	case OpRelated:
		return "related"
	default:
		return "unknown"
	}
}

// Option configures a Router
type Option func(*Router)

// WithBaseURL sets the scheme and host prefixed to generated URLs
func WithBaseURL(base string) Option {
	return func(r *Router) {
		r.baseURL = strings.TrimSuffix(base, "/")
	}
}

// NewRouter creates a new Router instance
func NewRouter(opts ...Option) *Router {
	r := &Router{
		mux:    chi.NewRouter(),
		routes: make([]*Route, 0),
		chain:  middleware.NewChain(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ServeHTTP implements http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Use adds middleware to the router. It must be called before routes are
// registered.
func (r *Router) Use(middlewares ...middleware.Middleware) {
	for _, m := range middlewares {
		r.chain.Use(m)
		r.mux.Use(m)
	}
}

// Get registers a GET route
func (r *Router) Get(pattern string, handler http.HandlerFunc) *Route {
	route := &Route{
		Pattern: pattern,
		Method:  http.MethodGet,
		Handler: handler,
	}
	r.mux.Get(pattern, handler)
	r.routes = append(r.routes, route)
	return route
}

// Named sets a name for the route (for URL generation)
func (route *Route) Named(name string) *Route {
	route.Name = name
	return route
}

// WithResource sets resource metadata for the route
func (route *Route) WithResource(resourceName string, operation Operation) *Route {
	route.ResourceName = resourceName
	route.Operation = operation
	return route
}

// GetRoutes returns all registered routes for introspection
func (r *Router) GetRoutes() []RouteInfo {
	infos := make([]RouteInfo, len(r.routes))
	for i, route := range r.routes {
		infos[i] = RouteInfo{
			Pattern:      route.Pattern,
			Method:       route.Method,
			Name:         route.Name,
			ResourceName: route.ResourceName,
			Operation:    route.Operation.String(),
			Parameters:   extractParameters(route.Pattern),
		}
	}
	return infos
}

// GetRoute returns a route by name
func (r *Router) GetRoute(name string) (*Route, error) {
	for _, route := range r.routes {
		if route.Name == name {
			return route, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, name)
}

// NotFound sets the handler for 404 Not Found
func (r *Router) NotFound(handler http.HandlerFunc) {
	r.mux.NotFound(handler)
}

// MethodNotAllowed sets the handler for 405 Method Not Allowed
func (r *Router) MethodNotAllowed(handler http.HandlerFunc) {
	r.mux.MethodNotAllowed(handler)
}

// extractParameters returns the path parameter names of a pattern in
// order. Regular expression constraints ({id:[0-9]+}) are dropped.
func extractParameters(pattern string) []string {
	params := make([]string, 0)
	for _, part := range strings.Split(pattern, "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := strings.Trim(part, "{}")
			if i := strings.Index(name, ":"); i >= 0 {
				name = name[:i]
			}
			params = append(params, name)
		}
	}
	return params
}
