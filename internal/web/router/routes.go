package router

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ResourceDefinition represents a resource that can be registered with the router
type ResourceDefinition struct {
	Name        string      // Resource name (e.g., "Post")
	PluralName  string      // Plural name, also the JSON:API type (e.g., "posts")
	BasePath    string      // Base path (e.g., "/posts")
	IDParamName string      // ID parameter name (default: snake case of Name)
	Operations  []Operation // Enabled operations
}

// NewResourceDefinition creates a new resource definition with defaults
func NewResourceDefinition(name string) *ResourceDefinition {
	pluralName := toSnakeCase(pluralize(name))
	return &ResourceDefinition{
		Name:        name,
		PluralName:  pluralName,
		BasePath:    "/" + pluralName,
		IDParamName: toSnakeCase(name),
		Operations:  []Operation{OpIndex, OpShow},
	}
}

// IndexRoute returns the name of the collection route
func (def *ResourceDefinition) IndexRoute() string {
	return def.PluralName + ".index"
}

// ShowRoute returns the name of the single resource route
func (def *ResourceDefinition) ShowRoute() string {
	return def.PluralName + ".show"
}

// ResourceHandlers contains handlers for resource operations
type ResourceHandlers struct {
	Index http.HandlerFunc
	Show  http.HandlerFunc
}

// Validate checks that all required handlers are present
func (h *ResourceHandlers) Validate(operations []Operation) error {
	for _, op := range operations {
		if h.GetHandler(op) == nil {
			return fmt.Errorf("missing handler for operation: %s", op)
		}
	}
	return nil
}

// GetHandler returns the handler for the given operation
func (h *ResourceHandlers) GetHandler(op Operation) http.HandlerFunc {
	switch op {
	case OpIndex:
		return h.Index
	case OpShow:
		return h.Show
	default:
		return nil
	}
}

// RegisterResource registers the index and show routes of a resource,
// named "<plural>.index" and "<plural>.show".
func (r *Router) RegisterResource(def *ResourceDefinition, handlers ResourceHandlers) error {
	if def.PluralName == "" || def.IDParamName == "" {
		return fmt.Errorf("%w: %q", ErrInvalidDefinition, def.Name)
	}
	if err := handlers.Validate(def.Operations); err != nil {
		return fmt.Errorf("invalid handlers: %w", err)
	}

	for _, op := range def.Operations {
		handler := handlers.GetHandler(op)
		switch op {
		case OpIndex:
			r.Get(def.BasePath, handler).
				Named(def.IndexRoute()).
				WithResource(def.PluralName, op)
		case OpShow:
			pattern := fmt.Sprintf("%s/{%s}", def.BasePath, def.IDParamName)
			r.Get(pattern, handler).
				Named(def.ShowRoute()).
				WithResource(def.PluralName, op)
		default:
			return fmt.Errorf("%w: unsupported operation %s", ErrInvalidDefinition, op)
		}
	}

	return nil
}

// RegisterRelated registers a nested collection route such as
// /users/{author}/posts, named "<parent plural>.<child plural>". param is
// the path parameter holding the parent's id; it should be named like the
// child's to-one relation so collection links can bind it.
func (r *Router) RegisterRelated(parent *ResourceDefinition, param string, child *ResourceDefinition, handler http.HandlerFunc) (*Route, error) {
	if handler == nil {
		return nil, fmt.Errorf("missing handler for operation: %s", OpRelated)
	}
	if param == "" {
		return nil, fmt.Errorf("%w: nested route %s/%s needs a parameter", ErrInvalidDefinition, parent.PluralName, child.PluralName)
	}

	pattern := fmt.Sprintf("%s/{%s}%s", parent.BasePath, param, child.BasePath)
	route := r.Get(pattern, handler).
		Named(parent.PluralName + "." + child.PluralName).
		WithResource(child.PluralName, OpRelated)
	return route, nil
}

// RouteList returns a formatted list of all registered routes
func (r *Router) RouteList() string {
	var sb strings.Builder
	sb.WriteString("Registered Routes:\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-8s %-40s %-20s\n", "METHOD", "PATTERN", "NAME"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, route := range r.routes {
		sb.WriteString(fmt.Sprintf("%-8s %-40s %-20s\n", route.Method, route.Pattern, route.Name))
	}

	return sb.String()
}

// ParameterNames returns the path parameters of a named route in order
func (r *Router) ParameterNames(name string) ([]string, error) {
	route, err := r.GetRoute(name)
	if err != nil {
		return nil, err
	}
	return extractParameters(route.Pattern), nil
}

// URL generates an absolute URL for a named route. Every path parameter
// needs a value; parameters the pattern does not name become the query.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	route, err := r.GetRoute(name)
	if err != nil {
		return "", err
	}

	used := make(map[string]bool, len(params))
	segments := strings.Split(route.Pattern, "/")
	for i, segment := range segments {
		if !strings.HasPrefix(segment, "{") || !strings.HasSuffix(segment, "}") {
			continue
		}
		param := extractParameters(segment)[0]
		value, ok := params[param]
		if !ok || value == "" {
			return "", fmt.Errorf("%w %q for route %s", ErrMissingParameter, param, name)
		}
		segments[i] = url.PathEscape(value)
		used[param] = true
	}

	result := r.baseURL + strings.Join(segments, "/")

	query := url.Values{}
	for key, value := range params {
		if !used[key] {
			query.Set(key, value)
		}
	}
	if len(query) > 0 {
		result += "?" + query.Encode()
	}

	return result, nil
}

// Helper functions

// pluralize returns the plural form of a word (simple implementation)
func pluralize(word string) string {
	if word == "" {
		return word
	}

	specialCases := map[string]string{
		"person": "people",
		"child":  "children",
		"man":    "men",
		"woman":  "women",
		"mouse":  "mice",
	}

	if plural, ok := specialCases[strings.ToLower(word)]; ok {
		return plural
	}

	switch {
	case strings.HasSuffix(word, "y"):
		if len(word) > 1 && !isVowel(word[len(word)-2]) {
			return word[:len(word)-1] + "ies"
		}
		return word + "s"
	case strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x") ||
		strings.HasSuffix(word, "z") || strings.HasSuffix(word, "ch") ||
		strings.HasSuffix(word, "sh"):
		return word + "es"
	default:
		return word + "s"
	}
}

// toSnakeCase converts a string to snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

func isVowel(b byte) bool {
	return strings.ContainsRune("aeiouAEIOU", rune(b))
}
