package resource

import "errors"

var (
	// ErrUnknownRoute is returned when the route registry does not know a route name
	ErrUnknownRoute = errors.New("unknown route")

	// ErrUnroutableReference is returned when a route cannot be built from
	// the parameters the resource can bind
	ErrUnroutableReference = errors.New("unroutable reference")

	// ErrNoRouteRegistry is returned when a route is configured but the
	// serializer has no route registry
	ErrNoRouteRegistry = errors.New("no route registry configured")

	// ErrInvalidURL is returned when the route registry builds a URL that cannot be parsed
	ErrInvalidURL = errors.New("invalid url")
)
