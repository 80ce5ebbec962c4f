package router

import "errors"

var (
	// ErrRouteNotFound is returned when no route carries the requested name
	ErrRouteNotFound = errors.New("route not found")

	// ErrMissingParameter is returned when a path parameter has no value
	ErrMissingParameter = errors.New("missing route parameter")

	// ErrInvalidDefinition is returned for incomplete resource definitions
	ErrInvalidDefinition = errors.New("invalid resource definition")
)
