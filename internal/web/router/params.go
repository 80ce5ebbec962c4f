package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetPathParam is a convenience function to extract a path parameter
func GetPathParam(req *http.Request, name string) string {
	return chi.URLParam(req, name)
}

// PathParams returns every path parameter matched for the request
func PathParams(req *http.Request) map[string]string {
	params := make(map[string]string)
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		return params
	}
	for i, key := range rctx.URLParams.Keys {
		if key == "*" {
			continue
		}
		params[key] = rctx.URLParams.Values[i]
	}
	return params
}
