// Package api serves the catalog's resources as JSON:API documents.
package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/conduit-lang/jsonres/internal/catalog"
	"github.com/conduit-lang/jsonres/internal/store"
	"github.com/conduit-lang/jsonres/internal/web/cache"
	"github.com/conduit-lang/jsonres/internal/web/middleware"
	"github.com/conduit-lang/jsonres/internal/web/query"
	"github.com/conduit-lang/jsonres/internal/web/response"
	"github.com/conduit-lang/jsonres/internal/web/router"
	"github.com/conduit-lang/jsonres/pkg/pagination"
	"github.com/conduit-lang/jsonres/pkg/resource"
	"go.uber.org/zap"
)

// Handler renders index, show and nested collection documents for every
// resource in a catalog
type Handler struct {
	catalog    *catalog.Catalog
	store      store.Store
	router     *router.Router
	serializer *resource.Serializer
	cache      cache.Cache
	logger     *zap.Logger

	baseURL     string
	defaultSize int
	maxSize     int
}

// Option configures a Handler
type Option func(*Handler)

// WithCache stores rendered documents in c. A nil cache disables caching.
func WithCache(c cache.Cache) Option {
	return func(h *Handler) {
		h.cache = c
	}
}

// WithLogger sets the handler's logger
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithBaseURL sets the origin used for pagination URLs. It should match
// the router's base URL.
func WithBaseURL(base string) Option {
	return func(h *Handler) {
		h.baseURL = base
	}
}

// WithPageSize sets the default and maximum page sizes
func WithPageSize(defaultSize, maxSize int) Option {
	return func(h *Handler) {
		if defaultSize > 0 {
			h.defaultSize = defaultSize
		}
		if maxSize > 0 {
			h.maxSize = maxSize
		}
	}
}

// New creates a handler. Links are resolved through r, which Register
// later fills with the catalog's routes.
func New(cat *catalog.Catalog, st store.Store, r *router.Router, opts ...Option) *Handler {
	h := &Handler{
		catalog:     cat,
		store:       st,
		router:      r,
		logger:      zap.NewNop(),
		defaultSize: 20,
		maxSize:     100,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.serializer = resource.NewSerializer(r, resource.WithLogger(h.logger))
	return h
}

// Serializer returns the serializer shared by all handlers
func (h *Handler) Serializer() *resource.Serializer {
	return h.serializer
}

// Register adds the index and show routes of every resource and the
// nested collection routes to the router
func (h *Handler) Register() error {
	for _, res := range h.catalog.Resources() {
		handlers := router.ResourceHandlers{
			Index: h.index(res),
			Show:  h.show(res),
		}
		if err := h.router.RegisterResource(res.Definition, handlers); err != nil {
			return err
		}
	}

	for _, nested := range h.catalog.Nested() {
		if _, err := h.router.RegisterRelated(nested.Parent.Definition, nested.Param, nested.Child.Definition, h.related(nested)); err != nil {
			return err
		}
	}

	h.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.RenderNotFound(w, "")
	})
	h.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.RenderMethodNotAllowed(w)
	})
	return nil
}

type renderFunc func(r *http.Request) ([]byte, error)

// serve negotiates the media type, consults the cache and maps errors to
// error documents
func (h *Handler) serve(render renderFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !response.Acceptable(r) {
			response.RenderNotAcceptable(w)
			return
		}

		var key string
		if h.cache != nil {
			key = cache.DocumentKey(r)
			if data, err := h.cache.Get(r.Context(), key); err == nil {
				h.logger.Debug("document cache hit", zap.String("path", r.URL.Path))
				_ = response.RenderRaw(w, http.StatusOK, data)
				return
			} else if !cache.IsCacheMiss(err) {
				h.logger.Warn("document cache read failed", zap.Error(err))
			}
		}

		data, err := render(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		if h.cache != nil {
			if err := h.cache.Set(r.Context(), key, data, 0); err != nil {
				h.logger.Warn("document cache write failed", zap.Error(err))
			}
		}

		if err := response.RenderRaw(w, http.StatusOK, data); err != nil {
			h.logger.Debug("writing response failed", zap.Error(err))
		}
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.RenderNotFound(w, err.Error())
	case errors.Is(err, query.ErrInvalidPage), errors.Is(err, store.ErrMaxDepthExceeded):
		response.RenderBadRequest(w, err.Error())
	default:
		h.logger.Error("rendering document failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		response.RenderInternalError(w)
	}
}

func (h *Handler) index(res *catalog.Resource) http.HandlerFunc {
	return h.serve(func(r *http.Request) ([]byte, error) {
		pr, err := h.pageRequest(r)
		if err != nil {
			return nil, err
		}
		return h.page(r.Context(), res, nil, res.Definition.IndexRoute(), r.URL.Path, pr)
	})
}

func (h *Handler) show(res *catalog.Resource) http.HandlerFunc {
	return h.serve(func(r *http.Request) ([]byte, error) {
		id := router.GetPathParam(r, res.Definition.IDParamName)
		return h.Show(r.Context(), res, id, query.ParseInclude(r))
	})
}

// related serves the children of one parent. The parent must exist.
func (h *Handler) related(n *catalog.Nested) http.HandlerFunc {
	return h.serve(func(r *http.Request) ([]byte, error) {
		pr, err := h.pageRequest(r)
		if err != nil {
			return nil, err
		}

		parentID := router.GetPathParam(r, n.Param)
		if _, err := h.store.Find(r.Context(), n.Parent.Type(), parentID, nil); err != nil {
			return nil, err
		}

		where := []store.Condition{{Column: n.ForeignKey, Value: parentID}}
		return h.page(r.Context(), n.Child, where, n.RouteName(), r.URL.Path, pr)
	})
}

// PageRequest selects one page of a collection
type PageRequest struct {
	Page     query.PageParams
	Includes []string
	// Query holds extra parameters repeated in the page links
	Query url.Values
}

func (h *Handler) pageRequest(r *http.Request) (PageRequest, error) {
	params, err := query.ParsePage(r, h.defaultSize, h.maxSize)
	if err != nil {
		return PageRequest{}, err
	}
	return PageRequest{
		Page:     params,
		Includes: query.ParseInclude(r),
		Query:    r.URL.Query(),
	}, nil
}

// Show renders the document of one resource
func (h *Handler) Show(ctx context.Context, res *catalog.Resource, id string, includes []string) ([]byte, error) {
	rec, err := h.store.Find(ctx, res.Type(), id, includes)
	if err != nil {
		return nil, err
	}

	node := resource.New(res.Descriptor, rec).Include(includes...).Node()
	return h.serializer.Marshal(node, resource.Options{})
}

// Index renders one page of a resource's collection. Missing page
// parameters fall back to the defaults.
func (h *Handler) Index(ctx context.Context, res *catalog.Resource, pr PageRequest) ([]byte, error) {
	if pr.Page.Size < 1 {
		pr.Page.Size = h.defaultSize
	}
	if pr.Page.Size > h.maxSize {
		pr.Page.Size = h.maxSize
	}
	if pr.Page.Number < 1 {
		pr.Page.Number = 1
	}
	if err := pr.Page.Validate(); err != nil {
		return nil, err
	}
	return h.page(ctx, res, nil, res.Definition.IndexRoute(), res.Definition.BasePath, pr)
}

// page renders one paginated window of res. An empty window of a nested
// route has no item to bind the parent from, so it renders without links.
func (h *Handler) page(ctx context.Context, res *catalog.Resource, where []store.Condition, route, path string, pr PageRequest) ([]byte, error) {
	total, err := h.store.Count(ctx, res.Type(), where...)
	if err != nil {
		return nil, err
	}

	records, err := h.store.List(ctx, res.Type(), store.Query{
		Where:    where,
		Offset:   pr.Page.Offset(),
		Limit:    pr.Page.Size,
		Includes: pr.Includes,
	})
	if err != nil {
		return nil, err
	}

	page := pagination.New(h.baseURL+path, pr.Page.Number, pr.Page.Size, total).
		WithQuery(pr.Query)
	seq := resource.Paginate(res.Descriptor, store.Entities(records), page).
		Include(pr.Includes...)

	opts := resource.Options{Route: route}
	if seq.Len() == 0 && len(where) > 0 {
		opts.Route = ""
	}
	return h.serializer.Marshal(seq.Node(), opts)
}
