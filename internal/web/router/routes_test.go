package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}
}

func TestNewResourceDefinition(t *testing.T) {
	tests := []struct {
		name   string
		plural string
		base   string
		param  string
	}{
		{name: "post", plural: "posts", base: "/posts", param: "post"},
		{name: "Category", plural: "categories", base: "/categories", param: "category"},
		{name: "BlogPost", plural: "blog_posts", base: "/blog_posts", param: "blog_post"},
		{name: "person", plural: "people", base: "/people", param: "person"},
		{name: "box", plural: "boxes", base: "/boxes", param: "box"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := NewResourceDefinition(tt.name)
			assert.Equal(t, tt.plural, def.PluralName)
			assert.Equal(t, tt.base, def.BasePath)
			assert.Equal(t, tt.param, def.IDParamName)
			assert.Equal(t, tt.plural+".index", def.IndexRoute())
			assert.Equal(t, tt.plural+".show", def.ShowRoute())
		})
	}
}

func TestRegisterResource(t *testing.T) {
	router := NewRouter()
	def := NewResourceDefinition("post")

	err := router.RegisterResource(def, ResourceHandlers{
		Index: okHandler("index"),
		Show:  okHandler("show"),
	})
	require.NoError(t, err)

	tests := []struct {
		path string
		body string
	}{
		{path: "/posts", body: "index"},
		{path: "/posts/1", body: "show"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.body, w.Body.String(), tt.path)
	}

	infos := router.GetRoutes()
	require.Len(t, infos, 2)
	assert.Equal(t, "posts.index", infos[0].Name)
	assert.Equal(t, "index", infos[0].Operation)
	assert.Equal(t, []string{"post"}, infos[1].Parameters)
}

func TestRegisterResourceMissingHandler(t *testing.T) {
	err := NewRouter().RegisterResource(NewResourceDefinition("post"), ResourceHandlers{Index: okHandler("")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "show")
}

func TestRegisterResourceInvalidDefinition(t *testing.T) {
	err := NewRouter().RegisterResource(&ResourceDefinition{Name: "ghost"}, ResourceHandlers{})
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestRegisterRelated(t *testing.T) {
	router := NewRouter()
	users := NewResourceDefinition("user")
	posts := NewResourceDefinition("post")

	route, err := router.RegisterRelated(users, "author", posts, okHandler("related"))
	require.NoError(t, err)
	assert.Equal(t, "/users/{author}/posts", route.Pattern)
	assert.Equal(t, "users.posts", route.Name)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/3/posts", nil))
	assert.Equal(t, "related", w.Body.String())

	_, err = router.RegisterRelated(users, "", posts, okHandler(""))
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestURL(t *testing.T) {
	router := NewRouter(WithBaseURL("https://api.example.com"))
	require.NoError(t, router.RegisterResource(NewResourceDefinition("post"), ResourceHandlers{
		Index: okHandler(""),
		Show:  okHandler(""),
	}))
	_, err := router.RegisterRelated(NewResourceDefinition("user"), "author", NewResourceDefinition("post"), okHandler(""))
	require.NoError(t, err)

	tests := []struct {
		name     string
		route    string
		params   map[string]string
		expected string
		err      error
	}{
		{name: "no parameters", route: "posts.index", expected: "https://api.example.com/posts"},
		{name: "path parameter", route: "posts.show", params: map[string]string{"post": "42"}, expected: "https://api.example.com/posts/42"},
		{name: "escaped value", route: "posts.show", params: map[string]string{"post": "a b"}, expected: "https://api.example.com/posts/a%20b"},
		{
			name:     "extra parameters become the query",
			route:    "users.posts",
			params:   map[string]string{"author": "7", "sort": "title", "filter": "new"},
			expected: "https://api.example.com/users/7/posts?filter=new&sort=title",
		},
		{name: "missing parameter", route: "posts.show", err: ErrMissingParameter},
		{name: "empty parameter", route: "posts.show", params: map[string]string{"post": ""}, err: ErrMissingParameter},
		{name: "unknown route", route: "comments.show", err: ErrRouteNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := router.URL(tt.route, tt.params)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, url)
		})
	}
}

func TestParameterNames(t *testing.T) {
	router := NewRouter()
	_, err := router.RegisterRelated(NewResourceDefinition("user"), "author", NewResourceDefinition("post"), okHandler(""))
	require.NoError(t, err)

	names, err := router.ParameterNames("users.posts")
	require.NoError(t, err)
	assert.Equal(t, []string{"author"}, names)

	_, err = router.ParameterNames("missing")
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestRouteList(t *testing.T) {
	router := NewRouter()
	router.Get("/posts", okHandler("")).Named("posts.index")

	list := router.RouteList()
	assert.Contains(t, list, "METHOD")
	assert.Contains(t, list, "/posts")
	assert.Contains(t, list, "posts.index")
}
