package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfLinkBindsOwnID(t *testing.T) {
	b := newBlog()
	links := NewLinkResolver(newTestRoutes())

	link, err := links.SelfLink(New(b.post, newEntity("posts", 42, nil)), "posts.show")
	require.NoError(t, err)
	assert.Equal(t, "/posts/42", link)
}

func TestSelfLinkBindsRelatedResource(t *testing.T) {
	user := Define("name")
	post := Define("title").WithRouteParam("post").Relate("author", user)

	e := newEntity("posts", 7, nil).with("author", One(newEntity("users", 3, nil)))

	link, err := NewLinkResolver(newTestRoutes()).SelfLink(New(post, e), "users.posts.show")
	require.NoError(t, err)
	assert.Equal(t, "/users/3/posts/7", link)
}

func TestSelfLinkErrors(t *testing.T) {
	b := newBlog()
	r := New(b.post, newEntity("posts", 1, nil))

	tests := []struct {
		name    string
		links   *LinkResolver
		route   string
		wantErr error
	}{
		{
			name:    "unknown route",
			links:   NewLinkResolver(newTestRoutes()),
			route:   "posts.missing",
			wantErr: ErrUnknownRoute,
		},
		{
			name:    "unbound parameter",
			links:   NewLinkResolver(newTestRoutes()),
			route:   "users.posts.show",
			wantErr: ErrUnroutableReference,
		},
		{
			name:    "no registry",
			links:   NewLinkResolver(nil),
			route:   "posts.show",
			wantErr: ErrNoRouteRegistry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.links.SelfLink(r, tt.route)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCollectionLink(t *testing.T) {
	user := Define("name")
	post := Define("title").Relate("author", user)

	ada := newEntity("users", 3, nil)
	posts := Collection(post, asEntities(
		newEntity("posts", 1, nil).with("author", One(ada)),
		newEntity("posts", 2, nil).with("author", One(ada)),
	))

	links := NewLinkResolver(newTestRoutes())

	link, err := links.CollectionLink(posts, "users.posts")
	require.NoError(t, err)
	assert.Equal(t, "/users/3/posts", link)

	link, err = links.CollectionLink(posts, "posts.index")
	require.NoError(t, err)
	assert.Equal(t, "/posts", link)

	_, err = links.CollectionLink(Collection(post, nil), "users.posts")
	assert.ErrorIs(t, err, ErrUnroutableReference)
}

func TestStripOrigin(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "absolute", raw: "https://api.example.com/posts/1", want: "/posts/1"},
		{name: "with query", raw: "http://localhost:8080/posts?page=2&size=10", want: "/posts?page=2&size=10"},
		{name: "already relative", raw: "/posts/1", want: "/posts/1"},
		{name: "escaped path", raw: "https://x.test/tags/a%2Fb", want: "/tags/a%2Fb"},
		{name: "origin only", raw: "https://x.test", want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripOrigin(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := StripOrigin("http://[::1")
	assert.ErrorIs(t, err, ErrInvalidURL)
}
