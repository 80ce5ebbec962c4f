package catalog

import (
	"testing"

	"github.com/conduit-lang/jsonres/internal/cli/config"
	"github.com/conduit-lang/jsonres/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blogConfig() []config.ResourceConfig {
	return []config.ResourceConfig{
		{
			Name:       "post",
			Attributes: []string{"title", "created_at"},
			Rename:     map[string]string{"created_at": "createdAt"},
			Relationships: []config.RelationshipConfig{
				{Name: "author", Kind: "belongs_to", Target: "user"},
				{Name: "comments", Kind: "has_many", Target: "comments", ForeignKey: "post_id", OrderBy: "id"},
			},
		},
		{
			Name:       "user",
			Table:      "accounts",
			Attributes: []string{"name"},
			Relationships: []config.RelationshipConfig{
				{Name: "posts", Kind: "has_many", Target: "post", ForeignKey: "author_id", Route: true},
			},
		},
		{
			Name:       "comment",
			Attributes: []string{"body"},
		},
	}
}

func TestNew(t *testing.T) {
	c, err := New(blogConfig())
	require.NoError(t, err)

	require.Len(t, c.Resources(), 3)
	assert.Len(t, c.Schemas(), 3)

	posts, ok := c.Lookup("posts")
	require.True(t, ok)
	assert.Equal(t, "posts", posts.Type())
	assert.Equal(t, "posts", posts.Descriptor.Type)
	assert.Equal(t, "posts.show", posts.Descriptor.Route)
	assert.Equal(t, "post", posts.Descriptor.RouteParam)
	assert.Equal(t, "createdAt", posts.Descriptor.Rename["created_at"])
	assert.Equal(t, []string{"author", "comments"}, posts.Descriptor.Relations())

	users, ok := c.Lookup("user")
	require.True(t, ok)
	target, ok := posts.Descriptor.Target("author")
	require.True(t, ok)
	assert.Same(t, users.Descriptor, target)
	assert.Equal(t, "accounts", users.Schema.Table)

	author, ok := posts.Schema.Relationship("author")
	require.True(t, ok)
	assert.Equal(t, store.BelongsTo, author.Type)
	assert.Equal(t, "users", author.Target)
	assert.Equal(t, "author_id", author.ForeignKey)

	comments, ok := posts.Schema.Relationship("comments")
	require.True(t, ok)
	assert.Equal(t, "comments", comments.Target)
	assert.Equal(t, "id", comments.OrderBy)
}

func TestNestedRoutes(t *testing.T) {
	c, err := New(blogConfig())
	require.NoError(t, err)

	require.Len(t, c.Nested(), 1)
	nested := c.Nested()[0]
	assert.Equal(t, "users", nested.Parent.Type())
	assert.Equal(t, "posts", nested.Child.Type())
	assert.Equal(t, "author", nested.Param)
	assert.Equal(t, "author_id", nested.ForeignKey)
	assert.Equal(t, "users.posts", nested.RouteName())
}

func TestExplicitType(t *testing.T) {
	c, err := New([]config.ResourceConfig{{Name: "person", Type: "authors"}})
	require.NoError(t, err)

	res, ok := c.Lookup("authors")
	require.True(t, ok)
	assert.Equal(t, "/authors", res.Definition.BasePath)
	assert.Equal(t, "authors.show", res.Descriptor.Route)
	assert.Equal(t, "person", res.Descriptor.RouteParam)
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name    string
		configs []config.ResourceConfig
		err     error
		message string
	}{
		{
			name: "unknown target",
			configs: []config.ResourceConfig{{
				Name:          "post",
				Relationships: []config.RelationshipConfig{{Name: "author", Kind: "belongs_to", Target: "ghost"}},
			}},
			err: ErrUnknownTarget,
		},
		{
			name: "unknown kind",
			configs: []config.ResourceConfig{{
				Name:          "post",
				Relationships: []config.RelationshipConfig{{Name: "self", Kind: "knows", Target: "post"}},
			}},
			err: ErrInvalidRelationship,
		},
		{
			name: "has many without foreign key",
			configs: []config.ResourceConfig{{
				Name:          "post",
				Relationships: []config.RelationshipConfig{{Name: "replies", Kind: "has_many", Target: "post"}},
			}},
			err: ErrInvalidRelationship,
		},
		{
			name: "routed belongs to",
			configs: []config.ResourceConfig{{
				Name:          "post",
				Relationships: []config.RelationshipConfig{{Name: "parent", Kind: "belongs_to", Target: "post", Route: true}},
			}},
			err: ErrInvalidRelationship,
		},
		{
			name: "routed has many without inverse",
			configs: []config.ResourceConfig{
				{
					Name:          "user",
					Relationships: []config.RelationshipConfig{{Name: "posts", Kind: "has_many", Target: "post", ForeignKey: "author_id", Route: true}},
				},
				{Name: "post"},
			},
			err: ErrInvalidRelationship,
		},
		{
			name:    "duplicate type",
			configs: []config.ResourceConfig{{Name: "post"}, {Name: "entry", Type: "posts"}},
			message: "declared twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.configs)
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}
