package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncludedPlainRelations(t *testing.T) {
	b := newBlog()

	author := newEntity("users", 10, nil)
	post := newEntity("posts", 1, nil).
		with("author", One(author)).
		with("comments", Many(asEntities(newEntity("comments", 100, nil), newEntity("comments", 101, nil))...))

	result := New(b.post, post).Included("author", "comments")

	assert.Empty(t, result.Skipped)
	assert.Equal(t, []Identifier{
		{ID: "10", Type: "users"},
		{ID: "100", Type: "comments"},
		{ID: "101", Type: "comments"},
	}, identifiers(result.Resources))
}

func TestIncludedNullRelationContributesNothing(t *testing.T) {
	b := newBlog()

	result := New(b.post, newEntity("posts", 1, nil)).Included("author", "author.country")

	assert.Empty(t, result.Resources)
	assert.Empty(t, result.Skipped)

	result = New(b.post, newEntity("posts", 1, nil)).Included("author.employer", "author.country.name")
	assert.Empty(t, result.Resources)
	assert.Equal(t, []string{"author.employer", "author.country.name"}, result.Skipped)
}

func TestIncludedDottedPathOverSingle(t *testing.T) {
	b := newBlog()

	country := newEntity("countries", "se", nil)
	author := newEntity("users", 10, nil).with("country", One(country))
	post := newEntity("posts", 1, nil).with("author", One(author))

	result := New(b.post, post).Included("author.country")

	require.Len(t, result.Resources, 1)
	assert.Equal(t, Identifier{ID: "se", Type: "countries"}, result.Resources[0].Identifier())
	assert.Same(t, b.country, result.Resources[0].Descriptor())
}

func TestIncludedDottedPathThroughCollection(t *testing.T) {
	b := newBlog()

	se := newEntity("countries", "se", nil)
	no := newEntity("countries", "no", nil)
	ada := newEntity("users", 10, nil).with("country", One(se))
	bob := newEntity("users", 11, nil).with("country", One(no))
	post := newEntity("posts", 1, nil).with("comments", Many(asEntities(
		newEntity("comments", 100, nil).with("author", One(ada)),
		newEntity("comments", 101, nil).with("author", One(bob)),
		newEntity("comments", 102, nil),
	)...))

	result := New(b.post, post).Included("comments.author", "comments.author.country")

	assert.Equal(t, []Identifier{
		{ID: "10", Type: "users"},
		{ID: "11", Type: "users"},
		{ID: "se", Type: "countries"},
		{ID: "no", Type: "countries"},
	}, identifiers(result.Resources))
}

func TestIncludedDottedPathOverSequenceSharedAuthor(t *testing.T) {
	b := newBlog()

	se := newEntity("countries", "se", nil)
	no := newEntity("countries", "no", nil)
	ada := newEntity("users", 10, nil).with("country", One(se))
	bob := newEntity("users", 11, nil).with("country", One(no))

	posts := Collection(b.post, asEntities(
		newEntity("posts", 1, nil).with("author", One(ada)),
		newEntity("posts", 2, nil).with("author", One(ada)),
		newEntity("posts", 3, nil).with("author", One(bob)),
	))

	result := posts.Included("author.country")

	// not deduplicated yet: the assembler does that
	assert.Equal(t, []Identifier{
		{ID: "se", Type: "countries"},
		{ID: "se", Type: "countries"},
		{ID: "no", Type: "countries"},
	}, identifiers(result.Resources))
}

func TestIncludedMixedOneAndManyMergeIntoSequence(t *testing.T) {
	tag := Define("label")
	category := Define("name").Relate("tags", tag)
	product := Define("name").Relate("category", category)

	t1 := newEntity("tags", 1, nil)
	t2 := newEntity("tags", 2, nil)
	t3 := newEntity("tags", 3, nil)

	products := Collection(product, asEntities(
		newEntity("products", 1, nil).with("category", One(newEntity("categories", 1, nil).with("tags", Many(asEntities(t1)...)))),
		newEntity("products", 2, nil),
		newEntity("products", 3, nil).with("category", One(newEntity("categories", 2, nil).with("tags", Many(asEntities(t2, t3)...)))),
	))

	node, ok := walkPath(products.Node(), []string{"category"})
	require.True(t, ok)
	require.Equal(t, KindMany, node.Kind())
	assert.Same(t, category, node.Sequence().Descriptor())
	assert.Equal(t, 2, node.Sequence().Len())

	node, ok = walkPath(products.Node(), []string{"category", "tags"})
	require.True(t, ok)
	require.Equal(t, KindMany, node.Kind())
	assert.Same(t, tag, node.Sequence().Descriptor())
	assert.Equal(t, []Identifier{
		{ID: "1", Type: "tags"},
		{ID: "2", Type: "tags"},
		{ID: "3", Type: "tags"},
	}, identifiers(node.Sequence().Items()))
}

func TestIncludedSkipsUnknownRelations(t *testing.T) {
	b := newBlog()

	author := newEntity("users", 10, nil)
	post := newEntity("posts", 1, nil).with("author", One(author))

	tests := []struct {
		name    string
		paths   []string
		skipped []string
		count   int
	}{
		{name: "unknown plain", paths: []string{"editor"}, skipped: []string{"editor"}},
		{name: "unknown nested", paths: []string{"author.employer"}, skipped: []string{"author.employer"}},
		{name: "unknown after null step", paths: []string{"editor.employer", "author.country.employer"}, skipped: []string{"editor.employer", "author.country.employer"}},
		{name: "known after null step", paths: []string{"author.country"}},
		{name: "mixed", paths: []string{"editor", "author"}, skipped: []string{"editor"}, count: 1},
		{name: "empty path", paths: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(b.post, post).Included(tt.paths...)
			assert.Equal(t, tt.skipped, result.Skipped)
			assert.Len(t, result.Resources, tt.count)
		})
	}
}

func TestIncludedReusesMemoizedRelations(t *testing.T) {
	b := newBlog()

	author := newEntity("users", 10, nil)
	post := newEntity("posts", 1, nil).with("author", One(author))
	r := New(b.post, post)

	_ = r.Relationships()
	_ = r.Included("author", "author.country")

	assert.Equal(t, 2, post.relationCalls)
	assert.Equal(t, 1, author.relationCalls)
}
