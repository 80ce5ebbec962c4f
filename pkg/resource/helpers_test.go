package resource

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// testEntity is a map-backed Entity that counts relation lookups
type testEntity struct {
	key           any
	typeName      string
	fields        map[string]any
	relations     map[string]Relation
	relationCalls int
}

func newEntity(typeName string, key any, fields map[string]any) *testEntity {
	if fields == nil {
		fields = map[string]any{}
	}
	return &testEntity{
		key:       key,
		typeName:  typeName,
		fields:    fields,
		relations: map[string]Relation{},
	}
}

func (e *testEntity) with(name string, rel Relation) *testEntity {
	e.relations[name] = rel
	return e
}

func (e *testEntity) Key() any         { return e.key }
func (e *testEntity) TypeName() string { return e.typeName }

func (e *testEntity) Field(name string) (any, bool) {
	v, ok := e.fields[name]
	return v, ok
}

func (e *testEntity) Relation(name string) Relation {
	e.relationCalls++
	if rel, ok := e.relations[name]; ok {
		return rel
	}
	return NoRelation
}

var placeholderPattern = regexp.MustCompile(`\{([^}]+)\}`)

// testRoutes renders absolute URLs from route patterns
type testRoutes struct {
	base     string
	patterns map[string]string
}

func newTestRoutes() *testRoutes {
	return &testRoutes{
		base: "https://api.example.com",
		patterns: map[string]string{
			"posts.index":      "/posts",
			"posts.show":       "/posts/{post}",
			"users.show":       "/users/{user}",
			"users.posts":      "/users/{author}/posts",
			"users.posts.show": "/users/{author}/posts/{post}",
		},
	}
}

func (t *testRoutes) ParameterNames(route string) ([]string, error) {
	pattern, ok := t.patterns[route]
	if !ok {
		return nil, fmt.Errorf("route not found: %s", route)
	}
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(pattern, -1) {
		names = append(names, m[1])
	}
	return names, nil
}

func (t *testRoutes) URL(route string, params map[string]string) (string, error) {
	pattern, ok := t.patterns[route]
	if !ok {
		return "", fmt.Errorf("route not found: %s", route)
	}

	used := map[string]bool{}
	var missing []string
	path := placeholderPattern.ReplaceAllStringFunc(pattern, func(m string) string {
		name := m[1 : len(m)-1]
		value, ok := params[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		used[name] = true
		return url.PathEscape(value)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("missing parameter values for route %s: %s", route, strings.Join(missing, ","))
	}

	var extra []string
	for name, value := range params {
		if !used[name] {
			extra = append(extra, url.QueryEscape(name)+"="+url.QueryEscape(value))
		}
	}
	sort.Strings(extra)
	if len(extra) > 0 {
		path += "?" + strings.Join(extra, "&")
	}

	return t.base + path, nil
}

// testPage is a PageSource over a result of total items
type testPage struct {
	path    string
	current int
	perPage int
	total   int
}

func (p testPage) CurrentPage() int { return p.current }
func (p testPage) PerPage() int     { return p.perPage }
func (p testPage) Total() int       { return p.total }

func (p testPage) LastPage() int {
	last := (p.total + p.perPage - 1) / p.perPage
	if last < 1 {
		return 1
	}
	return last
}

func (p testPage) FirstItem() *int {
	from := (p.current-1)*p.perPage + 1
	if from > p.total {
		return nil
	}
	return &from
}

func (p testPage) LastItem() *int {
	from := p.FirstItem()
	if from == nil {
		return nil
	}
	to := *from + p.perPage - 1
	if to > p.total {
		to = p.total
	}
	return &to
}

func (p testPage) PageURL(n int) string {
	return fmt.Sprintf("https://api.example.com%s?page=%d", p.path, n)
}

func (p testPage) PreviousPageURL() *string {
	if p.current <= 1 {
		return nil
	}
	u := p.PageURL(p.current - 1)
	return &u
}

func (p testPage) NextPageURL() *string {
	if p.current >= p.LastPage() {
		return nil
	}
	u := p.PageURL(p.current + 1)
	return &u
}

// blog holds the descriptors of a small post/author/country/comment graph
type blog struct {
	post    *Descriptor
	user    *Descriptor
	country *Descriptor
	comment *Descriptor
}

func newBlog() blog {
	country := Define("name")
	user := Define("name").
		WithRoute("users.show").
		WithRouteParam("user").
		Relate("country", country)
	comment := Define("body").Relate("author", user)
	post := Define("title").
		WithRoute("posts.show").
		WithRouteParam("post").
		Relate("author", user).
		Relate("comments", comment)

	return blog{post: post, user: user, country: country, comment: comment}
}

func asEntities(entities ...*testEntity) []Entity {
	result := make([]Entity, len(entities))
	for i, e := range entities {
		result[i] = e
	}
	return result
}

func identifiers(resources []*Resource) []Identifier {
	ids := make([]Identifier, len(resources))
	for i, r := range resources {
		ids[i] = r.Identifier()
	}
	return ids
}
