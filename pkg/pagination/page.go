// Package pagination provides a page window over a counted result, with
// JSON:API style page[number] and page[size] URLs.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// NumberParam is the query parameter holding the page number
	NumberParam = "page[number]"
	// SizeParam is the query parameter holding the page size
	SizeParam = "page[size]"
)

// Page is one page of a result of Total items
type Page struct {
	base   string
	query  url.Values
	number int
	size   int
	total  int
}

// New creates a page. base is the collection URL; number and size are
// clamped to at least 1.
func New(base string, number, size, total int) *Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = 1
	}
	if total < 0 {
		total = 0
	}
	return &Page{
		base:   base,
		query:  url.Values{},
		number: number,
		size:   size,
		total:  total,
	}
}

// WithQuery keeps extra query parameters, such as include, in page URLs
func (p *Page) WithQuery(query url.Values) *Page {
	p.query = url.Values{}
	for key, values := range query {
		if key == NumberParam || key == SizeParam {
			continue
		}
		p.query[key] = append([]string(nil), values...)
	}
	return p
}

// Offset returns the number of items before this page
func (p *Page) Offset() int {
	return (p.number - 1) * p.size
}

// Limit returns the page size
func (p *Page) Limit() int {
	return p.size
}

// CurrentPage returns the page number
func (p *Page) CurrentPage() int {
	return p.number
}

// PerPage returns the page size
func (p *Page) PerPage() int {
	return p.size
}

// Total returns the number of items in the whole result
func (p *Page) Total() int {
	return p.total
}

// LastPage returns the number of the last page, at least 1
func (p *Page) LastPage() int {
	last := (p.total + p.size - 1) / p.size
	if last < 1 {
		return 1
	}
	return last
}

// FirstItem returns the 1-based position of the page's first item
func (p *Page) FirstItem() *int {
	if p.Offset() >= p.total {
		return nil
	}
	from := p.Offset() + 1
	return &from
}

// LastItem returns the 1-based position of the page's last item
func (p *Page) LastItem() *int {
	if p.Offset() >= p.total {
		return nil
	}
	to := p.Offset() + p.size
	if to > p.total {
		to = p.total
	}
	return &to
}

// PageURL returns the URL of page n
func (p *Page) PageURL(n int) string {
	q := url.Values{}
	for key, values := range p.query {
		q[key] = values
	}
	q.Set(NumberParam, strconv.Itoa(n))
	q.Set(SizeParam, strconv.Itoa(p.size))

	u, err := url.Parse(p.base)
	if err != nil {
		return fmt.Sprintf("%s?%s", p.base, q.Encode())
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// PreviousPageURL returns the previous page's URL, nil on the first page
func (p *Page) PreviousPageURL() *string {
	if p.number <= 1 {
		return nil
	}
	prev := p.PageURL(p.number - 1)
	return &prev
}

// NextPageURL returns the next page's URL, nil on the last page
func (p *Page) NextPageURL() *string {
	if p.number >= p.LastPage() {
		return nil
	}
	next := p.PageURL(p.number + 1)
	return &next
}
