package resource

// PageSource describes one page of a paginated result
type PageSource interface {
	CurrentPage() int
	// FirstItem is the 1-based position of the first item, nil on an empty page
	FirstItem() *int
	// LastItem is the 1-based position of the last item, nil on an empty page
	LastItem() *int
	LastPage() int
	PerPage() int
	Total() int
	// PageURL returns the absolute or relative URL of page n
	PageURL(n int) string
	// PreviousPageURL is nil on the first page
	PreviousPageURL() *string
	// NextPageURL is nil on the last page
	NextPageURL() *string
}

// PageMeta is the top-level meta of a paginated document
type PageMeta struct {
	CurrentPage int    `json:"current_page"`
	From        *int   `json:"from"`
	LastPage    int    `json:"last_page"`
	Path        string `json:"path"`
	PerPage     int    `json:"per_page"`
	To          *int   `json:"to"`
	Total       int    `json:"total"`
}

// Pagination builds the links and meta of a paginated sequence. route is
// the collection route; its link becomes meta.path.
func (l *LinkResolver) Pagination(s *Sequence, route string) (*Links, *PageMeta, error) {
	page := s.Page()

	path, err := l.CollectionLink(s, route)
	if err != nil {
		return nil, nil, err
	}

	self, err := StripOrigin(page.PageURL(page.CurrentPage()))
	if err != nil {
		return nil, nil, err
	}
	first, err := StripOrigin(page.PageURL(1))
	if err != nil {
		return nil, nil, err
	}
	last, err := StripOrigin(page.PageURL(page.LastPage()))
	if err != nil {
		return nil, nil, err
	}
	prev, err := stripOptional(page.PreviousPageURL())
	if err != nil {
		return nil, nil, err
	}
	next, err := stripOptional(page.NextPageURL())
	if err != nil {
		return nil, nil, err
	}

	links := &Links{
		Self:      self,
		First:     first,
		Prev:      prev,
		Next:      next,
		Last:      last,
		paginated: true,
	}

	meta := &PageMeta{
		CurrentPage: page.CurrentPage(),
		From:        page.FirstItem(),
		LastPage:    page.LastPage(),
		Path:        path,
		PerPage:     page.PerPage(),
		To:          page.LastItem(),
		Total:       page.Total(),
	}

	return links, meta, nil
}

func stripOptional(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	stripped, err := StripOrigin(*raw)
	if err != nil {
		return nil, err
	}
	return &stripped, nil
}
