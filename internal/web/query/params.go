package query

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// ErrInvalidPage is returned for a page[number] or page[size] that is not
// a positive integer
var ErrInvalidPage = errors.New("invalid page parameter")

// ParseInclude parses the include query parameter into a slice of relationship paths.
// Example: ?include=author,comments.author
// Returns: ["author", "comments.author"]
// Returns an empty slice if the include parameter is not present or empty.
func ParseInclude(r *http.Request) []string {
	include := r.URL.Query().Get("include")
	if include == "" {
		return []string{}
	}

	parts := strings.Split(include, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// PageParams holds the requested page window
type PageParams struct {
	Number int
	Size   int
}

// Offset returns the number of items before the page
func (p PageParams) Offset() int {
	return (p.Number - 1) * p.Size
}

// Validate reports ErrInvalidPage for a window that is not positive or
// whose offset does not fit in an int
func (p PageParams) Validate() error {
	if p.Number < 1 || p.Size < 1 {
		return fmt.Errorf("%w: page[number]=%d page[size]=%d", ErrInvalidPage, p.Number, p.Size)
	}
	if p.Number-1 > math.MaxInt/p.Size {
		return fmt.Errorf("%w: page[number]=%d is out of range", ErrInvalidPage, p.Number)
	}
	return nil
}

// ParsePage parses page[number] and page[size]. Missing values fall back
// to page 1 and defaultSize; sizes above maxSize are clamped.
// Example: ?page[number]=2&page[size]=25
func ParsePage(r *http.Request, defaultSize, maxSize int) (PageParams, error) {
	params := PageParams{Number: 1, Size: defaultSize}
	q := r.URL.Query()

	if raw := q.Get("page[number]"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return params, fmt.Errorf("%w: page[number]=%q", ErrInvalidPage, raw)
		}
		params.Number = n
	}

	if raw := q.Get("page[size]"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return params, fmt.Errorf("%w: page[size]=%q", ErrInvalidPage, raw)
		}
		params.Size = n
	}

	if maxSize > 0 && params.Size > maxSize {
		params.Size = maxSize
	}

	if err := params.Validate(); err != nil {
		return PageParams{Number: 1, Size: defaultSize}, err
	}
	return params, nil
}
