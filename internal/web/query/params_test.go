package query

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestParseInclude(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected []string
	}{
		{
			name:     "empty when not present",
			url:      "/api/posts",
			expected: []string{},
		},
		{
			name:     "single relationship",
			url:      "/api/posts?include=author",
			expected: []string{"author"},
		},
		{
			name:     "multiple relationships",
			url:      "/api/posts?include=author,comments",
			expected: []string{"author", "comments"},
		},
		{
			name:     "nested relationships",
			url:      "/api/posts?include=author,comments.author",
			expected: []string{"author", "comments.author"},
		},
		{
			name:     "trims whitespace",
			url:      "/api/posts?include=author,%20comments%20,%20tags",
			expected: []string{"author", "comments", "tags"},
		},
		{
			name:     "empty string parameter",
			url:      "/api/posts?include=",
			expected: []string{},
		},
		{
			name:     "multiple commas ignored",
			url:      "/api/posts?include=author,,comments",
			expected: []string{"author", "comments"},
		},
		{
			name:     "only whitespace ignored",
			url:      "/api/posts?include=%20,%20,%20author",
			expected: []string{"author"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			result := ParseInclude(req)

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("ParseInclude() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected PageParams
		wantErr  bool
	}{
		{
			name:     "defaults when not present",
			url:      "/api/posts",
			expected: PageParams{Number: 1, Size: 20},
		},
		{
			name:     "number and size",
			url:      "/api/posts?page%5Bnumber%5D=3&page%5Bsize%5D=5",
			expected: PageParams{Number: 3, Size: 5},
		},
		{
			name:     "unescaped brackets",
			url:      "/api/posts?page[number]=2",
			expected: PageParams{Number: 2, Size: 20},
		},
		{
			name:     "size clamped to maximum",
			url:      "/api/posts?page[size]=500",
			expected: PageParams{Number: 1, Size: 100},
		},
		{
			name:    "non numeric number",
			url:     "/api/posts?page[number]=two",
			wantErr: true,
		},
		{
			name:    "zero size",
			url:     "/api/posts?page[size]=0",
			wantErr: true,
		},
		{
			name:    "negative number",
			url:     "/api/posts?page[number]=-1",
			wantErr: true,
		},
		{
			name:    "offset overflows",
			url:     "/api/posts?page[number]=9223372036854775807&page[size]=20",
			wantErr: true,
		},
		{
			name:     "largest page whose offset fits",
			url:      "/api/posts?page[number]=461168601842738791&page[size]=20",
			expected: PageParams{Number: 461168601842738791, Size: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			result, err := ParsePage(req, 20, 100)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPage) {
					t.Errorf("ParsePage() error = %v, want ErrInvalidPage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePage() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("ParsePage() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestPageParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  PageParams
		wantErr bool
	}{
		{name: "first page", params: PageParams{Number: 1, Size: 20}},
		{name: "zero number", params: PageParams{Number: 0, Size: 20}, wantErr: true},
		{name: "zero size", params: PageParams{Number: 1, Size: 0}, wantErr: true},
		{name: "overflowing offset", params: PageParams{Number: math.MaxInt, Size: 2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != errors.Is(err, ErrInvalidPage) {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPageParamsOffset(t *testing.T) {
	if got := (PageParams{Number: 3, Size: 10}).Offset(); got != 20 {
		t.Errorf("Offset() = %d, want 20", got)
	}
}
