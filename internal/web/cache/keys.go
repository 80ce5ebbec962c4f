package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// DocumentKey derives the cache key of the document rendered for r. Query
// parameters are escaped and sorted by name so equivalent requests share
// an entry. The Accept header takes part because it decides between a
// document and a 406.
func DocumentKey(r *http.Request) string {
	parts := []string{r.Method, r.URL.Path}

	if r.URL.RawQuery != "" {
		parts = append(parts, r.URL.Query().Encode())
	}

	if accept := r.Header.Get("Accept"); accept != "" {
		parts = append(parts, "Accept="+accept)
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return "doc:" + hex.EncodeToString(hash[:16])
}
