package response

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/conduit-lang/jsonres/pkg/resource"
)

const (
	// JSONAPIMediaType is the official JSON:API media type
	JSONAPIMediaType = resource.MediaType
)

// IsJSONAPI checks if the request accepts JSON:API format
func IsJSONAPI(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return false
	}

	// Parse media type to handle parameters like charset
	mediaType, _, err := mime.ParseMediaType(accept)
	if err != nil {
		return strings.Contains(accept, JSONAPIMediaType)
	}

	return mediaType == JSONAPIMediaType
}

// Acceptable reports whether a JSON:API response may be sent. Requests
// without an Accept header, or accepting anything, are fine; a request
// listing only the JSON:API media type with parameters is not.
func Acceptable(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}

	sawJSONAPI := false
	for _, part := range strings.Split(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case JSONAPIMediaType:
			sawJSONAPI = true
			if len(params) == 0 {
				return true
			}
		case "*/*", "application/*", "application/json":
			return true
		}
	}
	return !sawJSONAPI
}

// RenderDocument encodes a document and writes it with the JSON:API
// media type
func RenderDocument(w http.ResponseWriter, status int, doc *resource.Document) error {
	// Marshal before touching the response so a failure writes nothing
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return RenderRaw(w, status, data)
}

// RenderRaw writes an already encoded document
func RenderRaw(w http.ResponseWriter, status int, data []byte) error {
	w.Header().Set("Content-Type", JSONAPIMediaType)
	w.WriteHeader(status)
	_, err := w.Write(data)
	return err
}
