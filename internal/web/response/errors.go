package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/DataDog/jsonapi"
)

// RenderJSONAPIError renders a single JSON:API error
func RenderJSONAPIError(w http.ResponseWriter, statusCode int, err error) {
	RenderJSONAPIErrors(w, statusCode, []*jsonapi.Error{NewError(statusCode, err.Error())})
}

// NewError builds an error object for a status
func NewError(statusCode int, detail string) *jsonapi.Error {
	return &jsonapi.Error{
		Status: &statusCode,
		Code:   errorCodeFromStatus(statusCode),
		Title:  http.StatusText(statusCode),
		Detail: detail,
	}
}

// RenderJSONAPIErrors renders multiple JSON:API errors
func RenderJSONAPIErrors(w http.ResponseWriter, statusCode int, errors []*jsonapi.Error) {
	// Marshal errors before writing headers
	data, err := json.Marshal(map[string][]*jsonapi.Error{"errors": errors})
	if err != nil {
		w.Header().Set("Content-Type", JSONAPIMediaType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errors":[{"status":"500","code":"internal_error","title":"Internal Server Error"}]}`))
		return
	}

	w.Header().Set("Content-Type", JSONAPIMediaType)
	w.WriteHeader(statusCode)
	_, _ = w.Write(data)
}

// RenderBadRequest renders a 400 Bad Request error
func RenderBadRequest(w http.ResponseWriter, message string) {
	RenderJSONAPIError(w, http.StatusBadRequest, fmt.Errorf("%s", message))
}

// RenderNotFound renders a 404 Not Found error
func RenderNotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RenderJSONAPIError(w, http.StatusNotFound, fmt.Errorf("%s", message))
}

// RenderMethodNotAllowed renders a 405 Method Not Allowed error
func RenderMethodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", http.MethodGet)
	RenderJSONAPIError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
}

// RenderNotAcceptable renders a 406 Not Acceptable error
func RenderNotAcceptable(w http.ResponseWriter) {
	RenderJSONAPIError(w, http.StatusNotAcceptable,
		fmt.Errorf("Accept must include %s without media type parameters", JSONAPIMediaType))
}

// RenderInternalError renders a 500 error without leaking the cause
func RenderInternalError(w http.ResponseWriter) {
	RenderJSONAPIError(w, http.StatusInternalServerError, fmt.Errorf("An unexpected error occurred"))
}

// errorCodeFromStatus generates an error code from HTTP status
func errorCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusNotAcceptable:
		return "not_acceptable"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media_type"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	default:
		if status >= 500 {
			return "internal_error"
		}
		return "error"
	}
}
