package apierror

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind names an error class of the resource layer.
type Kind string

const (
	KindRouteNotFound     Kind = "route_not_found"
	KindRequestFailed     Kind = "request_failed"
	KindMalformedResponse Kind = "malformed_response"
	KindValidation        Kind = "validation_error"
	KindUnknown           Kind = "internal_error"
)

// RouteNotFoundError is returned when every candidate of a set answered 404.
// It describes the last attempted candidate.
type RouteNotFoundError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Attempts   int
}

func (e *RouteNotFoundError) Error() string {
	msg := fmt.Sprintf("route not found: %s %s (status %d, %d candidates tried)", e.Method, e.URL, e.StatusCode, e.Attempts)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// RequestFailedError is returned when a candidate reached a real handler and
// failed there. StatusCode 0 means the request never got a response.
type RequestFailedError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestFailedError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %s %s: %v", e.Method, e.URL, e.Err)
	}
	msg := fmt.Sprintf("request failed: %s %s: status %d", e.Method, e.URL, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

// MalformedResponseError reports a 2xx body that could not be decoded. The
// payload is still delivered as a {"raw": text} record; callers treat this as
// a warning.
type MalformedResponseError struct {
	URL         string
	ContentType string
	Raw         string
	Err         error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response from %s (%s): %v", e.URL, e.ContentType, e.Err)
	}
	return fmt.Sprintf("malformed response from %s: unexpected content type %q", e.URL, e.ContentType)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ValidationError carries per-field messages for input rejected before any
// network call was made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// FromValidator converts validator errors into a ValidationError. Other
// errors are returned unchanged.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fieldName(fe)] = describeRule(fe)
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	return fe.StructField()
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "numeric":
		return "must be numeric"
	case "hexcolor":
		return "must be a hex color"
	case "datetime":
		return "must match format " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "url", "http_url":
		return "must be an absolute URL"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "failed rule " + fe.Tag()
	}
}

// KindOf classifies err.
func KindOf(err error) Kind {
	var (
		notFound  *RouteNotFoundError
		failed    *RequestFailedError
		malformed *MalformedResponseError
		invalid   *ValidationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &invalid):
		return KindValidation
	case errors.As(err, &notFound):
		return KindRouteNotFound
	case errors.As(err, &failed):
		return KindRequestFailed
	case errors.As(err, &malformed):
		return KindMalformedResponse
	default:
		return KindUnknown
	}
}

// UserMessage returns the text shown inline to an admin user: the server
// message when one is available, otherwise a generic description of the kind.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		notFound *RouteNotFoundError
		failed   *RequestFailedError
		invalid  *ValidationError
	)
	switch {
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.As(err, &failed):
		if failed.Message != "" {
			return failed.Message
		}
		if failed.StatusCode == 0 {
			return "The server could not be reached."
		}
		return fmt.Sprintf("The request failed with status %d.", failed.StatusCode)
	case errors.As(err, &notFound):
		if notFound.Message != "" {
			return notFound.Message
		}
		return "The requested resource could not be found."
	case KindOf(err) == KindMalformedResponse:
		return "The server returned an unreadable response."
	default:
		return "An unexpected error occurred."
	}
}
