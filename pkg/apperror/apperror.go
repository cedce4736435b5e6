package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Fixed client-facing messages. Nothing downstream of the HTTP boundary
// formats user-visible text; these are the whole reviewed set.
const (
	MsgValidation        = "The given data was invalid."
	MsgMalformedBody     = "Request body is missing or malformed."
	MsgNotFound          = "The requested resource was not found."
	MsgMethodNotAllowed  = "HTTP method not supported for this endpoint."
	MsgUnsupportedMedia  = "Content type is not supported."
	MsgMissingParameter  = "Required parameter is missing."
	MsgParameterRequired = "This request parameter is required."
	MsgTypeMismatch      = "One or more parameters have invalid values."
	MsgDataIntegrity     = "The requested operation violates a data integrity rule."
	MsgUnprocessable     = "The request could not be processed."
	MsgUnauthenticated   = "Authentication failed. Please sign in again."
	MsgAccessDenied      = "You are not allowed to access this resource."
	MsgUnexpected        = "An unexpected error occurred."
)

var (
	ErrDataIntegrity   = errors.New("data integrity violation")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrAccessDenied    = errors.New("access denied")
)

// Details maps a field or category name to its ordered violation messages.
type Details map[string][]string

// Add appends msg to the list kept for key, preserving insertion order.
func (d Details) Add(key, msg string) {
	d[key] = append(d[key], msg)
}

// ValidationError carries field-level violations of a request body.
type ValidationError struct {
	Fields Details
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// MalformedBodyError wraps a decoding failure of the request body.
type MalformedBodyError struct {
	Err error
}

func (e *MalformedBodyError) Error() string {
	if e.Err == nil {
		return "malformed request body"
	}
	return "malformed request body: " + e.Err.Error()
}

func (e *MalformedBodyError) Unwrap() error { return e.Err }

// NotFoundError reports a missing route (Method/URL set) or a missing resource.
type NotFoundError struct {
	Method   string
	URL      string
	Resource string
}

func (e *NotFoundError) Error() string {
	if e.Method != "" || e.URL != "" {
		return "no route for " + e.Method + " " + e.URL
	}
	return e.Resource + " not found"
}

type MethodNotAllowedError struct {
	Method    string
	Supported []string
}

func (e *MethodNotAllowedError) Error() string {
	return "method " + e.Method + " not allowed"
}

type UnsupportedMediaTypeError struct {
	ContentType string
	Supported   []string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return "unsupported content type " + e.ContentType
}

type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return "missing parameter " + e.Name
}

type TypeMismatchError struct {
	Name     string
	Expected string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("parameter %s: expected %s", e.Name, e.Expected)
}

// ConstraintViolationError carries path/query-level violations keyed by property path.
type ConstraintViolationError struct {
	Violations Details
}

func (e *ConstraintViolationError) Error() string {
	return "constraint violation"
}

// ConflictError is a deliberate conflict raised by business logic. Its
// message is shown to the client as-is.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string { return e.Message }

type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string { return e.Message }

func Validation(fields Details) error { return &ValidationError{Fields: fields} }

func MalformedBody(err error) error { return &MalformedBodyError{Err: err} }

func NotFound(resource string) error { return &NotFoundError{Resource: resource} }

func RouteNotFound(method, url string) error { return &NotFoundError{Method: method, URL: url} }

func Conflict(msg string) error { return &ConflictError{Message: msg} }

func InvalidArgument(msg string) error { return &InvalidArgumentError{Message: msg} }

func InvalidState(msg string) error { return &InvalidStateError{Message: msg} }

// Classification is the wire-level outcome of a failure.
type Classification struct {
	Status  int
	Message string
	Details Details
}

// Unexpected reports whether the classification is the 500 catch-all.
func (c Classification) Unexpected() bool { return c.Status == http.StatusInternalServerError }

// Classify maps any error to a status code, client message and optional
// details. It is total: unknown errors become a 500 with a fixed message.
func Classify(err error) Classification {
	var (
		ve  *ValidationError
		mbe *MalformedBodyError
		nfe *NotFoundError
		mna *MethodNotAllowedError
		umt *UnsupportedMediaTypeError
		mpe *MissingParameterError
		tme *TypeMismatchError
		cve *ConstraintViolationError
		ce  *ConflictError
		iae *InvalidArgumentError
		ise *InvalidStateError
	)

	switch {
	case err == nil:
		return Classification{Status: http.StatusInternalServerError, Message: MsgUnexpected}
	case errors.As(err, &ve):
		return Classification{Status: http.StatusUnprocessableEntity, Message: MsgValidation, Details: nonEmpty(ve.Fields)}
	case errors.As(err, &mbe):
		return Classification{Status: http.StatusUnprocessableEntity, Message: MsgValidation, Details: Details{"body": {MsgMalformedBody}}}
	case errors.As(err, &nfe):
		var d Details
		if nfe.Method != "" || nfe.URL != "" {
			d = Details{"resource": {strings.TrimSpace(nfe.Method + " " + nfe.URL)}}
		}
		return Classification{Status: http.StatusNotFound, Message: MsgNotFound, Details: d}
	case errors.As(err, &mna):
		supported := append([]string(nil), mna.Supported...)
		sort.Strings(supported)
		return Classification{Status: http.StatusMethodNotAllowed, Message: MsgMethodNotAllowed, Details: Details{
			"method":    {orUnknown(mna.Method)},
			"supported": orNone(supported),
		}}
	case errors.As(err, &umt):
		return Classification{Status: http.StatusUnsupportedMediaType, Message: MsgUnsupportedMedia, Details: Details{
			"contentType": {orUnknown(umt.ContentType)},
			"supported":   orNone(umt.Supported),
		}}
	case errors.As(err, &mpe):
		return Classification{Status: http.StatusBadRequest, Message: MsgMissingParameter, Details: Details{mpe.Name: {MsgParameterRequired}}}
	case errors.As(err, &tme):
		expected := tme.Expected
		if expected == "" {
			expected = "unknown"
		}
		return Classification{Status: http.StatusBadRequest, Message: MsgTypeMismatch, Details: Details{tme.Name: {"Expected type " + expected}}}
	case errors.As(err, &cve):
		return Classification{Status: http.StatusBadRequest, Message: MsgValidation, Details: nonEmpty(cve.Violations)}
	case errors.As(err, &ce):
		return Classification{Status: http.StatusConflict, Message: orFallback(ce.Message, MsgDataIntegrity)}
	case errors.Is(err, ErrDataIntegrity):
		return Classification{Status: http.StatusConflict, Message: MsgDataIntegrity}
	case errors.As(err, &iae):
		return Classification{Status: http.StatusBadRequest, Message: orFallback(iae.Message, MsgUnprocessable)}
	case errors.As(err, &ise):
		return Classification{Status: http.StatusBadRequest, Message: orFallback(ise.Message, MsgUnprocessable)}
	case errors.Is(err, ErrUnauthenticated):
		return Classification{Status: http.StatusUnauthorized, Message: MsgUnauthenticated}
	case errors.Is(err, ErrAccessDenied):
		return Classification{Status: http.StatusForbidden, Message: MsgAccessDenied}
	default:
		return Classification{Status: http.StatusInternalServerError, Message: MsgUnexpected}
	}
}

// DefaultMessage is the fallback message for a bare status code, used when
// the failure reached the boundary without a classifiable error.
func DefaultMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusMethodNotAllowed:
		return MsgMethodNotAllowed
	case http.StatusForbidden:
		return MsgAccessDenied
	case http.StatusUnauthorized:
		return MsgUnauthenticated
	default:
		return MsgUnexpected
	}
}

func nonEmpty(d Details) Details {
	if len(d) == 0 {
		return nil
	}
	return d
}

func orNone(list []string) []string {
	if len(list) == 0 {
		return []string{"none"}
	}
	return list
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "UNKNOWN"
	}
	return s
}

func orFallback(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
