package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantDetails Details
	}{
		{
			name:        "field validation",
			err:         Validation(Details{"email": {"Please provide a valid email address!"}}),
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: MsgValidation,
			wantDetails: Details{"email": {"Please provide a valid email address!"}},
		},
		{
			name:        "malformed body",
			err:         MalformedBody(errors.New("unexpected EOF")),
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: MsgValidation,
			wantDetails: Details{"body": {"Request body is missing or malformed."}},
		},
		{
			name:        "route not found",
			err:         RouteNotFound("GET", "/api/nope"),
			wantStatus:  http.StatusNotFound,
			wantMessage: MsgNotFound,
			wantDetails: Details{"resource": {"GET /api/nope"}},
		},
		{
			name:        "resource not found",
			err:         NotFound("user"),
			wantStatus:  http.StatusNotFound,
			wantMessage: MsgNotFound,
		},
		{
			name:        "method not allowed sorts supported",
			err:         &MethodNotAllowedError{Method: "DELETE", Supported: []string{"POST", "GET"}},
			wantStatus:  http.StatusMethodNotAllowed,
			wantMessage: MsgMethodNotAllowed,
			wantDetails: Details{"method": {"DELETE"}, "supported": {"GET", "POST"}},
		},
		{
			name:        "method not allowed without supported",
			err:         &MethodNotAllowedError{Method: "PUT"},
			wantStatus:  http.StatusMethodNotAllowed,
			wantMessage: MsgMethodNotAllowed,
			wantDetails: Details{"method": {"PUT"}, "supported": {"none"}},
		},
		{
			name:        "unsupported media type",
			err:         &UnsupportedMediaTypeError{ContentType: "text/plain", Supported: []string{"application/json"}},
			wantStatus:  http.StatusUnsupportedMediaType,
			wantMessage: MsgUnsupportedMedia,
			wantDetails: Details{"contentType": {"text/plain"}, "supported": {"application/json"}},
		},
		{
			name:        "unsupported media type unknown",
			err:         &UnsupportedMediaTypeError{},
			wantStatus:  http.StatusUnsupportedMediaType,
			wantMessage: MsgUnsupportedMedia,
			wantDetails: Details{"contentType": {"UNKNOWN"}, "supported": {"none"}},
		},
		{
			name:        "missing parameter",
			err:         &MissingParameterError{Name: "email"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgMissingParameter,
			wantDetails: Details{"email": {MsgParameterRequired}},
		},
		{
			name:        "type mismatch",
			err:         &TypeMismatchError{Name: "id", Expected: "int64"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgTypeMismatch,
			wantDetails: Details{"id": {"Expected type int64"}},
		},
		{
			name:        "constraint violation",
			err:         &ConstraintViolationError{Violations: Details{"id": {"must be greater than 0"}}},
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgValidation,
			wantDetails: Details{"id": {"must be greater than 0"}},
		},
		{
			name:        "conflict keeps message",
			err:         fmt.Errorf("register: %w", Conflict("Email already exists.")),
			wantStatus:  http.StatusConflict,
			wantMessage: "Email already exists.",
		},
		{
			name:        "data integrity",
			err:         fmt.Errorf("save: %w", ErrDataIntegrity),
			wantStatus:  http.StatusConflict,
			wantMessage: MsgDataIntegrity,
		},
		{
			name:        "invalid argument",
			err:         InvalidArgument("otp must be numeric"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "otp must be numeric",
		},
		{
			name:        "invalid state without message",
			err:         InvalidState(""),
			wantStatus:  http.StatusBadRequest,
			wantMessage: MsgUnprocessable,
		},
		{
			name:        "unauthenticated",
			err:         ErrUnauthenticated,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: MsgUnauthenticated,
		},
		{
			name:        "access denied",
			err:         fmt.Errorf("guard: %w", ErrAccessDenied),
			wantStatus:  http.StatusForbidden,
			wantMessage: MsgAccessDenied,
		},
		{
			name:        "unclassified",
			err:         errors.New("pq: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: MsgUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, tt.wantDetails, got.Details)
		})
	}
}

func TestClassifyEmptyValidationOmitsDetails(t *testing.T) {
	got := Classify(Validation(Details{}))
	assert.Equal(t, http.StatusUnprocessableEntity, got.Status)
	assert.Nil(t, got.Details)
}

func TestClassifyNeverLeaksInternalText(t *testing.T) {
	got := Classify(errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))
	assert.True(t, got.Unexpected())
	assert.NotContains(t, got.Message, "10.0.0.5")
}

func TestDefaultMessage(t *testing.T) {
	assert.Equal(t, MsgNotFound, DefaultMessage(http.StatusNotFound))
	assert.Equal(t, MsgMethodNotAllowed, DefaultMessage(http.StatusMethodNotAllowed))
	assert.Equal(t, MsgAccessDenied, DefaultMessage(http.StatusForbidden))
	assert.Equal(t, MsgUnauthenticated, DefaultMessage(http.StatusUnauthorized))
	assert.Equal(t, MsgUnexpected, DefaultMessage(http.StatusBadGateway))
}

func TestDetailsAddKeepsOrder(t *testing.T) {
	d := Details{}
	d.Add("password", "first")
	d.Add("password", "second")
	assert.Equal(t, []string{"first", "second"}, d["password"])
}
