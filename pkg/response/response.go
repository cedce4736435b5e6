package response

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-otp-registration/pkg/apperror"
)

// ErrorResponse is the single error envelope returned by every failing request.
// Details is omitted from the JSON entirely when there is nothing to report.
type ErrorResponse struct {
	Timestamp time.Time           `json:"timestamp"`
	Status    int                 `json:"status"`
	Error     string              `json:"error"`
	Message   string              `json:"message"`
	Path      string              `json:"path"`
	Details   map[string][]string `json:"details,omitempty"`
}

// Of builds an envelope for status. The error label is the status reason phrase.
func Of(status int, message, path string) ErrorResponse {
	return OfDetails(status, message, path, nil)
}

func OfDetails(status int, message, path string, details map[string][]string) ErrorResponse {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if len(details) == 0 {
		details = nil
	}
	return ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      path,
		Details:   details,
	}
}

// FromError classifies err and builds the matching envelope.
func FromError(err error, path string) ErrorResponse {
	cls := apperror.Classify(err)
	return OfDetails(cls.Status, cls.Message, path, cls.Details)
}

// FromStatus rebuilds an envelope from the minimal attributes available when a
// failure never went through classification: a status code and maybe a message.
func FromStatus(status int, message, path string) ErrorResponse {
	if http.StatusText(status) == "" || status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" || message == "No message available" {
		message = apperror.DefaultMessage(status)
	}
	return Of(status, message, path)
}

// Path returns the request URI path used in envelopes.
func Path(c *gin.Context) string {
	if c.Request == nil || c.Request.URL == nil {
		return ""
	}
	return c.Request.URL.Path
}

// Abort writes the envelope for err and stops the handler chain.
func Abort(c *gin.Context, err error) ErrorResponse {
	body := FromError(err, Path(c))
	c.AbortWithStatusJSON(body.Status, body)
	return body
}
