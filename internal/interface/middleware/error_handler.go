package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-otp-registration/pkg/response"
)

// ErrorHandler is the single place that turns errors attached with c.Error
// into the JSON error envelope. Handlers only attach and return.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		body := response.FromError(err, response.Path(c))
		if body.Status >= http.StatusInternalServerError {
			requestLogger(logger, c).WithError(err).Error("unhandled error")
		}
		c.AbortWithStatusJSON(body.Status, body)
	}
}

// Recovery converts panics into the 500 envelope.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		requestLogger(logger, c).WithField("panic", rec).Error("panic recovered")
		if c.Writer.Written() {
			c.Abort()
			return
		}
		response.Abort(c, fmt.Errorf("panic: %v", rec))
	})
}

// ErrorFallback is the last resort catch: a request that ends with an error
// status but no body gets an envelope rebuilt from the status code and, if
// present, the last public error message.
func ErrorFallback() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &errorStatusWriter{ResponseWriter: c.Writer}
		c.Next()
		status := c.Writer.Status()
		if status < http.StatusBadRequest || c.Writer.Size() > 0 {
			return
		}
		msg := ""
		if last := c.Errors.ByType(gin.ErrorTypePublic).Last(); last != nil {
			msg = last.Error()
		}
		body := response.FromStatus(status, msg, response.Path(c))
		if !c.Writer.Written() {
			c.JSON(body.Status, body)
			return
		}
		// headers already sent; only the body can still be written
		b, err := json.Marshal(body)
		if err == nil {
			_, _ = c.Writer.Write(b)
		}
	}
}

// errorStatusWriter labels an error response as JSON when the status is
// committed without a Content-Type, so a body written afterwards by
// ErrorFallback is not sniffed as text.
type errorStatusWriter struct {
	gin.ResponseWriter
}

func (w *errorStatusWriter) markJSON() {
	if w.Written() || w.Status() < http.StatusBadRequest {
		return
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", gin.MIMEJSON+"; charset=utf-8")
	}
}

func (w *errorStatusWriter) WriteHeaderNow() {
	w.markJSON()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *errorStatusWriter) Write(b []byte) (int, error) {
	w.markJSON()
	return w.ResponseWriter.Write(b)
}

func (w *errorStatusWriter) WriteString(s string) (int, error) {
	w.markJSON()
	return w.ResponseWriter.WriteString(s)
}

// Abort attaches err for ErrorHandler and stops the chain. Used by the
// security entry points so their failures share the envelope.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func requestLogger(logger *logrus.Logger, c *gin.Context) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"request_id": c.GetString(RequestIDKey),
		"method":     c.Request.Method,
		"path":       response.Path(c),
		"ip":         clientIP(c),
	})
}
