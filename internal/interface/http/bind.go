package handlers

import (
	"bytes"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/oksasatya/go-otp-registration/pkg/apperror"
)

var errEmptyBody = errors.New("request body is empty or null")

// bindJSON decodes the body into dst. Any decoding failure, including an
// empty or literal null body, is reported as a malformed body.
func bindJSON(c *gin.Context, dst any) error {
	raw, err := c.GetRawData()
	if err != nil {
		return apperror.MalformedBody(err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return apperror.MalformedBody(errEmptyBody)
	}
	if err := binding.JSON.BindBody(trimmed, dst); err != nil {
		return apperror.MalformedBody(err)
	}
	return nil
}
