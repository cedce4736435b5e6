package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-otp-registration/internal/application"
	"github.com/oksasatya/go-otp-registration/pkg/validation"
)

type RegistrationService interface {
	Register(ctx context.Context, in application.RegisterInput) error
	ResendOTP(ctx context.Context, email string) error
}

type AuthHandler struct {
	Service RegistrationService
}

func NewAuthHandler(svc RegistrationService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

// Register POST /api/auth/register
// Responds 200 with an empty body once the user is stored.
func (h *AuthHandler) Register(c *gin.Context) {
	var req validation.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	if err := validation.ValidateRegistration(req); err != nil {
		_ = c.Error(err)
		return
	}
	err := h.Service.Register(c.Request.Context(), application.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

// ResendOTP POST /api/auth/otp/resend {email}
// Always 200 for a valid request, whether or not the email is registered.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req validation.ResendOTPRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	if err := validation.ValidateResendOTP(req); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.Service.ResendOTP(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}
