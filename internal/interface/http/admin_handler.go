package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-otp-registration/internal/domain/entity"
	"github.com/oksasatya/go-otp-registration/pkg/apperror"
	"github.com/oksasatya/go-otp-registration/pkg/validation"
)

type UserLookup interface {
	GetUser(ctx context.Context, id int64) (entity.User, error)
	FindUserByEmail(ctx context.Context, email string) (entity.User, error)
}

type AdminHandler struct {
	Users UserLookup
}

func NewAdminHandler(users UserLookup) *AdminHandler {
	return &AdminHandler{Users: users}
}

// UserSummary is the admin view of a user. Credentials and the OTP are
// never exposed.
type UserSummary struct {
	ID                 int64     `json:"id"`
	FirstName          string    `json:"firstname"`
	LastName           string    `json:"lastname"`
	Email              string    `json:"email"`
	PhoneNumber        string    `json:"phoneNumber"`
	VerificationStatus string    `json:"verificationStatus"`
	AccountStatus      string    `json:"accountStatus"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func toSummary(u entity.User) UserSummary {
	return UserSummary{
		ID:                 u.ID,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Email:              u.Email,
		PhoneNumber:        u.PhoneNumber,
		VerificationStatus: string(u.Verification),
		AccountStatus:      string(u.Status),
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

// GetUser GET /api/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(&apperror.TypeMismatchError{Name: "id", Expected: "int64"})
		return
	}
	if err := validation.Param("id", id, "gte=1"); err != nil {
		_ = c.Error(err)
		return
	}
	u, err := h.Users.GetUser(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toSummary(u))
}

// FindUser GET /api/admin/users?email=
func (h *AdminHandler) FindUser(c *gin.Context) {
	email, ok := c.GetQuery("email")
	if !ok || strings.TrimSpace(email) == "" {
		_ = c.Error(&apperror.MissingParameterError{Name: "email"})
		return
	}
	u, err := h.Users.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toSummary(u))
}
