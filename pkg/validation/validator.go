package validation

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-otp-registration/pkg/apperror"
)

// Password policy symbols. At least one must appear in every password.
const passwordSymbols = "@#$%^&+=!"

const (
	msgFirstNameRequired = "First name is required!"
	msgLastNameRequired  = "Last Name is required!"
	msgEmailRequired     = "Please provide your email address!"
	msgEmailInvalid      = "Please provide a valid email address!"
	msgPasswordRequired  = "Please provide a unique password!"
	msgPasswordWeak      = "Password must contain at least one uppercase, one lowercase, one number, one special character (@#$%^&+=!), and be at least 8 characters long"
	msgPhoneRequired     = "Your phone number is required!"
	msgPhoneInvalid      = "Phone number must be exactly 10 digits"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

// ResendOTPRequest is the body of POST /api/auth/otp/resend.
type ResendOTPRequest struct {
	Email string `json:"email"`
}

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

// Engine returns the shared validator with the custom rules registered:
//   - strongpwd: >=8 characters on one line, ASCII upper, lower, digit and one of @#$%^&+=!
//   - phone10: exactly ten ASCII digits
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New()
		if err := v.RegisterValidation("strongpwd", strongPassword); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("phone10", tenDigitPhone); err != nil {
			panic(err)
		}
		engine = v
	})
	return engine
}

func strongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if utf8.RuneCountInString(s) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case isLineTerminator(r):
			return false
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

func isLineTerminator(r rune) bool {
	switch r {
	case '\n', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func tenDigitPhone(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

type rule struct {
	tag     string
	message string
}

// check runs rules in order against value and records each failure under
// name. A blank value only reports the required rule. Format rules see the
// raw value, so surrounding whitespace fails them.
func check(details apperror.Details, name, value string, rules ...rule) {
	v := Engine()
	blank := strings.TrimSpace(value) == ""
	for _, r := range rules {
		if r.tag == "required" {
			if blank {
				details.Add(name, r.message)
			}
			continue
		}
		if blank {
			continue
		}
		if err := v.Var(value, r.tag); err != nil {
			details.Add(name, r.message)
		}
	}
}

// ValidateRegistration returns an *apperror.ValidationError listing every
// invalid field with its ordered violations, or nil.
func ValidateRegistration(req RegisterRequest) error {
	d := apperror.Details{}
	check(d, "firstname", req.FirstName, rule{"required", msgFirstNameRequired})
	check(d, "lastname", req.LastName, rule{"required", msgLastNameRequired})
	check(d, "email", req.Email,
		rule{"required", msgEmailRequired},
		rule{"email", msgEmailInvalid},
	)
	// not trimmed: whitespace counts toward the password
	if req.Password == "" || strings.TrimSpace(req.Password) == "" {
		d.Add("password", msgPasswordRequired)
	} else if err := Engine().Var(req.Password, "strongpwd"); err != nil {
		d.Add("password", msgPasswordWeak)
	}
	check(d, "phoneNumber", req.PhoneNumber,
		rule{"required", msgPhoneRequired},
		rule{"phone10", msgPhoneInvalid},
	)
	if len(d) > 0 {
		return apperror.Validation(d)
	}
	return nil
}

func ValidateResendOTP(req ResendOTPRequest) error {
	d := apperror.Details{}
	check(d, "email", req.Email,
		rule{"required", msgEmailRequired},
		rule{"email", msgEmailInvalid},
	)
	if len(d) > 0 {
		return apperror.Validation(d)
	}
	return nil
}

// Param validates a path or query parameter against a validator tag and
// reports failures as a constraint violation keyed by name.
func Param(name string, value any, tag string) error {
	err := Engine().Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	d := apperror.Details{}
	for _, fe := range verrs {
		d.Add(name, formatFieldError(fe))
	}
	return &apperror.ConstraintViolationError{Violations: d}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "numeric":
		return "must be numeric"
	case "len":
		return "must be exactly " + param + " characters long"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param
	case "strongpwd":
		return msgPasswordWeak
	case "phone10":
		return msgPhoneInvalid
	default:
		if param != "" {
			return "failed '" + fe.Tag() + "' with parameter '" + param + "'"
		}
		return "failed '" + fe.Tag() + "'"
	}
}
