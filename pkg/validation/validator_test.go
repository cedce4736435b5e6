package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-otp-registration/pkg/apperror"
)

func validRequest() RegisterRequest {
	return RegisterRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "a@b.com",
		Password:    "Abcdef1!",
		PhoneNumber: "1234567890",
	}
}

func fields(t *testing.T, err error) apperror.Details {
	t.Helper()
	var verr *apperror.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Fields
}

func TestValidateRegistrationAcceptsValid(t *testing.T) {
	assert.NoError(t, ValidateRegistration(validRequest()))
}

func TestValidateRegistrationAllBlank(t *testing.T) {
	d := fields(t, ValidateRegistration(RegisterRequest{FirstName: "  "}))
	assert.Equal(t, apperror.Details{
		"firstname":   {msgFirstNameRequired},
		"lastname":    {msgLastNameRequired},
		"email":       {msgEmailRequired},
		"password":    {msgPasswordRequired},
		"phoneNumber": {msgPhoneRequired},
	}, d)
}

func TestValidateRegistrationReportsOnlyInvalidFields(t *testing.T) {
	req := validRequest()
	req.Email = "not-an-email"
	req.PhoneNumber = "12345"

	d := fields(t, ValidateRegistration(req))
	assert.Len(t, d, 2)
	assert.Equal(t, []string{msgEmailInvalid}, d["email"])
	assert.Equal(t, []string{msgPhoneInvalid}, d["phoneNumber"])
}

func TestPasswordPolicy(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"Abcdef1!", true},
		{"Zz9@aaaa", true},
		{"Abcde1!", false},  // too short
		{"abcdef1!", false}, // no upper
		{"ABCDEF1!", false}, // no lower
		{"Abcdefg!", false}, // no digit
		{"Abcdefg1", false}, // no symbol
		{"Abcdef1*", false}, // symbol outside the allowed set
		{"Abc def1!", true},
		{"Abc\tdef1!", true},
		{"Abc\ndef1!", false}, // line break
		{"Ab1!ééé", false},    // seven characters
		{"Ab1!€€€", false},    // seven characters
		{"Ab1!éééé", true},
		{"ÄÖÜäöü1!", false}, // no ASCII letters
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			req := validRequest()
			req.Password = tt.password
			err := ValidateRegistration(req)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, []string{msgPasswordWeak}, fields(t, err)["password"])
		})
	}
}

func TestPhoneRule(t *testing.T) {
	for _, phone := range []string{"123456789", "12345678901", "12345abcde", "+123456789"} {
		req := validRequest()
		req.PhoneNumber = phone
		assert.Equal(t, []string{msgPhoneInvalid}, fields(t, ValidateRegistration(req))["phoneNumber"], phone)
	}
}

func TestFormatRulesSeeUntrimmedValue(t *testing.T) {
	req := validRequest()
	req.PhoneNumber = " 1234567890 "
	req.Email = " a@b.com"
	d := fields(t, ValidateRegistration(req))
	assert.Equal(t, []string{msgPhoneInvalid}, d["phoneNumber"])
	assert.Equal(t, []string{msgEmailInvalid}, d["email"])
}

func TestValidateResendOTP(t *testing.T) {
	assert.NoError(t, ValidateResendOTP(ResendOTPRequest{Email: "a@b.com"}))
	assert.Equal(t, []string{msgEmailRequired}, fields(t, ValidateResendOTP(ResendOTPRequest{}))["email"])
	assert.Equal(t, []string{msgEmailInvalid}, fields(t, ValidateResendOTP(ResendOTPRequest{Email: "x"}))["email"])
}

func TestParam(t *testing.T) {
	assert.NoError(t, Param("id", int64(3), "gte=1"))

	err := Param("id", int64(0), "gte=1")
	var cv *apperror.ConstraintViolationError
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, apperror.Details{"id": {"must be greater than or equal to 1"}}, cv.Violations)
}
