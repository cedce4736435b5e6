package helpers

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// OTP helpers

const (
	otpMin  = 100000
	otpSpan = 900000 // 100000..999999 inclusive
)

// KeyRegistrationLock is the Redis key guarding an in-flight registration for email
func KeyRegistrationLock(email string) string {
	return "register:lock:" + email
}

// GenOTPCode generates a 6-digit OTP uniformly distributed over 100000..999999
// using crypto/rand. The result is always exactly six ASCII digits.
func GenOTPCode() (string, error) {
	return genOTPFrom(rand.Reader)
}

func genOTPFrom(r io.Reader) (string, error) {
	n, err := rand.Int(r, big.NewInt(otpSpan))
	if err != nil {
		return "", fmt.Errorf("otp entropy: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}
