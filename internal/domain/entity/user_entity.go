package entity

import (
	"errors"
	"time"
)

type VerificationStatus string

const (
	Verified   VerificationStatus = "Verified"
	Unverified VerificationStatus = "Unverified"
)

type AccountStatus string

const (
	Active    AccountStatus = "Active"
	Inactive  AccountStatus = "Inactive"
	Suspended AccountStatus = "Suspended"
)

var ErrInvalidTransition = errors.New("invalid user status transition")

// User is the aggregate root for the registration domain.
// PasswordHash holds a bcrypt hash, never the raw password. OTP is the
// currently issued one-time passcode and is replaced on reissue.
//
// Values are treated as immutable: transitions return a modified copy.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	PhoneNumber  string
	OTP          string
	Verification VerificationStatus
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewPendingUser builds a freshly registered user: Inactive and Unverified,
// carrying the OTP that was just issued.
func NewPendingUser(firstName, lastName, email, passwordHash, phone, otp string) User {
	return User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		PhoneNumber:  phone,
		OTP:          otp,
		Verification: Unverified,
		Status:       Inactive,
	}
}

func (u User) IsPending() bool {
	return u.Verification == Unverified && u.Status == Inactive
}

// WithOTP replaces the issued passcode. Only unverified, non-suspended users
// can be reissued a code.
func (u User) WithOTP(otp string) (User, error) {
	if u.Verification == Verified || u.Status == Suspended {
		return u, ErrInvalidTransition
	}
	u.OTP = otp
	return u, nil
}

// Verify marks the account verified and active and clears the passcode.
func (u User) Verify() (User, error) {
	if u.Status == Suspended || u.Verification == Verified {
		return u, ErrInvalidTransition
	}
	u.Verification = Verified
	u.Status = Active
	u.OTP = ""
	return u, nil
}

func (u User) Suspend() User {
	u.Status = Suspended
	return u
}

func ParseVerificationStatus(s string) (VerificationStatus, error) {
	switch VerificationStatus(s) {
	case Verified, Unverified:
		return VerificationStatus(s), nil
	}
	return "", errors.New("unknown verification status " + s)
}

func ParseAccountStatus(s string) (AccountStatus, error) {
	switch AccountStatus(s) {
	case Active, Inactive, Suspended:
		return AccountStatus(s), nil
	}
	return "", errors.New("unknown account status " + s)
}
