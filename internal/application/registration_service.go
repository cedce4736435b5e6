package application

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-otp-registration/internal/domain/entity"
	repo "github.com/oksasatya/go-otp-registration/internal/domain/repository"
	"github.com/oksasatya/go-otp-registration/pkg/apperror"
	"github.com/oksasatya/go-otp-registration/pkg/helpers"
)

const (
	MsgEmailExists          = "Email already exists."
	MsgRegistrationInFlight = "A registration for this email is already in progress."
)

var (
	registrationsTotal       = expvar.NewInt("registrations_total")
	otpDispatchFailuresTotal = expvar.NewInt("otp_dispatch_failures_total")
	otpReissuedTotal         = expvar.NewInt("otp_reissued_total")
)

// PasswordHasher is the one-way credential hasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// OTPGenerator returns a fresh six digit passcode.
type OTPGenerator func() (string, error)

// OTPSender delivers a passcode email using configured expiry and brand.
type OTPSender interface {
	SendOTPDefault(ctx context.Context, to, name, otp string) error
}

type UserIndexer interface {
	IndexUser(ctx context.Context, u entity.User) error
}

// RegisterInput carries an already validated registration request. Password
// is plaintext and must not outlive the Register call.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
}

type Service struct {
	Repo        repo.UserRepository
	Hasher      PasswordHasher
	GenerateOTP OTPGenerator
	Mailer      OTPSender
	Logger      *logrus.Logger

	// Optional collaborators; nil disables them.
	Lock    repo.RegistrationLock
	Indexer UserIndexer

	// DispatchTimeout bounds one email send; zero means no extra bound.
	DispatchTimeout time.Duration
}

func NewService(r repo.UserRepository, hasher PasswordHasher, gen OTPGenerator, mailer OTPSender, logger *logrus.Logger) *Service {
	if gen == nil {
		gen = helpers.GenOTPCode
	}
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &Service{Repo: r, Hasher: hasher, GenerateOTP: gen, Mailer: mailer, Logger: logger}
}

// NormalizeEmail applies the case-insensitive email policy.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register persists a pending (Inactive, Unverified) user with a fresh OTP
// and emails the code. A failed email does not fail the registration; the
// user can ask for the code again through ResendOTP.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	email := NormalizeEmail(in.Email)

	release, err := s.acquire(ctx, email)
	if err != nil {
		return err
	}
	defer release()

	exists, err := s.Repo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return apperror.Conflict(MsgEmailExists)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	otp, err := s.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	u := entity.NewPendingUser(
		strings.TrimSpace(in.FirstName),
		strings.TrimSpace(in.LastName),
		email,
		hash,
		strings.TrimSpace(in.PhoneNumber),
		otp,
	)
	saved, err := s.Repo.Save(ctx, u)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return fmt.Errorf("save user: %w", apperror.ErrDataIntegrity)
		}
		return fmt.Errorf("save user: %w", err)
	}
	registrationsTotal.Add(1)
	s.Logger.WithFields(logrus.Fields{"user_id": saved.ID, "email": helpers.MaskEmail(email)}).Info("user registered")

	s.index(ctx, saved)
	s.dispatch(ctx, saved)
	return nil
}

// ResendOTP replaces the passcode of a pending user and emails it. Unknown,
// verified and suspended accounts are ignored so callers cannot probe which
// emails are registered.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	otp, err := s.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	next, err := u.WithOTP(otp)
	if errors.Is(err, entity.ErrInvalidTransition) {
		s.Logger.WithField("user_id", u.ID).Debug("otp resend skipped")
		return nil
	}
	if err != nil {
		return err
	}
	saved, err := s.Repo.Save(ctx, next)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	otpReissuedTotal.Add(1)

	s.index(ctx, saved)
	s.dispatch(ctx, saved)
	return nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrUserNotFound) {
		return entity.User{}, apperror.NotFound("user")
	}
	return u, err
}

func (s *Service) FindUserByEmail(ctx context.Context, email string) (entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repo.ErrUserNotFound) {
		return entity.User{}, apperror.NotFound("user")
	}
	return u, err
}

// acquire takes the per-email registration lock. Redis trouble fails open:
// the store's uniqueness constraint remains the authoritative guard.
func (s *Service) acquire(ctx context.Context, email string) (func(), error) {
	noop := func() {}
	if s.Lock == nil {
		return noop, nil
	}
	release, err := s.Lock.Acquire(ctx, email)
	switch {
	case errors.Is(err, repo.ErrLockHeld):
		return nil, apperror.Conflict(MsgRegistrationInFlight)
	case err != nil:
		s.Logger.WithError(err).Warn("registration lock unavailable, continuing without it")
		return noop, nil
	}
	return release, nil
}

func (s *Service) index(ctx context.Context, u entity.User) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexUser(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("user indexing failed")
	}
}

func (s *Service) dispatch(ctx context.Context, u entity.User) {
	if s.DispatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.DispatchTimeout)
		defer cancel()
	}
	if err := s.Mailer.SendOTPDefault(ctx, u.Email, u.FirstName, u.OTP); err != nil {
		otpDispatchFailuresTotal.Add(1)
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"user_id": u.ID,
			"email":   helpers.MaskEmail(u.Email),
		}).Warn("otp email dispatch failed; user stays pending")
	}
}
