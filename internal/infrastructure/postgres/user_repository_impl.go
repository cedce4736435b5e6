package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-otp-registration/internal/domain/entity"
	"github.com/oksasatya/go-otp-registration/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id, first_name, last_name, email, password_hash, phone_number,
	otp, verification_status, status, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Save(ctx context.Context, u entity.User) (entity.User, error) {
	if u.ID == 0 {
		return r.insert(ctx, u)
	}
	return r.update(ctx, u)
}

func (r *UserRepository) insert(ctx context.Context, u entity.User) (entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, phone_number, otp, verification_status, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.PhoneNumber, nullable(u.OTP), string(u.Verification), string(u.Status))

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return entity.User{}, mapWriteError(err)
	}
	return u, nil
}

func (r *UserRepository) update(ctx context.Context, u entity.User) (entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, password_hash = $4, phone_number = $5,
		    otp = $6, verification_status = $7, status = $8, updated_at = now()
		WHERE id = $9
		RETURNING created_at, updated_at
	`, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.PhoneNumber, nullable(u.OTP), string(u.Verification), string(u.Status), u.ID)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, repository.ErrUserNotFound
		}
		return entity.User{}, mapWriteError(err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, repository.ErrUserNotFound
		}
		return entity.User{}, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (entity.User, error) {
	var (
		u            entity.User
		otp          *string
		verification string
		status       string
	)
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.PhoneNumber,
		&otp, &verification, &status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return entity.User{}, err
	}
	if otp != nil {
		u.OTP = *otp
	}
	var err error
	if u.Verification, err = entity.ParseVerificationStatus(verification); err != nil {
		return entity.User{}, fmt.Errorf("user %d: %w", u.ID, err)
	}
	if u.Status, err = entity.ParseAccountStatus(status); err != nil {
		return entity.User{}, fmt.Errorf("user %d: %w", u.ID, err)
	}
	return u, nil
}

// mapWriteError turns a unique violation into ErrDuplicateEmail; the database
// index is the authoritative guard against concurrent registrations.
func mapWriteError(err error) error {
	if isUniqueViolation(err) {
		return repository.ErrDuplicateEmail
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ repository.UserRepository = (*UserRepository)(nil)
