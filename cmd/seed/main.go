package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-otp-registration/config"
	"github.com/oksasatya/go-otp-registration/internal/domain/entity"
	"github.com/oksasatya/go-otp-registration/internal/domain/repository"
	pginfra "github.com/oksasatya/go-otp-registration/internal/infrastructure/postgres"
	"github.com/oksasatya/go-otp-registration/pkg/helpers"
)

// seeds one verified, active demo user through the Postgres store
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	users := pginfra.NewUserRepository(pool)

	const (
		email    = "demo@example.com"
		password = "Demo@1234"
	)
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u, err := entity.NewPendingUser("Demo", "User", email, hash, "0123456789", "").Verify()
	if err != nil {
		log.Fatalf("failed to verify demo user: %v", err)
	}

	saved, err := users.Save(ctx, u)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		logger.WithField("email", email).Info("demo user already seeded")
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	logger.WithFields(map[string]any{"id": saved.ID, "email": email}).Infof("seeded demo user (password %s)", password)
}
