// Command adduser creates an app user with a bcrypt-hashed password.
// Usage: go run ./cmd/adduser -email you@example.com -password secret -name "Your Name" [-company "Your Co"]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"snapquote/internal/config"
	"snapquote/internal/domain"
	"snapquote/internal/repository/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	email := flag.String("email", "", "user email (required)")
	password := flag.String("password", "", "user password (required, min 8 chars)")
	name := flag.String("name", "", "full name (required)")
	company := flag.String("company", "", "company name shown on quotations")
	flag.Parse()

	if *email == "" || *password == "" || *name == "" {
		flag.Usage()
		return fmt.Errorf("email, password, and name are required")
	}
	if len(*password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        *email,
		PasswordHash: string(hash),
		FullName:     *name,
		CompanyName:  *company,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := postgres.NewUserRepo(db).Create(ctx, user); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	log.Printf("created user %s (%s)", user.Email, user.ID)
	return nil
}
