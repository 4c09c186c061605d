// Command seedadmin creates the initial admin account.
// It is safe to run repeatedly: an existing account with the same email
// is left untouched.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/vietcharge/vietcharge/internal/apperrors"
	"github.com/vietcharge/vietcharge/internal/db"
	"github.com/vietcharge/vietcharge/internal/models"
	"github.com/vietcharge/vietcharge/internal/repository/postgres"
	"github.com/vietcharge/vietcharge/internal/service/auth"
	"github.com/vietcharge/vietcharge/internal/service/user"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "seedadmin: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		dsn      = os.Getenv("DATABASE_URI")
		email    = os.Getenv("ADMIN_EMAIL")
		password = os.Getenv("ADMIN_PASSWORD")
		fullName = "Administrator"
	)

	fs := pflag.NewFlagSet("seedadmin", pflag.ContinueOnError)
	fs.StringVarP(&dsn, "database", "d", dsn, "Database connection string")
	fs.StringVarP(&email, "email", "e", email, "Admin email")
	fs.StringVarP(&password, "password", "p", password, "Admin password")
	fs.StringVarP(&fullName, "name", "n", fullName, "Admin full name")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if email == "" || password == "" {
		return errors.New("email and password are required (flags or ADMIN_EMAIL / ADMIN_PASSWORD)")
	}

	pool, err := db.ConnectAndMigrate(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer pool.Close()

	userService := user.NewService(auth.DefaultHasher, postgres.NewStorage(pool))

	created, err := userService.CreateUser(ctx, user.CreateUserParams{
		Email:    email,
		Password: password,
		FullName: fullName,
		Role:     models.RoleAdmin,
	})
	switch {
	case errors.Is(err, apperrors.ErrEmailTaken):
		fmt.Printf("admin %s already exists, nothing to do\n", email)
		return nil
	case err != nil:
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Printf("admin %s created with id %s\n", created.Email, created.ID)
	return nil
}
