package main

import (
	"context"
	"os"
	"time"

	"portal/internal/auth"
	"portal/internal/database"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

const minPasswordLength = 8

// NewCreateUserCmd creates the create-user subcommand.
func NewCreateUserCmd() *cobra.Command {
	var emailAddr, password string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account in the database",
		Long:  `Create an account that can sign in with the accounts verifier.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreateUser(cmd, emailAddr, password)
		},
	}

	cmd.Flags().StringVar(&emailAddr, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runCreateUser(cmd *cobra.Command, emailAddr, password string) error {
	emailAddr = auth.NormalizeEmail(emailAddr)
	if emailAddr == "" {
		return oops.Code("INVALID_ARGUMENT").Errorf("email must not be empty")
	}
	if len(password) < minPasswordLength {
		return oops.Code("INVALID_ARGUMENT").Errorf("password must be at least %d characters", minPasswordLength)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL environment variable is required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()

	hash, err := auth.NewArgon2idHasher().Hash(password)
	if err != nil {
		return oops.Code("HASH_FAILED").Wrap(err)
	}

	now := time.Now().UTC()
	user := &auth.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := auth.NewPostgresRepository(db).Create(ctx, user); err != nil {
		return oops.Code("CREATE_USER_FAILED").With("email", emailAddr).Wrap(err)
	}

	cmd.Printf("Created user %s (%s)\n", user.Email, user.ID)
	return nil
}
