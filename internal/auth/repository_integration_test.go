//go:build integration

package auth_test

import (
	"context"
	"testing"
	"time"

	"portal/internal/auth"
	"portal/internal/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newPostgres(t *testing.T) database.Service {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("portal"),
		postgres.WithUsername("portal"),
		postgres.WithPassword("portal"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	version, err := database.Migrate(connStr)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	db, err := database.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestPostgresRepository(t *testing.T) {
	db := newPostgres(t)
	repo := auth.NewPostgresRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	user := &auth.User{
		ID:           uuid.NewString(),
		Email:        "user@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$a2V5",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.True(t, user.CreatedAt.Equal(got.CreatedAt))

	dup := *user
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.Create(ctx, &dup), auth.ErrEmailExists)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	assert.Equal(t, "up", db.Health(ctx)["status"])
}

func TestPostgresRepository_MigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("portal"),
		postgres.WithUsername("portal"),
		postgres.WithPassword("portal"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	first, err := database.Migrate(connStr)
	require.NoError(t, err)
	second, err := database.Migrate(connStr)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
