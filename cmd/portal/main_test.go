package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portal/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "create-user"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestMigrateCmd_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestCreateUserCmd_Validation(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing flags", []string{"create-user"}, "required flag"},
		{"short password", []string{"create-user", "--email", "a@b.com", "--password", "short"}, "at least 8"},
		{"no database", []string{"create-user", "--email", "a@b.com", "--password", "longenough"}, "DATABASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                  8080,
		AppEnv:                "development",
		SessionStore:          config.SessionStoreMemory,
		SessionMaxAge:         3600,
		SessionMemoryCapacity: 100,
		AutoMigrate:           true,
		AuthVerifier:          config.VerifierStatic,
		AuthUsers:             []string{"a@b.com:secret"},
		AuthTimeout:           time.Second,
	}
}

func TestBuildApp_StaticMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	application, err := buildApp(context.Background(), testConfig(), logger)
	require.NoError(t, err)
	defer application.close()

	rec := httptest.NewRecorder()
	application.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildApp_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.SessionStore = config.SessionStoreRedis
	cfg.RedisAddr = mr.Addr()
	cfg.AuthVerifier = config.VerifierAccounts

	application, err := buildApp(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer application.close()

	rec := httptest.NewRecorder()
	application.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/register", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="confirm_password"`)
}

func TestBuildApp_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.SessionStore = config.SessionStoreRedis
	cfg.RedisAddr = mr.Addr()
	mr.Close()

	_, err := buildApp(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
