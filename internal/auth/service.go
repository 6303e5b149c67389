// Package auth implements the login gate and account registration.
// Credentials are checked by a pluggable Verifier; accepted logins become
// sessions in the session Manager.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"portal/internal/email"
	"portal/internal/metrics"
	"portal/internal/session"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// Service defines the authentication gate
type Service interface {
	Login(ctx context.Context, currentSessionID string, creds Credentials) (*session.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Current(ctx context.Context, sessionID string) (*session.Session, error)
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	RegistrationEnabled() bool
}

// Options configures a Service. Users may be nil, which disables registration.
type Options struct {
	Sessions   session.Manager
	Verifier   Verifier
	Users      Repository
	Hasher     PasswordHasher
	Email      email.Sender
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	SessionTTL time.Duration
}

// service implements the Service interface
type service struct {
	sessions session.Manager
	verifier Verifier
	users    Repository
	hasher   PasswordHasher
	email    email.Sender
	metrics  *metrics.Metrics
	logger   *slog.Logger
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a new authentication service
func NewService(opts Options) Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	hasher := opts.Hasher
	if hasher == nil {
		hasher = NewArgon2idHasher()
	}

	return &service{
		sessions: opts.Sessions,
		verifier: opts.Verifier,
		users:    opts.Users,
		hasher:   hasher,
		email:    opts.Email,
		metrics:  opts.Metrics,
		logger:   logger,
		ttl:      opts.SessionTTL,
		now:      time.Now,
	}
}

// Login verifies creds and, on success, replaces the client's current
// session with a new one. On failure the session store is left untouched.
func (s *service) Login(ctx context.Context, currentSessionID string, creds Credentials) (*session.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		s.metrics.LoginAttempt(metrics.OutcomeMissing)
		return nil, loginFailure(CodeMissingCredentials, ErrMissingCredentials)
	}

	identity, err := s.verifier.Verify(ctx, creds)
	if errors.Is(err, ErrInvalidCredentials) {
		s.metrics.LoginAttempt(metrics.OutcomeRejected)
		s.logger.WarnContext(ctx, "login rejected", "email", creds.Email)
		return nil, loginFailure(CodeInvalidCredentials, err)
	}
	if err != nil {
		return nil, s.unavailable(ctx, creds.Email, err)
	}

	sess, err := s.sessions.Create(ctx, identity.UserID, identity.Email, s.ttl)
	if err != nil {
		return nil, s.unavailable(ctx, creds.Email, err)
	}

	// Previous session goes only after the new one is stored
	if currentSessionID != "" && currentSessionID != sess.ID {
		if err := s.sessions.Delete(ctx, currentSessionID); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous session", "error", err)
		}
	}

	s.metrics.LoginAttempt(metrics.OutcomeSuccess)
	s.logger.InfoContext(ctx, "login succeeded", "email", identity.Email, "user_id", identity.UserID)
	return sess, nil
}

func (s *service) unavailable(ctx context.Context, email string, cause error) error {
	s.metrics.LoginAttempt(metrics.OutcomeUnavailable)
	s.logger.ErrorContext(ctx, "login failed", "email", email, "error", cause)
	return loginFailure(CodeUnavailable, cause)
}

// Logout removes the session; calling it again has no further effect
func (s *service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.metrics.Logout()
	return nil
}

// Current returns the live session for sessionID
func (s *service) Current(ctx context.Context, sessionID string) (*session.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *service) RegistrationEnabled() bool {
	return s.users != nil
}

// Register creates an account. The caller is not logged in.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if s.users == nil {
		return nil, oops.Code(CodeRegistrationDisabled).Wrap(ErrRegistrationDisabled)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.metrics.Registration("error")
		return nil, oops.Code(CodeRegistrationFailed).Wrap(fmt.Errorf("failed to hash password: %w", err))
	}

	now := s.now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(req.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			s.metrics.Registration("duplicate")
			return nil, oops.Code(CodeEmailExists).Wrap(err)
		}
		s.metrics.Registration("error")
		s.logger.ErrorContext(ctx, "registration failed", "email", user.Email, "error", err)
		return nil, oops.Code(CodeRegistrationFailed).Wrap(err)
	}

	s.metrics.Registration(metrics.OutcomeSuccess)
	s.logger.InfoContext(ctx, "account registered", "email", user.Email, "user_id", user.ID)

	if s.email != nil {
		if err := s.email.SendWelcome(ctx, user.Email); err != nil {
			s.logger.WarnContext(ctx, "failed to send welcome email", "email", user.Email, "error", err)
		}
	}

	return user, nil
}
