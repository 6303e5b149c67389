package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Verifier decides whether a set of credentials is accepted. Implementations
// return ErrInvalidCredentials on rejection; any other error means the
// verifier could not reach a decision.
type Verifier interface {
	Verify(ctx context.Context, creds Credentials) (*Identity, error)
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StaticVerifier accepts a fixed set of email/password pairs. Only SHA-256
// digests of the passwords are kept.
type StaticVerifier struct {
	digests map[string][sha256.Size]byte
	dummy   [sha256.Size]byte
}

// NewStaticVerifier builds a verifier from "email:password" entries
func NewStaticVerifier(entries []string) (*StaticVerifier, error) {
	v := &StaticVerifier{
		digests: make(map[string][sha256.Size]byte, len(entries)),
		dummy:   sha256.Sum256([]byte(uuid.NewString())),
	}
	for _, entry := range entries {
		email, password, ok := strings.Cut(entry, ":")
		email = NormalizeEmail(email)
		if !ok || email == "" || password == "" {
			return nil, fmt.Errorf("invalid static user entry %q: want email:password", redactEntry(entry))
		}
		v.digests[email] = sha256.Sum256([]byte(password))
	}
	if len(v.digests) == 0 {
		return nil, errors.New("static verifier needs at least one user")
	}
	return v, nil
}

// Verify compares the password in constant time
func (v *StaticVerifier) Verify(ctx context.Context, creds Credentials) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(creds.Email)
	want, ok := v.digests[email]
	if !ok {
		// Unknown emails still run a full-length comparison
		want = v.dummy
	}
	got := sha256.Sum256([]byte(creds.Password))
	if subtle.ConstantTimeCompare(want[:], got[:]) != 1 || !ok {
		return nil, ErrInvalidCredentials
	}

	return &Identity{
		UserID: uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
		Email:  email,
	}, nil
}

func redactEntry(entry string) string {
	email, _, _ := strings.Cut(entry, ":")
	return email + ":***"
}

// AccountVerifier checks credentials against registered accounts
type AccountVerifier struct {
	users  Repository
	hasher PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

// NewAccountVerifier creates a verifier backed by the account repository
func NewAccountVerifier(users Repository, hasher PasswordHasher) *AccountVerifier {
	return &AccountVerifier{users: users, hasher: hasher}
}

// dummy returns a well-formed hash that no submitted password matches, so
// lookups of unknown emails still run a full verification
func (v *AccountVerifier) dummy() string {
	v.dummyOnce.Do(func() {
		v.dummyHash, _ = v.hasher.Hash(uuid.NewString())
	})
	return v.dummyHash
}

// Verify looks the account up by email and checks its password hash
func (v *AccountVerifier) Verify(ctx context.Context, creds Credentials) (*Identity, error) {
	user, err := v.users.GetByEmail(ctx, NormalizeEmail(creds.Email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	target := v.dummy()
	if user != nil {
		target = user.PasswordHash
	}

	ok, verifyErr := v.hasher.Verify(creds.Password, target)
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if verifyErr != nil {
		return nil, fmt.Errorf("failed to verify password for %s: %w", user.Email, verifyErr)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return &Identity{UserID: user.ID, Email: user.Email}, nil
}
