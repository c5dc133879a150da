package service

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofertaapp/oferta-server/internal/auth"
	"github.com/ofertaapp/oferta-server/internal/errors"
	"github.com/ofertaapp/oferta-server/internal/store/sqlite"
	"github.com/ofertaapp/oferta-server/internal/validation"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	tokens, err := auth.NewTokenService(hex.EncodeToString(make([]byte, 32)), time.Hour)
	require.NoError(t, err)

	return NewAuthService(st, tokens, validation.New(), logger)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{
		Email:       "A@Example.com",
		DisplayName: "Alice",
		Password:    "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	// Emails are stored lowercased.
	assert.Equal(t, "a@example.com", session.User.Email)

	login, err := svc.Login(ctx, LoginInput{Email: "a@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)

	user, err := svc.Verify(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	in := RegisterInput{Email: "a@example.com", DisplayName: "Alice", Password: "hunter2hunter2"}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", DisplayName: "Alice", Password: "hunter2hunter2"})
	require.NoError(t, err)

	// Unknown email and wrong password produce the same error.
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginInput{Email: "a@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestVerify_BadToken(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Verify(context.Background(), "v4.local.garbage")
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "not-an-email",
		DisplayName: "A",
		Password:    "short",
	})
	assert.ErrorIs(t, err, errors.ErrValidation)
}
