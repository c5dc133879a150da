package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ofertaapp/oferta-server/internal/auth"
	"github.com/ofertaapp/oferta-server/internal/domain"
	"github.com/ofertaapp/oferta-server/internal/errors"
	"github.com/ofertaapp/oferta-server/internal/id"
	"github.com/ofertaapp/oferta-server/internal/store"
	"github.com/ofertaapp/oferta-server/internal/validation"
)

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=60"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
}

// LoginInput is the payload for authenticating.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is a successful authentication: the user plus a fresh access token.
type Session struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// AuthService handles registration, login and token verification.
type AuthService struct {
	store    store.Store
	tokens   *auth.TokenService
	validate *validation.Validator
	logger   *slog.Logger
}

// NewAuthService creates an auth service.
func NewAuthService(st store.Store, tokens *auth.TokenService, validate *validation.Validator, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:    st,
		tokens:   tokens,
		validate: validate,
		logger:   logger.With("component", "auth"),
	}
}

// Register creates an account and returns a logged-in session.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, errors.Validation(err.Error())
	}

	user := &domain.User{
		ID:           id.MustGenerate(id.PrefixUser),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		DisplayName:  in.DisplayName,
		PasswordHash: hash,
		CreatedAt:    nowUTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.AlreadyExists("an account with this email already exists")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create user")
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return s.newSession(user)
}

// Login authenticates by email and password. Unknown email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.Unauthorized("invalid email or password")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "storage failure")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, in.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to verify password")
	}
	if !ok {
		return nil, errors.Unauthorized("invalid email or password")
	}

	return s.newSession(user)
}

// Verify resolves an access token to its user.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, errors.Unauthorized("invalid or expired token")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.Unauthorized("account no longer exists")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "storage failure")
	}
	return user, nil
}

func (s *AuthService) newSession(user *domain.User) (*Session, error) {
	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to issue access token")
	}
	return &Session{User: user, AccessToken: token}, nil
}
