// Package service contains the business logic of the tracker.
//
// LAYERS:
//
//	Handler (HTTP)     → parses and validates requests, writes responses
//	Service (business) → enforces the auth gate, orchestrates
//	Repository (data)  → reads/writes the stores
//
// Services take repository interfaces, so the file-backed and sqlite stores
// are interchangeable, and tests pass in-memory fakes.
//
// THE AUTH GATE:
// A model.Session is passed explicitly into every operation that needs an
// identity. AuthService.Require is the single capability check; no
// operation trusts a session without calling it first.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/auth"
	"github.com/sakif/nutrition-tracker/internal/metrics"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

// AuthService owns the credential store operations and the session gate.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
	now       func() time.Time
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates a profile and returns it with an authenticated session.
//
// The email is stored exactly as given; identities are case-sensitive. Any
// email and password strings are accepted, so format rules belong to the
// caller. The one exception is a password bcrypt cannot hash. The raw
// password is hashed before anything is persisted.
func (s *AuthService) Register(ctx context.Context, email, rawPassword string, fields model.ProfileFields) (*model.UserProfile, model.Session, error) {
	if len(rawPassword) > auth.MaxPasswordBytes {
		return nil, model.Anonymous(), apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d bytes or less", auth.MaxPasswordBytes))
	}

	hash, err := s.passwords.Hash(rawPassword)
	if err != nil {
		return nil, model.Anonymous(), fmt.Errorf("hashing password: %w", err)
	}

	now := s.now().UTC()
	user := &model.UserProfile{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	user.Apply(fields)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicateIdentity) {
			metrics.RecordAuthFailure(metrics.ReasonDuplicateIdentity)
			return nil, model.Anonymous(), err
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, model.Anonymous(), fmt.Errorf("creating user: %w", err)
	}

	metrics.RecordRegistration()
	s.logger.Info("user registered", slog.String("email", email))

	return user, model.AuthenticatedAs(email), nil
}

// Authenticate checks an email and password pair.
//
// An unknown email and a wrong password produce the same error value. For an
// unknown email the password is still run through bcrypt against a dummy
// hash so both paths take comparable time.
func (s *AuthService) Authenticate(ctx context.Context, email, rawPassword string) (*model.UserProfile, model.Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, model.Anonymous(), fmt.Errorf("looking up user: %w", err)
		}
		s.passwords.BurnVerify(rawPassword)
		metrics.RecordAuthFailure(metrics.ReasonInvalidCredential)
		return nil, model.Anonymous(), apperror.InvalidCredential()
	}

	if err := s.passwords.Verify(user.PasswordHash, rawPassword); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("stored password hash is unreadable",
				slog.String("email", email),
				slog.String("error", err.Error()),
			)
		}
		metrics.RecordAuthFailure(metrics.ReasonInvalidCredential)
		return nil, model.Anonymous(), apperror.InvalidCredential()
	}

	s.logger.Info("user logged in", slog.String("email", email))
	return user, model.AuthenticatedAs(email), nil
}

// Logout always returns the anonymous session.
func (s *AuthService) Logout(sess model.Session) model.Session {
	if sess.Authenticated() {
		s.logger.Info("user logged out", slog.String("email", sess.Email()))
	}
	return model.Anonymous()
}

// Require is the capability check every gated operation calls first.
//
// It fails with ErrUnauthenticated for an anonymous session. If the session's
// profile no longer exists it also fails with ErrUnauthenticated and returns
// the anonymous session, which the caller must adopt in place of the stale
// one. On success the returned session is the one passed in.
func (s *AuthService) Require(ctx context.Context, sess model.Session) (*model.UserProfile, model.Session, error) {
	if !sess.Authenticated() {
		metrics.RecordAuthFailure(metrics.ReasonUnauthenticated)
		return nil, model.Anonymous(), apperror.Unauthenticated("login required")
	}

	user, err := s.users.GetByEmail(ctx, sess.Email())
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Info("session dropped: profile no longer exists",
				slog.String("email", sess.Email()),
			)
			metrics.RecordAuthFailure(metrics.ReasonUnauthenticated)
			return nil, model.Anonymous(), apperror.Unauthenticated("profile no longer exists")
		}
		return nil, sess, fmt.Errorf("looking up session user: %w", err)
	}

	return user, sess, nil
}

// Profile returns the profile behind an authenticated session.
func (s *AuthService) Profile(ctx context.Context, sess model.Session) (*model.UserProfile, error) {
	user, _, err := s.Require(ctx, sess)
	return user, err
}

// UpdateProfile overwrites the mutable fields of the session's profile. The
// stored credential is never touched.
func (s *AuthService) UpdateProfile(ctx context.Context, sess model.Session, fields model.ProfileFields) (*model.UserProfile, error) {
	user, _, err := s.Require(ctx, sess)
	if err != nil {
		return nil, err
	}

	user.Apply(fields)
	user.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update user",
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.logger.Info("profile updated", slog.String("email", user.Email))
	return user, nil
}

// DeleteProfile removes the session's profile and returns the anonymous
// session. Meal-log entries of the user are left in place.
func (s *AuthService) DeleteProfile(ctx context.Context, sess model.Session) (model.Session, error) {
	user, next, err := s.Require(ctx, sess)
	if err != nil {
		return next, err
	}

	if err := s.users.Delete(ctx, user.Email); err != nil {
		s.logger.Error("failed to delete user",
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
		return sess, fmt.Errorf("deleting user: %w", err)
	}

	s.logger.Info("profile deleted", slog.String("email", user.Email))
	return model.Anonymous(), nil
}

// IssueToken signs a session token for an authenticated session.
func (s *AuthService) IssueToken(sess model.Session) (string, error) {
	if !sess.Authenticated() {
		return "", apperror.Unauthenticated("cannot issue a token for an anonymous session")
	}
	return s.tokens.Generate(sess.Email())
}
