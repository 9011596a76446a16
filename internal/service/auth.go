package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/contactbook/contactbook/internal/dto"
	apperrors "github.com/contactbook/contactbook/internal/errors"
	"github.com/contactbook/contactbook/internal/model"
	"github.com/contactbook/contactbook/pkg/logger"
)

// Messages returned by the confirmation flows.
const (
	msgAlreadyConfirmed = "Your email is already confirmed"
	msgEmailConfirmed   = "Email confirmed"
	msgCheckEmail       = "Check your email for confirmation"
)

// UserStore is the persistent user directory.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdateRefreshToken(ctx context.Context, userID uint, token *string) error
	ConfirmEmail(ctx context.Context, email string) error
}

// Mailer delivers confirmation mail. Implementations handle their own
// timeouts; callers dispatch in the background and only log failures.
type Mailer interface {
	SendConfirmation(to, username, token string) error
}

// AuthService composes the hasher, token codec, session cache and user
// store into the signup/login/refresh/confirm flows.
type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	codec  TokenCodec
	cache  SessionCache
	mailer Mailer
}

func NewAuthService(users UserStore, hasher PasswordHasher, codec TokenCodec, cache SessionCache, mailer Mailer) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		codec:  codec,
		cache:  cache,
		mailer: mailer,
	}
}

// Signup registers a new account and dispatches a confirmation email in
// the background.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*model.User, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if existing != nil {
		return nil, apperrors.ErrAccountExists
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.dispatchConfirmation(user.Email, user.Username)

	logger.GetLogger().Info("User signed up",
		zap.String("email", user.Email),
		zap.Uint("user_id", user.ID))

	return user, nil
}

// Login authenticates by email and password and returns a fresh token
// pair. The new refresh token overwrites any previously stored one.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidEmail
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !user.Confirmed {
		return nil, apperrors.ErrEmailNotConfirmed
	}

	if !s.hasher.Verify(password, user.Password) {
		logger.GetLogger().Warn("Login failed: incorrect password",
			zap.String("email", email))
		return nil, apperrors.ErrInvalidPassword
	}

	pair, err := s.issueTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	logger.GetLogger().Info("User logged in",
		zap.String("email", email),
		zap.Uint("user_id", user.ID))

	return pair, nil
}

// Refresh rotates a refresh token. A presented token that does not match
// the stored one is treated as a reuse signal: the stored token is
// cleared so the holder of either copy must log in again.
func (s *AuthService) Refresh(ctx context.Context, token string) (*dto.TokenResponse, error) {
	email, err := s.codec.DecodeRefresh(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidRefresh
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != token {
		logger.GetLogger().Warn("Refresh token mismatch, revoking stored token",
			zap.String("email", email),
			zap.Uint("user_id", user.ID))
		if err := s.users.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		return nil, apperrors.ErrInvalidRefresh
	}

	pair, err := s.issueTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	logger.GetLogger().Info("Refresh token rotated",
		zap.String("email", email),
		zap.Uint("user_id", user.ID))

	return pair, nil
}

// ConfirmEmail flips the confirmed flag for the token's subject.
// Confirming an already-confirmed account is idempotent.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (string, error) {
	email, err := s.codec.DecodeEmail(token)
	if err != nil {
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrVerification
		}
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user.Confirmed {
		return msgAlreadyConfirmed, nil
	}

	if err := s.users.ConfirmEmail(ctx, email); err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return msgEmailConfirmed, nil
}

// ResendConfirmation dispatches the confirmation email again. An unknown
// email gets the same generic response with no mail sent, so the endpoint
// does not reveal whether an account exists.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return msgCheckEmail, nil
		}
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user.Confirmed {
		return msgAlreadyConfirmed, nil
	}

	s.dispatchConfirmation(user.Email, user.Username)
	return msgCheckEmail, nil
}

// CurrentUser resolves a bearer access token to a user snapshot through
// the session cache. Cache errors degrade to a direct store lookup; the
// cache is never populated for unknown users.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*UserSnapshot, error) {
	email, err := s.codec.DecodeAccess(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	snapshot, err := s.cache.Get(ctx, email)
	if err != nil {
		logger.GetLogger().Warn("Session cache unavailable, falling back to store",
			zap.String("email", email),
			zap.Error(err))
	}
	if snapshot != nil {
		return snapshot, nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.cache.Put(ctx, email, user); err != nil {
		logger.GetLogger().Warn("Failed to populate session cache",
			zap.String("email", email),
			zap.Error(err))
	}

	return &UserSnapshot{
		Version:   snapshotVersion,
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Confirmed: user.Confirmed,
		Avatar:    user.Avatar,
	}, nil
}

// issueTokenPair mints an access+refresh pair and persists the refresh
// token. Token issuance and the durable write are not atomic; a crash in
// between leaves the client holding a token the server will reject on
// the next refresh, which only forces a re-login.
func (s *AuthService) issueTokenPair(ctx context.Context, userID uint, email string) (*dto.TokenResponse, error) {
	access, err := s.codec.IssueAccess(email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refresh, err := s.codec.IssueRefresh(email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdateRefreshToken(ctx, userID, &refresh); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (s *AuthService) dispatchConfirmation(email, username string) {
	token, err := s.codec.IssueEmail(email)
	if err != nil {
		logger.GetLogger().Error("Failed to issue confirmation token",
			zap.String("email", email),
			zap.Error(err))
		return
	}

	// Fire-and-forget: the triggering request must not block on the
	// mail server.
	go func() {
		if err := s.mailer.SendConfirmation(email, username, token); err != nil {
			logger.GetLogger().Error("Failed to send confirmation email",
				zap.String("email", email),
				zap.Error(err))
		}
	}()
}
