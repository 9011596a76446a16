package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/contactbook/contactbook/internal/errors"
)

// Token scopes restrict what a token may be used for.
const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
)

// TokenCodec signs and verifies compact, expiring, scoped tokens carrying
// a subject (email) claim. Email-confirmation tokens carry no scope.
type TokenCodec interface {
	IssueAccess(email string) (string, error)
	IssueRefresh(email string) (string, error)
	IssueEmail(email string) (string, error)
	DecodeAccess(token string) (string, error)
	DecodeRefresh(token string) (string, error)
	DecodeEmail(token string) (string, error)
}

// JWTCodec implements TokenCodec with HS256-signed JWTs. iat and exp are
// absolute UTC timestamps, so tokens issued by an instance with a
// different clock still validate against their embedded expiry.
type JWTCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration
}

func NewJWTCodec(secret string, accessTTL, refreshTTL, emailTTL time.Duration) *JWTCodec {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	if emailTTL <= 0 {
		emailTTL = 7 * 24 * time.Hour
	}
	return &JWTCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		emailTTL:   emailTTL,
	}
}

// Issue signs a token with the given subject, scope and lifetime. An
// empty scope omits the scope claim entirely.
func (c *JWTCodec) Issue(subject, scope string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if scope != "" {
		claims["scope"] = scope
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *JWTCodec) IssueAccess(email string) (string, error) {
	return c.Issue(email, ScopeAccess, c.accessTTL)
}

func (c *JWTCodec) IssueRefresh(email string) (string, error) {
	return c.Issue(email, ScopeRefresh, c.refreshTTL)
}

func (c *JWTCodec) IssueEmail(email string) (string, error) {
	return c.Issue(email, "", c.emailTTL)
}

// Verify parses and validates the token signature and expiry, returning
// the embedded claims.
func (c *JWTCodec) Verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}

// DecodeAccess returns the subject of a valid access-scoped token.
func (c *JWTCodec) DecodeAccess(tokenString string) (string, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return "", err
	}

	if scope, _ := claims["scope"].(string); scope != ScopeAccess {
		return "", apperrors.ErrInvalidToken
	}

	email, _ := claims["sub"].(string)
	if email == "" {
		return "", apperrors.ErrInvalidToken
	}

	return email, nil
}

// DecodeRefresh returns the subject of a valid refresh-scoped token.
func (c *JWTCodec) DecodeRefresh(tokenString string) (string, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return "", err
	}

	if scope, _ := claims["scope"].(string); scope != ScopeRefresh {
		return "", apperrors.ErrInvalidTokenScope
	}

	email, _ := claims["sub"].(string)
	if email == "" {
		return "", apperrors.ErrInvalidToken
	}

	return email, nil
}

// DecodeEmail returns the subject of a valid confirmation token. No scope
// check is applied; the subject is still required.
func (c *JWTCodec) DecodeEmail(tokenString string) (string, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInvalidEmailToken, err)
	}

	email, _ := claims["sub"].(string)
	if email == "" {
		return "", apperrors.ErrInvalidEmailToken
	}

	return email, nil
}
