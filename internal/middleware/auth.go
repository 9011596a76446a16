package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/contactbook/contactbook/internal/errors"
	"github.com/contactbook/contactbook/internal/service"
	"github.com/contactbook/contactbook/pkg/logger"
)

// Context keys set by RequireAuth.
const (
	CtxUserID    = "user_id"
	CtxUserEmail = "user_email"
)

// UserResolver resolves a bearer access token to the calling user.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*service.UserSnapshot, error)
}

type AuthMiddleware struct {
	resolver UserResolver
}

func NewAuthMiddleware(resolver UserResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth validates the bearer access token and sets the calling
// user's id and email in the gin context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			logger.GetLogger().Warn("Missing or malformed Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": apperrors.ErrInvalidToken.Message,
			})
			return
		}

		user, err := m.resolver.CurrentUser(c.Request.Context(), token)
		if err != nil {
			logger.GetLogger().Warn("Access token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			c.AbortWithStatusJSON(apperrors.ToHTTPStatus(err), gin.H{
				"message": apperrors.GetErrorMessage(err),
			})
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxUserEmail, user.Email)

		c.Next()
	}
}

// BearerToken extracts the credential from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// UserID returns the authenticated caller's id set by RequireAuth.
func UserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(CtxUserID)
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}
