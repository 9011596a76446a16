package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/contactbook/contactbook/internal/dto"
	apperrors "github.com/contactbook/contactbook/internal/errors"
	"github.com/contactbook/contactbook/internal/middleware"
	"github.com/contactbook/contactbook/internal/model"
	"github.com/contactbook/contactbook/internal/service"
	"github.com/contactbook/contactbook/pkg/logger"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup registers a new account and triggers the confirmation email.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		logger.GetLogger().Warn("Signup failed",
			zap.String("email", req.Email),
			zap.Error(err))
		c.JSON(apperrors.ToHTTPStatus(err), gin.H{
			"message": apperrors.GetErrorMessage(err),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.SignupResponse{
		User:   toUserResponse(user),
		Detail: "User successfully created. Check your email for confirmation.",
	})
}

// Login authenticates with OAuth2 password-grant style form fields.
// The username field carries the user's email.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.GetLogger().Warn("Login failed",
			zap.String("email", req.Username),
			zap.Error(err))
		c.JSON(apperrors.ToHTTPStatus(err), gin.H{
			"message": apperrors.GetErrorMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, pair)
}

// RefreshToken rotates the refresh token presented as a bearer
// credential.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": apperrors.ErrInvalidToken.Message,
		})
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		logger.GetLogger().Warn("Token refresh failed", zap.Error(err))
		c.JSON(apperrors.ToHTTPStatus(err), gin.H{
			"message": apperrors.GetErrorMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, pair)
}

// ConfirmEmail consumes the emailed confirmation token.
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	message, err := h.authService.ConfirmEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		logger.GetLogger().Warn("Email confirmation failed", zap.Error(err))
		c.JSON(apperrors.ToHTTPStatus(err), gin.H{
			"message": apperrors.GetErrorMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}

// RequestEmail re-sends the confirmation email. The response does not
// reveal whether the account exists.
func (h *AuthHandler) RequestEmail(c *gin.Context) {
	var req dto.RequestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	message, err := h.authService.ResendConfirmation(c.Request.Context(), req.Email)
	if err != nil {
		logger.GetLogger().Error("Resend confirmation failed", zap.Error(err))
		c.JSON(apperrors.ToHTTPStatus(err), gin.H{
			"message": apperrors.GetErrorMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Confirmed: user.Confirmed,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}
}
