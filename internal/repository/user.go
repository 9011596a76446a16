package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/contactbook/contactbook/internal/model"
	"github.com/contactbook/contactbook/pkg/logger"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail finds a user by email. Returns gorm.ErrRecordNotFound when
// no such user exists.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.GetLogger().Error("Failed to get user by email",
				zap.String("email", email),
				zap.Duration("duration", time.Since(start)),
				zap.Error(result.Error))
		}
		return nil, result.Error
	}

	return &user, nil
}

// Create inserts a new user record.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to create user",
			zap.String("email", user.Email),
			zap.Error(result.Error))
		return result.Error
	}

	logger.GetLogger().Info("User created",
		zap.String("email", user.Email),
		zap.Uint("user_id", user.ID))
	return nil
}

// UpdateRefreshToken stores the user's active refresh token. A nil token
// clears it, forcing re-login.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, userID uint, token *string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to update refresh token",
			zap.Uint("user_id", userID),
			zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ConfirmEmail marks the user with the given email as confirmed.
func (r *UserRepository) ConfirmEmail(ctx context.Context, email string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Update("confirmed", true)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to confirm email",
			zap.String("email", email),
			zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.GetLogger().Info("Email confirmed", zap.String("email", email))
	return nil
}

// UpdateAvatar sets the user's avatar URL.
func (r *UserRepository) UpdateAvatar(ctx context.Context, email, url string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Update("avatar", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
