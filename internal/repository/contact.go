package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/contactbook/contactbook/internal/model"
	"github.com/contactbook/contactbook/pkg/logger"
)

// ContactFilter narrows GetAll results. Substring filters are
// case-insensitive; empty strings are ignored.
type ContactFilter struct {
	Skip            int
	Limit           int
	SearchFirstName string
	SearchLastName  string
	SearchEmail     string
}

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// GetAll lists a user's contacts with pagination and optional filters.
func (r *ContactRepository) GetAll(ctx context.Context, userID uint, filter ContactFilter) ([]model.Contact, error) {
	start := time.Now()
	var contacts []model.Contact

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.SearchFirstName != "" {
		query = query.Where("LOWER(first_name) LIKE LOWER(?)", "%"+filter.SearchFirstName+"%")
	}
	if filter.SearchLastName != "" {
		query = query.Where("LOWER(last_name) LIKE LOWER(?)", "%"+filter.SearchLastName+"%")
	}
	if filter.SearchEmail != "" {
		query = query.Where("LOWER(email) LIKE LOWER(?)", "%"+filter.SearchEmail+"%")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	if err := query.Order("id").Offset(filter.Skip).Limit(limit).Find(&contacts).Error; err != nil {
		logger.GetLogger().Error("Failed to list contacts",
			zap.Uint("user_id", userID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	return contacts, nil
}

// GetBirthdaysWithin lists the user's contacts whose birthday falls in
// [from, to] inclusive.
func (r *ContactRepository) GetBirthdaysWithin(ctx context.Context, userID uint, from, to time.Time) ([]model.Contact, error) {
	var contacts []model.Contact

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("birthday >= ? AND birthday <= ?", datatypes.Date(from), datatypes.Date(to)).
		Order("birthday").
		Find(&contacts).Error
	if err != nil {
		logger.GetLogger().Error("Failed to list upcoming birthdays",
			zap.Uint("user_id", userID),
			zap.Error(err))
		return nil, err
	}

	return contacts, nil
}

// GetByID fetches a single contact owned by the user. Returns
// gorm.ErrRecordNotFound when absent or owned by someone else.
func (r *ContactRepository) GetByID(ctx context.Context, userID, contactID uint) (*model.Contact, error) {
	var contact model.Contact

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", contactID, userID).
		First(&contact)
	if result.Error != nil {
		return nil, result.Error
	}

	return &contact, nil
}

// Create inserts a contact for the user.
func (r *ContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		logger.GetLogger().Error("Failed to create contact",
			zap.Uint("user_id", contact.UserID),
			zap.Error(err))
		return err
	}

	logger.GetLogger().Info("Contact created",
		zap.Uint("user_id", contact.UserID),
		zap.Uint("contact_id", contact.ID))
	return nil
}

// Update replaces the mutable fields of a contact owned by the user.
func (r *ContactRepository) Update(ctx context.Context, userID uint, contact *model.Contact) error {
	result := r.db.WithContext(ctx).Model(&model.Contact{}).
		Where("id = ? AND user_id = ?", contact.ID, userID).
		Updates(map[string]interface{}{
			"first_name": contact.FirstName,
			"last_name":  contact.LastName,
			"email":      contact.Email,
			"phone":      contact.Phone,
			"birthday":   contact.Birthday,
			"notes":      contact.Notes,
		})
	if result.Error != nil {
		logger.GetLogger().Error("Failed to update contact",
			zap.Uint("user_id", userID),
			zap.Uint("contact_id", contact.ID),
			zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a contact owned by the user.
func (r *ContactRepository) Delete(ctx context.Context, userID, contactID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", contactID, userID).
		Delete(&model.Contact{})
	if result.Error != nil {
		logger.GetLogger().Error("Failed to delete contact",
			zap.Uint("user_id", userID),
			zap.Uint("contact_id", contactID),
			zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.GetLogger().Info("Contact deleted",
		zap.Uint("user_id", userID),
		zap.Uint("contact_id", contactID))
	return nil
}
