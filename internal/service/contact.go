package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/contactbook/contactbook/internal/dto"
	apperrors "github.com/contactbook/contactbook/internal/errors"
	"github.com/contactbook/contactbook/internal/model"
	"github.com/contactbook/contactbook/internal/repository"
)

const birthdayLayout = "2006-01-02"

// ContactStore is the persistent, per-user contact store.
type ContactStore interface {
	GetAll(ctx context.Context, userID uint, filter repository.ContactFilter) ([]model.Contact, error)
	GetBirthdaysWithin(ctx context.Context, userID uint, from, to time.Time) ([]model.Contact, error)
	GetByID(ctx context.Context, userID, contactID uint) (*model.Contact, error)
	Create(ctx context.Context, contact *model.Contact) error
	Update(ctx context.Context, userID uint, contact *model.Contact) error
	Delete(ctx context.Context, userID, contactID uint) error
}

// ContactService exposes contact CRUD scoped to the owning user.
type ContactService struct {
	contacts ContactStore
	now      func() time.Time
}

func NewContactService(contacts ContactStore) *ContactService {
	return &ContactService{
		contacts: contacts,
		now:      time.Now,
	}
}

func (s *ContactService) List(ctx context.Context, userID uint, filter *dto.ContactFilter) ([]dto.ContactResponse, error) {
	contacts, err := s.contacts.GetAll(ctx, userID, repository.ContactFilter{
		Skip:            filter.Skip,
		Limit:           filter.Limit,
		SearchFirstName: filter.SearchFirstName,
		SearchLastName:  filter.SearchLastName,
		SearchEmail:     filter.SearchEmail,
	})
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return toContactResponses(contacts), nil
}

// UpcomingBirthdays returns the user's contacts whose birthday falls in
// [today, today+7 days] inclusive.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID uint) ([]dto.ContactResponse, error) {
	today := s.today()
	contacts, err := s.contacts.GetBirthdaysWithin(ctx, userID, today, today.AddDate(0, 0, 7))
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return toContactResponses(contacts), nil
}

func (s *ContactService) Get(ctx context.Context, userID, contactID uint) (*dto.ContactResponse, error) {
	contact, err := s.contacts.GetByID(ctx, userID, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := toContactResponse(contact)
	return &response, nil
}

func (s *ContactService) Create(ctx context.Context, userID uint, req *dto.ContactRequest) (*dto.ContactResponse, error) {
	contact, err := contactFromRequest(userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := toContactResponse(contact)
	return &response, nil
}

func (s *ContactService) Update(ctx context.Context, userID, contactID uint, req *dto.ContactRequest) (*dto.ContactResponse, error) {
	contact, err := contactFromRequest(userID, req)
	if err != nil {
		return nil, err
	}
	contact.ID = contactID

	if err := s.contacts.Update(ctx, userID, contact); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return s.Get(ctx, userID, contactID)
}

func (s *ContactService) Delete(ctx context.Context, userID, contactID uint) (*dto.ContactResponse, error) {
	contact, err := s.Get(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}

	if err := s.contacts.Delete(ctx, userID, contactID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return contact, nil
}

// today truncates the clock to a UTC calendar date.
func (s *ContactService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func contactFromRequest(userID uint, req *dto.ContactRequest) (*model.Contact, error) {
	// Binding validates the layout; a parse failure here means the
	// handler skipped validation.
	birthday, err := time.Parse(birthdayLayout, req.Birthday)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidInput, err)
	}

	return &model.Contact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Birthday:  datatypes.Date(birthday),
		Notes:     req.Notes,
		UserID:    userID,
	}, nil
}

func toContactResponse(contact *model.Contact) dto.ContactResponse {
	return dto.ContactResponse{
		ID:        contact.ID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Birthday:  time.Time(contact.Birthday).Format(birthdayLayout),
		Notes:     contact.Notes,
		CreatedAt: contact.CreatedAt,
	}
}

func toContactResponses(contacts []model.Contact) []dto.ContactResponse {
	responses := make([]dto.ContactResponse, 0, len(contacts))
	for i := range contacts {
		responses = append(responses, toContactResponse(&contacts[i]))
	}
	return responses
}
