package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/contactbook/contactbook/internal/dto"
	apperrors "github.com/contactbook/contactbook/internal/errors"
	"github.com/contactbook/contactbook/internal/model"
)

// memoryUserStore keeps users in a map so a full signup/confirm/login
// sequence can run against real state transitions.
type memoryUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[string]*model.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{nextID: 1, users: make(map[string]*model.User)}
}

func (s *memoryUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *memoryUserStore) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextID
	s.nextID++
	copied := *user
	s.users[user.Email] = &copied
	return nil
}

func (s *memoryUserStore) UpdateRefreshToken(ctx context.Context, userID uint, token *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ID == userID {
			user.RefreshToken = token
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *memoryUserStore) ConfirmEmail(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Confirmed = true
	return nil
}

// captureMailer records the last confirmation token so the flow test can
// follow the emailed link.
type captureMailer struct {
	tokens chan string
}

func (m *captureMailer) SendConfirmation(to, username, token string) error {
	m.tokens <- token
	return nil
}

func TestAuthFlow_SignupConfirmLoginRefresh(t *testing.T) {
	store := newMemoryUserStore()
	mailer := &captureMailer{tokens: make(chan string, 1)}
	hasher := NewBcryptHasher()
	svc := NewAuthService(store, hasher, newTestCodec(), &fakeCache{}, mailer)
	ctx := context.Background()

	// Signup.
	user, err := svc.Signup(ctx, &dto.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	assert.False(t, user.Confirmed)
	confirmToken := <-mailer.tokens

	// Login before confirmation is rejected.
	_, err = svc.Login(ctx, "alice@example.com", "s3cret-password")
	assert.ErrorIs(t, err, apperrors.ErrEmailNotConfirmed)

	// Follow the emailed confirmation link.
	message, err := svc.ConfirmEmail(ctx, confirmToken)
	require.NoError(t, err)
	assert.Equal(t, "Email confirmed", message)

	// Confirming again is a no-op.
	message, err = svc.ConfirmEmail(ctx, confirmToken)
	require.NoError(t, err)
	assert.Equal(t, "Your email is already confirmed", message)

	// Login now succeeds; wrong password still fails.
	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	pair, err := svc.Login(ctx, "alice@example.com", "s3cret-password")
	require.NoError(t, err)

	// The access token resolves to the user.
	snapshot, err := svc.CurrentUser(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, snapshot.ID)
	assert.True(t, snapshot.Confirmed)

	// Rotation with the stored token succeeds.
	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	// Someone else rotated in the meantime: the presented token no longer
	// matches the stored one, so it is rejected and the stored token is
	// revoked. A retry then fails against the empty slot.
	other := "token-stored-by-another-session"
	require.NoError(t, store.UpdateRefreshToken(ctx, user.ID, &other))

	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefresh)

	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefresh)

	stored, err := store.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshToken)
}
