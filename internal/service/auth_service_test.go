package service_test

import (
	"testing"

	"github.com/feedback-board/internal/forms"
	"github.com/feedback-board/internal/models"
	"github.com/feedback-board/internal/repository"
	"github.com/feedback-board/internal/service"
	"github.com/feedback-board/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserStore is an in-memory repository.UserStore.
type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (s *fakeUserStore) GetByUsername(username string) (*models.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) Create(user *models.User) error {
	if _, ok := s.users[user.Username]; ok {
		return repository.ErrUsernameTaken
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	s.users[user.Username] = user
	return nil
}

func (s *fakeUserStore) DeleteCascade(username string) error {
	if _, ok := s.users[username]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, username)
	return nil
}

func registerForm(username string) *forms.RegisterForm {
	return &forms.RegisterForm{
		Username:  username,
		Password:  "secret1",
		Email:     username + "@example.com",
		FirstName: "First",
		LastName:  "Last",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := service.NewAuthService(store)

	user, err := svc.Register(registerForm("alice"))
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret1", user.PasswordHash, "plaintext must never be stored")
	assert.True(t, crypto.CheckPassword("secret1", user.PasswordHash))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := newFakeUserStore()
	svc := service.NewAuthService(store)

	_, err := svc.Register(registerForm("alice"))
	require.NoError(t, err)

	dup := registerForm("alice")
	dup.Email = "other@example.com"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
	assert.Len(t, store.users, 1, "account count must not increase")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := service.NewAuthService(store)

	_, err := svc.Register(registerForm("alice"))
	require.NoError(t, err)

	dup := registerForm("bob")
	dup.Email = "alice@example.com"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	store := newFakeUserStore()
	svc := service.NewAuthService(store)

	_, err := svc.Register(registerForm("alice"))
	require.NoError(t, err)

	user, err := svc.Authenticate("alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	store := newFakeUserStore()
	svc := service.NewAuthService(store)

	_, err := svc.Register(registerForm("alice"))
	require.NoError(t, err)

	// Wrong password and unknown username produce the same error.
	_, wrongPassword := svc.Authenticate("alice", "nope")
	_, unknownUser := svc.Authenticate("mallory", "secret1")

	assert.ErrorIs(t, wrongPassword, service.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, service.ErrInvalidCredentials)
}
