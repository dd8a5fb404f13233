package user_test

import (
	"errors"
	"testing"

	"messengerclone/pkg/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(u *user.User) error {
	args := m.Called(u)
	u.ID = 1
	return args.Error(0)
}

func (m *mockRepo) GetByID(id int64) (*user.User, error) {
	args := m.Called(id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockRepo) GetByPhone(phone string) (*user.User, error) {
	args := m.Called(phone)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockRepo) Update(id int64, upd user.Update) (*user.User, error) {
	args := m.Called(id, upd)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockRepo) GetAll() ([]*user.User, error) {
	args := m.Called()
	users, _ := args.Get(0).([]*user.User)
	return users, args.Error(1)
}

func (m *mockRepo) Delete(id int64) error {
	return m.Called(id).Error(0)
}

func (m *mockRepo) Settings(userID int64) (*user.Settings, error) {
	args := m.Called(userID)
	s, _ := args.Get(0).(*user.Settings)
	return s, args.Error(1)
}

func (m *mockRepo) UpdateSettings(userID int64, s *user.Settings) (*user.Settings, error) {
	args := m.Called(userID, s)
	out, _ := args.Get(0).(*user.Settings)
	return out, args.Error(1)
}

type mockPurger struct {
	mock.Mock
}

func (m *mockPurger) DeleteBySender(senderID int64) error {
	return m.Called(senderID).Error(0)
}

func TestService_RequestCode(t *testing.T) {
	svc := user.NewService(&mockRepo{}, &mockPurger{})

	assert.NoError(t, svc.RequestCode("79990001122"))
	assert.ErrorIs(t, svc.RequestCode("123"), user.ErrInvalidPhone)
}

func TestService_VerifyRejectsBadInput(t *testing.T) {
	svc := user.NewService(&mockRepo{}, &mockPurger{})

	_, err := svc.Verify("123", "22222")
	assert.ErrorIs(t, err, user.ErrInvalidPhone)

	_, err = svc.Verify("79990001122", "12")
	assert.ErrorIs(t, err, user.ErrInvalidCode)
}

func TestService_VerifyCreatesNewUser(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByPhone", "79990001122").Return(nil, user.ErrNotFound)
	repo.On("Create", mock.MatchedBy(func(u *user.User) bool {
		return u.Phone == "79990001122" && u.FirstName == "User" && u.LastName == "1122" && u.IsOnline
	})).Return(nil)

	svc := user.NewService(repo, &mockPurger{})

	u, err := svc.Verify("79990001122", "22222")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "1122", u.LastName)
	repo.AssertExpectations(t)
}

func TestService_VerifyMarksExistingUserOnline(t *testing.T) {
	existing := &user.User{ID: 7, Phone: "79990001122", FirstName: "Alice"}
	repo := &mockRepo{}
	repo.On("GetByPhone", "79990001122").Return(existing, nil)
	repo.On("Update", int64(7), mock.MatchedBy(func(upd user.Update) bool {
		return upd.IsOnline != nil && *upd.IsOnline
	})).Return(existing, nil)

	svc := user.NewService(repo, &mockPurger{})

	u, err := svc.Verify("79990001122", "4321")
	assert.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	repo.AssertExpectations(t)
}

func TestService_VerifyRepoError(t *testing.T) {
	dbErr := errors.New("db is down")
	repo := &mockRepo{}
	repo.On("GetByPhone", "79990001122").Return(nil, dbErr)

	svc := user.NewService(repo, &mockPurger{})

	_, err := svc.Verify("79990001122", "22222")
	assert.ErrorIs(t, err, dbErr)
}

func TestService_DeletePurgesMessagesFirst(t *testing.T) {
	repo := &mockRepo{}
	purger := &mockPurger{}
	purger.On("DeleteBySender", int64(7)).Return(nil)
	repo.On("Delete", int64(7)).Return(nil)

	svc := user.NewService(repo, purger)

	assert.NoError(t, svc.Delete(7))
	purger.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestService_DeleteStopsOnPurgeError(t *testing.T) {
	repo := &mockRepo{}
	purger := &mockPurger{}
	purger.On("DeleteBySender", int64(7)).Return(errors.New("mongo is down"))

	svc := user.NewService(repo, purger)

	assert.Error(t, svc.Delete(7))
	repo.AssertNotCalled(t, "Delete", mock.Anything)
}
