package user

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrInvalidCode  = errors.New("invalid code")
)

// demoCode is always accepted; any other code just has to be 4+ digits.
// Real SMS delivery is out of scope, the login screen shows the demo code.
const demoCode = "22222"

type ServiceInterface interface {
	RequestCode(phone string) error
	Verify(phone, code string) (*User, error)
	Me(id int64) (*User, error)
	Update(id int64, upd Update) (*User, error)
	All() ([]*User, error)
	SettingsFor(id int64) (*Settings, error)
	UpdateSettings(id int64, s *Settings) (*Settings, error)
	Delete(id int64) error
}

// MessagePurger removes a deleted user's messages from the message store.
type MessagePurger interface {
	DeleteBySender(senderID int64) error
}

type Service struct {
	Repo     Repository
	Messages MessagePurger
}

func NewService(repo Repository, messages MessagePurger) *Service {
	return &Service{Repo: repo, Messages: messages}
}

func (s *Service) RequestCode(phone string) error {
	if len(phone) < 10 {
		return ErrInvalidPhone
	}
	// an SMS would go out here; the demo accepts the fixed code instead
	return nil
}

func (s *Service) Verify(phone, code string) (*User, error) {
	if len(phone) < 10 {
		return nil, ErrInvalidPhone
	}
	if code != demoCode && len(code) < 4 {
		return nil, ErrInvalidCode
	}

	u, err := s.Repo.GetByPhone(phone)
	if errors.Is(err, ErrNotFound) {
		u = &User{
			Phone:     phone,
			FirstName: "User",
			LastName:  phone[len(phone)-4:],
			IsOnline:  true,
		}
		if err := s.Repo.Create(u); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return u, nil
	}
	if err != nil {
		return nil, err
	}

	online := true
	return s.Repo.Update(u.ID, Update{IsOnline: &online})
}

func (s *Service) Me(id int64) (*User, error) {
	return s.Repo.GetByID(id)
}

func (s *Service) Update(id int64, upd Update) (*User, error) {
	return s.Repo.Update(id, upd)
}

func (s *Service) All() ([]*User, error) {
	return s.Repo.GetAll()
}

func (s *Service) SettingsFor(id int64) (*Settings, error) {
	return s.Repo.Settings(id)
}

func (s *Service) UpdateSettings(id int64, settings *Settings) (*Settings, error) {
	return s.Repo.UpdateSettings(id, settings)
}

func (s *Service) Delete(id int64) error {
	if err := s.Messages.DeleteBySender(id); err != nil {
		return fmt.Errorf("purge messages: %w", err)
	}
	return s.Repo.Delete(id)
}
