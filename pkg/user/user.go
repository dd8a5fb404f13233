package user

import "time"

type User struct {
	ID        int64      `json:"id"`
	Phone     string     `json:"phone"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName,omitempty"`
	Username  string     `json:"username,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
	IsOnline  bool       `json:"isOnline"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`
	ShowPhone bool       `json:"showPhone"`
	IsPremium bool       `json:"isPremium"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Settings struct {
	UserID        int64  `json:"userId"`
	Notifications bool   `json:"notifications"`
	AutoDownload  bool   `json:"autoDownload"`
	Theme         string `json:"theme"`
	Language      string `json:"language"`
}

type Update struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Username  *string `json:"username,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	ShowPhone *bool   `json:"showPhone,omitempty"`
	IsOnline  *bool   `json:"isOnline,omitempty"`
}

type Repository interface {
	Create(user *User) error
	GetByID(id int64) (*User, error)
	GetByPhone(phone string) (*User, error)
	Update(id int64, upd Update) (*User, error)
	GetAll() ([]*User, error)
	Delete(id int64) error
	Settings(userID int64) (*Settings, error)
	UpdateSettings(userID int64, s *Settings) (*Settings, error)
}
