package user

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("user not found")

type MySQLRepo struct {
	DB *sql.DB
}

func NewMySQLRepo(db *sql.DB) *MySQLRepo {
	return &MySQLRepo{DB: db}
}

const userColumns = "id, phone, first_name, last_name, username, avatar, is_online, last_seen, show_phone, is_premium, created_at"

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	var lastName, username, avatar sql.NullString
	var lastSeen sql.NullTime
	err := row.Scan(&u.ID, &u.Phone, &u.FirstName, &lastName, &username, &avatar,
		&u.IsOnline, &lastSeen, &u.ShowPhone, &u.IsPremium, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.LastName = lastName.String
	u.Username = username.String
	u.Avatar = avatar.String
	if lastSeen.Valid {
		u.LastSeen = &lastSeen.Time
	}
	return &u, nil
}

// nullable turns the empty string into SQL NULL. The username column is
// UNIQUE; inserting '' there would collide every user without one.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *MySQLRepo) Create(u *User) error {
	now := time.Now()
	u.CreatedAt = now
	u.LastSeen = &now

	res, err := r.DB.Exec(`
		INSERT INTO users (phone, first_name, last_name, username, avatar, is_online, last_seen, show_phone, is_premium, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.Phone, u.FirstName, u.LastName, nullable(u.Username), u.Avatar, u.IsOnline, now, u.ShowPhone, u.IsPremium, now)
	if err != nil {
		return err
	}

	u.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	// every user gets a default settings row
	_, err = r.DB.Exec(`
		INSERT INTO user_settings (user_id, notifications, auto_download, theme, language)
		VALUES (?, ?, ?, ?, ?)
	`, u.ID, true, true, "light", "ru")
	return err
}

func (r *MySQLRepo) GetByID(id int64) (*User, error) {
	u, err := scanUser(r.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *MySQLRepo) GetByPhone(phone string) (*User, error) {
	u, err := scanUser(r.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE phone = ?", phone))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *MySQLRepo) Update(id int64, upd Update) (*User, error) {
	set := make([]string, 0, 6)
	args := make([]any, 0, 7)

	if upd.FirstName != nil {
		set, args = append(set, "first_name = ?"), append(args, *upd.FirstName)
	}
	if upd.LastName != nil {
		set, args = append(set, "last_name = ?"), append(args, *upd.LastName)
	}
	if upd.Username != nil {
		set, args = append(set, "username = ?"), append(args, nullable(*upd.Username))
	}
	if upd.Avatar != nil {
		set, args = append(set, "avatar = ?"), append(args, *upd.Avatar)
	}
	if upd.ShowPhone != nil {
		set, args = append(set, "show_phone = ?"), append(args, *upd.ShowPhone)
	}
	if upd.IsOnline != nil {
		set = append(set, "is_online = ?", "last_seen = ?")
		args = append(args, *upd.IsOnline, time.Now())
	}
	if len(set) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE users SET %s WHERE id = ?", strings.Join(set, ", "))
		if _, err := r.DB.Exec(query, args...); err != nil {
			return nil, err
		}
	}

	return r.GetByID(id)
}

func (r *MySQLRepo) GetAll() ([]*User, error) {
	rows, err := r.DB.Query("SELECT " + userColumns + " FROM users")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *MySQLRepo) Delete(id int64) error {
	queries := []string{
		"DELETE FROM chat_members WHERE user_id = ?",
		"DELETE FROM calls WHERE caller_id = ? OR receiver_id = ?",
		"DELETE FROM user_settings WHERE user_id = ?",
		"DELETE FROM users WHERE id = ?",
	}
	for _, q := range queries {
		args := []any{id}
		if strings.Count(q, "?") == 2 {
			args = append(args, id)
		}
		if _, err := r.DB.Exec(q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (r *MySQLRepo) Settings(userID int64) (*Settings, error) {
	var s Settings
	err := r.DB.QueryRow(`
		SELECT user_id, notifications, auto_download, theme, language
		FROM user_settings WHERE user_id = ?
	`, userID).Scan(&s.UserID, &s.Notifications, &s.AutoDownload, &s.Theme, &s.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MySQLRepo) UpdateSettings(userID int64, s *Settings) (*Settings, error) {
	_, err := r.DB.Exec(`
		UPDATE user_settings SET notifications = ?, auto_download = ?, theme = ?, language = ?
		WHERE user_id = ?
	`, s.Notifications, s.AutoDownload, s.Theme, s.Language, userID)
	if err != nil {
		return nil, err
	}
	return r.Settings(userID)
}
