package chat

import (
	"database/sql"
	"errors"
	"time"

	"messengerclone/pkg/user"
)

var (
	ErrNotFound     = errors.New("chat not found")
	ErrNoMembership = errors.New("not a chat member")
)

type MySQLRepo struct {
	DB *sql.DB
}

func NewMySQLRepo(db *sql.DB) *MySQLRepo {
	return &MySQLRepo{DB: db}
}

func (r *MySQLRepo) Create(c *Chat) error {
	c.CreatedAt = time.Now()
	// username is UNIQUE and optional; '' would collide, NULL never does
	username := sql.NullString{String: c.Username, Valid: c.Username != ""}
	res, err := r.DB.Exec(`
		INSERT INTO chats (name, description, username, type, avatar, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.Name, c.Description, username, c.Type, c.Avatar, c.CreatedBy, c.CreatedAt)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

func (r *MySQLRepo) GetByID(id int64) (*Chat, error) {
	var c Chat
	var username sql.NullString
	err := r.DB.QueryRow(`
		SELECT id, name, description, username, type, avatar, created_by, created_at
		FROM chats WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Description, &username, &c.Type, &c.Avatar, &c.CreatedBy, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Username = username.String
	return &c, nil
}

func (r *MySQLRepo) ChatsOf(userID int64) ([]*Chat, error) {
	rows, err := r.DB.Query(`
		SELECT c.id, c.name, c.description, c.username, c.type, c.avatar, c.created_by, c.created_at
		FROM chats c
		JOIN chat_members m ON m.chat_id = c.id
		WHERE m.user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []*Chat
	for rows.Next() {
		var c Chat
		var username sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &username, &c.Type, &c.Avatar, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Username = username.String
		chats = append(chats, &c)
	}
	return chats, rows.Err()
}

func (r *MySQLRepo) AddMember(chatID, userID int64, role string) (*Member, error) {
	joined := time.Now()
	res, err := r.DB.Exec(`
		INSERT INTO chat_members (chat_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)
	`, chatID, userID, role, joined)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Member{ID: id, ChatID: chatID, UserID: userID, Role: role, JoinedAt: joined}, nil
}

func (r *MySQLRepo) RemoveMember(chatID, userID int64) error {
	_, err := r.DB.Exec("DELETE FROM chat_members WHERE chat_id = ? AND user_id = ?", chatID, userID)
	return err
}

func (r *MySQLRepo) Members(chatID int64) ([]*Member, error) {
	rows, err := r.DB.Query(`
		SELECT m.id, m.chat_id, m.user_id, m.role, m.joined_at,
		       u.id, u.phone, u.first_name, u.last_name, u.avatar, u.is_online
		FROM chat_members m
		LEFT JOIN users u ON u.id = m.user_id
		WHERE m.chat_id = ?
	`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		var m Member
		var uid sql.NullInt64
		var phone, firstName, lastName, avatar sql.NullString
		var isOnline sql.NullBool
		if err := rows.Scan(&m.ID, &m.ChatID, &m.UserID, &m.Role, &m.JoinedAt,
			&uid, &phone, &firstName, &lastName, &avatar, &isOnline); err != nil {
			return nil, err
		}
		if uid.Valid {
			m.User = memberUser(uid.Int64, phone.String, firstName.String, lastName.String, avatar.String, isOnline.Bool)
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

func memberUser(id int64, phone, firstName, lastName, avatar string, isOnline bool) *user.User {
	return &user.User{
		ID:        id,
		Phone:     phone,
		FirstName: firstName,
		LastName:  lastName,
		Avatar:    avatar,
		IsOnline:  isOnline,
	}
}

func (r *MySQLRepo) Membership(chatID, userID int64) (*Member, error) {
	var m Member
	err := r.DB.QueryRow(`
		SELECT id, chat_id, user_id, role, joined_at
		FROM chat_members WHERE chat_id = ? AND user_id = ?
	`, chatID, userID).Scan(&m.ID, &m.ChatID, &m.UserID, &m.Role, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoMembership
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
