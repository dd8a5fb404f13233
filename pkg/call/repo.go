package call

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"messengerclone/pkg/user"
)

var ErrNotFound = errors.New("call not found")

type MySQLRepo struct {
	DB *sql.DB
}

func NewMySQLRepo(db *sql.DB) *MySQLRepo {
	return &MySQLRepo{DB: db}
}

func (r *MySQLRepo) Create(c *Call) error {
	c.CreatedAt = time.Now()
	res, err := r.DB.Exec(`
		INSERT INTO calls (caller_id, receiver_id, type, status, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.CallerID, c.ReceiverID, c.Type, c.Status, c.Duration, c.CreatedAt)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

func (r *MySQLRepo) Update(id int64, upd Update) (*Call, error) {
	set := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if upd.Status != nil {
		set, args = append(set, "status = ?"), append(args, *upd.Status)
	}
	if upd.Duration != nil {
		set, args = append(set, "duration = ?"), append(args, *upd.Duration)
	}
	if len(set) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE calls SET %s WHERE id = ?", strings.Join(set, ", "))
		if _, err := r.DB.Exec(query, args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(id)
}

func (r *MySQLRepo) GetByID(id int64) (*Call, error) {
	var c Call
	err := r.DB.QueryRow(`
		SELECT id, caller_id, receiver_id, type, status, duration, created_at
		FROM calls WHERE id = ?
	`, id).Scan(&c.ID, &c.CallerID, &c.ReceiverID, &c.Type, &c.Status, &c.Duration, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UserCalls returns the call history for a user, newest first, with both
// parties attached. The users table is joined twice under distinct aliases.
func (r *MySQLRepo) UserCalls(userID int64) ([]*Call, error) {
	rows, err := r.DB.Query(`
		SELECT c.id, c.caller_id, c.receiver_id, c.type, c.status, c.duration, c.created_at,
		       caller.first_name, caller.last_name, caller.avatar,
		       receiver.first_name, receiver.last_name, receiver.avatar
		FROM calls c
		LEFT JOIN users caller ON caller.id = c.caller_id
		LEFT JOIN users receiver ON receiver.id = c.receiver_id
		WHERE c.caller_id = ? OR c.receiver_id = ?
		ORDER BY c.created_at DESC
	`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calls []*Call
	for rows.Next() {
		var c Call
		var cFirst, cLast, cAvatar sql.NullString
		var rFirst, rLast, rAvatar sql.NullString
		if err := rows.Scan(&c.ID, &c.CallerID, &c.ReceiverID, &c.Type, &c.Status, &c.Duration, &c.CreatedAt,
			&cFirst, &cLast, &cAvatar, &rFirst, &rLast, &rAvatar); err != nil {
			return nil, err
		}
		if cFirst.Valid {
			c.Caller = &user.User{ID: c.CallerID, FirstName: cFirst.String, LastName: cLast.String, Avatar: cAvatar.String}
		}
		if rFirst.Valid {
			c.Receiver = &user.User{ID: c.ReceiverID, FirstName: rFirst.String, LastName: rLast.String, Avatar: rAvatar.String}
		}
		calls = append(calls, &c)
	}
	return calls, rows.Err()
}
