package user_test

import (
	"database/sql"
	"testing"

	"messengerclone/pkg/user"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	assert.NoError(t, err)

	schema := `
	CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		phone TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL,
		last_name TEXT,
		username TEXT UNIQUE,
		avatar TEXT,
		is_online BOOLEAN DEFAULT 1,
		last_seen DATETIME,
		show_phone BOOLEAN DEFAULT 0,
		is_premium BOOLEAN DEFAULT 0,
		created_at DATETIME
	);
	CREATE TABLE user_settings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL UNIQUE,
		notifications BOOLEAN,
		auto_download BOOLEAN,
		theme TEXT,
		language TEXT
	);
	CREATE TABLE chat_members (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		role TEXT,
		joined_at DATETIME
	);
	CREATE TABLE calls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		caller_id INTEGER NOT NULL,
		receiver_id INTEGER NOT NULL,
		type TEXT,
		status TEXT,
		duration INTEGER,
		created_at DATETIME
	);`

	_, err = db.Exec(schema)
	assert.NoError(t, err)

	return db
}

func TestMySQLRepo_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := user.NewMySQLRepo(db)

	u := &user.User{
		Phone:     "79990001122",
		FirstName: "User",
		LastName:  "1122",
		IsOnline:  true,
	}
	err := repo.Create(u)
	assert.NoError(t, err)
	assert.NotZero(t, u.ID)

	byPhone, err := repo.GetByPhone("79990001122")
	assert.NoError(t, err)
	assert.Equal(t, u.ID, byPhone.ID)
	assert.Equal(t, "User", byPhone.FirstName)
	assert.True(t, byPhone.IsOnline)

	byID, err := repo.GetByID(u.ID)
	assert.NoError(t, err)
	assert.Equal(t, "79990001122", byID.Phone)
}

func TestMySQLRepo_CreateTwoUsersWithoutUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := user.NewMySQLRepo(db)

	// username is UNIQUE but optional; two users without one must coexist
	first := &user.User{Phone: "79990001122", FirstName: "User", LastName: "1122"}
	assert.NoError(t, repo.Create(first))

	second := &user.User{Phone: "79990001133", FirstName: "User", LastName: "1133"}
	assert.NoError(t, repo.Create(second))

	got, err := repo.GetByID(second.ID)
	assert.NoError(t, err)
	assert.Empty(t, got.Username)
}

func TestMySQLRepo_UpdateClearsUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := user.NewMySQLRepo(db)

	// another user already has no username; clearing ours must not collide
	assert.NoError(t, repo.Create(&user.User{Phone: "79990001122", FirstName: "User"}))

	u := &user.User{Phone: "79990001133", FirstName: "User", Username: "alice"}
	assert.NoError(t, repo.Create(u))

	empty := ""
	updated, err := repo.Update(u.ID, user.Update{Username: &empty})
	assert.NoError(t, err)
	assert.Empty(t, updated.Username)
}

func TestMySQLRepo_CreateMakesDefaultSettings(t *testing.T) {
	db := setupTestDB(t)
	repo := user.NewMySQLRepo(db)

	u := &user.User{Phone: "79990001122", FirstName: "User", IsOnline: true}
	assert.NoError(t, repo.Create(u))

	settings, err := repo.Settings(u.ID)
	assert.NoError(t, err)
	assert.True(t, settings.Notifications)
	assert.True(t, settings.AutoDownload)
	assert.Equal(t, "light", settings.Theme)
	assert.Equal(t, "ru", settings.Language)
}

func TestMySQLRepo_GetNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := user.NewMySQLRepo(db)

	_, err := repo.GetByPhone("70000000000")
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = repo.GetByID(404)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestMySQLRepo_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := user.NewMySQLRepo(db)

	u := &user.User{Phone: "79990001122", FirstName: "User", IsOnline: true}
	assert.NoError(t, repo.Create(u))

	firstName := "Alice"
	username := "alice"
	updated, err := repo.Update(u.ID, user.Update{FirstName: &firstName, Username: &username})
	assert.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "79990001122", updated.Phone, "untouched fields keep their values")

	offline := false
	updated, err = repo.Update(u.ID, user.Update{IsOnline: &offline})
	assert.NoError(t, err)
	assert.False(t, updated.IsOnline)
	assert.NotNil(t, updated.LastSeen, "going offline stamps last_seen")
}

func TestMySQLRepo_UpdateNothing(t *testing.T) {
	db := setupTestDB(t)
	repo := user.NewMySQLRepo(db)

	u := &user.User{Phone: "79990001122", FirstName: "User"}
	assert.NoError(t, repo.Create(u))

	same, err := repo.Update(u.ID, user.Update{})
	assert.NoError(t, err)
	assert.Equal(t, "User", same.FirstName)
}

func TestMySQLRepo_GetAll(t *testing.T) {
	db := setupTestDB(t)
	repo := user.NewMySQLRepo(db)

	assert.NoError(t, repo.Create(&user.User{Phone: "79990001122", FirstName: "User"}))
	assert.NoError(t, repo.Create(&user.User{Phone: "79990001133", FirstName: "User"}))

	users, err := repo.GetAll()
	assert.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestMySQLRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := user.NewMySQLRepo(db)

	u := &user.User{Phone: "79990001122", FirstName: "User"}
	assert.NoError(t, repo.Create(u))

	_, err := db.Exec("INSERT INTO chat_members (chat_id, user_id, role) VALUES (1, ?, 'member')", u.ID)
	assert.NoError(t, err)
	_, err = db.Exec("INSERT INTO calls (caller_id, receiver_id, type, status, duration) VALUES (?, 2, 'voice', 'missed', 0)", u.ID)
	assert.NoError(t, err)

	assert.NoError(t, repo.Delete(u.ID))

	_, err = repo.GetByID(u.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)

	var count int
	assert.NoError(t, db.QueryRow("SELECT COUNT(*) FROM chat_members WHERE user_id = ?", u.ID).Scan(&count))
	assert.Zero(t, count)
	assert.NoError(t, db.QueryRow("SELECT COUNT(*) FROM calls WHERE caller_id = ?", u.ID).Scan(&count))
	assert.Zero(t, count)
	assert.NoError(t, db.QueryRow("SELECT COUNT(*) FROM user_settings WHERE user_id = ?", u.ID).Scan(&count))
	assert.Zero(t, count)
}

func TestMySQLRepo_UpdateSettings(t *testing.T) {
	db := setupTestDB(t)
	repo := user.NewMySQLRepo(db)

	u := &user.User{Phone: "79990001122", FirstName: "User"}
	assert.NoError(t, repo.Create(u))

	updated, err := repo.UpdateSettings(u.ID, &user.Settings{
		Notifications: false,
		AutoDownload:  true,
		Theme:         "dark",
		Language:      "en",
	})
	assert.NoError(t, err)
	assert.False(t, updated.Notifications)
	assert.Equal(t, "dark", updated.Theme)
	assert.Equal(t, "en", updated.Language)
}
