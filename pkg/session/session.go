package session

import (
	"errors"
	"time"
)

var ErrUnauthenticated = errors.New("unauthenticated")

const tokenLength = 32

type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
}
