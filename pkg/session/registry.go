package session

import (
	"fmt"
	"sync"
	"time"

	"messengerclone/pkg/generator"
)

// Registry maps opaque session tokens to user IDs. It lives entirely in
// memory: a process restart invalidates every session, which is the intended
// lifecycle. There is no timed expiry; sessions end on Revoke or restart.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Session)}
}

func (r *Registry) Create(userID int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		token, err := generator.GenerateRandomID(tokenLength)
		if err != nil {
			return "", fmt.Errorf("session token gen error: %w", err)
		}
		if _, taken := r.sessions[token]; taken {
			continue
		}
		r.sessions[token] = Session{
			Token:     token,
			UserID:    userID,
			CreatedAt: time.Now(),
		}
		return token, nil
	}
}

func (r *Registry) Resolve(token string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[token]
	if !ok {
		return 0, ErrUnauthenticated
	}
	return s.UserID, nil
}

// Revoke removes the token. Revoking an unknown token is a no-op.
func (r *Registry) Revoke(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
}
