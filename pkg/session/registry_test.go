package session_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"messengerclone/pkg/session"
)

func TestRegistry_CreateResolve(t *testing.T) {
	reg := session.NewRegistry()

	token, err := reg.Create(42)
	assert.NoError(t, err)
	assert.Len(t, token, 32)

	userID, err := reg.Resolve(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestRegistry_ResolveUnknownToken(t *testing.T) {
	reg := session.NewRegistry()

	_, err := reg.Resolve("nosuchtoken")
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
}

func TestRegistry_Revoke(t *testing.T) {
	reg := session.NewRegistry()

	token, err := reg.Create(42)
	assert.NoError(t, err)

	reg.Revoke(token)

	_, err = reg.Resolve(token)
	assert.ErrorIs(t, err, session.ErrUnauthenticated)

	// revoking again is a no-op, not an error
	reg.Revoke(token)
}

func TestRegistry_TokensAreUnique(t *testing.T) {
	reg := session.NewRegistry()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := reg.Create(int64(i))
		assert.NoError(t, err)
		assert.False(t, seen[token], "token collision")
		seen[token] = true
	}
}

func TestRegistry_SeparateSessionsPerLogin(t *testing.T) {
	reg := session.NewRegistry()

	t1, err := reg.Create(1)
	assert.NoError(t, err)
	t2, err := reg.Create(1)
	assert.NoError(t, err)

	// revoking one login leaves the other valid
	reg.Revoke(t1)

	userID, err := reg.Resolve(t2)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), userID)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := session.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			token, err := reg.Create(id)
			assert.NoError(t, err)
			got, err := reg.Resolve(token)
			assert.NoError(t, err)
			assert.Equal(t, id, got)
			reg.Revoke(token)
		}(int64(i))
	}
	wg.Wait()
}
