package realtime

import "sync"

// Handle is a live realtime connection as the directory and fanout see it.
type Handle interface {
	// Send enqueues a serialized frame without blocking; frames to a
	// slow or closed connection are dropped.
	Send(payload []byte)
	IsOpen() bool
	Close()
}

// Directory maps a user to their single live connection. A user who
// connects twice keeps only the newer handle; the superseded one is
// handed back to the caller, which owns closing it.
type Directory struct {
	mu    sync.RWMutex
	conns map[int64]Handle
}

func NewDirectory() *Directory {
	return &Directory{conns: make(map[int64]Handle)}
}

// Register installs h for userID and returns the handle it replaced, if any.
func (d *Directory) Register(userID int64, h Handle) Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev := d.conns[userID]
	d.conns[userID] = h
	return prev
}

// Unregister removes the mapping only when h is still the registered
// handle. A late close from a superseded connection must not wipe out
// the mapping of the connection that replaced it.
func (d *Directory) Unregister(userID int64, h Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conns[userID] == h {
		delete(d.conns, userID)
	}
}

func (d *Directory) Lookup(userID int64) Handle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.conns[userID]
}
