package conn

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks live connections by id. The owning server adds a
// connection after construction and can force-close the whole set on
// shutdown. Connections remove themselves when they close.
type Registry struct {
	mu    sync.Mutex
	conns map[string]*Connection
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]*Connection),
	}
}

// NewID allocates a fresh connection identifier.
func (r *Registry) NewID() string {
	return uuid.NewString()
}

// Add registers a connection under its id. The registry drops the entry
// automatically when the connection's Closed feed fires.
func (r *Registry) Add(c *Connection) {
	r.mu.Lock()
	r.conns[c.ID()] = c
	r.mu.Unlock()

	c.Closed().SubscribeOnce(func(CloseEvent) {
		r.Remove(c.ID())
	})
}

// Get returns the connection registered under id.
func (r *Registry) Get(id string) (*Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[id]
	return c, ok
}

// Remove deregisters a connection. Safe to call on absent ids.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// CloseAll closes every registered connection, the server-initiated
// shutdown path. Returns the number of connections closed.
func (r *Registry) CloseAll() int {
	r.mu.Lock()
	snapshot := make([]*Connection, 0, len(r.conns))
	for _, c := range r.conns {
		snapshot = append(snapshot, c)
	}
	r.mu.Unlock()

	for _, c := range snapshot {
		_ = c.Close()
	}
	return len(snapshot)
}
