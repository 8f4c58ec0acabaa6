package conn

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-protocol/pulse-go/pkg/clock"
)

func newRegisteredConn(t *testing.T, r *Registry) (*Connection, *fakeTransport) {
	t.Helper()

	tr := newFakeTransport("polling")
	srv := testServerContext{
		pingInterval: testPingInterval,
		pingTimeout:  testPingTimeout,
	}
	c := New(r.NewID(), tr, srv, WithClock(clock.NewManual(time.Unix(0, 0))))
	r.Add(c)
	tr.opened.Publish(struct{}{})
	return c, tr
}

func TestRegistryNewID(t *testing.T) {
	r := NewRegistry()

	a := r.NewID()
	b := r.NewID()

	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestRegistryAddGetRemove(t *testing.T) {
	r := NewRegistry()
	c, _ := newRegisteredConn(t, r)

	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(c.ID())
	require.True(t, ok)
	assert.Same(t, c, got)

	r.Remove(c.ID())
	assert.Equal(t, 0, r.Len())

	_, ok = r.Get(c.ID())
	assert.False(t, ok)

	// Removing an absent id is safe.
	r.Remove("no-such-id")
}

func TestRegistrySelfRemovesOnClose(t *testing.T) {
	r := NewRegistry()
	c, _ := newRegisteredConn(t, r)

	require.NoError(t, c.Close())

	assert.Equal(t, 0, r.Len())
	_, ok := r.Get(c.ID())
	assert.False(t, ok)
}

func TestRegistryCloseAll(t *testing.T) {
	r := NewRegistry()

	c1, _ := newRegisteredConn(t, r)
	c2, _ := newRegisteredConn(t, r)

	var reasons []CloseReason
	c1.Closed().Subscribe(func(e CloseEvent) { reasons = append(reasons, e.Reason) })
	c2.Closed().Subscribe(func(e CloseEvent) { reasons = append(reasons, e.Reason) })

	closed := r.CloseAll()

	assert.Equal(t, 2, closed)
	assert.Equal(t, 0, r.Len())
	require.Len(t, reasons, 2)
	for _, reason := range reasons {
		assert.Equal(t, ReasonServerClose, reason)
	}
	assert.Equal(t, StateClosed, c1.State())
	assert.Equal(t, StateClosed, c2.State())
}
