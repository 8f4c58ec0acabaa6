package conn

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulse-protocol/pulse-go/pkg/clock"
	"github.com/pulse-protocol/pulse-go/pkg/emitter"
	"github.com/pulse-protocol/pulse-go/pkg/wire"
)

// Connection states.
type ReadyState int

const (
	// StateOpening indicates the initial transport has not reported
	// readiness yet.
	StateOpening ReadyState = iota

	// StateOpen indicates an active connection with a running
	// heartbeat cycle.
	StateOpen

	// StateClosed is terminal. A closed connection never reopens.
	StateClosed
)

// String returns the ready state name.
func (s ReadyState) String() string {
	switch s {
	case StateOpening:
		return "OPENING"
	case StateOpen:
		return "OPEN"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// CloseReason identifies why a connection closed.
type CloseReason string

const (
	// ReasonPingTimeout indicates no acknowledgement arrived within
	// the configured timeout of a liveness probe.
	ReasonPingTimeout CloseReason = "ping timeout"

	// ReasonParseError indicates the peer sent a malformed or error
	// packet.
	ReasonParseError CloseReason = "parse error"

	// ReasonTransportError indicates the transport reported an I/O
	// failure.
	ReasonTransportError CloseReason = "transport error"

	// ReasonTransportClose indicates the transport shut down
	// underneath the connection.
	ReasonTransportClose CloseReason = "transport close"

	// ReasonClientClose indicates the peer requested a graceful
	// shutdown.
	ReasonClientClose CloseReason = "client close"

	// ReasonServerClose indicates Close was invoked locally.
	ReasonServerClose CloseReason = "server close"
)

// CloseEvent is published on the Closed feed when a connection reaches
// the closed state.
type CloseEvent struct {
	// Reason identifies the close trigger.
	Reason CloseReason

	// Description carries trigger-specific diagnostics: the elapsed
	// probe wait for a ping timeout, the underlying error text for a
	// transport error, empty otherwise.
	Description string
}

// Connection errors.
var (
	ErrClosed          = errors.New("connection closed")
	ErrAlreadyUpgraded = errors.New("transport already upgraded")
)

// Connection is the per-connection state machine riding on a pluggable
// transport. It owns the heartbeat timers and the subscriptions on the
// currently bound transport; exactly one transport is bound at any
// instant.
//
// All event handlers and timer callbacks serialize on an internal mutex,
// so a connection multiplexed across goroutines behaves as if driven by
// a single owner.
type Connection struct {
	id  string
	srv ServerContext
	clk clock.Clock
	log zerolog.Logger

	mu        sync.Mutex
	state     ReadyState
	upgraded  bool
	transport Transport
	subs      transportSubs

	// Heartbeat state. At most one of the two timers is armed while
	// open; timerGen invalidates callbacks that lost a cancellation
	// race.
	pingTime      time.Time
	intervalTimer clock.Timer
	timeoutTimer  clock.Timer
	timerGen      uint64

	opened     *emitter.Feed[struct{}]
	messages   *emitter.Feed[[]byte]
	heartbeats *emitter.Feed[struct{}]
	closed     *emitter.Feed[CloseEvent]
}

// transportSubs holds the subscription handles on the currently bound
// transport so detachment removes exactly the listeners that were added.
type transportSubs struct {
	open   *emitter.Subscription[struct{}]
	packet *emitter.Subscription[wire.Packet]
	err    *emitter.Subscription[error]
	closed *emitter.Subscription[struct{}]
}

func (s *transportSubs) cancel() {
	s.open.Cancel()
	s.packet.Cancel()
	s.err.Cancel()
	s.closed.Cancel()
	*s = transportSubs{}
}

// Option configures a Connection at construction.
type Option func(*Connection)

// WithClock injects the timer service. Defaults to the system clock.
func WithClock(clk clock.Clock) Option {
	return func(c *Connection) { c.clk = clk }
}

// WithLogger sets the structured logger. Defaults to a disabled logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Connection) { c.log = log }
}

// New creates a connection bound to its initial transport. The id is
// assigned by the caller (usually the listening front-end) and is
// immutable. The connection opens when the transport's Opened feed
// fires.
func New(id string, t Transport, srv ServerContext, opts ...Option) *Connection {
	c := &Connection{
		id:         id,
		srv:        srv,
		clk:        clock.System(),
		log:        zerolog.Nop(),
		state:      StateOpening,
		opened:     emitter.New[struct{}](),
		messages:   emitter.New[[]byte](),
		heartbeats: emitter.New[struct{}](),
		closed:     emitter.New[CloseEvent](),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("conn_id", id).Logger()

	c.mu.Lock()
	c.bindTransportLocked(t)
	c.mu.Unlock()

	return c
}

// ID returns the connection identifier.
func (c *Connection) ID() string {
	return c.id
}

// State returns the current ready state.
func (c *Connection) State() ReadyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Upgraded reports whether the connection has migrated transports.
func (c *Connection) Upgraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.upgraded
}

// TransportName returns the name of the currently bound transport.
func (c *Connection) TransportName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transport.Name()
}

// Opened is the feed published once when the connection enters the open
// state.
func (c *Connection) Opened() *emitter.Feed[struct{}] {
	return c.opened
}

// Messages is the feed of inbound application payloads.
func (c *Connection) Messages() *emitter.Feed[[]byte] {
	return c.messages
}

// Heartbeats is the feed published on every probe acknowledgement.
func (c *Connection) Heartbeats() *emitter.Feed[struct{}] {
	return c.heartbeats
}

// Closed is the feed published once when the connection closes.
func (c *Connection) Closed() *emitter.Feed[CloseEvent] {
	return c.closed
}

// Send wraps payload in a message packet and forwards it through the
// currently bound transport. No queuing or retry: delivery is
// best-effort. Returns ErrClosed on a closed connection.
func (c *Connection) Send(payload []byte) error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return ErrClosed
	}
	t := c.transport
	c.mu.Unlock()

	return t.Send(wire.Message(payload))
}

// Close tears the connection down with reason "server close". The ready
// state flips and the Closed feed fires before Close returns; physical
// transport teardown is requested afterward and completes best-effort.
// Closing an already closed connection is a no-op.
func (c *Connection) Close() error {
	c.closeWith(ReasonServerClose, "")
	return nil
}

// Upgrade migrates the connection to a new transport, preserving its
// identity and open state. Permitted exactly once: a second call returns
// ErrAlreadyUpgraded. The new transport is assumed already open; no
// Opened event is awaited. The heartbeat cycle restarts from scratch,
// and events from the previous transport no longer reach the
// connection. The previous transport is not closed here; its owner
// drains and discards it.
func (c *Connection) Upgrade(t Transport) error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.upgraded {
		c.mu.Unlock()
		return ErrAlreadyUpgraded
	}

	c.upgraded = true
	c.subs.cancel()
	c.stopTimersLocked()
	from := c.transport.Name()
	c.bindTransportLocked(t)
	c.scheduleProbeLocked()
	c.mu.Unlock()

	c.log.Info().Str("from", from).Str("to", t.Name()).Msg("transport upgraded")
	return nil
}

// bindTransportLocked attaches the connection's listeners to t and makes
// it the bound transport. The open subscription only has an effect while
// the connection is still opening; an upgrade target is already open.
// Caller holds c.mu.
func (c *Connection) bindTransportLocked(t Transport) {
	c.transport = t
	c.subs = transportSubs{
		open:   t.Opened().SubscribeOnce(func(struct{}) { c.onTransportOpen() }),
		packet: t.Packets().Subscribe(c.onTransportPacket),
		err:    t.Errors().SubscribeOnce(c.onTransportError),
		closed: t.Closed().SubscribeOnce(func(struct{}) { c.onTransportClose() }),
	}
}

// onTransportOpen moves the connection to the open state: handshake
// packet out, open notification, heartbeat cycle started.
func (c *Connection) onTransportOpen() {
	c.mu.Lock()
	if c.state != StateOpening {
		c.mu.Unlock()
		return
	}
	c.state = StateOpen

	hs := wire.NewHandshake(c.srv.Upgrades(), c.srv.PingInterval(), c.srv.PingTimeout())
	payload, err := wire.EncodeHandshake(hs)
	t := c.transport
	c.scheduleProbeLocked()
	c.mu.Unlock()

	if err != nil {
		// Misconfigured server context; surface loudly but keep the
		// connection usable.
		c.log.Error().Err(err).Msg("failed to encode handshake")
	} else if err := t.Send(wire.Packet{Type: wire.PacketOpen, Data: payload}); err != nil {
		c.log.Warn().Err(err).Msg("failed to send handshake")
	}

	c.log.Debug().Str("transport", t.Name()).Msg("connection open")
	c.opened.Publish(struct{}{})
}

// onTransportPacket dispatches one inbound packet.
func (c *Connection) onTransportPacket(p wire.Packet) {
	switch p.Type {
	case wire.PacketClose:
		c.closeWith(ReasonClientClose, "")
	case wire.PacketPong:
		c.onPong()
	case wire.PacketError:
		c.closeWith(ReasonParseError, "")
	case wire.PacketMessage:
		c.messages.Publish(p.Data)
	default:
		// Unrecognized types are ignored for forward compatibility.
	}
}

func (c *Connection) onTransportError(err error) {
	desc := ""
	if err != nil {
		desc = err.Error()
	}
	c.closeWith(ReasonTransportError, desc)
}

func (c *Connection) onTransportClose() {
	c.closeWith(ReasonTransportClose, "")
}

// closeWith is the single closure routine every trigger converges on.
// It is idempotent: the first caller flips the state, cancels both
// timers, detaches the transport listeners and publishes the close
// event; later callers return immediately.
func (c *Connection) closeWith(reason CloseReason, description string) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	c.stopTimersLocked()
	c.subs.cancel()
	t := c.transport
	c.mu.Unlock()

	c.log.Info().Str("reason", string(reason)).Str("description", description).Msg("connection closed")
	c.closed.Publish(CloseEvent{Reason: reason, Description: description})

	// Physical teardown last, best-effort. The close notification has
	// already fired by the time the transport starts disconnecting.
	_ = t.Close()
}
