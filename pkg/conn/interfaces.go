package conn

import (
	"time"

	"github.com/pulse-protocol/pulse-go/pkg/emitter"
	"github.com/pulse-protocol/pulse-go/pkg/wire"
)

// Transport is the capability contract a physical carrier must satisfy.
// Implementations publish their lifecycle through feeds:
//
//   - Opened fires at most once, when the physical channel is ready.
//   - Packets fires zero or more times, one decoded packet each.
//   - Errors fires at most once, with the underlying failure.
//   - Closed fires at most once.
//
// Send is fire-and-forget; no delivery guarantee is required by this
// layer. Close requests physical teardown and may complete
// asynchronously.
type Transport interface {
	// Name returns the transport's protocol name, e.g. "polling".
	Name() string

	// Opened is the feed signalling physical readiness.
	Opened() *emitter.Feed[struct{}]

	// Packets is the feed of decoded inbound packets.
	Packets() *emitter.Feed[wire.Packet]

	// Errors is the feed reporting a transport-level failure.
	Errors() *emitter.Feed[error]

	// Closed is the feed signalling physical teardown.
	Closed() *emitter.Feed[struct{}]

	// Send enqueues a packet for delivery.
	Send(p wire.Packet) error

	// Close requests physical teardown.
	Close() error
}

// ServerContext supplies the server-side settings a connection
// advertises in its handshake.
type ServerContext interface {
	// Upgrades returns the transports a peer may upgrade to, in
	// offer order.
	Upgrades() []string

	// PingInterval returns the delay between liveness probes.
	PingInterval() time.Duration

	// PingTimeout returns how long to wait for a probe
	// acknowledgement before declaring the peer dead.
	PingTimeout() time.Duration
}
