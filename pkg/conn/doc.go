// Package conn implements the per-connection state machine of the
// PulseLink transport layer.
//
// A Connection is a logical session riding on a pluggable physical
// transport. The package handles three tightly coupled concerns:
//
//   - Lifecycle: opening → open → closed, strictly monotonic. Entering
//     open sends the handshake packet (heartbeat timings and upgrade
//     offers) and starts the heartbeat cycle. Every close trigger — peer
//     close packet, heartbeat timeout, protocol error, transport
//     failure, local Close — converges on one idempotent closure
//     routine.
//
//   - Heartbeat: a repeating two-phase probe/acknowledgement exchange.
//     A missed acknowledgement closes the connection with reason
//     "ping timeout".
//
//   - Upgrade: a one-time migration to a higher-capability transport
//     that preserves the connection's identity and open state. Listeners
//     on the replaced transport are detached by handle, so stale events
//     cannot reach the connection.
//
// Concrete transports, wire framing and the listening front-end are
// external: the package consumes anything satisfying the Transport
// interface and a ServerContext for configuration. There is no
// reconnection, no delivery guarantee and no flow control here; those
// belong to the layers around this one.
package conn
