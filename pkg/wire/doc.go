// Package wire defines the logical packet format for PulseLink connections.
//
// Packets are encoded as CBOR (RFC 8949) with integer keys. The packet
// model is independent of transport framing: a polling transport and a
// streaming transport carry the same envelopes, each with its own outer
// encoding.
//
// # Packet Types
//
// Every packet carries a type discriminator and an optional opaque payload:
//   - open: server handshake (upgrades, heartbeat timings)
//   - close: graceful shutdown request
//   - ping / pong: liveness probe and acknowledgement
//   - message: application payload
//   - error: peer-side protocol failure
//   - noop: filler, ignored by receivers
//
// Types unknown to this version decode without error and are ignored on
// dispatch, so newer peers can introduce packet types without breaking
// older endpoints.
package wire
