package wire

import (
	"fmt"
	"time"
)

// PacketType discriminates logical packets exchanged over a transport.
type PacketType uint8

const (
	// PacketOpen carries the handshake payload from server to peer.
	PacketOpen PacketType = 0

	// PacketClose requests a graceful shutdown of the connection.
	PacketClose PacketType = 1

	// PacketPing is a liveness probe.
	PacketPing PacketType = 2

	// PacketPong acknowledges a liveness probe.
	PacketPong PacketType = 3

	// PacketMessage carries an application payload.
	PacketMessage PacketType = 4

	// PacketError reports a peer-side protocol failure.
	PacketError PacketType = 5

	// PacketNoop is a filler packet. Receivers ignore it.
	PacketNoop PacketType = 6
)

// String returns the packet type name.
func (t PacketType) String() string {
	switch t {
	case PacketOpen:
		return "OPEN"
	case PacketClose:
		return "CLOSE"
	case PacketPing:
		return "PING"
	case PacketPong:
		return "PONG"
	case PacketMessage:
		return "MESSAGE"
	case PacketError:
		return "ERROR"
	case PacketNoop:
		return "NOOP"
	default:
		return "UNKNOWN"
	}
}

// IsValid reports whether the packet type is one this version knows about.
// Unknown types are still decodable; dispatch ignores them for forward
// compatibility.
func (t PacketType) IsValid() bool {
	return t <= PacketNoop
}

// CBOR map keys for packet encoding. Integer keys for efficiency.
const (
	KeyPacketType = 1
	KeyPacketData = 2

	// Handshake payload keys
	KeyHandshakeUpgrades     = 1
	KeyHandshakePingInterval = 2
	KeyHandshakePingTimeout  = 3
)

// Packet is the logical envelope moved across a transport.
//
// CBOR encoding:
//
//	{
//	  1: type,   // uint8
//	  2: data    // byte string, omitted when empty
//	}
type Packet struct {
	Type PacketType `cbor:"1,keyasint"`
	Data []byte     `cbor:"2,keyasint,omitempty"`
}

// Message wraps an application payload in a message packet.
func Message(payload []byte) Packet {
	return Packet{Type: PacketMessage, Data: payload}
}

// Handshake is the payload of the open packet sent when a connection
// enters the open state. Intervals are in milliseconds on the wire.
//
// CBOR encoding:
//
//	{
//	  1: upgrades,       // array of transport names, in offer order
//	  2: pingInterval,   // uint32 milliseconds
//	  3: pingTimeout     // uint32 milliseconds
//	}
type Handshake struct {
	Upgrades     []string `cbor:"1,keyasint"`
	PingInterval uint32   `cbor:"2,keyasint"`
	PingTimeout  uint32   `cbor:"3,keyasint"`
}

// NewHandshake builds a handshake payload from configured durations.
func NewHandshake(upgrades []string, pingInterval, pingTimeout time.Duration) Handshake {
	return Handshake{
		Upgrades:     upgrades,
		PingInterval: uint32(pingInterval.Milliseconds()),
		PingTimeout:  uint32(pingTimeout.Milliseconds()),
	}
}

// Validate checks if the handshake is valid.
func (h *Handshake) Validate() error {
	if h.PingInterval == 0 {
		return fmt.Errorf("pingInterval must be positive")
	}
	if h.PingTimeout == 0 {
		return fmt.Errorf("pingTimeout must be positive")
	}
	return nil
}
