package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder mode for PulseLink packets.
// Configured for deterministic encoding with integer keys.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for PulseLink packets.
var decMode cbor.DecMode

func init() {
	var err error

	// Configure encoder for deterministic output
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical, // Deterministic key ordering
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Configure decoder to be lenient for forward compatibility
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet, // Ignore duplicate keys (last wins)
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// Marshal encodes a value to CBOR bytes.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR bytes into a value.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// EncodePacket encodes a packet to CBOR bytes.
func EncodePacket(p Packet) ([]byte, error) {
	return Marshal(p)
}

// DecodePacket decodes CBOR bytes into a packet. Unknown packet types
// decode without error; dispatch decides what to do with them.
func DecodePacket(data []byte) (Packet, error) {
	var p Packet
	if err := Unmarshal(data, &p); err != nil {
		return Packet{}, fmt.Errorf("failed to decode packet: %w", err)
	}
	return p, nil
}

// EncodeHandshake encodes a handshake payload to CBOR bytes.
func EncodeHandshake(h Handshake) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("invalid handshake: %w", err)
	}
	return Marshal(h)
}

// DecodeHandshake decodes CBOR bytes into a handshake payload.
func DecodeHandshake(data []byte) (Handshake, error) {
	var h Handshake
	if err := Unmarshal(data, &h); err != nil {
		return Handshake{}, fmt.Errorf("failed to decode handshake: %w", err)
	}
	if err := h.Validate(); err != nil {
		return Handshake{}, fmt.Errorf("invalid handshake: %w", err)
	}
	return h, nil
}
