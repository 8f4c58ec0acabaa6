package wire

import (
	"bytes"
	"testing"
	"time"
)

func TestPacketTypeString(t *testing.T) {
	cases := []struct {
		pt   PacketType
		want string
	}{
		{PacketOpen, "OPEN"},
		{PacketClose, "CLOSE"},
		{PacketPing, "PING"},
		{PacketPong, "PONG"},
		{PacketMessage, "MESSAGE"},
		{PacketError, "ERROR"},
		{PacketNoop, "NOOP"},
		{PacketType(42), "UNKNOWN"},
	}
	for _, c := range cases {
		if got := c.pt.String(); got != c.want {
			t.Errorf("PacketType(%d).String() = %q, want %q", c.pt, got, c.want)
		}
	}
}

func TestEncodeDecodePacket(t *testing.T) {
	p := Message([]byte("hello"))

	data, err := EncodePacket(p)
	if err != nil {
		t.Fatalf("EncodePacket failed: %v", err)
	}

	decoded, err := DecodePacket(data)
	if err != nil {
		t.Fatalf("DecodePacket failed: %v", err)
	}
	if decoded.Type != PacketMessage {
		t.Errorf("Type = %v, want %v", decoded.Type, PacketMessage)
	}
	if !bytes.Equal(decoded.Data, []byte("hello")) {
		t.Errorf("Data = %q, want %q", decoded.Data, "hello")
	}
}

func TestDecodePacketUnknownType(t *testing.T) {
	// An unknown discriminator must decode cleanly so dispatch can
	// ignore it.
	data, err := EncodePacket(Packet{Type: PacketType(200)})
	if err != nil {
		t.Fatalf("EncodePacket failed: %v", err)
	}

	decoded, err := DecodePacket(data)
	if err != nil {
		t.Fatalf("DecodePacket failed: %v", err)
	}
	if decoded.Type.IsValid() {
		t.Errorf("expected unknown type, got %v", decoded.Type)
	}
}

func TestDecodePacketGarbage(t *testing.T) {
	if _, err := DecodePacket([]byte{0xff, 0x00, 0x13, 0x37}); err == nil {
		t.Error("expected error decoding garbage bytes")
	}
}

func TestHandshakeRoundTrip(t *testing.T) {
	h := NewHandshake([]string{"websocket"}, 25*time.Second, 5*time.Second)

	if h.PingInterval != 25000 {
		t.Errorf("PingInterval = %d ms, want 25000", h.PingInterval)
	}
	if h.PingTimeout != 5000 {
		t.Errorf("PingTimeout = %d ms, want 5000", h.PingTimeout)
	}

	data, err := EncodeHandshake(h)
	if err != nil {
		t.Fatalf("EncodeHandshake failed: %v", err)
	}

	decoded, err := DecodeHandshake(data)
	if err != nil {
		t.Fatalf("DecodeHandshake failed: %v", err)
	}
	if len(decoded.Upgrades) != 1 || decoded.Upgrades[0] != "websocket" {
		t.Errorf("Upgrades = %v, want [websocket]", decoded.Upgrades)
	}
	if decoded.PingInterval != h.PingInterval || decoded.PingTimeout != h.PingTimeout {
		t.Errorf("timings = (%d, %d), want (%d, %d)",
			decoded.PingInterval, decoded.PingTimeout, h.PingInterval, h.PingTimeout)
	}
}

func TestHandshakeValidate(t *testing.T) {
	h := Handshake{Upgrades: nil, PingInterval: 0, PingTimeout: 5000}
	if err := h.Validate(); err == nil {
		t.Error("expected error for zero pingInterval")
	}

	h = Handshake{PingInterval: 25000, PingTimeout: 0}
	if err := h.Validate(); err == nil {
		t.Error("expected error for zero pingTimeout")
	}

	if _, err := EncodeHandshake(h); err == nil {
		t.Error("expected EncodeHandshake to reject invalid handshake")
	}
}

func TestEncodePacketDeterministic(t *testing.T) {
	p := Packet{Type: PacketOpen, Data: []byte{0x01, 0x02}}

	a, err := EncodePacket(p)
	if err != nil {
		t.Fatalf("EncodePacket failed: %v", err)
	}
	b, err := EncodePacket(p)
	if err != nil {
		t.Fatalf("EncodePacket failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("encoding is not deterministic")
	}
}
