package udp

import (
	"bytes"
	"testing"
)

func TestDiscoveryRoundtrip(t *testing.T) {
	d := &Discovery{Tid: 0x1234, Payload: []byte("<Extension><C2D_C>hello</C2D_C></Extension>")}
	wire := EncodeDiscovery(d)
	got, n, err := DecodeDiscovery(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(wire) || got.Tid != d.Tid || !bytes.Equal(got.Payload, d.Payload) {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestDiscoveryRejectsBadChecksum(t *testing.T) {
	d := &Discovery{Tid: 1, Payload: []byte("xml")}
	wire := EncodeDiscovery(d)
	wire[16] ^= 0xFF // corrupt checksum
	if _, _, err := DecodeDiscovery(wire); err == nil {
		t.Fatalf("expected corrupt-frame error for bad checksum")
	}
}

func TestAckRoundtrip(t *testing.T) {
	a := &Ack{ConnectionID: 7, PacketID: 99}
	wire := EncodeAck(a)
	if len(wire) != 28 {
		t.Fatalf("expected 28-byte fixed ack header, got %d", len(wire))
	}
	got, n, err := DecodeAck(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(wire) || got.ConnectionID != a.ConnectionID || got.PacketID != a.PacketID {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestDataRoundtrip(t *testing.T) {
	d := &Data{ConnectionID: 3, PacketID: 55, Payload: bytes.Repeat([]byte{0xAB}, DefaultMTU)}
	wire := EncodeData(d)
	got, n, err := DecodeData(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(wire) || got.ConnectionID != d.ConnectionID || got.PacketID != d.PacketID || !bytes.Equal(got.Payload, d.Payload) {
		t.Fatalf("roundtrip mismatch")
	}
}

func TestDecodeDispatchesOnMagic(t *testing.T) {
	wire := EncodeData(&Data{ConnectionID: 1, PacketID: 2, Payload: []byte("x")})
	kind, val, n, err := Decode(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if kind != KindData || n != len(wire) {
		t.Fatalf("unexpected dispatch: kind=%v n=%d", kind, n)
	}
	if _, ok := val.(*Data); !ok {
		t.Fatalf("expected *Data, got %T", val)
	}
}

func TestDecodeIncompleteShortBuffer(t *testing.T) {
	if _, _, _, err := Decode([]byte{0x3a, 0xcf}); err == nil {
		t.Fatalf("expected incomplete-frame error")
	}
}

func TestDecodeRejectsUnknownMagic(t *testing.T) {
	buf := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if _, _, _, err := Decode(buf); err == nil {
		t.Fatalf("expected corrupt-frame error for unknown magic")
	}
}
