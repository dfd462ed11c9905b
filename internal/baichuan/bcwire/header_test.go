package bcwire

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeHeaderModern(t *testing.T) {
	h := &Header{
		MsgID:           1,
		BodyLen:         42,
		MsgNum:          7,
		ResponseCode:    200,
		Class:           ClassModern,
		ExtensionOffset: 12,
	}
	buf := EncodeHeader(h)
	if len(buf) != 24 {
		t.Fatalf("expected 24-byte header, got %d", len(buf))
	}
	got, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *got != *h {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", got, h)
	}
}

func TestEncodeDecodeHeaderLegacyLoginNoExtOffset(t *testing.T) {
	h := &Header{MsgID: 1, BodyLen: 10, MsgNum: 0, ResponseCode: 0, Class: ClassLegacyLogin}
	buf := EncodeHeader(h)
	if len(buf) != 20 {
		t.Fatalf("expected 20-byte header for legacy login, got %d", len(buf))
	}
	got, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.HasExtOffset() {
		t.Fatalf("legacy login header must not carry extension offset")
	}
	if got.Class != ClassLegacyLogin || got.IsModern() {
		t.Fatalf("expected legacy login class to report IsModern()==false")
	}
}

func TestDecodeHeaderIncompleteShortBuffer(t *testing.T) {
	if _, err := DecodeHeader(make([]byte, 10)); err == nil {
		t.Fatalf("expected incomplete-frame error for short buffer")
	}
}

func TestDecodeHeaderIncompleteMissingExtOffsetWord(t *testing.T) {
	h := &Header{MsgID: 1, Class: ClassModern}
	buf := EncodeHeader(h)
	// Truncate to 20 bytes: the fixed prefix parses but the class demands
	// the 24th byte, which hasn't arrived.
	if _, err := DecodeHeader(buf[:20]); err == nil {
		t.Fatalf("expected incomplete-frame error for missing extension offset word")
	}
}

func TestDecodeHeaderRejectsBadMagic(t *testing.T) {
	h := &Header{MsgID: 1, Class: ClassLegacyLogin}
	buf := EncodeHeader(h)
	buf[0] ^= 0xFF
	if _, err := DecodeHeader(buf); err == nil {
		t.Fatalf("expected corrupt-frame error for bad magic")
	}
}

func TestClassDeterminesExtensionOffsetPresence(t *testing.T) {
	cases := []struct {
		class   uint16
		wantExt bool
	}{
		{ClassLegacyLogin, false},
		{ClassModernReply, true},
		{ClassModernResent, true},
		{ClassModern, true},
	}
	for _, c := range cases {
		h := &Header{Class: c.class}
		if got := h.HasExtOffset(); got != c.wantExt {
			t.Fatalf("class 0x%04x: got hasExtOffset=%v want %v", c.class, got, c.wantExt)
		}
	}
}

func TestEncodeHeaderBytesLittleEndian(t *testing.T) {
	h := &Header{MsgID: 0x01020304, BodyLen: 0, MsgNum: 0, ResponseCode: 0, Class: ClassLegacyLogin}
	buf := EncodeHeader(h)
	want := []byte{0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(buf[4:8], want) {
		t.Fatalf("expected little-endian msg_id encoding, got % x", buf[4:8])
	}
}
