package pushcache

import (
	"bytes"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	want := PushToken{
		RegistrationID: "abc123",
		Topic:          "reo_fcm",
		Updated:        time.Unix(1700000000, 0).UTC(),
	}

	var buf bytes.Buffer
	if err := want.encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := decodeToken(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: want %+v, got %+v", want, got)
	}
}

func TestDecodeTokenIgnoresUnknownFields(t *testing.T) {
	raw := "registration_id=xyz\nfuture_field=ignored\ntopic=reo_iphone\nupdated=1700000000\n"
	got, err := decodeToken(bytes.NewBufferString(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RegistrationID != "xyz" || got.Topic != "reo_iphone" {
		t.Fatalf("unexpected token: %+v", got)
	}
}
