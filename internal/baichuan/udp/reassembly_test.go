package udp

import (
	"bytes"
	"testing"
)

func TestRxReassemblerInOrderDelivery(t *testing.T) {
	r := newRxReassembler()
	r.Accept(0, []byte("a"))
	r.Accept(1, []byte("b"))

	if got := <-r.Chan(); !bytes.Equal(got, []byte("a")) {
		t.Fatalf("expected 'a', got %q", got)
	}
	if got := <-r.Chan(); !bytes.Equal(got, []byte("b")) {
		t.Fatalf("expected 'b', got %q", got)
	}
}

func TestRxReassemblerBuffersOutOfOrderAndDrains(t *testing.T) {
	r := newRxReassembler()
	r.Accept(2, []byte("c")) // arrives early, buffered
	r.Accept(1, []byte("b")) // still early
	r.Accept(0, []byte("a")) // completes the run: a, b, c deliver in order

	want := []string{"a", "b", "c"}
	for _, w := range want {
		got := <-r.Chan()
		if !bytes.Equal(got, []byte(w)) {
			t.Fatalf("expected %q, got %q", w, got)
		}
	}
}

func TestRxReassemblerDropsAlreadyDelivered(t *testing.T) {
	r := newRxReassembler()
	r.Accept(0, []byte("a"))
	<-r.Chan()
	r.Accept(0, []byte("a-dup")) // duplicate of already-delivered seq
	r.Accept(1, []byte("b"))

	got := <-r.Chan()
	if !bytes.Equal(got, []byte("b")) {
		t.Fatalf("expected duplicate to be dropped, next delivery should be 'b', got %q", got)
	}
}
