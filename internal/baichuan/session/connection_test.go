package session

import (
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// pairedConnections wires two in-process Connections over a net.Pipe so
// tests can drive both the client and the "camera" side of the protocol.
func pairedConnections(t *testing.T) (client, server *Connection) {
	t.Helper()
	a, b := net.Pipe()
	client = NewConnection("client", a, discardLogger())
	server = NewConnection("server", b, discardLogger())
	client.Start()
	server.Start()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client, server
}

func TestConnectionDeliversToMatchingSubscription(t *testing.T) {
	client, server := pairedConnections(t)

	sub, err := client.Subscribe(7)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	pkt := &bcwire.Packet{
		Header: &bcwire.Header{MsgID: 99, MsgNum: 7, Class: bcwire.ClassModern},
		Body:   &bcwire.Body{Payload: []byte("hello")},
	}
	if err := server.Send(pkt); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case got := <-sub.Recv():
		if string(got.Body.Payload) != "hello" {
			t.Fatalf("payload mismatch: got %q", got.Body.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for subscribed packet")
	}
}

func TestConnectionRoutesToHandlerWhenNoSubscription(t *testing.T) {
	client, server := pairedConnections(t)

	received := make(chan *bcwire.Packet, 1)
	client.RegisterHandler(55, func(pkt *bcwire.Packet) (*bcwire.Packet, error) {
		received <- pkt
		return nil, nil
	})

	pkt := &bcwire.Packet{
		Header: &bcwire.Header{MsgID: 55, MsgNum: 123, Class: bcwire.ClassModern},
		Body:   &bcwire.Body{Payload: []byte("event")},
	}
	if err := server.Send(pkt); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case got := <-received:
		if string(got.Body.Payload) != "event" {
			t.Fatalf("payload mismatch: got %q", got.Body.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for handler invocation")
	}
}

func TestConnectionHandlerReplyIsSent(t *testing.T) {
	client, server := pairedConnections(t)

	server.RegisterHandler(10, func(pkt *bcwire.Packet) (*bcwire.Packet, error) {
		return &bcwire.Packet{
			Header: &bcwire.Header{MsgID: 10, MsgNum: pkt.Header.MsgNum, ResponseCode: 200, Class: bcwire.ClassModern},
			Body:   &bcwire.Body{Payload: []byte("ack")},
		}, nil
	})

	sub, err := client.Subscribe(42)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	req := &bcwire.Packet{
		Header: &bcwire.Header{MsgID: 10, MsgNum: 42, Class: bcwire.ClassModern},
		Body:   &bcwire.Body{Payload: []byte("req")},
	}
	if err := client.Send(req); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case got := <-sub.Recv():
		if string(got.Body.Payload) != "ack" {
			t.Fatalf("payload mismatch: got %q", got.Body.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for handler reply")
	}
}

func TestSubscribeDuplicateMsgNumFails(t *testing.T) {
	client, _ := pairedConnections(t)

	sub, err := client.Subscribe(3)
	if err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	defer sub.Close()

	if _, err := client.Subscribe(3); err == nil {
		t.Fatalf("expected duplicate subscription to fail")
	}
}

func TestCloseDrainsSubscriptions(t *testing.T) {
	client, _ := pairedConnections(t)

	sub, err := client.Subscribe(9)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	client.Close()

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("subscription was not drained on close")
	}
}

func TestNextMsgNumIsMonotonic(t *testing.T) {
	client, _ := pairedConnections(t)
	a := client.NextMsgNum()
	b := client.NextMsgNum()
	if b <= a {
		t.Fatalf("expected increasing msg_num, got %d then %d", a, b)
	}
}
