package udp

import (
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/neolink-go/neolink/internal/bcerrors"
	"github.com/neolink-go/neolink/internal/logger"
	"github.com/neolink-go/neolink/internal/metrics"
)

// KeepAliveInterval is the max idle-send duration before the session layer
// must emit a BC keep-alive message to hold the connection open.
const KeepAliveInterval = 1 * time.Second

// Transport is a reliable, ordered byte-stream built on top of unreliable
// BC-UDP data/ack datagrams. It implements io.ReadWriteCloser so the
// bcwire.Reader/Writer pair can sit on top of it exactly as they would on a
// TCP socket.
type Transport struct {
	conn       net.PacketConn
	remoteAddr net.Addr
	sendConnID uint32 // connection_id placed on outgoing Data/Ack (did, for a client)

	tx *txWindow
	rx *rxReassembler

	logger *slog.Logger

	closeOnce sync.Once
	closeCh   chan struct{}
	closeErr  error

	lastSendMu sync.Mutex
	lastSend   time.Time

	pendingMu sync.Mutex
	pending   []byte // undelivered bytes from the most recently dequeued chunk

	metrics *metrics.Registry
}

// SetMetrics attaches a metrics registry the transport updates as packets
// are sent, received, retransmitted, and as the send window and reassembly
// buffer occupy. Safe to call once, before the transport starts moving
// data; nil leaves metrics disabled.
func (t *Transport) SetMetrics(reg *metrics.Registry) { t.metrics = reg }

// NewTransport wraps an already-connected PacketConn (the discovery phase
// has negotiated remoteAddr and sendConnID) into a reliable byte-stream.
func NewTransport(conn net.PacketConn, remoteAddr net.Addr, sendConnID uint32) *Transport {
	t := &Transport{
		conn:       conn,
		remoteAddr: remoteAddr,
		sendConnID: sendConnID,
		tx:         newTxWindow(),
		rx:         newRxReassembler(),
		logger:     logger.Logger().With("component", "udp.transport"),
		closeCh:    make(chan struct{}),
		lastSend:   time.Now(),
	}
	go t.readLoop()
	go t.pacingLoop()
	return t
}

// Write chunks p into DefaultMTU-sized data packets, assigns them
// consecutive sequence numbers, and sends each immediately (the pacing loop
// handles any retransmits).
func (t *Transport) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		n := len(p)
		if n > DefaultMTU {
			n = DefaultMTU
		}
		chunk := make([]byte, n)
		copy(chunk, p[:n])
		seq := t.tx.allocSeq(chunk)
		if err := t.send(seq, chunk); err != nil {
			return total, err
		}
		total += n
		p = p[n:]
	}
	return total, nil
}

func (t *Transport) send(seq uint32, payload []byte) error {
	wire := EncodeData(&Data{ConnectionID: t.sendConnID, PacketID: seq, Payload: payload})
	t.lastSendMu.Lock()
	t.lastSend = time.Now()
	t.lastSendMu.Unlock()
	_, err := t.conn.WriteTo(wire, t.remoteAddr)
	if err != nil {
		return bcerrors.NewTransport("udp.send", err)
	}
	if t.metrics != nil {
		t.metrics.UDPPacketsSent.Inc()
	}
	return nil
}

func (t *Transport) sendAck(packetID uint32) {
	wire := EncodeAck(&Ack{ConnectionID: t.sendConnID, PacketID: packetID})
	if _, err := t.conn.WriteTo(wire, t.remoteAddr); err != nil {
		t.logger.Warn("failed to send ack", "packet_id", packetID, "error", err)
	}
}

// Read returns in-order, reassembled bytes from the inbound stream.
func (t *Transport) Read(p []byte) (int, error) {
	t.pendingMu.Lock()
	if len(t.pending) > 0 {
		n := copy(p, t.pending)
		t.pending = t.pending[n:]
		t.pendingMu.Unlock()
		return n, nil
	}
	t.pendingMu.Unlock()

	select {
	case buf, ok := <-t.rx.Chan():
		if !ok {
			return 0, t.closeErr
		}
		n := copy(p, buf)
		if n < len(buf) {
			t.pendingMu.Lock()
			t.pending = append(t.pending, buf[n:]...)
			t.pendingMu.Unlock()
		}
		return n, nil
	case <-t.closeCh:
		return 0, t.closeErr
	}
}

// SinceLastSend reports how long it has been since a data packet was
// transmitted, for the session layer's keep-alive timer.
func (t *Transport) SinceLastSend() time.Duration {
	t.lastSendMu.Lock()
	defer t.lastSendMu.Unlock()
	return time.Since(t.lastSend)
}

func (t *Transport) readLoop() {
	buf := make([]byte, 65536)
	for {
		n, _, err := t.conn.ReadFrom(buf)
		if err != nil {
			t.fail(bcerrors.NewTransport("udp.read", err))
			return
		}
		kind, val, _, err := Decode(buf[:n])
		if err != nil {
			t.logger.Debug("dropping malformed udp datagram", "error", err)
			continue
		}
		switch kind {
		case KindData:
			d := val.(*Data)
			if t.metrics != nil {
				t.metrics.UDPPacketsReceived.Inc()
			}
			t.sendAck(d.PacketID) // always ack, even duplicates
			t.rx.Accept(d.PacketID, d.Payload)
		case KindAck:
			a := val.(*Ack)
			t.tx.ack(a.PacketID)
		case KindDiscovery:
			// Post-handshake discovery datagrams (D2C_DISC/R2C_DISC terminate
			// notices) are handled by the session layer, which owns the
			// termination-error mapping; surface nothing here.
		}
	}
}

func (t *Transport) pacingLoop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			resend, expired := t.tx.due()
			for _, e := range resend {
				if err := t.send(e.seq, e.payload); err != nil {
					t.logger.Warn("retransmit failed", "seq", e.seq, "error", err)
				}
				if t.metrics != nil {
					t.metrics.UDPRetransmits.Inc()
				}
			}
			if t.metrics != nil {
				t.metrics.UDPWindowInFlight.Set(float64(t.tx.len()))
				t.metrics.UDPReassemblyPending.Set(float64(t.rx.Pending()))
			}
			if len(expired) > 0 {
				t.fail(bcerrors.NewTimeout("udp.retransmit", maxRTO, nil))
				return
			}
		case <-t.closeCh:
			return
		}
	}
}

// fail tears the transport down on a fatal error, unblocking both the
// pacing loop and any blocked Read, and closing the socket so the read
// loop's in-flight ReadFrom unblocks too.
func (t *Transport) fail(err error) {
	t.closeOnce.Do(func() {
		t.closeErr = err
		close(t.closeCh)
		close(t.rx.deliverC)
		t.conn.Close()
	})
}

// Close releases the transport. Any blocked Read returns the close reason
// (bcerrors.DroppedConnection if no failure preceded it).
func (t *Transport) Close() error {
	t.fail(bcerrors.NewDroppedConnection("udp.transport.closed"))
	return nil
}
