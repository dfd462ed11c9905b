// Package session implements the BC session multiplexer ("BcConnection"):
// one read loop routing inbound packets to subscriptions or handlers, one
// write loop serialising outbound packets in submission order, and the
// login/key-derivation exchange that brings a transport up to an
// authenticated session.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
	"github.com/neolink-go/neolink/internal/baichuan/hooks"
	"github.com/neolink-go/neolink/internal/bcerrors"
	"github.com/neolink-go/neolink/internal/metrics"
)

// sessionStates enumerates every state SetSessionState zeroes when a
// session transitions, so a gauge query always reflects the current one.
var sessionStates = []string{"connected", "disconnected"}

// sendTimeout bounds how long Send waits for room in the outbound queue
// before reporting backpressure, mirroring the connection layer's own
// short-timeout enqueue pattern.
const sendTimeout = 500 * time.Millisecond

// outboundQueueDepth is the write loop's channel capacity. Producers are
// safe to call Send concurrently; ordering is channel FIFO (§4.6).
const outboundQueueDepth = 64

// Connection is a multiplexed BC session over any reliable, ordered
// byte-stream transport (a TCP socket or a udp.Transport).
type Connection struct {
	id        string
	transport io.ReadWriteCloser
	state     *bcwire.State
	reader    *bcwire.Reader
	writer    *bcwire.Writer

	subs     *subscriptionTable
	handlers *handlerTable

	outbound chan *bcwire.Packet
	nextNum  atomic.Uint32

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *slog.Logger

	closeOnce sync.Once
	closeErr  error

	metrics   *metrics.Registry
	hooks     *hooks.Manager
	connected bool
}

// NewConnection wraps transport in a BC session. The session starts in XOR
// mode (bcwire.NewState's default); login switches it to whichever mode the
// camera selects.
func NewConnection(id string, transport io.ReadWriteCloser, log *slog.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	st := bcwire.NewState()
	c := &Connection{
		id:        id,
		transport: transport,
		state:     st,
		reader:    bcwire.NewReader(transport, st, [16]byte{}),
		writer:    bcwire.NewWriter(transport, st),
		subs:      newSubscriptionTable(log),
		handlers:  newHandlerTable(),
		outbound:  make(chan *bcwire.Packet, outboundQueueDepth),
		ctx:       ctx,
		cancel:    cancel,
		log:       log,
	}
	return c
}

// State exposes the session's encryption-mode cell, e.g. for the login
// exchange to inspect after a reply's post-decode hook runs.
func (c *Connection) State() *bcwire.State { return c.state }

// SetMetrics attaches a metrics registry updated as subscriptions, standing
// handlers, and connection lifecycle state change. Call before Start; nil
// leaves metrics disabled.
func (c *Connection) SetMetrics(reg *metrics.Registry) { c.metrics = reg }

// SetHooks attaches a hook manager fired on connection lifecycle
// transitions (§4.6 connection_up/connection_down). Call before Start; nil
// leaves hooks disabled.
func (c *Connection) SetHooks(mgr *hooks.Manager) { c.hooks = mgr }

// Hooks returns the attached hook manager, or nil if none was set, so the
// catalog's standing push handlers can fire domain events (motion, battery,
// floodlight) on the same manager the session uses for its own lifecycle
// events.
func (c *Connection) Hooks() *hooks.Manager { return c.hooks }

// ID returns the session's identifier, used as the "camera" label/field on
// metrics and fired hook events.
func (c *Connection) ID() string { return c.id }

// SetAESKey installs the derived AES key once login computes it, so the
// read loop can decode a subsequent 0xDD02 reply under the right key.
func (c *Connection) SetAESKey(key [16]byte) { c.reader.SetAESKey(key) }

// Start launches the read and write loops. Call once, after any handlers
// that must see the very first inbound packets are registered.
func (c *Connection) Start() {
	c.wg.Add(2)
	go c.readLoop()
	go c.writeLoop()
}

// NextMsgNum allocates the next client-originated message-number, for
// pairing an outbound request with its Subscribe call.
func (c *Connection) NextMsgNum() uint32 { return c.nextNum.Add(1) }

// Subscribe claims exclusive receive rights for msgNum. Only one live
// subscription may exist per msg_num (bcerrors.SimultaneousSubscription
// otherwise).
func (c *Connection) Subscribe(msgNum uint32) (*Subscription, error) {
	sub, err := c.subs.subscribe(c, msgNum)
	if err == nil && c.metrics != nil {
		c.metrics.Subscriptions.Inc()
	}
	return sub, err
}

func (c *Connection) unsubscribe(msgNum uint32) {
	c.subs.unsubscribe(msgNum)
	if c.metrics != nil {
		c.metrics.Subscriptions.Dec()
	}
}

// RegisterHandler installs a standing handler for unsubscribed packets
// carrying msgID (routing rule 2 of §4.6).
func (c *Connection) RegisterHandler(msgID uint32, fn HandlerFunc) {
	c.handlers.register(msgID, fn)
	if c.metrics != nil {
		c.metrics.StandingHandlers.Inc()
	}
}

// UnregisterHandler removes a previously registered handler.
func (c *Connection) UnregisterHandler(msgID uint32) {
	c.handlers.unregister(msgID)
	if c.metrics != nil {
		c.metrics.StandingHandlers.Dec()
	}
}

// Send enqueues pkt for the write loop. Concurrent producers are safe;
// delivery order is channel FIFO.
func (c *Connection) Send(pkt *bcwire.Packet) error {
	timer := time.NewTimer(sendTimeout)
	defer timer.Stop()
	select {
	case <-c.ctx.Done():
		return bcerrors.NewDroppedConnection("session.send.closed")
	case c.outbound <- pkt:
		return nil
	case <-timer.C:
		return fmt.Errorf("session.send: outbound queue full (len=%d)", len(c.outbound))
	}
}

func (c *Connection) readLoop() {
	defer c.wg.Done()
	for {
		pkt, err := c.reader.ReadPacket()
		if err != nil {
			c.fail(err)
			return
		}
		if c.subs.deliver(pkt) {
			continue
		}
		fn, ok := c.handlers.lookup(pkt.Header.MsgID)
		if !ok {
			c.log.Debug("dropping unrouted packet", "msg_id", pkt.Header.MsgID, "msg_num", pkt.Header.MsgNum)
			continue
		}
		reply, err := fn(pkt)
		if err != nil {
			c.log.Warn("handler error", "msg_id", pkt.Header.MsgID, "error", err)
			continue
		}
		if reply != nil {
			if err := c.Send(reply); err != nil {
				c.log.Warn("failed to send handler reply", "msg_id", pkt.Header.MsgID, "error", err)
			}
		}
	}
}

func (c *Connection) writeLoop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.ctx.Done():
			return
		case pkt, ok := <-c.outbound:
			if !ok {
				return
			}
			if err := c.writer.WritePacket(pkt); err != nil {
				c.fail(err)
				return
			}
		}
	}
}

// fail tears the session down on a fatal read/write error: cancels the
// context, drains every live subscription with a "dropped" signal, and
// releases the transport.
func (c *Connection) fail(err error) {
	c.closeOnce.Do(func() {
		c.closeErr = err
		c.cancel()
		c.subs.drainAll()
		_ = c.transport.Close()
		c.fireDisconnected()
	})
}

// fireConnected reports a successful login to metrics and fires
// EventConnectionUp, called once Login completes (§4.7).
func (c *Connection) fireConnected() {
	c.connected = true
	if c.metrics != nil {
		c.metrics.SessionsConnected.Inc()
		c.metrics.SetSessionState(c.id, "connected", sessionStates)
	}
	if c.hooks != nil {
		c.hooks.TriggerEvent(context.Background(), *hooks.NewEvent(hooks.EventConnectionUp).WithCamera(c.id))
	}
}

// fireDisconnected reports a torn-down session to metrics and fires
// EventConnectionDown. Runs inside closeOnce, so it fires at most once per
// connection regardless of which path (fail or Close) triggered teardown,
// and only for a session whose Login succeeded.
func (c *Connection) fireDisconnected() {
	if !c.connected {
		return
	}
	if c.metrics != nil {
		c.metrics.SessionsConnected.Dec()
		c.metrics.SetSessionState(c.id, "disconnected", sessionStates)
	}
	if c.hooks != nil {
		c.hooks.TriggerEvent(context.Background(), *hooks.NewEvent(hooks.EventConnectionDown).WithCamera(c.id))
	}
}

// Close cooperatively shuts the session down: cancels read/write loops,
// drains subscriptions, and releases the transport.
func (c *Connection) Close() error {
	c.fail(bcerrors.NewDroppedConnection("session.closed"))
	c.wg.Wait()
	return nil
}

// Err returns the reason the session stopped, if it has.
func (c *Connection) Err() error { return c.closeErr }
