package session

import (
	"log/slog"
	"sync"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
	"github.com/neolink-go/neolink/internal/bcerrors"
)

// subscriptionQueueDepth is the bounded channel size backing each
// subscription: a slow subscriber drops further packets rather than
// blocking the read loop.
const subscriptionQueueDepth = 100

// Subscription is a live receive endpoint for one message-number. Only one
// subscription may exist per msg_num at a time.
type Subscription struct {
	msgNum uint32
	ch     chan *bcwire.Packet
	done   chan struct{}
	once   sync.Once
	conn   *Connection
}

// Recv returns the channel on which packets for this subscription's msg_num
// are delivered. The channel is never closed; teardown is signalled on
// Done. Callers typically select on Recv() and Done() against a
// time.After(15*time.Second), per the default subscription-receive timeout.
func (s *Subscription) Recv() <-chan *bcwire.Packet { return s.ch }

// Done is closed when the subscription is torn down (session shutdown, or
// the read loop dropping it after a full queue).
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Close releases the subscription's slot in the connection's table.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.conn.unsubscribe(s.msgNum)
		close(s.done)
	})
}

// subscriptionTable maps live msg_num subscriptions to their delivery
// channel. Routing rule 1 of §4.6: a matching msg_num always wins over the
// msg_id handler table.
type subscriptionTable struct {
	mu   sync.Mutex
	subs map[uint32]*Subscription
	log  *slog.Logger
}

func newSubscriptionTable(log *slog.Logger) *subscriptionTable {
	return &subscriptionTable{subs: make(map[uint32]*Subscription), log: log}
}

func (t *subscriptionTable) subscribe(conn *Connection, msgNum uint32) (*Subscription, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.subs[msgNum]; exists {
		return nil, bcerrors.NewSimultaneousSubscription(msgNum)
	}
	sub := &Subscription{
		msgNum: msgNum,
		ch:     make(chan *bcwire.Packet, subscriptionQueueDepth),
		done:   make(chan struct{}),
		conn:   conn,
	}
	t.subs[msgNum] = sub
	return sub, nil
}

func (t *subscriptionTable) unsubscribe(msgNum uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.subs, msgNum)
}

// deliver routes pkt to its subscription, if one exists. It reports whether
// a subscription claimed the packet. A full queue drops the packet and
// closes the subscription, per the backpressure policy.
func (t *subscriptionTable) deliver(pkt *bcwire.Packet) bool {
	t.mu.Lock()
	sub, ok := t.subs[pkt.Header.MsgNum]
	t.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case sub.ch <- pkt:
	default:
		t.log.Warn("subscriber queue full, dropping packet and closing subscription",
			"msg_num", pkt.Header.MsgNum)
		t.mu.Lock()
		delete(t.subs, pkt.Header.MsgNum)
		t.mu.Unlock()
		sub.once.Do(func() { close(sub.done) })
	}
	return true
}

// drainAll closes every live subscription with a "dropped" signal, used on
// session shutdown.
func (t *subscriptionTable) drainAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for msgNum, sub := range t.subs {
		sub.once.Do(func() { close(sub.done) })
		delete(t.subs, msgNum)
	}
}
