package udp

import (
	"sync"
	"time"
)

const (
	baseRTO    = 500 * time.Millisecond
	maxRTO     = 3 * time.Second
	maxRetries = 8
)

// rtoForRetry computes the retransmit timeout for a chunk that has already
// been resent retry times: exponential backoff from baseRTO, capped at
// maxRTO.
func rtoForRetry(retry int) time.Duration {
	d := baseRTO
	for i := 0; i < retry; i++ {
		d *= 2
		if d >= maxRTO {
			return maxRTO
		}
	}
	return d
}

type txEntry struct {
	seq     uint32
	payload []byte
	sentAt  time.Time
	retries int
}

// txWindow tracks in-flight data chunks awaiting acknowledgement. It is safe
// for concurrent use by the writer and the pacing/retransmit goroutine.
type txWindow struct {
	mu      sync.Mutex
	entries map[uint32]*txEntry
	nextSeq uint32
}

func newTxWindow() *txWindow {
	return &txWindow{entries: make(map[uint32]*txEntry)}
}

// len reports the number of chunks currently unacknowledged.
func (w *txWindow) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// allocSeq reserves the next sequence number and records the chunk as
// in-flight.
func (w *txWindow) allocSeq(payload []byte) uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	seq := w.nextSeq
	w.nextSeq++
	w.entries[seq] = &txEntry{seq: seq, payload: payload, sentAt: time.Now()}
	return seq
}

// ack removes every entry with seq <= s (per-seq ACKs that happen to also
// clear older, presumably-already-acked entries; duplicate acks are
// idempotent no-ops).
func (w *txWindow) ack(s uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for seq := range w.entries {
		if seq <= s {
			delete(w.entries, seq)
		}
	}
}

// due returns entries whose RTO has elapsed, in map iteration order (not
// sorted by seq), and bumps their retry count and sentAt as a side effect.
// Entries that have exhausted maxRetries are removed and returned separately
// via expired.
func (w *txWindow) due() (resend []*txEntry, expired []*txEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	for seq, e := range w.entries {
		if now.Sub(e.sentAt) < rtoForRetry(e.retries) {
			continue
		}
		if e.retries >= maxRetries {
			delete(w.entries, seq)
			expired = append(expired, e)
			continue
		}
		e.retries++
		e.sentAt = now
		resend = append(resend, e)
	}
	return resend, expired
}
