package udp

import "sync"

// rxReassembler reorders incoming data chunks into the strictly-ordered BC
// byte-stream, buffering out-of-order arrivals and dropping seqs already
// delivered.
type rxReassembler struct {
	mu       sync.Mutex
	next     uint32
	pending  map[uint32][]byte
	deliverC chan []byte
}

func newRxReassembler() *rxReassembler {
	return &rxReassembler{
		pending:  make(map[uint32][]byte),
		deliverC: make(chan []byte, 64),
	}
}

// Accept handles one received data chunk: it delivers it (and any buffered
// successors) when it is the next expected seq, buffers it when it is
// early, and ignores it when it is a duplicate. It returns nothing; the
// caller ACKs every chunk unconditionally before calling it.
func (r *rxReassembler) Accept(seq uint32, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq < r.next {
		return // already delivered; duplicate
	}
	if seq != r.next {
		if _, dup := r.pending[seq]; !dup {
			r.pending[seq] = payload
		}
		return
	}

	r.deliver(payload)
	r.next++
	for {
		buf, ok := r.pending[r.next]
		if !ok {
			break
		}
		delete(r.pending, r.next)
		r.deliver(buf)
		r.next++
	}
}

func (r *rxReassembler) deliver(buf []byte) {
	r.deliverC <- buf
}

// Chan exposes delivered, in-order payloads for the transport's Read loop.
func (r *rxReassembler) Chan() <-chan []byte { return r.deliverC }

// Pending reports the number of out-of-order fragments buffered awaiting
// reassembly.
func (r *rxReassembler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
