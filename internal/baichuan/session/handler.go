package session

import (
	"sync"

	"github.com/neolink-go/neolink/internal/baichuan/bcwire"
)

// HandlerFunc processes an unsubscribed inbound packet matched by msg_id
// (routing rule 2 of §4.6). Returning a non-nil reply causes it to be sent
// back to the camera; returning nil sends nothing.
type HandlerFunc func(pkt *bcwire.Packet) (*bcwire.Packet, error)

// handlerTable maps msg_id to its registered HandlerFunc. Unlike
// subscriptions, handlers are not removed on first use — they represent
// standing event callbacks (motion alarm pushes, floodlight status, etc.).
type handlerTable struct {
	mu       sync.RWMutex
	handlers map[uint32]HandlerFunc
}

func newHandlerTable() *handlerTable {
	return &handlerTable{handlers: make(map[uint32]HandlerFunc)}
}

func (t *handlerTable) register(msgID uint32, fn HandlerFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[msgID] = fn
}

func (t *handlerTable) unregister(msgID uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.handlers, msgID)
}

func (t *handlerTable) lookup(msgID uint32) (HandlerFunc, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.handlers[msgID]
	return fn, ok
}
