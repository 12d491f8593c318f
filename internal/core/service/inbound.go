package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/tcplink/internal/core/domain"
)

// DefaultSubscriberBuffer is the per-subscriber queue length.
const DefaultSubscriberBuffer = 64

// Received is one chunk of bytes read from the peer.
type Received struct {
	Endpoint domain.Endpoint
	Data     []byte
	At       time.Time
}

// Inbound fans bytes received from the peer out to subscribers. Publish
// never blocks: a subscriber whose queue is full misses the chunk.
type Inbound struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
}

// NewInbound creates a hub. A non-positive buffer uses the default.
func NewInbound(buffer int) *Inbound {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	return &Inbound{subs: make(map[*Subscription]struct{}), buffer: buffer}
}

// Subscription receives chunks until Close.
type Subscription struct {
	hub     *Inbound
	ch      chan Received
	once    sync.Once
	dropped atomic.Uint64
}

// C returns the delivery channel. It is closed by Close.
func (s *Subscription) C() <-chan Received {
	return s.ch
}

// Dropped reports how many chunks were missed because the queue was full.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		close(s.ch)
		s.hub.mu.Unlock()
	})
}

// Subscribe registers a new subscriber.
func (h *Inbound) Subscribe() *Subscription {
	s := &Subscription{hub: h, ch: make(chan Received, h.buffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Subscribers returns the current subscriber count.
func (h *Inbound) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish delivers data to every subscriber. Its signature matches
// transport.Sink. Subscribers share data and must not modify it.
func (h *Inbound) Publish(ep domain.Endpoint, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.subs) == 0 {
		return
	}
	msg := Received{Endpoint: ep, Data: data, At: time.Now()}
	for s := range h.subs {
		select {
		case s.ch <- msg:
		default:
			s.dropped.Add(1)
		}
	}
}
