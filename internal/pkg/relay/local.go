package relay

import (
	"context"
	"sync"
)

// LocalPublisher relays payloads in process. It is used when NATS is disabled.
type LocalPublisher struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
}

// NewLocalPublisher creates an in-process relay
func NewLocalPublisher() *LocalPublisher {
	return &LocalPublisher{handlers: make(map[int]Handler)}
}

// Publish delivers payload to every current subscriber
func (p *LocalPublisher) Publish(_ context.Context, eventID string, payload []byte) error {
	p.mu.RLock()
	handlers := make([]Handler, 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	p.mu.RUnlock()

	for _, h := range handlers {
		h(eventID, payload)
	}
	return nil
}

// Subscribe implements Subscriber
func (p *LocalPublisher) Subscribe(handler Handler) (func() error, error) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.handlers[id] = handler
	p.mu.Unlock()

	return func() error {
		p.mu.Lock()
		delete(p.handlers, id)
		p.mu.Unlock()
		return nil
	}, nil
}
