package relay

import (
	"sync"

	"github.com/rs/zerolog"
)

// Broadcaster fans a payload out to an event's live subscribers
type Broadcaster interface {
	Broadcast(eventID string, payload []byte)
}

// Bridge forwards relayed announcements to a Broadcaster
type Bridge struct {
	subscriber  Subscriber
	broadcaster Broadcaster
	logger      zerolog.Logger

	mu   sync.Mutex
	stop func() error
}

// NewBridge creates a bridge between the relay and the websocket hub
func NewBridge(subscriber Subscriber, broadcaster Broadcaster, logger zerolog.Logger) *Bridge {
	return &Bridge{subscriber: subscriber, broadcaster: broadcaster, logger: logger}
}

// Start subscribes to the relay. Calling Start twice is a no-op.
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stop != nil {
		return nil
	}

	stop, err := b.subscriber.Subscribe(func(eventID string, payload []byte) {
		b.logger.Debug().Str("eventID", eventID).Int("bytes", len(payload)).Msg("Relaying announcement")
		b.broadcaster.Broadcast(eventID, payload)
	})
	if err != nil {
		return err
	}
	b.stop = stop
	return nil
}

// Stop unsubscribes from the relay
func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stop == nil {
		return
	}
	if err := b.stop(); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to unsubscribe relay bridge")
	}
	b.stop = nil
}
