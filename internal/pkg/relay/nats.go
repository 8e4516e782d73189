package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/yigit/openhacks/internal/pkg/metrics"
)

// BreakerConfig configures the publish circuit breaker
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	MaxRequests      uint32
	Timeout          time.Duration
}

// NATSPublisher publishes on a NATS connection behind a circuit breaker
type NATSPublisher struct {
	conn    *nats.Conn
	prefix  string
	breaker *gobreaker.CircuitBreaker[any]
	logger  zerolog.Logger
}

// Connect opens a NATS connection with reconnects enabled
func Connect(url string, logger zerolog.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("openhacks-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

// NewNATSPublisher wraps conn. A failure threshold of zero defaults to 5.
func NewNATSPublisher(conn *nats.Conn, prefix string, cfg BreakerConfig, logger zerolog.Logger) *NATSPublisher {
	if cfg.Name == "" {
		cfg.Name = "nats-relay"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RelayBreakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Relay circuit breaker state changed")
		},
	})

	return &NATSPublisher{conn: conn, prefix: prefix, breaker: breaker, logger: logger}
}

// Publish sends payload on the event's announcement subject. It fails fast while the breaker is open.
func (p *NATSPublisher) Publish(ctx context.Context, eventID string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := p.breaker.Execute(func() (any, error) {
		return nil, p.conn.Publish(Subject(p.prefix, eventID), payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("relay unavailable: %w", err)
	}
	return err
}

// State returns the breaker state
func (p *NATSPublisher) State() gobreaker.State {
	return p.breaker.State()
}

// Subscribe implements Subscriber on the wildcard announcement subject
func (p *NATSPublisher) Subscribe(handler Handler) (func() error, error) {
	sub, err := p.conn.Subscribe(Wildcard(p.prefix), func(msg *nats.Msg) {
		eventID, ok := EventIDFromSubject(p.prefix, msg.Subject)
		if !ok {
			p.logger.Warn().Str("subject", msg.Subject).Msg("Ignoring message on unexpected subject")
			return
		}
		handler(eventID, msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", Wildcard(p.prefix), err)
	}
	return sub.Unsubscribe, nil
}
