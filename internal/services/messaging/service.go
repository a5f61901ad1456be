package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"ncs-viewer-go/internal/config"
)

const headerContentType = "Content-Type"

type Service struct {
	conn *nats.Conn
	cfg  *config.Config
}

func NewService(cfg *config.Config, name string) (*Service, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.Timeout(cfg.NatsConnectTimeout),
		nats.ReconnectWait(cfg.NatsReconnectWait),
		nats.MaxReconnects(cfg.NatsMaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			e := log.Warn().Err(err)
			if sub != nil {
				e = e.Str("subject", sub.Subject)
			}
			e.Msg("NATS async error")
		}),
	}

	conn, err := nats.Connect(cfg.NatsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NatsURL, err)
	}

	log.Info().Str("url", cfg.NatsURL).Msg("NATS connection established")

	return &Service{
		conn: conn,
		cfg:  cfg,
	}, nil
}

// Publish sends a raw payload tagged with its content type
func (s *Service) Publish(subject string, payload []byte, contentType string) error {
	msg := nats.NewMsg(subject)
	msg.Data = payload
	if contentType != "" {
		msg.Header.Set(headerContentType, contentType)
	}
	return s.conn.PublishMsg(msg)
}

// Flush waits until the server has processed everything published so far
func (s *Service) Flush(timeout time.Duration) error {
	return s.conn.FlushTimeout(timeout)
}

// SubscribeSync opens a synchronous subscription. At most pendingMsgs
// messages are buffered; NATS drops the rest and counts them.
func (s *Service) SubscribeSync(subject string, pendingMsgs int) (*Subscription, error) {
	sub, err := s.conn.SubscribeSync(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	if pendingMsgs > 0 {
		if err := sub.SetPendingLimits(pendingMsgs, -1); err != nil {
			sub.Unsubscribe()
			return nil, fmt.Errorf("failed to set pending limits on %s: %w", subject, err)
		}
	}
	log.Info().Str("subject", subject).Int("pending_msgs", pendingMsgs).Msg("Subscribed to detections")
	return &Subscription{sub: sub}, nil
}

func (s *Service) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}

func (s *Service) Shutdown(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}

	// Try graceful drain with timeout, fallback to immediate close
	if err := s.conn.Drain(); err != nil {
		log.Warn().Err(err).Msg("Failed to drain NATS connection gracefully, closing immediately")
		s.conn.Close()
		return nil
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for !s.conn.IsClosed() {
		select {
		case <-ctx.Done():
			log.Warn().Msg("NATS drain timed out, closing immediately")
			s.conn.Close()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// Message is one payload received from the bus
type Message struct {
	Subject     string
	ContentType string
	Data        []byte
}

// Subscription wraps a synchronous NATS subscription
type Subscription struct {
	sub *nats.Subscription
}

var (
	// ErrNoMessage is returned by Next when nothing arrived within the timeout
	ErrNoMessage = errors.New("no message")
	// ErrSubscriptionClosed is returned once the subscription or its connection is gone
	ErrSubscriptionClosed = errors.New("subscription closed")
)

// Next waits up to timeout for the next message
func (s *Subscription) Next(timeout time.Duration) (*Message, error) {
	msg, err := s.sub.NextMsg(timeout)
	if err != nil {
		if errors.Is(err, nats.ErrTimeout) {
			return nil, ErrNoMessage
		}
		if errors.Is(err, nats.ErrBadSubscription) || errors.Is(err, nats.ErrConnectionClosed) ||
			errors.Is(err, nats.ErrConnectionDraining) {
			return nil, fmt.Errorf("%w: %v", ErrSubscriptionClosed, err)
		}
		return nil, err
	}

	return &Message{
		Subject:     msg.Subject,
		ContentType: msg.Header.Get(headerContentType),
		Data:        msg.Data,
	}, nil
}

// Dropped reports how many messages NATS discarded because the pending
// buffer was full
func (s *Subscription) Dropped() int {
	n, err := s.sub.Dropped()
	if err != nil {
		return 0
	}
	return n
}

func (s *Subscription) Unsubscribe() error {
	return s.sub.Unsubscribe()
}
