package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/config"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/logger"
)

// Publisher publishes domain events to NATS. A nil Publisher is a no-op,
// so callers don't have to branch on whether eventing is enabled.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher connects to NATS and returns a publisher, or nil when disabled
func NewPublisher(cfg *config.NATSConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}

	return &Publisher{conn: conn}, nil
}

// Publish marshals the payload and publishes it on the given subject.
// Failures are logged, not returned: event delivery is best-effort and
// must never fail the originating request.
func (p *Publisher) Publish(subject string, payload interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event", zap.String("subject", subject), zap.Error(err))
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		logger.Error("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

// Close drains and closes the connection
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Drain()
}
