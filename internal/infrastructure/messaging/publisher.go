package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/seconnect/ice-backend/internal/application/port"
)

// Publisher implements port.QueuePublisher over NATS. Payloads are JSON
// encoded; delivery and retry semantics belong to the queue consumer side.
type Publisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewPublisher connects to the NATS server at url.
func NewPublisher(url string, logger *zap.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("seconnect-workflow"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	logger.Info("Connected to queue", zap.String("url", url))
	return &Publisher{conn: conn, logger: logger}, nil
}

// Publish JSON-encodes the payload and publishes it on the subject.
func (p *Publisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal queue payload: %w", err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Error("Failed to publish message", zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

// Conn exposes the underlying connection for subscribers sharing it.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close flushes and closes the connection.
func (p *Publisher) Close() {
	if err := p.conn.Flush(); err != nil {
		p.logger.Error("Failed to flush queue connection", zap.Error(err))
	}
	p.conn.Close()
}

var _ port.QueuePublisher = (*Publisher)(nil)
