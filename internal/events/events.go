// Package events публикует сведения о завершённых исследовательских запусках в NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/model"
)

// SubjectRunCompleted тема, в которую уходит model.RunEvent.
const SubjectRunCompleted = "research.runs.completed"

// Publisher отправляет события в NATS.
type Publisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// Connect подключается к NATS по url.
func Connect(url string, logger *zap.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("research-aggregator"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Publisher{conn: conn, logger: logger}, nil
}

func (p *Publisher) PublishRun(_ context.Context, event model.RunEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := p.conn.Publish(SubjectRunCompleted, data); err != nil {
		return fmt.Errorf("publish %s: %w", SubjectRunCompleted, err)
	}
	p.logger.Debug("run event published", zap.String("run_id", event.RunID))
	return nil
}

// Close дожидается отправки буфера и закрывает соединение.
func (p *Publisher) Close() error {
	err := p.conn.Drain()
	if err != nil {
		p.conn.Close()
	}
	return err
}

// Nop используется, когда NATS не настроен.
type Nop struct{}

func (Nop) PublishRun(context.Context, model.RunEvent) error { return nil }

func (Nop) Close() error { return nil }
