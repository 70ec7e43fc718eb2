// Package events publishes lifecycle events to a RabbitMQ topic exchange.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/optiretail/optiretail/internal/platform/db"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
)

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Envelope is the JSON body of a published event.
type Envelope struct {
	Entity     string      `json:"entity"`
	Event      string      `json:"event"`
	ID         string      `json:"id,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// Identified is implemented by records that expose their id.
type Identified interface {
	Identifier() string
}

// Publisher is a lifecycle observer that forwards events to an exchange.
// Events raised inside a unit of work are sent after it commits and dropped
// when it rolls back. Publishing is best effort: failures are logged and
// never returned, so a broker outage cannot fail the operation that raised
// the event.
type Publisher struct {
	mu       sync.Mutex
	ch       Channel
	conn     *amqp.Connection
	exchange string
	logger   zerolog.Logger
	now      func() time.Time
}

// Dial connects to url, declares exchange as a durable topic exchange and
// returns a Publisher on it.
func Dial(url, exchange string, logger zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	p, err := NewPublisher(ch, exchange, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher declares exchange on ch and returns a Publisher.
func NewPublisher(ch Channel, exchange string, logger zerolog.Logger) (*Publisher, error) {
	if exchange == "" {
		return nil, errors.New("amqp exchange name is required")
	}
	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		logger:   logger.With().Str("component", "events").Str("exchange", exchange).Logger(),
		now:      time.Now,
	}, nil
}

// RoutingKey is "<entity>.<event>", e.g. "prescription.created".
func RoutingKey(ev lifecycle.Event) string {
	return string(ev.Of()) + "." + ev.Kind()
}

// Handle publishes ev once the unit of work bound to ctx commits. It always
// returns nil.
func (p *Publisher) Handle(ctx context.Context, ev lifecycle.Event) error {
	env := Envelope{
		Entity:     string(ev.Of()),
		Event:      ev.Kind(),
		OccurredAt: p.now().UTC(),
		Data:       ev.Data(),
	}
	if rec, ok := ev.Data().(Identified); ok {
		env.ID = rec.Identifier()
	}

	key := RoutingKey(ev)
	body, err := json.Marshal(env)
	if err != nil {
		p.logger.Error().Err(err).Str("routing_key", key).Msg("failed to marshal event")
		return nil
	}

	db.AfterCommit(ctx, func() { p.publish(key, body, env.OccurredAt) })
	return nil
}

func (p *Publisher) publish(key string, body []byte, at time.Time) {
	p.mu.Lock()
	err := p.ch.Publish(p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Timestamp:    at,
	})
	p.mu.Unlock()
	if err != nil {
		p.logger.Warn().Err(err).Str("routing_key", key).Msg("failed to publish event")
		return
	}
	p.logger.Debug().Str("routing_key", key).Msg("event published")
}

// Close closes the channel and, when the publisher owns it, the connection.
func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil && !p.conn.IsClosed() {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
