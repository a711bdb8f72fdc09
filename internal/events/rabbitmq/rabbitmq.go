package rabbitmq

import (
	"context"
	"encoding/json"
	"filmorate/proj/internal/events"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends domain events to a durable topic exchange, routed by event type.
type Publisher struct {
	log      *slog.Logger
	conn     *amqp.Connection
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

func New(log *slog.Logger, url, exchange string) (*Publisher, error) {
	const op = "rabbitmq.New"
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: dial: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: open channel: %w", op, err)
	}
	if err := ch.ExchangeDeclare(
		exchange, // name
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: declare exchange: %w", op, err)
	}
	return &Publisher{
		log:      log,
		conn:     conn,
		ch:       ch,
		exchange: exchange,
	}, nil
}

func message(e events.Event) (amqp.Publishing, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Type:         string(e.Type),
		Timestamp:    e.OccurredAt,
		Body:         body,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, e events.Event) error {
	const op = "rabbitmq.Publisher.Publish"
	msg, err := message(e)
	if err != nil {
		return fmt.Errorf("%s: marshal event: %w", op, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx,
		p.exchange,
		string(e.Type), // routing key
		false,          // mandatory
		false,          // immediate
		msg,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p.log.Debug("event published", "op", op, "event_id", e.ID, "type", e.Type)
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.log.Warn("closing amqp channel", "errMsg", err.Error())
	}
	return p.conn.Close()
}
