package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"resume-parser/internal/models"

	"github.com/streadway/amqp"
)

// Publisher fans job status changes out on a topic exchange, keyed "resume.<job id>".
type Publisher struct {
	conn     *amqp.Connection
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Publisher{conn: conn, exchange: exchange}, nil
}

func (p *Publisher) Publish(ctx context.Context, update models.JobUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := newPublishing(update)
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Publish(p.exchange, RoutingKey(update), false, false, msg); err != nil {
		return fmt.Errorf("failed to publish update for job %s: %w", update.JobID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}

func RoutingKey(update models.JobUpdate) string {
	return fmt.Sprintf("resume.%s", update.JobID)
}

func newPublishing(update models.JobUpdate) (amqp.Publishing, error) {
	body, err := json.Marshal(update)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to encode job update: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    update.Timestamp,
		Body:         body,
	}, nil
}

// Nop drops every update. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, models.JobUpdate) error { return nil }
