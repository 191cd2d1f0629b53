package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const statusQueueName = "booking.status"

// Publisher publishes booking status events to RabbitMQ. Errors are
// logged and returned so callers can ignore failures without
// interrupting the main request flow. An empty URL disables
// publishing.
type Publisher struct {
	url string
	log zerolog.Logger
}

// NewPublisher builds a Publisher for the given broker URL.
func NewPublisher(url string, log zerolog.Logger) *Publisher {
	return &Publisher{url: url, log: log.With().Str("component", "queue").Logger()}
}

// PublishBookingStatus publishes a BookingStatusEvent to the
// "booking.status" queue. Messages are marked persistent; the queue
// is declared durable so events survive broker restarts.
func (p *Publisher) PublishBookingStatus(ctx context.Context, event BookingStatusEvent) error {
	if p.url == "" {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare so publisher and consumer can start in any order.
	if _, err := ch.QueueDeclare(statusQueueName, true, false, false, false, nil); err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", statusQueueName, false, false, pub); err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq publish failed")
		return err
	}
	return nil
}
