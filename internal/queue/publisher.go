package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher emits booking events to RabbitMQ. A nil *Publisher is valid and
// drops all events, so the service runs fine without a broker.
type Publisher struct {
	url string
	log *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	if url == "" {
		return nil
	}

	return &Publisher{
		url: url,
		log: log.With(zap.String("service", "queue")),
	}
}

func (p *Publisher) PublishBookingCreated(ctx context.Context, event BookingCreatedEvent) error {
	return p.publish(ctx, QueueBookingCreated, event)
}

func (p *Publisher) PublishBookingCancelled(ctx context.Context, event BookingCancelledEvent) error {
	return p.publish(ctx, QueueBookingCancelled, event)
}

// publish dials per call. Booking volume is low and a persistent channel
// would need reconnect handling that is not worth it here.
func (p *Publisher) publish(ctx context.Context, queueName string, event any) error {
	if p == nil {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error("failed to connect to rabbitmq", zap.Error(err))
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error("failed to open channel", zap.Error(err))
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		p.log.Error("failed to declare queue", zap.String("queue", queueName), zap.Error(err))
		return fmt.Errorf("declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		})
	if err != nil {
		p.log.Error("failed to publish event", zap.String("queue", queueName), zap.Error(err))
		return fmt.Errorf("publish event: %w", err)
	}

	p.log.Info("event published", zap.String("queue", queueName))
	return nil
}
