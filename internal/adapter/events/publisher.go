package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/polkiloo/rewardportal/internal/domain/model"
)

// Publisher delivers outbox events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event model.Event) error
}

// message mirrors the JSON payload sent to the broker.
type message struct {
	ID           int64     `json:"id"`
	Kind         string    `json:"kind"`
	WithdrawalID int64     `json:"withdrawal_id"`
	UserID       int64     `json:"user_id"`
	Amount       int64     `json:"amount"`
	CreatedAt    time.Time `json:"created_at"`
}

func newMessage(e model.Event) message {
	return message{
		ID:           e.ID,
		Kind:         string(e.Kind),
		WithdrawalID: e.WithdrawalID,
		UserID:       e.UserID,
		Amount:       e.Amount,
		CreatedAt:    e.CreatedAt,
	}
}

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher sends events to a durable topic exchange, routed by event kind.
type AMQPPublisher struct {
	channel  amqpChannel
	exchange string
	logger   *slog.Logger
}

// NewAMQPPublisher declares the exchange on channel and returns a publisher bound to it.
func NewAMQPPublisher(channel amqpChannel, exchange string, logger *slog.Logger) (*AMQPPublisher, error) {
	if exchange == "" {
		return nil, fmt.Errorf("amqp exchange must be provided")
	}
	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPublisher{channel: channel, exchange: exchange, logger: logger}, nil
}

// Publish sends a persistent JSON message keyed by the event kind.
func (p *AMQPPublisher) Publish(ctx context.Context, event model.Event) error {
	body, err := json.Marshal(newMessage(event))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    strconv.FormatInt(event.ID, 10),
		Timestamp:    event.CreatedAt,
		Type:         string(event.Kind),
		Body:         body,
	}
	if err := p.channel.PublishWithContext(ctx, p.exchange, string(event.Kind), false, false, msg); err != nil {
		return fmt.Errorf("publish event %d: %w", event.ID, err)
	}
	p.logger.Debug("event published", slog.Int64("event_id", event.ID), slog.String("kind", string(event.Kind)))
	return nil
}

// Close releases the channel.
func (p *AMQPPublisher) Close() error {
	return p.channel.Close()
}

// LogPublisher writes events to the application log when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a log backed publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event model.Event) error {
	p.logger.Info("withdrawal event",
		slog.Int64("event_id", event.ID),
		slog.String("kind", string(event.Kind)),
		slog.Int64("withdrawal_id", event.WithdrawalID),
		slog.Int64("user_id", event.UserID),
		slog.Int64("amount", event.Amount),
	)
	return nil
}
