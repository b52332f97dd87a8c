package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/polkiloo/rewardportal/internal/domain/model"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type channelStub struct {
	declared   []string
	declareErr error
	publishErr error
	messages   []published
	closed     bool
}

func (c *channelStub) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	if c.declareErr != nil {
		return c.declareErr
	}
	c.declared = append(c.declared, name+":"+kind)
	return nil
}

func (c *channelStub) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.messages = append(c.messages, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *channelStub) Close() error {
	c.closed = true
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func sampleEvent() model.Event {
	return model.Event{
		ID:           7,
		Kind:         model.EventWithdrawalApproved,
		WithdrawalID: 3,
		UserID:       42,
		Amount:       500,
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewAMQPPublisherDeclaresExchange(t *testing.T) {
	ch := &channelStub{}
	if _, err := NewAMQPPublisher(ch, "rewards", testLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ch.declared) != 1 || ch.declared[0] != "rewards:topic" {
		t.Fatalf("unexpected declarations: %v", ch.declared)
	}

	if _, err := NewAMQPPublisher(ch, "", testLogger()); err == nil {
		t.Fatal("expected error for empty exchange")
	}

	failing := &channelStub{declareErr: errors.New("access refused")}
	if _, err := NewAMQPPublisher(failing, "rewards", testLogger()); !errors.Is(err, failing.declareErr) {
		t.Fatalf("expected declare error, got %v", err)
	}
}

func TestAMQPPublisherPublish(t *testing.T) {
	ch := &channelStub{}
	p, err := NewAMQPPublisher(ch, "rewards", testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(ch.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(ch.messages))
	}
	got := ch.messages[0]
	if got.exchange != "rewards" || got.key != "withdrawal.approved" {
		t.Fatalf("unexpected routing %s/%s", got.exchange, got.key)
	}
	if got.msg.MessageId != "7" || got.msg.DeliveryMode != amqp.Persistent || got.msg.ContentType != "application/json" {
		t.Fatalf("unexpected publishing: %+v", got.msg)
	}

	var body message
	if err := json.Unmarshal(got.msg.Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.WithdrawalID != 3 || body.UserID != 42 || body.Amount != 500 || body.Kind != "withdrawal.approved" {
		t.Fatalf("unexpected body: %+v", body)
	}

	ch.publishErr = errors.New("channel closed")
	if err := p.Publish(context.Background(), sampleEvent()); !errors.Is(err, ch.publishErr) {
		t.Fatalf("expected publish error, got %v", err)
	}

	if err := p.Close(); err != nil || !ch.closed {
		t.Fatalf("expected channel to be closed: %v", err)
	}
}

func TestLogPublisherWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))
	if err := p.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"kind":"withdrawal.approved"`) || !strings.Contains(out, `"withdrawal_id":3`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}
