package events

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"

	"github.com/polkiloo/rewardportal/internal/config"
)

// Module exposes the event publisher to fx graph. AMQP is used when a URL is configured.
var Module = fx.Provide(newPublisher)

type connection struct {
	conn *amqp.Connection
}

func (c connection) Close() error {
	return c.conn.Close()
}

// dialAMQP opens a connection and a channel on it.
var dialAMQP = func(url string) (amqpChannel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return ch, connection{conn: conn}, nil
}

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p publisherParams) (Publisher, error) {
	if p.Config.AMQPURL == "" {
		p.Logger.Info("amqp not configured, withdrawal events go to the log")
		return NewLogPublisher(p.Logger), nil
	}

	channel, conn, err := dialAMQP(p.Config.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("connect amqp: %w", err)
	}
	publisher, err := NewAMQPPublisher(channel, p.Config.AMQPExchange, p.Logger)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = publisher.Close()
			return conn.Close()
		},
	})
	p.Logger.Info("amqp publisher ready", slog.String("exchange", p.Config.AMQPExchange))
	return publisher, nil
}
