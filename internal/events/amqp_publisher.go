package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// amqpChannel is the part of *amqp.Channel the publisher needs.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher forwards domain events to a durable RabbitMQ queue.
type AMQPPublisher struct {
	conn      *amqp.Connection
	ch        amqpChannel
	queueName string
	cb        *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

// NewAMQPPublisher dials the broker and declares the queue.
func NewAMQPPublisher(amqpURL, queueName string, cb *gobreaker.CircuitBreaker, logger *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return newAMQPPublisher(conn, ch, queueName, cb, logger), nil
}

func newAMQPPublisher(conn *amqp.Connection, ch amqpChannel, queueName string, cb *gobreaker.CircuitBreaker, logger *zap.Logger) *AMQPPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPPublisher{conn: conn, ch: ch, queueName: queueName, cb: cb, logger: logger}
}

// Handle publishes event as a persistent JSON message. It satisfies EventHandler.
func (p *AMQPPublisher) Handle(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= 0 {
		return ctx.Err()
	}

	publish := func() (interface{}, error) {
		return nil, p.ch.PublishWithContext(
			ctx,
			"",
			p.queueName,
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    event.ID,
				Type:         string(event.Type),
				Timestamp:    event.Timestamp,
				Body:         body,
			},
		)
	}

	if p.cb == nil {
		_, err = publish()
	} else {
		_, err = p.cb.Execute(publish)
	}
	if err != nil {
		p.logger.Warn("publish event failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
	return err
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
