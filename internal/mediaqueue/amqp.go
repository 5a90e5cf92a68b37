package mediaqueue

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPSource consumes media events from a durable RabbitMQ queue. It is the
// drop-in replacement for MockSource when a real producer feeds the queue.
type AMQPSource struct {
	url       string
	queueName string
	out       chan MediaEvent
}

func NewAMQPSource(url, queueName string) *AMQPSource {
	return &AMQPSource{
		url:       url,
		queueName: queueName,
		out:       make(chan MediaEvent),
	}
}

func (s *AMQPSource) Events() <-chan MediaEvent {
	return s.out
}

func (s *AMQPSource) Run(ctx context.Context) error {
	defer close(s.out)

	conn, err := amqp.Dial(s.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		s.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer channel closed")
			}

			var event MediaEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				// bad message, don't requeue
				_ = msg.Nack(false, false)
				continue
			}

			select {
			case s.out <- event:
				_ = msg.Ack(false)
			case <-ctx.Done():
				_ = msg.Nack(false, true)
				return nil
			}
		}
	}
}
