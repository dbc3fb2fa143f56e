package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Publisher публикует события в topic exchange RabbitMQ
type Publisher struct {
	mu       sync.Mutex // amqp.Channel нельзя использовать из нескольких горутин
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	log      Logger
}

// NewPublisher подключается к брокеру и объявляет exchange
func NewPublisher(amqpURL, exchange string, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %s: %v", ErrConnect, exchange, err)
	}

	log.Info("Event publisher connected, exchange=%s", exchange)

	return &Publisher{conn: conn, ch: ch, exchange: exchange, log: log}, nil
}

// Publish отправляет событие с routing key, равным типу события
func (p *Publisher) Publish(ctx context.Context, eventType EventType, payload interface{}) error {
	now := time.Now()
	body, err := newEnvelope(eventType, payload, now)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,
		string(eventType),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         string(eventType),
			Timestamp:    now,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPublish, eventType, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		p.log.Warn("Failed to close amqp channel: %v", err)
	}
	return p.conn.Close()
}

// NopPublisher используется, когда события выключены
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, EventType, interface{}) error { return nil }

func (NopPublisher) Close() error { return nil }
