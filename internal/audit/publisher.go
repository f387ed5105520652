// Package audit публикует события о мутациях консоли в RabbitMQ.
//
// Каждая успешная мутация (создание, изменение, удаление, действие над
// записью) дает одно персистентное JSON-сообщение в настроенный exchange.
// Ошибка публикации логируется вызывающим и не влияет на результат
// запроса. При пустом AMQP URL приложение использует Nop-издателя.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/bizvenue/billing-console/internal/config"
	"github.com/bizvenue/billing-console/internal/session"
)

// Event описывает одну мутацию, выполненную через консоль.
type Event struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	RecordKey  int64     `json:"record_key"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent собирает событие мутации, подставляя актора из сессии запроса.
func NewEvent(ctx context.Context, entity, action string, recordKey int64) Event {
	actor := "unknown"
	if sess, ok := session.FromContext(ctx); ok {
		if user, err := sess.User(); err == nil && user.Email != "" {
			actor = user.Email
		}
	}
	return Event{
		Entity:     entity,
		Action:     action,
		Actor:      actor,
		RecordKey:  recordKey,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher описывает публикацию события аудита.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// AMQPPublisher публикует события в exchange RabbitMQ.
type AMQPPublisher struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	exchange   string
	routingKey string
}

// New подключается к RabbitMQ и объявляет durable topic exchange.
func New(cfg config.AMQP) (*AMQPPublisher, error) {
	const op = "audit.New"
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AMQPPublisher{
		conn:       conn,
		ch:         ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
	}, nil
}

// Publish публикует событие аудита персистентным JSON-сообщением.
func (p *AMQPPublisher) Publish(_ context.Context, event Event) error {
	const op = "audit.Publish"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		p.exchange,
		p.routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает канал и соединение.
func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// Nop издатель для окружений без RabbitMQ.
type Nop struct{}

// Publish ничего не делает.
func (Nop) Publish(context.Context, Event) error { return nil }
