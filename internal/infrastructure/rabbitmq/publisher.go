// Package rabbitmq publica los eventos de solicitudes en un exchange de RabbitMQ.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/jhoicas/climate-service/internal/application/ports"
	"github.com/jhoicas/climate-service/internal/infrastructure/metrics"
	"github.com/jhoicas/climate-service/pkg/logger"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Resultados de publicación para la métrica EventsPublished.
const (
	resultOK    = "ok"
	resultError = "error"
)

// channel subconjunto de *amqp.Channel que usa el publisher.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher publica RequestEvent como JSON persistente; la routing key es el tipo de evento.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	log      *logger.Logger
}

// Connect intenta conectar retries veces con delay entre intentos.
func Connect(url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var (
		conn *amqp.Connection
		err  error
	)
	for range retries {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

// NewPublisher abre un canal y declara el exchange (direct, durable).
func NewPublisher(conn *amqp.Connection, exchange string, log *logger.Logger) (*Publisher, error) {
	const op = "rabbitmq.NewPublisher"
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: declarar exchange %s: %w", op, exchange, err)
	}
	p := newPublisher(ch, exchange, log)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{ch: ch, exchange: exchange, log: log.Component("rabbitmq")}
}

// Publish serializa el evento y lo publica.
func (p *Publisher) Publish(ctx context.Context, ev ports.RequestEvent) error {
	const op = "rabbitmq.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		metrics.EventsPublished.WithLabelValues(ev.Type, resultError).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	err = p.ch.Publish(
		p.exchange,
		ev.Type,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.OccurredAt,
			Type:         ev.Type,
		},
	)
	p.mu.Unlock()
	if err != nil {
		metrics.EventsPublished.WithLabelValues(ev.Type, resultError).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.EventsPublished.WithLabelValues(ev.Type, resultOK).Inc()
	p.log.Debug().Str("event", ev.Type).Int64("request_id", ev.RequestID).Msg("evento publicado")
	return nil
}

// Close cierra el canal y la conexión.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
