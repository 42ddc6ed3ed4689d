package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/climate-service/internal/application/ports"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "climate.requests", nil)

	ev := ports.RequestEvent{
		Type:       ports.EventRequestAssigned,
		RequestID:  3,
		ClientID:   7,
		Status:     "В процессе ремонта",
		ActorID:    1,
		OccurredAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), ev))

	assert.Equal(t, "climate.requests", ch.exchange)
	assert.Equal(t, ports.EventRequestAssigned, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var got ports.RequestEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, int64(3), got.RequestID)
	assert.Equal(t, int64(7), got.ClientID)
}

func TestPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newPublisher(ch, "x", nil)

	err := p.Publish(context.Background(), ports.RequestEvent{Type: ports.EventRequestCreated})
	assert.ErrorContains(t, err, "channel closed")
}

func TestPublisher_CanceledContext(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "x", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, ports.RequestEvent{Type: ports.EventRequestCreated})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ch.key)
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "x", nil)
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
