package helpers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// publishTimeout bounds a publish when the caller's context carries no
// deadline, so a broker stall never blocks an engagement mutation.
const publishTimeout = 5 * time.Second

// QueueOptions controls how the publisher declares its queue. The zero value
// ({}) would declare a transient queue; DurableQueue is what the notify
// pipeline uses so jobs survive a broker restart.
type QueueOptions struct {
	Durable    bool
	AutoDelete bool
	Exclusive  bool
}

// DurableQueue returns the options for a queue that outlives broker restarts.
func DurableQueue() QueueOptions { return QueueOptions{Durable: true} }

// RabbitPublisher publishes JSON jobs to a single declared queue on the
// default exchange.
type RabbitPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	return NewRabbitPublisherWithOptions(url, queue, DurableQueue())
}

func NewRabbitPublisherWithOptions(url, queue string, opts QueueOptions) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(queue, opts.Durable, opts.AutoDelete, opts.Exclusive, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitPublisher{conn: conn, ch: ch, Queue: queue}, nil
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON marshals body and publishes it as a persistent message with a
// fresh message id. Publishes are bounded by publishTimeout unless the caller
// already set a deadline.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, publishTimeout)
		defer cancel()
	}
	return p.ch.PublishWithContext(ctx, "", p.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
}
