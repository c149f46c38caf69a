package fabric

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Auhnip/chat-app-backend/domain"
	apperrors "github.com/Auhnip/chat-app-backend/errors"
)

const contentTypeJSON = "application/json"

// AMQPFabric implements Fabric on a RabbitMQ broker. A single multiplexed
// connection is shared across all operations: one mutex-guarded channel for
// topology changes and publishes, and a dedicated channel per active
// consumer. Queues and exchanges are durable, deliveries persistent, so
// unacknowledged items survive broker restarts.
type AMQPFabric struct {
	log  *slog.Logger
	conn *amqp.Connection

	mu     sync.Mutex
	pub    *amqp.Channel
	closed bool
}

func NewAMQPFabric(log *slog.Logger, url string) (*AMQPFabric, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	pub, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open publisher channel: %w", err)
	}

	return &AMQPFabric{log: log, conn: conn, pub: pub}, nil
}

func (f *AMQPFabric) EnsureUserMailbox(_ context.Context, userID domain.UserID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return apperrors.ErrFabricClosed
	}
	return f.declareMailboxLocked(userID)
}

func (f *AMQPFabric) EnsureGroupTopic(_ context.Context, groupID domain.GroupID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return apperrors.ErrFabricClosed
	}
	return f.declareTopicLocked(groupID)
}

func (f *AMQPFabric) Bind(_ context.Context, userID domain.UserID, groupID domain.GroupID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return apperrors.ErrFabricClosed
	}
	if err := f.declareTopicLocked(groupID); err != nil {
		return err
	}
	if err := f.declareMailboxLocked(userID); err != nil {
		return err
	}
	// Fan-out topic: the routing key is ignored by the exchange.
	if err := f.pub.QueueBind(MailboxName(userID), "", TopicName(groupID), false, nil); err != nil {
		return fmt.Errorf("bind mailbox %s to topic %s: %w", MailboxName(userID), TopicName(groupID), err)
	}
	return nil
}

func (f *AMQPFabric) Unbind(_ context.Context, userID domain.UserID, groupID domain.GroupID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return apperrors.ErrFabricClosed
	}
	if err := f.pub.QueueUnbind(MailboxName(userID), "", TopicName(groupID), nil); err != nil {
		return fmt.Errorf("unbind mailbox %s from topic %s: %w", MailboxName(userID), TopicName(groupID), err)
	}
	return nil
}

func (f *AMQPFabric) PublishPrivate(ctx context.Context, msg domain.PrivateMessage) error {
	body, err := domain.EncodeMessage(msg)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return apperrors.ErrFabricClosed
	}
	// Both participants' mailboxes receive a copy; the sender's copy is the
	// echo that keeps multi-device sessions consistent.
	for _, target := range []domain.UserID{msg.From, msg.To} {
		if err := f.declareMailboxLocked(target); err != nil {
			return err
		}
		if err := f.publishLocked(ctx, "", MailboxName(target), body); err != nil {
			return fmt.Errorf("publish private to %s: %w", MailboxName(target), err)
		}
	}
	return nil
}

func (f *AMQPFabric) PublishGroup(ctx context.Context, msg domain.GroupMessage) error {
	body, err := domain.EncodeMessage(msg)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return apperrors.ErrFabricClosed
	}
	if err := f.declareTopicLocked(msg.To); err != nil {
		return err
	}
	if err := f.publishLocked(ctx, TopicName(msg.To), "", body); err != nil {
		return fmt.Errorf("publish to topic %s: %w", TopicName(msg.To), err)
	}
	return nil
}

// Consume opens a dedicated channel on the shared connection, attaches the
// handler to the user's mailbox and blocks until ctx is cancelled. Each
// delivery is acknowledged only after handler returns nil; failures are
// nacked back into the queue for redelivery.
func (f *AMQPFabric) Consume(ctx context.Context, userID domain.UserID, handler Handler) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return apperrors.ErrFabricClosed
	}
	if err := f.declareMailboxLocked(userID); err != nil {
		f.mu.Unlock()
		return err
	}
	f.mu.Unlock()

	ch, err := f.conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Exclusive: a mailbox has exactly one active consumer. A superseded
	// connection whose channel is still tearing down makes the broker
	// refuse the attach, which surfaces as ErrMailboxBusy so the caller's
	// retry loop can take over.
	tag := fmt.Sprintf("consumer-%s", MailboxName(userID))
	deliveries, err := ch.Consume(MailboxName(userID), tag, false, true, false, false, nil)
	if err != nil {
		return consumeError(MailboxName(userID), err)
	}

	for {
		select {
		case <-ctx.Done():
			// Cancel stops deliveries; unacknowledged items stay queued and
			// are redelivered on the next Consume.
			_ = ch.Cancel(tag, false)
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return apperrors.ErrFabricClosed
			}
			if err := handler(ctx, d.Body); err != nil {
				f.log.Warn("mailbox item processing failed, requeueing",
					"mailbox", MailboxName(userID), "error", err)
				if err := d.Nack(false, true); err != nil {
					return fmt.Errorf("nack delivery: %w", err)
				}
				continue
			}
			if err := d.Ack(false); err != nil {
				return fmt.Errorf("ack delivery: %w", err)
			}
		}
	}
}

func (f *AMQPFabric) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	_ = f.pub.Close()
	return f.conn.Close()
}

// consumeError translates a broker refusal of an exclusive consume into
// ErrMailboxBusy. RabbitMQ signals the conflict as ACCESS_REFUSED (403) or
// RESOURCE_LOCKED (405) depending on version.
func consumeError(mailbox string, err error) error {
	var amqpErr *amqp.Error
	if errors.As(err, &amqpErr) &&
		(amqpErr.Code == amqp.AccessRefused || amqpErr.Code == amqp.ResourceLocked) {
		return apperrors.ErrMailboxBusy
	}
	return fmt.Errorf("consume mailbox %s: %w", mailbox, err)
}

func (f *AMQPFabric) declareMailboxLocked(userID domain.UserID) error {
	if _, err := f.pub.QueueDeclare(MailboxName(userID), true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare mailbox %s: %w", MailboxName(userID), err)
	}
	return nil
}

func (f *AMQPFabric) declareTopicLocked(groupID domain.GroupID) error {
	if err := f.pub.ExchangeDeclare(TopicName(groupID), "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare topic %s: %w", TopicName(groupID), err)
	}
	return nil
}

func (f *AMQPFabric) publishLocked(ctx context.Context, exchange, key string, body []byte) error {
	return f.pub.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}
