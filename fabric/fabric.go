//go:generate go run go.uber.org/mock/mockgen -source=fabric.go -destination=../mocks/mock_fabric.go -package=mocks
// Package fabric is the durable transport between the delivery coordinator
// and live client connections. A user owns exactly one durable mailbox; a
// group owns one durable fan-out topic with dynamic mailbox bindings.
//
// Guarantees: at-least-once delivery, FIFO within a single mailbox, no
// ordering across mailboxes or across independent publishers. Items stay
// queued until a consumer acknowledges them, and acknowledgement always
// happens after successful local processing.
package fabric

import (
	"context"
	"fmt"

	"github.com/Auhnip/chat-app-backend/domain"
)

// Handler processes one delivered mailbox item. Returning nil acknowledges
// the item; returning an error leaves it queued for redelivery.
type Handler func(ctx context.Context, body []byte) error

type Fabric interface {
	// EnsureUserMailbox creates the user's durable mailbox if absent. Idempotent.
	EnsureUserMailbox(ctx context.Context, userID domain.UserID) error

	// EnsureGroupTopic creates the group's durable fan-out topic if absent. Idempotent.
	EnsureGroupTopic(ctx context.Context, groupID domain.GroupID) error

	// Bind subscribes the user's mailbox to the group topic for all publishes
	// from this point forward. Idempotent.
	Bind(ctx context.Context, userID domain.UserID, groupID domain.GroupID) error

	// Unbind removes the subscription. Already-enqueued items are unaffected.
	Unbind(ctx context.Context, userID domain.UserID, groupID domain.GroupID) error

	// PublishPrivate enqueues the message into both the sender's and the
	// receiver's mailboxes, so the sender sees its own message echoed back.
	PublishPrivate(ctx context.Context, msg domain.PrivateMessage) error

	// PublishGroup publishes once to the group topic; the fabric fans out to
	// every mailbox bound at the moment of publish.
	PublishGroup(ctx context.Context, msg domain.GroupMessage) error

	// Consume attaches the single active handler to the user's mailbox and
	// blocks until ctx is cancelled. A mailbox supports one consumer at a time.
	Consume(ctx context.Context, userID domain.UserID, handler Handler) error

	Close() error
}

// MailboxName is the fabric-side name of a user's durable mailbox: the raw
// user identifier string.
func MailboxName(userID domain.UserID) string {
	return string(userID)
}

// TopicName renders a group's fan-out topic name: the numeric group
// identifier as a fixed-width, zero-padded 11-digit decimal string.
func TopicName(groupID domain.GroupID) string {
	return fmt.Sprintf("%011d", int64(groupID))
}
