package fabric

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Auhnip/chat-app-backend/domain"
	apperrors "github.com/Auhnip/chat-app-backend/errors"
)

const redeliveryDelay = 200 * time.Millisecond

// MemoryFabric implements Fabric entirely in-process. It keeps the same
// observable semantics as the broker-backed implementation: unbounded FIFO
// mailboxes, fan-out to the mailboxes bound at the moment of publish, and
// items that survive consumer detach until acknowledged. Used by tests and
// by local development without a broker.
//
// MemoryFabric is safe for concurrent use by multiple goroutines.
type MemoryFabric struct {
	mu        sync.Mutex
	log       *slog.Logger
	mailboxes map[string]*memoryMailbox
	bindings  map[string]map[string]struct{} // topic name -> set of mailbox names
	closed    bool
}

type memoryMailbox struct {
	mu        sync.Mutex
	items     [][]byte
	notify    chan struct{}
	consuming bool
}

func NewMemoryFabric(log *slog.Logger) *MemoryFabric {
	return &MemoryFabric{
		log:       log,
		mailboxes: make(map[string]*memoryMailbox),
		bindings:  make(map[string]map[string]struct{}),
	}
}

func (f *MemoryFabric) EnsureUserMailbox(_ context.Context, userID domain.UserID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return apperrors.ErrFabricClosed
	}
	f.ensureMailboxLocked(MailboxName(userID))
	return nil
}

func (f *MemoryFabric) EnsureGroupTopic(_ context.Context, groupID domain.GroupID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return apperrors.ErrFabricClosed
	}
	f.ensureTopicLocked(TopicName(groupID))
	return nil
}

func (f *MemoryFabric) Bind(_ context.Context, userID domain.UserID, groupID domain.GroupID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return apperrors.ErrFabricClosed
	}
	f.ensureMailboxLocked(MailboxName(userID))
	f.ensureTopicLocked(TopicName(groupID))[MailboxName(userID)] = struct{}{}
	return nil
}

func (f *MemoryFabric) Unbind(_ context.Context, userID domain.UserID, groupID domain.GroupID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return apperrors.ErrFabricClosed
	}
	delete(f.ensureTopicLocked(TopicName(groupID)), MailboxName(userID))
	return nil
}

func (f *MemoryFabric) PublishPrivate(_ context.Context, msg domain.PrivateMessage) error {
	body, err := domain.EncodeMessage(msg)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return apperrors.ErrFabricClosed
	}
	// The sender's mailbox receives an echo of its own message, so another
	// device of the same account stays consistent.
	boxes := []*memoryMailbox{
		f.ensureMailboxLocked(MailboxName(msg.From)),
		f.ensureMailboxLocked(MailboxName(msg.To)),
	}
	f.mu.Unlock()

	for _, box := range boxes {
		box.enqueue(body)
	}
	return nil
}

func (f *MemoryFabric) PublishGroup(_ context.Context, msg domain.GroupMessage) error {
	body, err := domain.EncodeMessage(msg)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return apperrors.ErrFabricClosed
	}
	// Fan out to the mailboxes bound right now. Later binding changes never
	// retroactively affect this publish.
	var boxes []*memoryMailbox
	for name := range f.bindings[TopicName(msg.To)] {
		boxes = append(boxes, f.ensureMailboxLocked(name))
	}
	f.mu.Unlock()

	for _, box := range boxes {
		box.enqueue(body)
	}
	return nil
}

// Consume delivers mailbox items to handler in FIFO order until ctx is
// cancelled. An item is removed only after handler returns nil; a failed
// item stays at the head and is redelivered after a short delay.
func (f *MemoryFabric) Consume(ctx context.Context, userID domain.UserID, handler Handler) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return apperrors.ErrFabricClosed
	}
	box := f.ensureMailboxLocked(MailboxName(userID))
	f.mu.Unlock()

	if err := box.attach(); err != nil {
		return err
	}
	defer box.detach()

	for {
		body, ok := box.peek()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-box.notify:
			}
			continue
		}

		if err := handler(ctx, body); err != nil {
			f.log.Warn("mailbox item processing failed, will redeliver",
				"mailbox", MailboxName(userID), "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(redeliveryDelay):
			}
			continue
		}
		box.ackHead()
	}
}

func (f *MemoryFabric) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Depth reports the number of unacknowledged items queued for a user.
// Exposed for tests and the debug tooling.
func (f *MemoryFabric) Depth(userID domain.UserID) int {
	f.mu.Lock()
	box, ok := f.mailboxes[MailboxName(userID)]
	f.mu.Unlock()
	if !ok {
		return 0
	}
	box.mu.Lock()
	defer box.mu.Unlock()
	return len(box.items)
}

func (f *MemoryFabric) ensureMailboxLocked(name string) *memoryMailbox {
	box, ok := f.mailboxes[name]
	if !ok {
		box = &memoryMailbox{notify: make(chan struct{}, 1)}
		f.mailboxes[name] = box
	}
	return box
}

func (f *MemoryFabric) ensureTopicLocked(name string) map[string]struct{} {
	topic, ok := f.bindings[name]
	if !ok {
		topic = make(map[string]struct{})
		f.bindings[name] = topic
	}
	return topic
}

func (b *memoryMailbox) enqueue(body []byte) {
	b.mu.Lock()
	b.items = append(b.items, body)
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

func (b *memoryMailbox) attach() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.consuming {
		return apperrors.ErrMailboxBusy
	}
	b.consuming = true
	return nil
}

func (b *memoryMailbox) detach() {
	b.mu.Lock()
	b.consuming = false
	b.mu.Unlock()
}

func (b *memoryMailbox) peek() ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		return nil, false
	}
	return b.items[0], true
}

// ackHead removes the delivered item. Publishes only ever append and a
// mailbox has a single consumer, so the head is always the delivered item.
func (b *memoryMailbox) ackHead() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) > 0 {
		b.items = b.items[1:]
	}
}
