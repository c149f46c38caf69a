//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/Auhnip/chat-app-backend/domain"
	"github.com/Auhnip/chat-app-backend/fabric"
)

type IMessageRepository interface {
	Append(msg domain.Message) error
	QueryAfter(userID domain.UserID, since time.Time) ([]domain.Message, error)
}

// MessageRepository is the durable, queryable log of sent messages.
//
// Keys follow the "prefix:owner:{timestamp_padded}:{uuid}" shape:
//  1. The 19-digit zero-padded UnixNano keeps chronological order under
//     lexicographical iteration.
//  2. The UUID acts as a collision disconnector when two messages land on
//     the same nanosecond.
//
// A private message is written once under each participant so a single
// prefix scan answers "everything this user sent or received". A group
// message is written once under its group.
type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

func privateKey(owner domain.UserID, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("pm:%s:%019d:%s", owner, at.UnixNano(), id))
}

func groupKey(groupID domain.GroupID, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("gm:%s:%019d:%s", fabric.TopicName(groupID), at.UnixNano(), id))
}

// Append durably records a message. Storage errors surface to the caller
// and are not retried here.
func (r MessageRepository) Append(msg domain.Message) error {
	body, err := domain.EncodeMessage(msg)
	if err != nil {
		return err
	}
	id := uuid.New()

	return r.db.Update(func(txn *badger.Txn) error {
		switch m := msg.(type) {
		case domain.PrivateMessage:
			if err := txn.Set(privateKey(m.From, m.SentAt, id), body); err != nil {
				return err
			}
			return txn.Set(privateKey(m.To, m.SentAt, id), body)
		case domain.GroupMessage:
			return txn.Set(groupKey(m.To, m.SentAt, id), body)
		default:
			return fmt.Errorf("append: unknown message variant %T", msg)
		}
	})
}

// QueryAfter returns every private message where the user is sender or
// receiver, plus every group message sent to a group the user is currently
// a member of, restricted to sentAt > since, merged ascending by sentAt.
// Ties keep source order (stable sort). Membership, not binding, is the
// history filter: leaving a group hides its history.
func (r MessageRepository) QueryAfter(userID domain.UserID, since time.Time) ([]domain.Message, error) {
	var messages []domain.Message

	err := r.db.View(func(txn *badger.Txn) error {
		private, err := scanAfter(txn, fmt.Sprintf("pm:%s:", userID), since)
		if err != nil {
			return err
		}
		messages = append(messages, private...)

		groups, err := groupsOf(txn, userID)
		if err != nil {
			return err
		}
		for _, groupID := range groups {
			grouped, err := scanAfter(txn, fmt.Sprintf("gm:%s:", fabric.TopicName(groupID)), since)
			if err != nil {
				return err
			}
			messages = append(messages, grouped...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp().Before(messages[j].Timestamp())
	})
	return messages, nil
}

// scanAfter walks one key prefix and decodes every record newer than since.
// The padded timestamp makes the iteration naturally chronological, so the
// scan can seek directly to the cutoff instead of filtering from the start.
func scanAfter(txn *badger.Txn, prefixStr string, since time.Time) ([]domain.Message, error) {
	prefix := []byte(prefixStr)
	seekKey := []byte(fmt.Sprintf("%s%019d", prefixStr, since.UnixNano()+1))

	options := badger.DefaultIteratorOptions
	options.Prefix = prefix
	it := txn.NewIterator(options)
	defer it.Close()

	var messages []domain.Message
	for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
		var body []byte
		if err := it.Item().Value(func(value []byte) error {
			body = append([]byte(nil), value...)
			return nil
		}); err != nil {
			return nil, err
		}

		msg, err := domain.DecodeMessage(body)
		if err != nil {
			return nil, fmt.Errorf("decode stored record %s: %w", it.Item().Key(), err)
		}
		if !msg.Timestamp().After(since) {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
