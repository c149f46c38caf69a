//go:generate go run go.uber.org/mock/mockgen -source=cursor.go -destination=../mocks/mock_cursor_repository.go -package=mocks
package repositories

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/Auhnip/chat-app-backend/domain"
)

type ICursorRepository interface {
	Get(userID domain.UserID) (time.Time, error)
	Set(userID domain.UserID, lastRead time.Time) error
	InitNow(userID domain.UserID) error
}

// CursorRepository keeps one read cursor per user: the watermark timestamp
// marking the boundary of already-retrieved history. The cursor is
// monotonically non-decreasing; writes that would move it backwards are
// ignored.
type CursorRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewCursorRepository(db *badger.DB, log *slog.Logger) CursorRepository {
	return CursorRepository{db: db, log: log}
}

func cursorKey(userID domain.UserID) []byte {
	return []byte(fmt.Sprintf("cursor:%s", userID))
}

// Get returns the user's cursor, or the zero time if none was ever written.
func (r CursorRepository) Get(userID domain.UserID) (time.Time, error) {
	var lastRead time.Time
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cursorKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			parsed, err := time.Parse(time.RFC3339Nano, string(value))
			if err != nil {
				return fmt.Errorf("parse cursor for %s: %w", userID, err)
			}
			lastRead = parsed
			return nil
		})
	})
	return lastRead, err
}

// Set advances the cursor. A value older than the stored one is dropped to
// preserve monotonicity, e.g. when two history fetches race.
func (r CursorRepository) Set(userID domain.UserID, lastRead time.Time) error {
	return r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(cursorKey(userID))
		if err == nil {
			var current time.Time
			if err := item.Value(func(value []byte) error {
				current, err = time.Parse(time.RFC3339Nano, string(value))
				return err
			}); err != nil {
				return err
			}
			if lastRead.Before(current) {
				r.log.Debug("ignoring cursor regression",
					"user_id", userID, "stored", current, "proposed", lastRead)
				return nil
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(cursorKey(userID), []byte(lastRead.UTC().Format(time.RFC3339Nano)))
	})
}

// InitNow seeds the cursor at user-registration time, so a fresh account
// does not pull the whole past on its first history fetch.
func (r CursorRepository) InitNow(userID domain.UserID) error {
	return r.Set(userID, time.Now().UTC())
}
