package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const gcDiscardRatio = 0.5

// StorageGCWorker periodically rewrites the message store's value log to
// reclaim space left behind by overwritten cursors and dropped entries.
// Badger only garbage-collects on demand, so a long-running server has to
// drive this itself.
type StorageGCWorker struct {
	log      *slog.Logger
	db       *badger.DB
	interval time.Duration
}

func NewStorageGCWorker(log *slog.Logger, db *badger.DB, interval time.Duration) *StorageGCWorker {
	return &StorageGCWorker{log: log, db: db, interval: interval}
}

func (w *StorageGCWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// One call rewrites at most one value log file, so loop until
			// there is nothing left worth rewriting.
			for {
				err := w.db.RunValueLogGC(gcDiscardRatio)
				if errors.Is(err, badger.ErrNoRewrite) {
					break
				}
				if err != nil {
					w.log.Warn("value log GC failed", "error", err)
					break
				}
				w.log.Debug("value log file reclaimed")
			}
		}
	}
}
