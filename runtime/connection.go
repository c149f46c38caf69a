package runtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Auhnip/chat-app-backend/domain"
	apperrors "github.com/Auhnip/chat-app-backend/errors"
)

// Transport is one bidirectional channel to one connected client. Send
// pushes an application payload, Ping sends a liveness probe frame, Close
// tears the channel down. Implementations must tolerate Close being called
// more than once.
type Transport interface {
	Send(msg domain.Message) error
	Ping() error
	Close() error
}

// State of a connection. Terminal Closed instances are never reused; a
// reconnect creates a fresh Connection.
type State int32

const (
	StateConnecting State = iota
	StateLive
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateLive:
		return "live"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Connection couples one user's live transport with the consumer of that
// user's mailbox. It owns a context whose cancellation detaches the mailbox
// subscription; unacknowledged items stay queued for the next connection.
type Connection struct {
	userID    domain.UserID
	transport Transport
	log       *slog.Logger
	registry  *Registry

	cancel context.CancelFunc
	state  atomic.Int32
	alive  atomic.Bool

	closeOnce sync.Once
	done      chan struct{}
}

func (c *Connection) UserID() domain.UserID { return c.userID }

func (c *Connection) State() State { return State(c.state.Load()) }

// Done is closed once the connection has released its subscription and
// fabric resources.
func (c *Connection) Done() <-chan struct{} { return c.done }

// MarkAlive records a liveness response from the peer. The transport layer
// calls this for every pong frame it reads.
func (c *Connection) MarkAlive() { c.alive.Store(true) }

// Close moves the connection into Closing: it removes the registry entry,
// cancels the mailbox subscription and closes the transport. The consumer
// goroutine observes the cancellation, releases its fabric resources and
// completes the transition to Closed. Safe to call from any goroutine, any
// number of times.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosing))
		c.registry.remove(c)
		c.cancel()
		if err := c.transport.Close(); err != nil {
			c.log.Debug("transport close", "user_id", c.userID, "error", err)
		}
	})
}

// consume runs the mailbox subscription until the connection closes. Every
// delivered item is decoded, filtered against the read cursor and pushed
// down the transport; acknowledgement happens only after the push
// succeeded. A transport failure closes the connection and leaves the item
// queued for redelivery.
func (c *Connection) consume(ctx context.Context) {
	defer func() {
		c.Close()
		c.state.Store(int32(StateClosed))
		close(c.done)
	}()

	err := c.subscribe(ctx)
	if err != nil && ctx.Err() == nil {
		c.log.Warn("mailbox consumer stopped", "user_id", c.userID, "error", err)
	}
}

// subscribe attaches to the mailbox, retrying while a superseded
// connection is still releasing it.
func (c *Connection) subscribe(ctx context.Context) error {
	for {
		err := c.registry.fabric.Consume(ctx, c.userID, c.deliver)
		if errors.Is(err, apperrors.ErrMailboxBusy) && ctx.Err() == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(10 * time.Millisecond):
			}
			continue
		}
		return err
	}
}

// deliver handles one mailbox item. A nil return acknowledges it.
func (c *Connection) deliver(_ context.Context, body []byte) error {
	msg, err := domain.DecodeMessage(body)
	if err != nil {
		// A malformed item would wedge the mailbox head forever if left
		// unacknowledged. Log and drop it.
		c.log.Error("dropping undecodable mailbox item", "user_id", c.userID, "error", err)
		return nil
	}

	lastRead, err := c.registry.cursors.Get(c.userID)
	if err != nil {
		return err
	}
	if !msg.Timestamp().After(lastRead) {
		// Already surfaced through a history fetch; acknowledge without
		// forwarding to avoid duplicate delivery.
		c.log.Debug("cursor filter dropped mailbox item",
			"user_id", c.userID, "sent_at", msg.Timestamp())
		return nil
	}

	if err := c.transport.Send(msg); err != nil {
		c.Close()
		return err
	}
	return nil
}

// heartbeat probes the peer at a fixed interval. If no liveness response
// arrived since the previous probe the connection is terminated. Timeout is
// a normal disconnect: logged, never propagated.
func (c *Connection) heartbeat(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.alive.Swap(false) {
				c.log.Info("heartbeat timeout, terminating connection", "user_id", c.userID)
				c.Close()
				return
			}
			if err := c.transport.Ping(); err != nil {
				c.log.Info("liveness probe failed, terminating connection",
					"user_id", c.userID, "error", err)
				c.Close()
				return
			}
		}
	}
}
