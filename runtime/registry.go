// Package runtime owns the set of live client connections: registration,
// supersession on reconnect, mailbox consumption and heartbeat liveness.
// It contains no message semantics beyond the cursor filter; persistence
// and publishing live in the services layer.
package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Auhnip/chat-app-backend/domain"
	"github.com/Auhnip/chat-app-backend/fabric"
	"github.com/Auhnip/chat-app-backend/repositories"
)

// Registry is the concurrency-safe table of live connections, at most one
// per user. Only a connection's own lifecycle code mutates its entry;
// supersession on reconnect is the one cross-entry mutation and swaps
// old-for-new atomically under the table lock.
type Registry struct {
	log               *slog.Logger
	fabric            fabric.Fabric
	cursors           repositories.ICursorRepository
	heartbeatInterval time.Duration

	mu          sync.Mutex
	connections map[domain.UserID]*Connection
}

func NewRegistry(log *slog.Logger, f fabric.Fabric,
	cursors repositories.ICursorRepository, heartbeatInterval time.Duration) *Registry {
	return &Registry{
		log:               log,
		fabric:            f,
		cursors:           cursors,
		heartbeatInterval: heartbeatInterval,
		connections:       make(map[domain.UserID]*Connection),
	}
}

// Connect registers a transport for a user and attaches a consumer to the
// user's mailbox. An existing connection for the same user is terminated
// first: the newest transport always wins. Returns the new connection; its
// consumer and heartbeat run until the transport dies or Close is called.
func (r *Registry) Connect(ctx context.Context, userID domain.UserID, transport Transport) (*Connection, error) {
	if err := r.fabric.EnsureUserMailbox(ctx, userID); err != nil {
		// No retry loop here: a failed fabric attach terminates the
		// connection attempt immediately.
		_ = transport.Close()
		return nil, err
	}

	connCtx, cancel := context.WithCancel(context.Background())
	conn := &Connection{
		userID:    userID,
		transport: transport,
		log:       r.log,
		registry:  r,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	conn.state.Store(int32(StateConnecting))
	conn.alive.Store(true)

	r.mu.Lock()
	superseded := r.connections[userID]
	r.connections[userID] = conn
	r.mu.Unlock()

	if superseded != nil {
		r.log.Info("superseding existing connection", "user_id", userID)
		superseded.Close()
	}

	conn.state.Store(int32(StateLive))
	go conn.consume(connCtx)
	go conn.heartbeat(connCtx, r.heartbeatInterval)

	r.log.Info("client connected", "user_id", userID)
	return conn, nil
}

// Lookup returns the live connection for a user, if any.
func (r *Registry) Lookup(userID domain.UserID) (*Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.connections[userID]
	return conn, ok
}

// Count reports the number of live connections.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.connections)
}

// ShutdownAll forcibly terminates every live transport at process shutdown.
// Pending mailbox items are neither drained nor acknowledged; they stay
// queued for the next connection.
func (r *Registry) ShutdownAll() {
	r.mu.Lock()
	conns := make([]*Connection, 0, len(r.connections))
	for _, conn := range r.connections {
		conns = append(conns, conn)
	}
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
	for _, conn := range conns {
		<-conn.Done()
	}
	r.log.Info("all client connections terminated", "count", len(conns))
}

// remove deletes the table entry, but only while it still points at the
// given connection. A superseded connection must not tear down its
// replacement's entry.
func (r *Registry) remove(conn *Connection) {
	r.mu.Lock()
	if current, ok := r.connections[conn.userID]; ok && current == conn {
		delete(r.connections, conn.userID)
	}
	r.mu.Unlock()
	r.log.Info("client disconnected", "user_id", conn.userID)
}
