package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"github.com/Auhnip/chat-app-backend/domain"
	"github.com/Auhnip/chat-app-backend/fabric"
	"github.com/Auhnip/chat-app-backend/repositories"
)

const testHeartbeat = 40 * time.Millisecond

type fakeTransport struct {
	mu      sync.Mutex
	sent    []domain.Message
	pings   int
	closed  bool
	sendErr error
}

func (t *fakeTransport) Send(msg domain.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendErr != nil {
		return t.sendErr
	}
	t.sent = append(t.sent, msg)
	return nil
}

func (t *fakeTransport) Ping() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pings++
	return nil
}

func (t *fakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

func (t *fakeTransport) snapshot() (sent []domain.Message, closed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Message(nil), t.sent...), t.closed
}

func newTestRegistry(t *testing.T) (*Registry, *fabric.MemoryFabric, repositories.CursorRepository) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := fabric.NewMemoryFabric(slog.Default())
	cursors := repositories.NewCursorRepository(db, slog.Default())
	return NewRegistry(slog.Default(), f, cursors, testHeartbeat), f, cursors
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

// Alice sends "hi" to Bob while Bob is offline; when Bob connects later his
// live connection must still receive it from the mailbox.
func Test_Offline_Message_Delivered_On_Connect(t *testing.T) {
	req := require.New(t)
	registry, f, _ := newTestRegistry(t)

	msg := domain.PrivateMessage{From: "alice", To: "bob", Content: "hi", SentAt: time.Now().UTC()}
	req.NoError(f.PublishPrivate(context.Background(), msg))

	tr := &fakeTransport{}
	conn, err := registry.Connect(context.Background(), "bob", tr)
	req.NoError(err)
	defer conn.Close()

	waitFor(t, func() bool {
		sent, _ := tr.snapshot()
		return len(sent) == 1
	}, "offline message never reached the transport")

	sent, _ := tr.snapshot()
	req.Equal(msg, sent[0])
	req.Equal(0, f.Depth("bob"))
}

// Items whose sentAt is at or before the read cursor were already surfaced
// via a history fetch; the live path must acknowledge them silently.
func Test_Cursor_Filter_Drops_Already_Read_Items(t *testing.T) {
	req := require.New(t)
	registry, f, cursors := newTestRegistry(t)

	base := time.Now().UTC()
	req.NoError(cursors.Set("bob", base))

	before := domain.PrivateMessage{From: "alice", To: "bob", Content: "already read", SentAt: base}
	after := domain.PrivateMessage{From: "alice", To: "bob", Content: "fresh", SentAt: base.Add(time.Second)}
	req.NoError(f.PublishPrivate(context.Background(), before))
	req.NoError(f.PublishPrivate(context.Background(), after))

	tr := &fakeTransport{}
	conn, err := registry.Connect(context.Background(), "bob", tr)
	req.NoError(err)
	defer conn.Close()

	waitFor(t, func() bool { return f.Depth("bob") == 0 }, "mailbox never drained")

	sent, _ := tr.snapshot()
	req.Len(sent, 1)
	req.Equal("fresh", sent[0].(domain.PrivateMessage).Content)
}

func Test_Reconnect_Supersedes_Existing_Connection(t *testing.T) {
	req := require.New(t)
	registry, _, _ := newTestRegistry(t)

	first := &fakeTransport{}
	firstConn, err := registry.Connect(context.Background(), "bob", first)
	req.NoError(err)

	second := &fakeTransport{}
	secondConn, err := registry.Connect(context.Background(), "bob", second)
	req.NoError(err)
	defer secondConn.Close()

	<-firstConn.Done()
	_, closed := first.snapshot()
	req.True(closed)
	req.Equal(StateClosed, firstConn.State())

	// Only the second connection remains registered.
	req.Equal(1, registry.Count())
	current, ok := registry.Lookup("bob")
	req.True(ok)
	req.Equal(secondConn, current)
	req.Equal(StateLive, secondConn.State())
}

// Two probe intervals with no liveness response terminate the connection
// and remove it from the registry.
func Test_Heartbeat_Timeout_Terminates_Connection(t *testing.T) {
	req := require.New(t)
	registry, _, _ := newTestRegistry(t)

	tr := &fakeTransport{}
	conn, err := registry.Connect(context.Background(), "bob", tr)
	req.NoError(err)

	select {
	case <-conn.Done():
	case <-time.After(10 * testHeartbeat):
		t.Fatal("connection survived without liveness responses")
	}

	_, closed := tr.snapshot()
	req.True(closed)
	req.Equal(0, registry.Count())
}

func Test_Heartbeat_Responses_Keep_Connection_Alive(t *testing.T) {
	req := require.New(t)
	registry, _, _ := newTestRegistry(t)

	tr := &fakeTransport{}
	conn, err := registry.Connect(context.Background(), "bob", tr)
	req.NoError(err)
	defer conn.Close()

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(testHeartbeat / 4)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				conn.MarkAlive()
			}
		}
	}()

	select {
	case <-conn.Done():
		t.Fatal("connection died despite liveness responses")
	case <-time.After(5 * testHeartbeat):
	}
	close(stop)
	req.Equal(StateLive, conn.State())
}

// A transport failure closes the connection without acknowledging the item,
// so the next connection receives it again.
func Test_Send_Failure_Keeps_Item_Queued(t *testing.T) {
	req := require.New(t)
	registry, f, _ := newTestRegistry(t)

	broken := &fakeTransport{sendErr: fmt.Errorf("socket gone")}
	conn, err := registry.Connect(context.Background(), "bob", broken)
	req.NoError(err)

	msg := domain.PrivateMessage{From: "alice", To: "bob", Content: "hi", SentAt: time.Now().UTC()}
	req.NoError(f.PublishPrivate(context.Background(), msg))

	<-conn.Done()
	req.Equal(1, f.Depth("bob"))

	// Reconnect with a healthy transport: the item arrives.
	healthy := &fakeTransport{}
	conn2, err := registry.Connect(context.Background(), "bob", healthy)
	req.NoError(err)
	defer conn2.Close()

	waitFor(t, func() bool {
		sent, _ := healthy.snapshot()
		return len(sent) == 1
	}, "item was not redelivered after reconnect")
}

func Test_ShutdownAll_Terminates_Without_Draining(t *testing.T) {
	req := require.New(t)
	registry, _, _ := newTestRegistry(t)

	tr := &fakeTransport{}
	_, err := registry.Connect(context.Background(), "bob", tr)
	req.NoError(err)
	tr2 := &fakeTransport{}
	_, err = registry.Connect(context.Background(), "carol", tr2)
	req.NoError(err)

	registry.ShutdownAll()
	req.Equal(0, registry.Count())
	_, closed := tr.snapshot()
	req.True(closed)
	_, closed = tr2.snapshot()
	req.True(closed)
}
