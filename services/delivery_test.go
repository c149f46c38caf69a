package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"

	"github.com/Auhnip/chat-app-backend/domain"
	apperrors "github.com/Auhnip/chat-app-backend/errors"
	"github.com/Auhnip/chat-app-backend/fabric"
	"github.com/Auhnip/chat-app-backend/mocks"
	"github.com/Auhnip/chat-app-backend/repositories"

	"go.uber.org/mock/gomock"
)

type deliveryFixture struct {
	service *DeliveryService
	fabric  *fabric.MemoryFabric
	cursors repositories.CursorRepository
	members repositories.MembershipRepository
}

func newDeliveryFixture(t *testing.T) deliveryFixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	log := slog.Default()
	f := fabric.NewMemoryFabric(log)
	t.Cleanup(func() { _ = f.Close() })

	cursors := repositories.NewCursorRepository(db, log)
	members := repositories.NewMembershipRepository(db, log)
	service := NewDeliveryService(log,
		repositories.NewMessageRepository(db, log),
		cursors, members,
		repositories.NewSearchRepository(writer, log, 50),
		f, nil, DefaultLookbacks)
	return deliveryFixture{service: service, fabric: f, cursors: cursors, members: members}
}

func Test_SendPrivate_Persists_And_Enqueues_Both_Parties(t *testing.T) {
	req := require.New(t)
	fx := newDeliveryFixture(t)
	ctx := context.Background()

	req.NoError(fx.fabric.EnsureUserMailbox(ctx, "alice"))
	req.NoError(fx.fabric.EnsureUserMailbox(ctx, "bob"))

	msg := domain.PrivateMessage{From: "alice", To: "bob", Content: "hello", SentAt: time.Now().UTC()}
	req.NoError(fx.service.SendPrivate(ctx, msg))

	// Both the receiver and the sender get a live copy.
	req.Equal(1, fx.fabric.Depth("bob"))
	req.Equal(1, fx.fabric.Depth("alice"))

	got, err := fx.service.FetchHistory("bob", 7)
	req.NoError(err)
	req.Equal([]domain.Message{msg}, got)
}

func Test_SendGroup_Fans_Out_To_Current_Members(t *testing.T) {
	req := require.New(t)
	fx := newDeliveryFixture(t)
	ctx := context.Background()

	sync := NewGroupSyncService(slog.Default(), fx.fabric, fx.members)
	req.NoError(sync.OnGroupCreated(ctx, "alice", 42))
	req.NoError(sync.OnJoinAccepted(ctx, "bob", 42))

	msg := domain.GroupMessage{From: "alice", To: 42, Content: "standup at ten", SentAt: time.Now().UTC()}
	req.NoError(fx.service.SendGroup(ctx, msg))

	req.Equal(1, fx.fabric.Depth("alice"))
	req.Equal(1, fx.fabric.Depth("bob"))
	req.Equal(0, fx.fabric.Depth("carol"))
}

func Test_FetchHistory_Rejects_Unlisted_Lookback(t *testing.T) {
	req := require.New(t)
	fx := newDeliveryFixture(t)

	for _, days := range []int{0, 1, 6, 15, 31, -7} {
		_, err := fx.service.FetchHistory("alice", days)
		req.ErrorIs(err, apperrors.ErrInvalidLookback)
	}
	for _, days := range DefaultLookbacks {
		_, err := fx.service.FetchHistory("alice", days)
		req.NoError(err)
	}
}

func Test_FetchHistory_Advances_Cursor(t *testing.T) {
	req := require.New(t)
	fx := newDeliveryFixture(t)
	ctx := context.Background()

	msg := domain.PrivateMessage{From: "alice", To: "bob", Content: "first", SentAt: time.Now().UTC()}
	req.NoError(fx.service.SendPrivate(ctx, msg))

	got, err := fx.service.FetchHistory("bob", 7)
	req.NoError(err)
	req.Len(got, 1)

	// Fetched counts as read: the same message is not returned twice.
	got, err = fx.service.FetchHistory("bob", 30)
	req.NoError(err)
	req.Empty(got)

	lastRead, err := fx.cursors.Get("bob")
	req.NoError(err)
	req.False(msg.SentAt.After(lastRead))
}

func Test_FetchHistory_Empty_Result_Still_Advances_Cursor(t *testing.T) {
	req := require.New(t)
	fx := newDeliveryFixture(t)

	before := time.Now().UTC()
	got, err := fx.service.FetchHistory("bob", 14)
	req.NoError(err)
	req.Empty(got)

	lastRead, err := fx.cursors.Get("bob")
	req.NoError(err)
	req.False(lastRead.Before(before))
}

func Test_FetchHistory_Future_Timestamp_Does_Not_Stall_Cursor(t *testing.T) {
	req := require.New(t)
	fx := newDeliveryFixture(t)
	ctx := context.Background()

	ahead := domain.PrivateMessage{From: "alice", To: "bob", Content: "from tomorrow",
		SentAt: time.Now().UTC().Add(24 * time.Hour)}
	req.NoError(fx.service.SendPrivate(ctx, ahead))

	got, err := fx.service.FetchHistory("bob", 7)
	req.NoError(err)
	req.Len(got, 1)

	// The cursor was capped at fetch time, so a later normal message is
	// still surfaced.
	lastRead, err := fx.cursors.Get("bob")
	req.NoError(err)
	req.False(lastRead.After(time.Now().UTC()))

	later := domain.PrivateMessage{From: "alice", To: "bob", Content: "back to the present",
		SentAt: time.Now().UTC()}
	req.NoError(fx.service.SendPrivate(ctx, later))

	got, err = fx.service.FetchHistory("bob", 7)
	req.NoError(err)
	req.Contains(got, domain.Message(later))
}

func Test_SendPrivate_Reports_Publish_Failure_Without_Rollback(t *testing.T) {
	req := require.New(t)
	fx := newDeliveryFixture(t)
	ctx := context.Background()

	// A publish against a closed fabric fails after the persist succeeded.
	req.NoError(fx.fabric.Close())

	msg := domain.PrivateMessage{From: "alice", To: "bob", Content: "kept", SentAt: time.Now().UTC()}
	err := fx.service.SendPrivate(ctx, msg)
	req.ErrorIs(err, apperrors.ErrFabricClosed)

	got, err := fx.service.FetchHistory("bob", 7)
	req.NoError(err)
	req.Equal([]domain.Message{msg}, got)
}

func Test_SendPrivate_Persist_Failure_Prevents_Publish(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := slog.Default()

	store := mocks.NewMockIMessageRepository(ctrl)
	f := mocks.NewMockFabric(ctrl)
	service := NewDeliveryService(log, store, nil, nil, nil, f, nil, DefaultLookbacks)

	msg := domain.PrivateMessage{From: "alice", To: "bob", Content: "lost", SentAt: time.Now().UTC()}
	store.EXPECT().Append(msg).Return(badger.ErrDBClosed)
	// No PublishPrivate expectation: publishing after a failed persist
	// would fail the mock controller.

	err := service.SendPrivate(context.Background(), msg)
	req.ErrorIs(err, badger.ErrDBClosed)
}

func Test_InitUser_Seeds_Cursor_And_Mailbox(t *testing.T) {
	req := require.New(t)
	fx := newDeliveryFixture(t)
	ctx := context.Background()

	before := time.Now().UTC()
	req.NoError(fx.service.InitUser(ctx, "fresh"))

	lastRead, err := fx.cursors.Get("fresh")
	req.NoError(err)
	req.False(lastRead.Before(before))

	// The mailbox exists and accumulates while the user stays offline.
	msg := domain.PrivateMessage{From: "alice", To: "fresh", Content: "welcome", SentAt: time.Now().UTC()}
	req.NoError(fx.service.SendPrivate(ctx, msg))
	req.Equal(1, fx.fabric.Depth("fresh"))
}

func Test_SearchHistory_Scopes_To_Memberships(t *testing.T) {
	req := require.New(t)
	fx := newDeliveryFixture(t)
	ctx := context.Background()

	sync := NewGroupSyncService(slog.Default(), fx.fabric, fx.members)
	req.NoError(sync.OnGroupCreated(ctx, "alice", 7))
	req.NoError(sync.OnJoinAccepted(ctx, "bob", 7))

	grouped := domain.GroupMessage{From: "alice", To: 7, Content: "release notes drafted", SentAt: time.Now().UTC()}
	req.NoError(fx.service.SendGroup(ctx, grouped))

	hits, err := fx.service.SearchHistory(ctx, "bob", "release")
	req.NoError(err)
	req.Equal([]domain.Message{grouped}, hits)

	hits, err = fx.service.SearchHistory(ctx, "carol", "release")
	req.NoError(err)
	req.Empty(hits)
}
