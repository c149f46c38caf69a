package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Auhnip/chat-app-backend/domain"
)

func Test_GroupCreated_Binds_Owner(t *testing.T) {
	req := require.New(t)
	fx := newDeliveryFixture(t)
	ctx := context.Background()

	sync := NewGroupSyncService(slog.Default(), fx.fabric, fx.members)
	req.NoError(sync.OnGroupCreated(ctx, "alice", 42))

	groups, err := fx.members.GroupsOf("alice")
	req.NoError(err)
	req.Equal([]domain.GroupID{42}, groups)

	msg := domain.GroupMessage{From: "alice", To: 42, Content: "welcome", SentAt: time.Now().UTC()}
	req.NoError(fx.fabric.PublishGroup(ctx, msg))
	req.Equal(1, fx.fabric.Depth("alice"))
}

func Test_MemberLeft_Stops_Future_Fanout(t *testing.T) {
	req := require.New(t)
	fx := newDeliveryFixture(t)
	ctx := context.Background()

	sync := NewGroupSyncService(slog.Default(), fx.fabric, fx.members)
	req.NoError(sync.OnGroupCreated(ctx, "alice", 42))
	req.NoError(sync.OnJoinAccepted(ctx, "bob", 42))
	req.NoError(sync.OnMemberLeft(ctx, "bob", 42))

	groups, err := fx.members.GroupsOf("bob")
	req.NoError(err)
	req.Empty(groups)

	msg := domain.GroupMessage{From: "alice", To: 42, Content: "after departure", SentAt: time.Now().UTC()}
	req.NoError(fx.fabric.PublishGroup(ctx, msg))
	req.Equal(0, fx.fabric.Depth("bob"))
	req.Equal(1, fx.fabric.Depth("alice"))
}

func Test_Rejoin_Restores_Fanout(t *testing.T) {
	req := require.New(t)
	fx := newDeliveryFixture(t)
	ctx := context.Background()

	sync := NewGroupSyncService(slog.Default(), fx.fabric, fx.members)
	req.NoError(sync.OnGroupCreated(ctx, "alice", 42))
	req.NoError(sync.OnJoinAccepted(ctx, "bob", 42))
	req.NoError(sync.OnMemberLeft(ctx, "bob", 42))
	req.NoError(sync.OnJoinAccepted(ctx, "bob", 42))

	msg := domain.GroupMessage{From: "alice", To: 42, Content: "back again", SentAt: time.Now().UTC()}
	req.NoError(fx.fabric.PublishGroup(ctx, msg))
	req.Equal(1, fx.fabric.Depth("bob"))
}
