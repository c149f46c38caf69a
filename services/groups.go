//go:generate go run go.uber.org/mock/mockgen -source=groups.go -destination=../mocks/mock_group_sync_service.go -package=mocks
package services

import (
	"context"
	"log/slog"

	"github.com/Auhnip/chat-app-backend/domain"
	"github.com/Auhnip/chat-app-backend/fabric"
	"github.com/Auhnip/chat-app-backend/repositories"
)

type IGroupSyncService interface {
	OnGroupCreated(ctx context.Context, owner domain.UserID, groupID domain.GroupID) error
	OnJoinAccepted(ctx context.Context, userID domain.UserID, groupID domain.GroupID) error
	OnMemberLeft(ctx context.Context, userID domain.UserID, groupID domain.GroupID) error
}

// GroupSyncService mirrors group membership changes onto the broker
// fabric. Bindings change the moment membership does: messages published
// to a group topic fan out to exactly the mailboxes bound at publish time,
// so the hooks run synchronously inside the membership transition.
type GroupSyncService struct {
	log     *slog.Logger
	fabric  fabric.Fabric
	members repositories.IMembershipRepository
}

func NewGroupSyncService(log *slog.Logger, f fabric.Fabric, members repositories.IMembershipRepository) *GroupSyncService {
	return &GroupSyncService{log: log, fabric: f, members: members}
}

// OnGroupCreated declares the group topic and enrolls the owner as its
// first member.
func (s *GroupSyncService) OnGroupCreated(ctx context.Context, owner domain.UserID, groupID domain.GroupID) error {
	s.log.Info("group created", "group", groupID, "owner", owner)
	if err := s.fabric.EnsureGroupTopic(ctx, groupID); err != nil {
		return err
	}
	return s.OnJoinAccepted(ctx, owner, groupID)
}

func (s *GroupSyncService) OnJoinAccepted(ctx context.Context, userID domain.UserID, groupID domain.GroupID) error {
	s.log.Info("member joined group", "group", groupID, "user", userID)
	if err := s.fabric.EnsureUserMailbox(ctx, userID); err != nil {
		return err
	}
	if err := s.fabric.Bind(ctx, userID, groupID); err != nil {
		return err
	}
	return s.members.Join(userID, groupID)
}

func (s *GroupSyncService) OnMemberLeft(ctx context.Context, userID domain.UserID, groupID domain.GroupID) error {
	s.log.Info("member left group", "group", groupID, "user", userID)
	if err := s.fabric.Unbind(ctx, userID, groupID); err != nil {
		return err
	}
	return s.members.Leave(userID, groupID)
}
