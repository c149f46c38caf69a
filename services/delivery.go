//go:generate go run go.uber.org/mock/mockgen -source=delivery.go -destination=../mocks/mock_delivery_service.go -package=mocks
// Package services hosts the delivery coordinator: the persist-then-publish
// send path, the merge-store-and-cursor history path, and the hooks the
// external account and group collaborators call to keep fabric state in
// sync.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/Auhnip/chat-app-backend/domain"
	apperrors "github.com/Auhnip/chat-app-backend/errors"
	"github.com/Auhnip/chat-app-backend/fabric"
	"github.com/Auhnip/chat-app-backend/moderation"
	"github.com/Auhnip/chat-app-backend/repositories"
)

type IDeliveryService interface {
	SendPrivate(ctx context.Context, msg domain.PrivateMessage) error
	SendGroup(ctx context.Context, msg domain.GroupMessage) error
	FetchHistory(userID domain.UserID, sinceDays int) ([]domain.Message, error)
	SearchHistory(ctx context.Context, userID domain.UserID, query string) ([]domain.Message, error)
	InitUser(ctx context.Context, userID domain.UserID) error
}

// DeliveryService coordinates the message store and the broker fabric.
//
// Sends persist before they publish: a reader fetching history sees the
// message even if the live push fails, and a failed persist never produces
// a ghost live-only message. A publish failure after a successful persist
// is reported to the caller without rolling the record back; the offline
// recipient still finds it in history.
type DeliveryService struct {
	log       *slog.Logger
	store     repositories.IMessageRepository
	cursors   repositories.ICursorRepository
	members   repositories.IMembershipRepository
	search    repositories.ISearchRepository
	fabric    fabric.Fabric
	moderator *moderation.Moderator
	lookbacks []int
}

// DefaultLookbacks is the allow-listed set of history windows, in days.
var DefaultLookbacks = []int{7, 14, 30}

func NewDeliveryService(log *slog.Logger, store repositories.IMessageRepository,
	cursors repositories.ICursorRepository, members repositories.IMembershipRepository,
	search repositories.ISearchRepository, f fabric.Fabric,
	moderator *moderation.Moderator, lookbacks []int) *DeliveryService {
	return &DeliveryService{
		log:       log,
		store:     store,
		cursors:   cursors,
		members:   members,
		search:    search,
		fabric:    f,
		moderator: moderator,
		lookbacks: lookbacks,
	}
}

func (s *DeliveryService) SendPrivate(ctx context.Context, msg domain.PrivateMessage) error {
	msg.Content = s.censor(msg.Content)
	s.log.Info("sending private message",
		"from", msg.From, "to", msg.To, "sent_at", msg.SentAt)

	if err := s.store.Append(msg); err != nil {
		return fmt.Errorf("persist private message: %w", err)
	}
	s.index(msg)

	if err := s.fabric.PublishPrivate(ctx, msg); err != nil {
		return fmt.Errorf("publish private message: %w", err)
	}
	return nil
}

func (s *DeliveryService) SendGroup(ctx context.Context, msg domain.GroupMessage) error {
	msg.Content = s.censor(msg.Content)
	s.log.Info("sending group message",
		"from", msg.From, "group", msg.To, "sent_at", msg.SentAt)

	if err := s.store.Append(msg); err != nil {
		return fmt.Errorf("persist group message: %w", err)
	}
	s.index(msg)

	if err := s.fabric.PublishGroup(ctx, msg); err != nil {
		return fmt.Errorf("publish group message: %w", err)
	}
	return nil
}

// FetchHistory returns everything the user sent or received since the
// lookback cutoff that the read cursor has not already surfaced, ascending
// by sentAt, then advances the cursor past the returned set. Fetched counts
// as read: a second call with no new messages in between returns nothing.
func (s *DeliveryService) FetchHistory(userID domain.UserID, sinceDays int) ([]domain.Message, error) {
	if !lo.Contains(s.lookbacks, sinceDays) {
		return nil, apperrors.ErrInvalidLookback
	}

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -sinceDays)

	lastRead, err := s.cursors.Get(userID)
	if err != nil {
		return nil, err
	}
	if lastRead.After(since) {
		since = lastRead
	}

	messages, err := s.store.QueryAfter(userID, since)
	if err != nil {
		return nil, fmt.Errorf("query history for %s: %w", userID, err)
	}

	watermark := now
	if len(messages) > 0 {
		watermark = messages[len(messages)-1].Timestamp()
		// Timestamps are client-supplied. The cursor never runs ahead of
		// the wall clock, or one future-dated message would suppress all
		// delivery until that date.
		if watermark.After(now) {
			watermark = now
		}
	}
	if err := s.cursors.Set(userID, watermark); err != nil {
		return nil, fmt.Errorf("advance cursor for %s: %w", userID, err)
	}
	return messages, nil
}

// SearchHistory runs a full-text query over the user's private messages
// and the groups the user is currently a member of. It never touches the
// read cursor.
func (s *DeliveryService) SearchHistory(ctx context.Context, userID domain.UserID, query string) ([]domain.Message, error) {
	groups, err := s.members.GroupsOf(userID)
	if err != nil {
		return nil, err
	}
	return s.search.Search(ctx, userID, groups, query)
}

// InitUser provisions delivery-side state for a freshly registered user: a
// durable mailbox and a read cursor seeded at "now". The account
// collaborator calls this once at registration time.
func (s *DeliveryService) InitUser(ctx context.Context, userID domain.UserID) error {
	if err := s.fabric.EnsureUserMailbox(ctx, userID); err != nil {
		return err
	}
	return s.cursors.InitNow(userID)
}

func (s *DeliveryService) censor(content string) string {
	if s.moderator == nil {
		return content
	}
	return s.moderator.Censor(content)
}

// index updates the search index. The index is a secondary projection of
// the store: a failure here must not fail the send.
func (s *DeliveryService) index(msg domain.Message) {
	if s.search == nil {
		return
	}
	if err := s.search.Index(msg); err != nil {
		s.log.Warn("search indexing failed", "error", err)
	}
}
