//go:generate go run go.uber.org/mock/mockgen -source=membership.go -destination=../mocks/mock_membership_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/Auhnip/chat-app-backend/domain"
	"github.com/Auhnip/chat-app-backend/fabric"
)

type IMembershipRepository interface {
	Join(userID domain.UserID, groupID domain.GroupID) error
	Leave(userID domain.UserID, groupID domain.GroupID) error
	GroupsOf(userID domain.UserID) ([]domain.GroupID, error)
}

// MembershipRepository mirrors the external group-management collaborator's
// membership relation. The group sync hooks write it at the exact moments a
// join is accepted or a member leaves, keeping it consistent with the
// fabric-side bindings.
type MembershipRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMembershipRepository(db *badger.DB, log *slog.Logger) MembershipRepository {
	return MembershipRepository{db: db, log: log}
}

func membershipKey(userID domain.UserID, groupID domain.GroupID) []byte {
	return []byte(fmt.Sprintf("member:%s:%s", userID, fabric.TopicName(groupID)))
}

func (r MembershipRepository) Join(userID domain.UserID, groupID domain.GroupID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(membershipKey(userID, groupID), nil)
	})
}

func (r MembershipRepository) Leave(userID domain.UserID, groupID domain.GroupID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(membershipKey(userID, groupID))
	})
}

func (r MembershipRepository) GroupsOf(userID domain.UserID) ([]domain.GroupID, error) {
	var groups []domain.GroupID
	err := r.db.View(func(txn *badger.Txn) error {
		found, err := groupsOf(txn, userID)
		groups = found
		return err
	})
	return groups, err
}

// groupsOf is shared with the message repository, which resolves the
// membership filter inside the same read transaction as its scans.
func groupsOf(txn *badger.Txn, userID domain.UserID) ([]domain.GroupID, error) {
	prefixStr := fmt.Sprintf("member:%s:", userID)
	prefix := []byte(prefixStr)

	options := badger.DefaultIteratorOptions
	options.Prefix = prefix
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	var groups []domain.GroupID
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		suffix := strings.TrimPrefix(string(it.Item().Key()), prefixStr)
		groupID, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed membership key %s: %w", it.Item().Key(), err)
		}
		groups = append(groups, domain.GroupID(groupID))
	}
	return groups, nil
}
