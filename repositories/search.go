//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_search_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"

	"github.com/Auhnip/chat-app-backend/domain"
	"github.com/Auhnip/chat-app-backend/fabric"
)

type ISearchRepository interface {
	Index(msg domain.Message) error
	Search(ctx context.Context, userID domain.UserID, groups []domain.GroupID, query string) ([]domain.Message, error)
}

// SearchRepository maintains a full-text index over persisted message
// content. Each record is indexed under the mailbox-style owners that may
// search it: both participants of a private message, the topic of a group
// message. The original envelope is stored alongside so hits come back as
// complete messages.
type SearchRepository struct {
	writer *bluge.Writer
	log    *slog.Logger
	limit  int
}

func NewSearchRepository(writer *bluge.Writer, log *slog.Logger, limit int) SearchRepository {
	return SearchRepository{writer: writer, log: log, limit: limit}
}

func (r SearchRepository) Index(msg domain.Message) error {
	body, err := domain.EncodeMessage(msg)
	if err != nil {
		return err
	}

	var owners []string
	var content string
	switch m := msg.(type) {
	case domain.PrivateMessage:
		owners = []string{string(m.From), string(m.To)}
		content = m.Content
	case domain.GroupMessage:
		owners = []string{fabric.TopicName(m.To)}
		content = m.Content
	default:
		return fmt.Errorf("index: unknown message variant %T", msg)
	}

	doc := bluge.NewDocument(uuid.NewString())
	doc.AddField(bluge.NewStoredOnlyField("record", body))
	doc.AddField(bluge.NewTextField("content", content))
	for _, owner := range owners {
		doc.AddField(bluge.NewKeywordField("owner", owner))
	}

	if err := r.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index message: %w", err)
	}
	return nil
}

// Search returns messages matching query among everything the user may see:
// records owned by the user plus records of the given groups.
func (r SearchRepository) Search(ctx context.Context, userID domain.UserID,
	groups []domain.GroupID, query string) ([]domain.Message, error) {
	reader, err := r.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("open index reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	owners := bluge.NewBooleanQuery().SetMinShould(1)
	owners.AddShould(bluge.NewTermQuery(string(userID)).SetField("owner"))
	for _, groupID := range groups {
		owners.AddShould(bluge.NewTermQuery(fabric.TopicName(groupID)).SetField("owner"))
	}

	full := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query).SetField("content")).
		AddMust(owners)

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(r.limit, full))
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	var hits []domain.Message
	match, err := iterator.Next()
	for err == nil && match != nil {
		var record []byte
		if err := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "record" {
				record = append([]byte(nil), value...)
			}
			return true
		}); err != nil {
			return nil, err
		}
		if record != nil {
			msg, err := domain.DecodeMessage(record)
			if err != nil {
				return nil, err
			}
			hits = append(hits, msg)
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return hits, nil
}
