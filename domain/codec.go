package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire kinds. These only exist at the serialization boundary; inside the
// process a Message is always handled through its concrete type.
const (
	kindPrivate = "private"
	kindGroup   = "group"
)

// envelope is the transport representation shared by the broker fabric and
// the client socket. sentAt crosses the wire as an RFC3339Nano string and is
// parsed back into a temporal value on receipt.
type envelope struct {
	Type    string          `json:"type"`
	From    string          `json:"from"`
	To      json.RawMessage `json:"to"`
	Content string          `json:"content"`
	SentAt  string          `json:"sentAt"`
}

// EncodeMessage serializes a message into its wire envelope.
func EncodeMessage(msg Message) ([]byte, error) {
	var env envelope
	switch m := msg.(type) {
	case PrivateMessage:
		to, _ := json.Marshal(string(m.To))
		env = envelope{
			Type:    kindPrivate,
			From:    string(m.From),
			To:      to,
			Content: m.Content,
			SentAt:  m.SentAt.UTC().Format(time.RFC3339Nano),
		}
	case GroupMessage:
		to, _ := json.Marshal(int64(m.To))
		env = envelope{
			Type:    kindGroup,
			From:    string(m.From),
			To:      to,
			Content: m.Content,
			SentAt:  m.SentAt.UTC().Format(time.RFC3339Nano),
		}
	default:
		return nil, fmt.Errorf("encode: unknown message variant %T", msg)
	}
	return json.Marshal(env)
}

// DecodeMessage parses a wire envelope back into its concrete variant.
func DecodeMessage(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode message envelope: %w", err)
	}

	sentAt, err := time.Parse(time.RFC3339Nano, env.SentAt)
	if err != nil {
		return nil, fmt.Errorf("decode sentAt %q: %w", env.SentAt, err)
	}

	switch env.Type {
	case kindPrivate:
		var to string
		if err := json.Unmarshal(env.To, &to); err != nil {
			return nil, fmt.Errorf("decode private recipient: %w", err)
		}
		return PrivateMessage{
			From:    UserID(env.From),
			To:      UserID(to),
			Content: env.Content,
			SentAt:  sentAt,
		}, nil
	case kindGroup:
		var to int64
		if err := json.Unmarshal(env.To, &to); err != nil {
			return nil, fmt.Errorf("decode group recipient: %w", err)
		}
		return GroupMessage{
			From:    UserID(env.From),
			To:      GroupID(to),
			Content: env.Content,
			SentAt:  sentAt,
		}, nil
	default:
		return nil, fmt.Errorf("decode: unknown message type %q", env.Type)
	}
}
