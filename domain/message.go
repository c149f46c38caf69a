// Package domain contains the core concepts of the chat delivery system.
// This file defines the message variants and their identity rules.
// Messages are immutable once created; identity on the delivery path is
// (sender, recipient, sentAt).
package domain

import (
	"regexp"
	"time"
)

// UserID identifies a registered user. It is also the name of that user's
// durable mailbox in the broker fabric.
type UserID string

// userIDPattern matches the identifiers the account service issues.
// Separator characters, ":" above all, are excluded: the id is embedded
// verbatim in store key prefixes and mailbox names, and a ":" inside an id
// would make its records match another user's prefix scan.
var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{2,25}$`)

// Valid reports whether the id is safe to embed in store keys and mailbox
// names.
func (u UserID) Valid() bool { return userIDPattern.MatchString(string(u)) }

// GroupID identifies a chat group.
type GroupID int64

// Message is the sealed union of everything that can travel through the
// delivery path. Consumers must switch exhaustively on the two variants.
type Message interface {
	Sender() UserID
	Timestamp() time.Time
	sealed()
}

// PrivateMessage is a direct message between two users.
type PrivateMessage struct {
	From    UserID
	To      UserID
	Content string
	SentAt  time.Time
}

func (m PrivateMessage) Sender() UserID       { return m.From }
func (m PrivateMessage) Timestamp() time.Time { return m.SentAt }
func (m PrivateMessage) sealed()              {}

// GroupMessage is a message addressed to every member of a group.
type GroupMessage struct {
	From    UserID
	To      GroupID
	Content string
	SentAt  time.Time
}

func (m GroupMessage) Sender() UserID       { return m.From }
func (m GroupMessage) Timestamp() time.Time { return m.SentAt }
func (m GroupMessage) sealed()              {}
