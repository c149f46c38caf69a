package fabric

import (
	"fmt"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Auhnip/chat-app-backend/errors"
)

// Both fabrics must report mailbox contention the same way, so the
// connection retry loop works identically against a broker and in-process.
func Test_Broker_Consume_Refusal_Maps_To_MailboxBusy(t *testing.T) {
	req := require.New(t)

	for _, code := range []int{amqp.AccessRefused, amqp.ResourceLocked} {
		err := consumeError("alice", &amqp.Error{Code: code, Reason: "exclusive consume"})
		req.ErrorIs(err, apperrors.ErrMailboxBusy)
	}
}

func Test_Broker_Consume_Other_Errors_Pass_Through(t *testing.T) {
	req := require.New(t)

	cause := &amqp.Error{Code: amqp.NotFound, Reason: "no queue"}
	err := consumeError("alice", cause)
	req.NotErrorIs(err, apperrors.ErrMailboxBusy)
	req.ErrorIs(err, cause)

	plain := fmt.Errorf("channel gone")
	req.NotErrorIs(consumeError("alice", plain), apperrors.ErrMailboxBusy)
}
