package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Auhnip/chat-app-backend/domain"
	apperrors "github.com/Auhnip/chat-app-backend/errors"
)

func Test_Mint_And_Verify_Round_Trip(t *testing.T) {
	req := require.New(t)
	verifier := NewTokenVerifier("test-secret")

	token, err := verifier.Mint("alice", time.Minute)
	req.NoError(err)

	userID, err := verifier.Verify(token)
	req.NoError(err)
	req.Equal("alice", string(userID))
}

func Test_Verify_Rejects_Expired_Token(t *testing.T) {
	req := require.New(t)
	verifier := NewTokenVerifier("test-secret")

	token, err := verifier.Mint("alice", -time.Minute)
	req.NoError(err)

	_, err = verifier.Verify(token)
	req.ErrorIs(err, apperrors.ErrInvalidCredential)
}

func Test_Verify_Rejects_Wrong_Secret(t *testing.T) {
	req := require.New(t)

	token, err := NewTokenVerifier("one-secret").Mint("alice", time.Minute)
	req.NoError(err)

	_, err = NewTokenVerifier("another-secret").Verify(token)
	req.ErrorIs(err, apperrors.ErrInvalidCredential)
}

func Test_Verify_Rejects_Garbage(t *testing.T) {
	_, err := NewTokenVerifier("test-secret").Verify("not-a-token")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredential)
}

func Test_Verify_Rejects_Malformed_UserID(t *testing.T) {
	req := require.New(t)
	verifier := NewTokenVerifier("test-secret")

	// Ids with key separators or outside the issued shape never pass, even
	// when the signature is valid.
	for _, userID := range []string{"", "a:b", "x", "spaced name"} {
		token, err := verifier.Mint(domain.UserID(userID), time.Minute)
		req.NoError(err)

		_, err = verifier.Verify(token)
		req.ErrorIs(err, apperrors.ErrInvalidCredential)
	}
}
