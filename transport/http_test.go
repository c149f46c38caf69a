package transport

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Auhnip/chat-app-backend/auth"
	"github.com/Auhnip/chat-app-backend/domain"
	apperrors "github.com/Auhnip/chat-app-backend/errors"
	"github.com/Auhnip/chat-app-backend/mocks"
)

const testSecret = "test-secret"

func newTestAPI(t *testing.T) (*API, *mocks.MockIDeliveryService, string) {
	t.Helper()
	ctrl := gomock.NewController(t)
	delivery := mocks.NewMockIDeliveryService(ctrl)

	verifier := auth.NewTokenVerifier(testSecret)
	token, err := verifier.Mint("alice", time.Minute)
	require.NoError(t, err)

	return NewAPI(slog.Default(), verifier, delivery), delivery, token
}

func doJSON(t *testing.T, handler http.HandlerFunc, token string, body any) response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler(w, r)

	var resp response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func Test_Send_Private_Uses_Token_Identity(t *testing.T) {
	req := require.New(t)
	api, delivery, token := newTestAPI(t)
	at := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	delivery.EXPECT().
		SendPrivate(gomock.Any(), domain.PrivateMessage{From: "alice", To: "bob", Content: "hi", SentAt: at}).
		Return(nil)

	resp := doJSON(t, api.withUser(api.handleSend), token, map[string]any{
		"type": "private", "to": "bob", "content": "hi", "sentAt": at,
	})
	req.Equal(codeSuccess, resp.Code)
}

func Test_Send_Group(t *testing.T) {
	req := require.New(t)
	api, delivery, token := newTestAPI(t)
	at := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	delivery.EXPECT().
		SendGroup(gomock.Any(), domain.GroupMessage{From: "alice", To: 42, Content: "hi all", SentAt: at}).
		Return(nil)

	resp := doJSON(t, api.withUser(api.handleSend), token, map[string]any{
		"type": "group", "groupId": 42, "content": "hi all", "sentAt": at,
	})
	req.Equal(codeSuccess, resp.Code)
}

func Test_Send_Rejects_Missing_Token(t *testing.T) {
	req := require.New(t)
	api, _, _ := newTestAPI(t)

	resp := doJSON(t, api.withUser(api.handleSend), "", map[string]any{
		"type": "private", "to": "bob", "content": "hi", "sentAt": time.Now(),
	})
	req.Equal(codeUnauthorized, resp.Code)
}

func Test_Send_Rejects_Invalid_Body(t *testing.T) {
	req := require.New(t)
	api, _, token := newTestAPI(t)

	// Unknown type never reaches the delivery service.
	resp := doJSON(t, api.withUser(api.handleSend), token, map[string]any{
		"type": "broadcast", "content": "hi", "sentAt": time.Now(),
	})
	req.Equal(codeMalformed, resp.Code)
}

func Test_Send_Rejects_Malformed_Recipient(t *testing.T) {
	req := require.New(t)
	api, _, token := newTestAPI(t)

	// A recipient id carrying a key separator never reaches the delivery
	// service; it would alias another user's store prefix.
	for _, to := range []string{"a:b", "x", "spaced name", "pm:alice"} {
		resp := doJSON(t, api.withUser(api.handleSend), token, map[string]any{
			"type": "private", "to": to, "content": "hi", "sentAt": time.Now(),
		})
		req.Equal(codeMalformed, resp.Code)
	}
}

func Test_History_Returns_Wire_Envelopes(t *testing.T) {
	req := require.New(t)
	api, delivery, token := newTestAPI(t)
	at := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	delivery.EXPECT().
		FetchHistory(domain.UserID("alice"), 7).
		Return([]domain.Message{
			domain.PrivateMessage{From: "bob", To: "alice", Content: "hello", SentAt: at},
		}, nil)

	resp := doJSON(t, api.withUser(api.handleHistory), token, map[string]any{"sinceDays": 7})
	req.Equal(codeSuccess, resp.Code)

	data, err := json.Marshal(resp.Data)
	req.NoError(err)
	var payload struct {
		UserID   string            `json:"userId"`
		Messages []json.RawMessage `json:"messages"`
	}
	req.NoError(json.Unmarshal(data, &payload))
	req.Equal("alice", payload.UserID)
	req.Len(payload.Messages, 1)

	decoded, err := domain.DecodeMessage(payload.Messages[0])
	req.NoError(err)
	req.Equal(domain.PrivateMessage{From: "bob", To: "alice", Content: "hello", SentAt: at}, decoded)
}

func Test_History_Maps_Invalid_Lookback(t *testing.T) {
	req := require.New(t)
	api, delivery, token := newTestAPI(t)

	delivery.EXPECT().
		FetchHistory(domain.UserID("alice"), 9).
		Return(nil, apperrors.ErrInvalidLookback)

	resp := doJSON(t, api.withUser(api.handleHistory), token, map[string]any{"sinceDays": 9})
	req.Equal(codeMalformed, resp.Code)
}

func Test_Search(t *testing.T) {
	req := require.New(t)
	api, delivery, token := newTestAPI(t)

	delivery.EXPECT().
		SearchHistory(gomock.Any(), domain.UserID("alice"), "report").
		Return(nil, nil)

	resp := doJSON(t, api.withUser(api.handleSearch), token, map[string]any{"query": "report"})
	req.Equal(codeSuccess, resp.Code)
}
