package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Auhnip/chat-app-backend/auth"
	"github.com/Auhnip/chat-app-backend/domain"
	apperrors "github.com/Auhnip/chat-app-backend/errors"
	"github.com/Auhnip/chat-app-backend/services"
)

// Business status codes carried inside the JSON envelope. The HTTP status
// stays 200 for business failures; only transport level problems use HTTP
// error codes.
const (
	codeSuccess      = 1000
	codeFailed       = 2000
	codeMalformed    = 2002
	codeUnauthorized = 2003
)

type response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type sendRequest struct {
	Type    string    `json:"type" validate:"required,oneof=private group"`
	To      string    `json:"to" validate:"required_if=Type private"`
	GroupID int64     `json:"groupId" validate:"required_if=Type group"`
	Content string    `json:"content" validate:"required,max=4096"`
	SentAt  time.Time `json:"sentAt" validate:"required"`
}

type historyRequest struct {
	SinceDays int `json:"sinceDays" validate:"required"`
}

type searchRequest struct {
	Query string `json:"query" validate:"required,min=1,max=256"`
}

// API serves the JSON message endpoints. Every route requires a bearer
// connect token; the authenticated user is always the message sender, the
// history owner or the search scope, never a field of the request body.
type API struct {
	log      *slog.Logger
	verifier auth.TokenVerifier
	delivery services.IDeliveryService
	validate *validator.Validate
}

func NewAPI(log *slog.Logger, verifier auth.TokenVerifier, delivery services.IDeliveryService) *API {
	return &API{
		log:      log,
		verifier: verifier,
		delivery: delivery,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes mounts the message endpoints and the websocket endpoint onto a
// fresh mux.
func (a *API) Routes(ws *WSHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", ws)
	mux.HandleFunc("POST /message/send", a.withUser(a.handleSend))
	mux.HandleFunc("POST /message/history", a.withUser(a.handleHistory))
	mux.HandleFunc("POST /message/search", a.withUser(a.handleSearch))
	return mux
}

func (a *API) handleSend(w http.ResponseWriter, r *http.Request, userID domain.UserID) {
	var req sendRequest
	if !a.decode(w, r, &req) {
		return
	}

	var err error
	switch req.Type {
	case "group":
		err = a.delivery.SendGroup(r.Context(), domain.GroupMessage{
			From:    userID,
			To:      domain.GroupID(req.GroupID),
			Content: req.Content,
			SentAt:  req.SentAt.UTC(),
		})
	default:
		to := domain.UserID(req.To)
		if !to.Valid() {
			a.reply(w, response{Code: codeMalformed, Message: "malformed request"})
			return
		}
		err = a.delivery.SendPrivate(r.Context(), domain.PrivateMessage{
			From:    userID,
			To:      to,
			Content: req.Content,
			SentAt:  req.SentAt.UTC(),
		})
	}
	if err != nil {
		a.log.Error("send failed", "user_id", userID, "error", err)
		a.reply(w, response{Code: codeFailed, Message: "failed"})
		return
	}
	a.reply(w, response{Code: codeSuccess, Message: "success"})
}

func (a *API) handleHistory(w http.ResponseWriter, r *http.Request, userID domain.UserID) {
	var req historyRequest
	if !a.decode(w, r, &req) {
		return
	}

	messages, err := a.delivery.FetchHistory(userID, req.SinceDays)
	if errors.Is(err, apperrors.ErrInvalidLookback) {
		a.reply(w, response{Code: codeMalformed, Message: "malformed request"})
		return
	}
	if err != nil {
		a.log.Error("history fetch failed", "user_id", userID, "error", err)
		a.reply(w, response{Code: codeFailed, Message: "failed"})
		return
	}
	a.reply(w, response{Code: codeSuccess, Message: "success", Data: map[string]any{
		"userId":   userID,
		"messages": encodeAll(messages),
	}})
}

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request, userID domain.UserID) {
	var req searchRequest
	if !a.decode(w, r, &req) {
		return
	}

	messages, err := a.delivery.SearchHistory(r.Context(), userID, req.Query)
	if err != nil {
		a.log.Error("history search failed", "user_id", userID, "error", err)
		a.reply(w, response{Code: codeFailed, Message: "failed"})
		return
	}
	a.reply(w, response{Code: codeSuccess, Message: "success", Data: map[string]any{
		"userId":   userID,
		"messages": encodeAll(messages),
	}})
}

// withUser extracts and verifies the bearer token, then passes the
// authenticated user to the handler.
func (a *API) withUser(next func(http.ResponseWriter, *http.Request, domain.UserID)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			a.reply(w, response{Code: codeUnauthorized, Message: "unauthorized"})
			return
		}
		userID, err := a.verifier.Verify(token)
		if err != nil {
			a.reply(w, response{Code: codeUnauthorized, Message: "unauthorized"})
			return
		}
		next(w, r, userID)
	}
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		a.reply(w, response{Code: codeMalformed, Message: "malformed request"})
		return false
	}
	if err := a.validate.Struct(req); err != nil {
		a.reply(w, response{Code: codeMalformed, Message: "malformed request"})
		return false
	}
	return true
}

func (a *API) reply(w http.ResponseWriter, resp response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		a.log.Error("response encoding failed", "error", err)
	}
}

// encodeAll renders messages in the wire envelope format so HTTP history
// and websocket pushes agree byte for byte on the message shape.
func encodeAll(messages []domain.Message) []json.RawMessage {
	encoded := make([]json.RawMessage, 0, len(messages))
	for _, msg := range messages {
		body, err := domain.EncodeMessage(msg)
		if err != nil {
			continue
		}
		encoded = append(encoded, body)
	}
	return encoded
}
