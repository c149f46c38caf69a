// Package transport exposes the delivery subsystem over HTTP: a websocket
// endpoint for the live push channel and JSON endpoints for send, history
// and search.
package transport

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Auhnip/chat-app-backend/auth"
	"github.com/Auhnip/chat-app-backend/domain"
	"github.com/Auhnip/chat-app-backend/runtime"
)

const (
	writeTimeout     = 10 * time.Second
	maxFrameSize     = 64 << 10
	closeGracePeriod = time.Second
)

// WSHandler upgrades authenticated clients and hands the socket to the
// connection registry. The credential rides in the "token" query parameter
// and is checked before the upgrade: a bad token gets a plain 401 with no
// websocket handshake at all.
type WSHandler struct {
	log      *slog.Logger
	verifier auth.TokenVerifier
	registry *runtime.Registry
	upgrader websocket.Upgrader
}

func NewWSHandler(log *slog.Logger, verifier auth.TokenVerifier, registry *runtime.Registry) *WSHandler {
	return &WSHandler{
		log:      log,
		verifier: verifier,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := h.verifier.Verify(r.URL.Query().Get("token"))
	if err != nil {
		h.log.Warn("websocket credential rejected", "remote", r.RemoteAddr)
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.log.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}
	socket.SetReadLimit(maxFrameSize)

	conn, err := h.registry.Connect(r.Context(), userID, newWSTransport(socket))
	if err != nil {
		h.log.Error("connection registration failed", "user_id", userID, "error", err)
		return
	}

	socket.SetPongHandler(func(string) error {
		conn.MarkAlive()
		return nil
	})

	// The read loop keeps the handler goroutine alive for the lifetime of
	// the socket. Clients never push application frames over the socket;
	// reads exist to surface pongs and disconnects.
	for {
		if _, _, err := socket.ReadMessage(); err != nil {
			conn.Close()
			return
		}
	}
}

// wsTransport adapts a gorilla connection to the registry's Transport.
// gorilla allows one concurrent writer only, and Send, Ping and Close race
// between the consumer, the heartbeat and the read loop.
type wsTransport struct {
	mu     sync.Mutex
	socket *websocket.Conn
}

func newWSTransport(socket *websocket.Conn) *wsTransport {
	return &wsTransport{socket: socket}
}

func (t *wsTransport) Send(msg domain.Message) error {
	body, err := domain.EncodeMessage(msg)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.socket.SetWriteDeadline(time.Now().Add(writeTimeout))
	return t.socket.WriteMessage(websocket.TextMessage, body)
}

func (t *wsTransport) Ping() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.socket.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

func (t *wsTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.socket.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeGracePeriod))
	return t.socket.Close()
}
