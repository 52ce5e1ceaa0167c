// Package http upgrades authenticated clients onto the WebSocket feed.
package http

import (
	"encoding/json"
	"net/http"

	crashuc "github.com/9yuq/nexus/internal/modules/crash/usecase"
	"github.com/9yuq/nexus/internal/modules/gateway/ws"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/gorilla/websocket"
)

// Handler handles WebSocket upgrade requests
type Handler struct {
	manager *ws.Manager
	crash   *crashuc.CrashUseCase
	auth    AuthFunc
}

// AuthFunc validates a token and returns the user ID
type AuthFunc func(token string) (int64, error)

// NewHandler creates a new WebSocket handler
func NewHandler(manager *ws.Manager, crash *crashuc.CrashUseCase, auth AuthFunc) *Handler {
	return &Handler{
		manager: manager,
		crash:   crash,
		auth:    auth,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket authenticates, upgrades, and registers the connection.
// Clients receive round lifecycle events plus their own cashout and
// forfeit notifications.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WebSocketContext(r)

	token := r.URL.Query().Get("token")
	if token == "" {
		logger.Warn(ctx).Str("remote_addr", r.RemoteAddr).Msg("WebSocket request without token")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := h.auth(token)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("WebSocket token rejected")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("WebSocket upgrade failed")
		return
	}

	logger.Info(ctx).
		Int64("user_id", userID).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket connected")

	client := h.manager.Register(conn, userID)

	go client.WritePump()
	go client.ReadPump(nil)

	// Seed the new client with the current round so it does not have to
	// wait for the next lifecycle event.
	state := h.crash.GetState(ctx)
	if snapshot, err := json.Marshal(map[string]interface{}{
		"game":    "crash",
		"command": "state",
		"data":    state,
	}); err == nil {
		h.manager.SendToUser(userID, snapshot)
	}
}
