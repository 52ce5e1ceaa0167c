// Package local bridges game events onto the WebSocket manager.
package local

import (
	"context"
	"encoding/json"

	crashdomain "github.com/9yuq/nexus/internal/modules/crash/domain"
	"github.com/9yuq/nexus/internal/modules/gateway/ws"
	"github.com/9yuq/nexus/pkg/logger"
)

// Broadcaster serializes crash events and pushes them to clients. It
// implements the crash module's Broadcaster interface.
type Broadcaster struct {
	manager *ws.Manager
}

// NewBroadcaster creates a broadcaster on top of the connection manager
func NewBroadcaster(manager *ws.Manager) *Broadcaster {
	return &Broadcaster{manager: manager}
}

func (b *Broadcaster) marshal(event crashdomain.Event) []byte {
	data, err := json.Marshal(map[string]interface{}{
		"game":    "crash",
		"command": event.Type,
		"data":    event,
	})
	if err != nil {
		logger.Error(context.Background()).Err(err).Str("type", event.Type).Msg("Failed to marshal ws event")
		return nil
	}
	return data
}

// Broadcast pushes an event to every connected client
func (b *Broadcaster) Broadcast(event crashdomain.Event) {
	if data := b.marshal(event); data != nil {
		b.manager.Broadcast(data)
	}
}

// SendToUser pushes an event to one user
func (b *Broadcaster) SendToUser(userID int64, event crashdomain.Event) {
	if data := b.marshal(event); data != nil {
		b.manager.SendToUser(userID, data)
	}
}
