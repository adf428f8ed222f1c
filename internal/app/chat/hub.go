/*
Package chat is the websocket transport for the relay.

This file defines the Hub, the connection registry and room-scoped multicast index.
The Hub implements session.Transport: the protocol handler decides who receives what,
the Hub does the delivery.
*/
package chat

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Alanshi2019/Ichat/internal/pkg/logx"
)

// Hub tracks live clients and their room subscriptions.
type Hub struct {
	// mu protects clients and rooms. Fan-out holds the read lock for the whole
	// enqueue pass, so a client can never be unregistered mid-broadcast.
	mu sync.RWMutex

	// clients maps connection ID to the live client.
	clients map[string]*Client

	// rooms maps a normalized room name to its member clients by connection ID.
	rooms map[string]map[string]*Client

	logger zerolog.Logger
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	hubLogger := logx.Logger().With().Str("component", "hub").Logger()

	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
		logger:  hubLogger,
	}
}

// Register adds a freshly upgraded connection to the registry.
// The client belongs to no room until the session protocol calls Join.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c

	h.logger.Info().
		Str("conn_id", c.id).
		Int("total_clients", len(h.clients)).
		Msg("Client registered.")
}

// Unregister removes a connection from the registry and its room, and closes its send
// queue so the write pump terminates. Safe to call for unknown IDs.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}

	delete(h.clients, connID)

	if c.room != "" {
		if members, ok := h.rooms[c.room]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(h.rooms, c.room)
			}
		}
	}

	close(c.send)

	h.logger.Info().
		Str("conn_id", connID).
		Int("total_clients", len(h.clients)).
		Msg("Client unregistered.")
}

// Join subscribes a connection to a room's multicast scope. The room name arrives
// already normalized from the session protocol.
func (h *Hub) Join(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		h.logger.Warn().Str("conn_id", connID).Msg("Join for unknown client.")
		return
	}

	c.room = room

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[room] = members
	}
	members[connID] = c
}

// SendTo emits an event to one connection.
func (h *Hub) SendTo(connID, event string, payload any) {
	frame, ok := h.marshalEnvelope(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if c, ok := h.clients[connID]; ok {
		c.enqueue(frame)
	}
}

// BroadcastToRoom emits an event to every connection in the room.
func (h *Hub) BroadcastToRoom(room, event string, payload any) {
	frame, ok := h.marshalEnvelope(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.rooms[room] {
		c.enqueue(frame)
	}
}

// BroadcastToRoomExcept emits an event to every connection in the room except one.
func (h *Hub) BroadcastToRoomExcept(room, exceptConnID, event string, payload any) {
	frame, ok := h.marshalEnvelope(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, c := range h.rooms[room] {
		if id == exceptConnID {
			continue
		}
		c.enqueue(frame)
	}
}

// marshalEnvelope wraps and serializes an event once per fan-out.
func (h *Hub) marshalEnvelope(event string, payload any) ([]byte, bool) {
	frame, err := json.Marshal(NewEnvelope(event, payload))
	if err != nil {
		h.logger.Error().
			Str("event", event).
			Err(err).
			Msg("Error marshaling envelope for delivery.")
		return nil, false
	}
	return frame, true
}
