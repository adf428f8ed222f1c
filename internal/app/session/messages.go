/*
Package session implements the per-connection chat protocol on top of the roster store.

This file defines the outbound event names and payload shapes the handler emits toward
the transport layer. The names are part of the client contract and must stay stable.
*/
package session

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/Alanshi2019/Ichat/internal/app/roster"
)

// Outbound event names, delivered to clients by the transport layer.
const (
	// EventMessage carries user chat and system join/leave notices alike,
	// distinguished only by the username field.
	EventMessage = "message"

	// EventLocationMessage carries a shared map location.
	EventLocationMessage = "locationMessage"

	// EventRoomData carries a roster snapshot for one room.
	EventRoomData = "roomData"
)

// LocationSharedConfirmation is the fixed acknowledgment string for sendLocation.
const LocationSharedConfirmation = "Location shared"

// Message is the uniform payload for chat text and system notices.
type Message struct {
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// LocationMessage is the payload for a shared location.
type LocationMessage struct {
	Username  string `json:"username"`
	MapURL    string `json:"mapUrl"`
	CreatedAt int64  `json:"createdAt"`
}

// RosterEntry is the per-user element of a RoomData snapshot.
type RosterEntry struct {
	Username string `json:"username"`
}

// RoomData is the roster snapshot payload broadcast whenever room membership changes.
type RoomData struct {
	Room  string        `json:"room"`
	Users []RosterEntry `json:"users"`
}

// mapURL builds the deterministic maps link for a shared coordinate pair.
func mapURL(lat, long float64) string {
	return fmt.Sprintf("https://google.com/maps?q=%v,%v", lat, long)
}

// roomData assembles a RoomData snapshot from current room members.
func roomData(room string, members []roster.User) RoomData {
	return RoomData{
		Room: room,
		Users: lo.Map(members, func(u roster.User, _ int) RosterEntry {
			return RosterEntry{Username: u.Username}
		}),
	}
}
