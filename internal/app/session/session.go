/*
Package session implements the per-connection chat protocol on top of the roster store.

This file defines the Handler (shared protocol state: roster, transport, profanity
predicate) and the Session, a per-connection state machine interpreting join,
sendMessage, sendLocation, and disconnect events into broadcast instructions.
*/
package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alanshi2019/Ichat/internal/app/roster"
	"github.com/Alanshi2019/Ichat/internal/pkg/errs"
	"github.com/Alanshi2019/Ichat/internal/pkg/logx"
)

// State is the lifecycle position of a single connection.
// Transitions are Unjoined -> Joined -> Closed; Closed is terminal and reachable
// from either state. There is no way back from Joined to Unjoined.
type State int

const (
	Unjoined State = iota
	Joined
	Closed
)

// Transport is the capability consumed from the transport layer. Sends are
// fire-and-forget with respect to the protocol; delivery confirmation is out of scope.
type Transport interface {
	// Join subscribes the connection to the room's multicast scope.
	Join(connID, room string)

	// SendTo emits an event to one connection.
	SendTo(connID, event string, payload any)

	// BroadcastToRoom emits an event to every connection in the room.
	BroadcastToRoom(room, event string, payload any)

	// BroadcastToRoomExcept emits an event to every connection in the room
	// except the given one.
	BroadcastToRoomExcept(room, exceptConnID, event string, payload any)
}

// Handler holds the protocol state shared by all connections.
type Handler struct {
	// mu serializes event handling so that every membership snapshot and the
	// fan-out it decides are atomic with respect to concurrent joins/leaves.
	mu sync.Mutex

	store     *roster.Store
	transport Transport

	// isProfane is the injected content filter predicate.
	isProfane func(string) bool

	// systemName is the sender name attached to system-generated notices.
	systemName string

	// now is injectable for tests.
	now func() time.Time

	logger zerolog.Logger
}

// NewHandler constructs a Handler over the given roster store and transport.
func NewHandler(store *roster.Store, transport Transport, isProfane func(string) bool, systemName string) *Handler {
	handlerLogger := logx.Logger().With().Str("component", "session").Logger()

	return &Handler{
		store:      store,
		transport:  transport,
		isProfane:  isProfane,
		systemName: systemName,
		now:        time.Now,
		logger:     handlerLogger,
	}
}

// Session is the per-connection protocol state machine. One Session exists per live
// connection; its state is guarded by the Handler mutex.
type Session struct {
	h      *Handler
	connID string
	state  State
}

// NewSession creates a Session for a freshly established connection, in state Unjoined.
func (h *Handler) NewSession(connID string) *Session {
	return &Session{h: h, connID: connID}
}

// ConnID returns the opaque connection identifier this session is bound to.
func (s *Session) ConnID() string {
	return s.connID
}

// systemMessage builds a system notice payload stamped with the current time.
func (h *Handler) systemMessage(text string) Message {
	return Message{
		Username:  h.systemName,
		Text:      text,
		CreatedAt: h.now().UnixMilli(),
	}
}

// Join handles the join event. Valid only from Unjoined; on validation failure the
// error is returned for the per-event ack and the state is unchanged. On success the
// session becomes Joined, the connection enters the room's multicast scope, the joiner
// gets a direct welcome, everyone else gets a join notice, and the whole room
// (including the joiner) gets a fresh roster snapshot.
func (s *Session) Join(rawUsername, rawRoom string) *errs.CustomError {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()

	if s.state != Unjoined {
		return errs.NewError(errs.ErrAlreadyJoined)
	}

	user, customErr := s.h.store.AddUser(s.connID, rawUsername, rawRoom)
	if customErr != nil {
		s.h.logger.Warn().
			Str("conn_id", s.connID).
			Int("code", customErr.Code).
			Msg("Join rejected.")
		return customErr
	}

	s.state = Joined

	s.h.transport.Join(s.connID, user.Room)

	s.h.transport.SendTo(s.connID, EventMessage, s.h.systemMessage("Welcome!"))
	s.h.transport.BroadcastToRoomExcept(user.Room, s.connID, EventMessage,
		s.h.systemMessage(user.Username+" has joined!"))
	s.h.transport.BroadcastToRoom(user.Room, EventRoomData,
		roomData(user.Room, s.h.store.UsersInRoom(user.Room)))

	s.h.logger.Info().
		Str("conn_id", s.connID).
		Str("username", user.Username).
		Str("room", user.Room).
		Msg("User joined room.")

	return nil
}

// SendMessage handles the sendMessage event. Valid only from Joined. Profane content
// is vetoed before any broadcast. On success the chat message goes to the whole room,
// sender included, so the sender's own message renders in arrival order like everyone
// else's.
func (s *Session) SendMessage(text string) *errs.CustomError {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()

	user, ok := s.joinedUser()
	if !ok {
		return errs.NewError(errs.ErrNotJoined)
	}

	if s.h.isProfane(text) {
		s.h.logger.Warn().
			Str("conn_id", s.connID).
			Str("room", user.Room).
			Msg("Message rejected by profanity filter.")
		return errs.NewError(errs.ErrProfanityRejected)
	}

	s.h.transport.BroadcastToRoom(user.Room, EventMessage, Message{
		Username:  user.Username,
		Text:      text,
		CreatedAt: s.h.now().UnixMilli(),
	})

	return nil
}

// SendLocation handles the sendLocation event. The same Joined guard applies as for
// sendMessage. On success the location goes to the whole room, sender included, and the
// fixed confirmation string is returned for the ack.
func (s *Session) SendLocation(lat, long float64) (string, *errs.CustomError) {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()

	user, ok := s.joinedUser()
	if !ok {
		return "", errs.NewError(errs.ErrNotJoined)
	}

	s.h.transport.BroadcastToRoom(user.Room, EventLocationMessage, LocationMessage{
		Username:  user.Username,
		MapURL:    mapURL(lat, long),
		CreatedAt: s.h.now().UnixMilli(),
	})

	return LocationSharedConfirmation, nil
}

// Disconnect handles connection teardown. Valid from any state and idempotent. When a
// User was present (the session had joined), the remaining room members get a leave
// notice and an updated roster snapshot. The session always ends Closed.
func (s *Session) Disconnect() {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()

	if s.state == Closed {
		return
	}
	s.state = Closed

	user, ok := s.h.store.RemoveUser(s.connID)
	if !ok {
		return
	}

	s.h.transport.BroadcastToRoom(user.Room, EventMessage,
		s.h.systemMessage(user.Username+" has left."))
	s.h.transport.BroadcastToRoom(user.Room, EventRoomData,
		roomData(user.Room, s.h.store.UsersInRoom(user.Room)))

	s.h.logger.Info().
		Str("conn_id", s.connID).
		Str("username", user.Username).
		Str("room", user.Room).
		Msg("User left room.")
}

// joinedUser resolves the session's User while holding the handler mutex.
// A missing roster entry is reported the same way as a wrong state: not joined.
func (s *Session) joinedUser() (roster.User, bool) {
	if s.state != Joined {
		return roster.User{}, false
	}
	return s.h.store.GetUser(s.connID)
}
