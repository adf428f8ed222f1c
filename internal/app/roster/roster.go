/*
Package roster contains the process-wide registry mapping connection identity to
{display name, room}.

The Store is the only shared mutable state of the chat relay. It knows nothing about
the transport or message content; it answers exactly four questions: add a user,
remove a user, look a user up, and list the users in a room.
*/
package roster

import (
	"strings"
	"sync"

	"github.com/Alanshi2019/Ichat/internal/pkg/errs"
)

// User represents a joined chat participant.
// A User is immutable after creation; changing name or room requires leave + rejoin.
type User struct {
	// ConnID is the opaque transport-assigned connection identifier.
	ConnID string `json:"-"`

	// Username is the display name, trimmed but case-preserved for display.
	Username string `json:"username"`

	// Room is the normalized room name the user joined.
	Room string `json:"room"`
}

// Normalize trims surrounding whitespace and lower-cases s.
// Rooms and uniqueness comparisons always use the normalized form so that
// "Lobby" and " lobby " never split into two rooms.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Store is the in-memory roster, keyed by connection ID.
// Entries live only for the duration of a connection; nothing is persisted and the
// roster rebuilds from empty on process restart.
type Store struct {
	// mu guards users and order. Every exported operation is a single critical
	// section; in particular the uniqueness check in AddUser is atomic with the insert.
	mu sync.Mutex

	users map[string]User

	// order records connection IDs in insertion order so that room snapshots
	// are stable within a single call.
	order []string
}

// NewStore constructs an empty roster Store.
func NewStore() *Store {
	return &Store{
		users: make(map[string]User),
	}
}

// AddUser validates and inserts a new User for the given connection.
// The display name keeps its original casing (trimmed); uniqueness within the room is
// checked on the normalized form. Fails with ErrMissingField when either input is empty
// after trimming, ErrAlreadyJoined when the connection already has a User, and
// ErrNameTaken when the normalized name is already present in the normalized room.
func (s *Store) AddUser(connID, rawUsername, rawRoom string) (User, *errs.CustomError) {
	username := strings.TrimSpace(rawUsername)
	room := Normalize(rawRoom)

	if username == "" || room == "" {
		return User{}, errs.NewError(errs.ErrMissingField)
	}

	normalizedName := strings.ToLower(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[connID]; ok {
		return User{}, errs.NewError(errs.ErrAlreadyJoined)
	}

	for _, id := range s.order {
		existing := s.users[id]
		if existing.Room == room && strings.ToLower(existing.Username) == normalizedName {
			return User{}, errs.NewError(errs.ErrNameTaken)
		}
	}

	user := User{
		ConnID:   connID,
		Username: username,
		Room:     room,
	}

	s.users[connID] = user
	s.order = append(s.order, connID)

	return user, nil
}

// RemoveUser removes and returns the User for the given connection.
// Absence is not an error: disconnect-before-join is a valid, non-exceptional path,
// reported through the boolean.
func (s *Store) RemoveUser(connID string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[connID]
	if !ok {
		return User{}, false
	}

	delete(s.users, connID)

	for i, id := range s.order {
		if id == connID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return user, true
}

// GetUser returns the User for the given connection, if any. Pure lookup, no mutation.
func (s *Store) GetUser(connID string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[connID]
	return user, ok
}

// UsersInRoom returns the current members of the given room in insertion order.
// The room argument is normalized the same way as in AddUser. Unknown or empty rooms
// yield an empty slice, never an error.
func (s *Store) UsersInRoom(room string) []User {
	room = Normalize(room)

	s.mu.Lock()
	defer s.mu.Unlock()

	members := make([]User, 0)
	for _, id := range s.order {
		if user := s.users[id]; user.Room == room {
			members = append(members, user)
		}
	}

	return members
}
