package roster

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Alanshi2019/Ichat/internal/pkg/errs"
)

func TestStore_AddUser_MissingFields(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	tests := []struct {
		name     string
		username string
		room     string
	}{
		{name: "empty username", username: "", room: "room1"},
		{name: "empty room", username: "alice", room: ""},
		{name: "whitespace only username", username: "   ", room: "room1"},
		{name: "whitespace only room", username: "alice", room: "\t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, customErr := store.AddUser("conn-1", tt.username, tt.room)
			req.NotNil(customErr)
			req.Equal(errs.ErrMissingField, customErr.Code)
		})
	}
}

func TestStore_AddUser_NameTakenIsCaseAndWhitespaceInsensitive(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	user, customErr := store.AddUser("conn-1", " Alice ", " Room1 ")
	req.Nil(customErr)
	req.Equal("Alice", user.Username)
	req.Equal("room1", user.Room)

	_, customErr = store.AddUser("conn-2", "alice", "room1")
	req.NotNil(customErr)
	req.Equal(errs.ErrNameTaken, customErr.Code)

	// The same name is free in a different room.
	_, customErr = store.AddUser("conn-3", "alice", "room2")
	req.Nil(customErr)
}

func TestStore_AddUser_OneUserPerConnection(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	_, customErr := store.AddUser("conn-1", "alice", "lobby")
	req.Nil(customErr)

	_, customErr = store.AddUser("conn-1", "bob", "lobby")
	req.NotNil(customErr)
	req.Equal(errs.ErrAlreadyJoined, customErr.Code)

	members := store.UsersInRoom("lobby")
	req.Len(members, 1)
	req.Equal("alice", members[0].Username)
}

func TestStore_RemoveUser(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	user, customErr := store.AddUser("conn-1", "alice", "lobby")
	req.Nil(customErr)

	removed, ok := store.RemoveUser(user.ConnID)
	req.True(ok)
	req.Equal(user, removed)

	_, ok = store.GetUser(user.ConnID)
	req.False(ok)
	req.Empty(store.UsersInRoom(user.Room))

	// Disconnect-before-join is a valid, non-exceptional path.
	_, ok = store.RemoveUser("never-joined")
	req.False(ok)
}

func TestStore_UsersInRoom_ExactMembership(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	_, customErr := store.AddUser("conn-1", "alice", "Lobby")
	req.Nil(customErr)
	_, customErr = store.AddUser("conn-2", "bob", "lobby")
	req.Nil(customErr)
	_, customErr = store.AddUser("conn-3", "carol", "other")
	req.Nil(customErr)

	members := store.UsersInRoom("  LOBBY ")
	req.Len(members, 2)
	req.Equal("alice", members[0].Username)
	req.Equal("bob", members[1].Username)

	req.Empty(store.UsersInRoom("unknown"))
	req.Empty(store.UsersInRoom(""))
}

func TestStore_ConcurrentDuplicateJoins_ExactlyOneSucceeds(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	const attempts = 32

	var wg sync.WaitGroup
	results := make(chan *errs.CustomError, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, customErr := store.AddUser(fmt.Sprintf("conn-%d", i), " Alice ", "Lobby")
			results <- customErr
		}(i)
	}

	wg.Wait()
	close(results)

	successes, nameTaken := 0, 0
	for customErr := range results {
		if customErr == nil {
			successes++
			continue
		}
		req.Equal(errs.ErrNameTaken, customErr.Code)
		nameTaken++
	}

	req.Equal(1, successes)
	req.Equal(attempts-1, nameTaken)
	req.Len(store.UsersInRoom("lobby"), 1)
}
