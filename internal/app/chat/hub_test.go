package chat

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newQueuedClient(id string) *Client {
	return &Client{
		id:     id,
		send:   make(chan []byte, 8),
		logger: zerolog.Nop(),
	}
}

// drain returns the decoded envelopes currently sitting in the client's send queue.
func drain(t *testing.T, c *Client) []Envelope {
	t.Helper()

	var frames []Envelope
	for {
		select {
		case frame := <-c.send:
			var envelope Envelope
			require.NoError(t, json.Unmarshal(frame, &envelope))
			frames = append(frames, envelope)
		default:
			return frames
		}
	}
}

func TestHub_BroadcastToRoom(t *testing.T) {
	req := require.New(t)
	hub := NewHub()

	alice := newQueuedClient("conn-alice")
	bob := newQueuedClient("conn-bob")
	carol := newQueuedClient("conn-carol")

	for _, c := range []*Client{alice, bob, carol} {
		hub.Register(c)
	}
	hub.Join(alice.id, "lobby")
	hub.Join(bob.id, "lobby")
	hub.Join(carol.id, "other")

	hub.BroadcastToRoom("lobby", "message", map[string]string{"text": "hi"})

	req.Len(drain(t, alice), 1)
	req.Len(drain(t, bob), 1)
	req.Empty(drain(t, carol))
}

func TestHub_BroadcastToRoomExcept(t *testing.T) {
	req := require.New(t)
	hub := NewHub()

	alice := newQueuedClient("conn-alice")
	bob := newQueuedClient("conn-bob")

	hub.Register(alice)
	hub.Register(bob)
	hub.Join(alice.id, "lobby")
	hub.Join(bob.id, "lobby")

	hub.BroadcastToRoomExcept("lobby", bob.id, "message", map[string]string{"text": "bob has joined!"})

	frames := drain(t, alice)
	req.Len(frames, 1)
	req.Equal("message", frames[0].Type)
	req.NotEmpty(frames[0].ID)
	req.Empty(drain(t, bob))
}

func TestHub_SendTo(t *testing.T) {
	req := require.New(t)
	hub := NewHub()

	alice := newQueuedClient("conn-alice")
	bob := newQueuedClient("conn-bob")

	hub.Register(alice)
	hub.Register(bob)

	hub.SendTo(alice.id, "message", map[string]string{"text": "Welcome!"})

	req.Len(drain(t, alice), 1)
	req.Empty(drain(t, bob))

	// Unknown targets are a no-op.
	hub.SendTo("conn-ghost", "message", nil)
}

func TestHub_UnregisterRemovesFromRoom(t *testing.T) {
	req := require.New(t)
	hub := NewHub()

	alice := newQueuedClient("conn-alice")
	bob := newQueuedClient("conn-bob")

	hub.Register(alice)
	hub.Register(bob)
	hub.Join(alice.id, "lobby")
	hub.Join(bob.id, "lobby")

	hub.Unregister(alice.id)

	// The send queue is closed so the write pump terminates.
	_, open := <-alice.send
	req.False(open)

	hub.BroadcastToRoom("lobby", "message", map[string]string{"text": "still here"})
	req.Len(drain(t, bob), 1)

	// Double unregister is safe.
	hub.Unregister(alice.id)
}
