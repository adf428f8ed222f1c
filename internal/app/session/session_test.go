package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Alanshi2019/Ichat/internal/app/roster"
	"github.com/Alanshi2019/Ichat/internal/pkg/errs"
)

// emitted records one outbound instruction issued toward the transport.
type emitted struct {
	op      string // "sendTo", "room", "roomExcept"
	target  string // connID for sendTo, room otherwise
	exclude string
	event   string
	payload any
}

// fakeTransport records broadcast instructions instead of delivering them.
type fakeTransport struct {
	joins []string
	sent  []emitted
}

func (f *fakeTransport) Join(connID, room string) {
	f.joins = append(f.joins, connID+"->"+room)
}

func (f *fakeTransport) SendTo(connID, event string, payload any) {
	f.sent = append(f.sent, emitted{op: "sendTo", target: connID, event: event, payload: payload})
}

func (f *fakeTransport) BroadcastToRoom(room, event string, payload any) {
	f.sent = append(f.sent, emitted{op: "room", target: room, event: event, payload: payload})
}

func (f *fakeTransport) BroadcastToRoomExcept(room, exceptConnID, event string, payload any) {
	f.sent = append(f.sent, emitted{op: "roomExcept", target: room, exclude: exceptConnID, event: event, payload: payload})
}

func (f *fakeTransport) reset() {
	f.joins = nil
	f.sent = nil
}

func newTestHandler(t *testing.T, isProfane func(string) bool) (*Handler, *fakeTransport) {
	t.Helper()

	if isProfane == nil {
		isProfane = func(string) bool { return false }
	}

	transport := &fakeTransport{}
	h := NewHandler(roster.NewStore(), transport, isProfane, "Ichat-App")
	h.now = func() time.Time { return time.UnixMilli(1700000000000) }

	return h, transport
}

func TestSession_Join_EmitsWelcomeNoticeAndSnapshot(t *testing.T) {
	req := require.New(t)
	h, transport := newTestHandler(t, nil)

	sess := h.NewSession("conn-alice")
	req.Nil(sess.Join("Alice", "Lobby"))

	req.Equal([]string{"conn-alice->lobby"}, transport.joins)
	req.Len(transport.sent, 3)

	welcome := transport.sent[0]
	req.Equal("sendTo", welcome.op)
	req.Equal("conn-alice", welcome.target)
	req.Equal(EventMessage, welcome.event)
	req.Equal(Message{Username: "Ichat-App", Text: "Welcome!", CreatedAt: 1700000000000}, welcome.payload)

	notice := transport.sent[1]
	req.Equal("roomExcept", notice.op)
	req.Equal("lobby", notice.target)
	req.Equal("conn-alice", notice.exclude)
	req.Equal(Message{Username: "Ichat-App", Text: "Alice has joined!", CreatedAt: 1700000000000}, notice.payload)

	snapshot := transport.sent[2]
	req.Equal("room", snapshot.op)
	req.Equal(EventRoomData, snapshot.event)
	req.Equal(RoomData{Room: "lobby", Users: []RosterEntry{{Username: "Alice"}}}, snapshot.payload)
}

func TestSession_Join_ValidationFailuresLeaveStateUnjoined(t *testing.T) {
	req := require.New(t)
	h, transport := newTestHandler(t, nil)

	sess := h.NewSession("conn-1")

	customErr := sess.Join("", "lobby")
	req.NotNil(customErr)
	req.Equal(errs.ErrMissingField, customErr.Code)
	req.Empty(transport.sent)

	// The failed join did not consume the session; a corrected retry succeeds.
	req.Nil(sess.Join("alice", "lobby"))
}

func TestSession_Join_SecondJoinRejected(t *testing.T) {
	req := require.New(t)
	h, _ := newTestHandler(t, nil)

	sess := h.NewSession("conn-1")
	req.Nil(sess.Join("alice", "lobby"))

	customErr := sess.Join("alice2", "lobby")
	req.NotNil(customErr)
	req.Equal(errs.ErrAlreadyJoined, customErr.Code)
}

func TestSession_SendMessage_BroadcastsToWholeRoom(t *testing.T) {
	req := require.New(t)
	h, transport := newTestHandler(t, nil)

	sess := h.NewSession("conn-1")
	req.Nil(sess.Join("alice", "lobby"))
	transport.reset()

	req.Nil(sess.SendMessage("hello there"))

	req.Len(transport.sent, 1)
	msg := transport.sent[0]
	req.Equal("room", msg.op)
	req.Equal("lobby", msg.target)
	req.Equal(EventMessage, msg.event)
	req.Equal(Message{Username: "alice", Text: "hello there", CreatedAt: 1700000000000}, msg.payload)
}

func TestSession_SendMessage_NotJoined(t *testing.T) {
	req := require.New(t)
	h, transport := newTestHandler(t, nil)

	sess := h.NewSession("conn-1")

	customErr := sess.SendMessage("hello")
	req.NotNil(customErr)
	req.Equal(errs.ErrNotJoined, customErr.Code)
	req.Empty(transport.sent)
}

func TestSession_SendMessage_ProfanityVetoed(t *testing.T) {
	req := require.New(t)
	h, transport := newTestHandler(t, func(text string) bool {
		return strings.Contains(text, "badword")
	})

	sess := h.NewSession("conn-1")
	req.Nil(sess.Join("alice", "lobby"))
	transport.reset()

	customErr := sess.SendMessage("some badword text")
	req.NotNil(customErr)
	req.Equal(errs.ErrProfanityRejected, customErr.Code)
	req.Empty(transport.sent)
}

func TestSession_SendLocation(t *testing.T) {
	req := require.New(t)
	h, transport := newTestHandler(t, nil)

	sess := h.NewSession("conn-1")
	req.Nil(sess.Join("alice", "lobby"))
	transport.reset()

	confirmation, customErr := sess.SendLocation(51.5, -0.12)
	req.Nil(customErr)
	req.Equal(LocationSharedConfirmation, confirmation)

	req.Len(transport.sent, 1)
	loc := transport.sent[0]
	req.Equal("room", loc.op)
	req.Equal(EventLocationMessage, loc.event)
	req.Equal(LocationMessage{
		Username:  "alice",
		MapURL:    "https://google.com/maps?q=51.5,-0.12",
		CreatedAt: 1700000000000,
	}, loc.payload)
}

func TestSession_SendLocation_NotJoined(t *testing.T) {
	req := require.New(t)
	h, transport := newTestHandler(t, nil)

	sess := h.NewSession("conn-1")

	confirmation, customErr := sess.SendLocation(1, 2)
	req.NotNil(customErr)
	req.Equal(errs.ErrNotJoined, customErr.Code)
	req.Empty(confirmation)
	req.Empty(transport.sent)
}

func TestSession_Disconnect_BeforeJoinIsSilent(t *testing.T) {
	req := require.New(t)
	h, transport := newTestHandler(t, nil)

	sess := h.NewSession("conn-1")
	sess.Disconnect()

	req.Empty(transport.sent)

	// Closed is terminal: a late join is rejected.
	customErr := sess.Join("alice", "lobby")
	req.NotNil(customErr)
	req.Equal(errs.ErrAlreadyJoined, customErr.Code)
}

func TestSession_Disconnect_Idempotent(t *testing.T) {
	req := require.New(t)
	h, transport := newTestHandler(t, nil)

	sess := h.NewSession("conn-1")
	req.Nil(sess.Join("alice", "lobby"))
	transport.reset()

	sess.Disconnect()
	req.Len(transport.sent, 2)

	sess.Disconnect()
	req.Len(transport.sent, 2)
}

// Mirrors the lobby scenario end to end: alice joins, bob joins, alice leaves.
func TestSession_LobbyScenario(t *testing.T) {
	req := require.New(t)
	h, transport := newTestHandler(t, nil)

	alice := h.NewSession("conn-alice")
	req.Nil(alice.Join("alice", "lobby"))

	bob := h.NewSession("conn-bob")
	transport.reset()
	req.Nil(bob.Join("bob", "lobby"))

	// Bob's join: a join notice that excludes bob, and a snapshot listing both users.
	req.Len(transport.sent, 3)

	notice := transport.sent[1]
	req.Equal("roomExcept", notice.op)
	req.Equal("conn-bob", notice.exclude)
	req.Equal("bob has joined!", notice.payload.(Message).Text)

	snapshot := transport.sent[2]
	req.Equal(EventRoomData, snapshot.event)
	req.Equal(RoomData{Room: "lobby", Users: []RosterEntry{{Username: "alice"}, {Username: "bob"}}}, snapshot.payload)

	// Alice disconnects: remaining members get a leave notice and a snapshot with only bob.
	transport.reset()
	alice.Disconnect()

	req.Len(transport.sent, 2)
	req.Equal("alice has left.", transport.sent[0].payload.(Message).Text)
	req.Equal(RoomData{Room: "lobby", Users: []RosterEntry{{Username: "bob"}}}, transport.sent[1].payload)
}
