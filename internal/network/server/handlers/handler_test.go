package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/config"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/room"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/protocol"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/storage"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/testutil"
)

// fakeServer satisfies ServerContext without booting a real server.
type fakeServer struct {
	rooms *room.RoomManager
}

func (f *fakeServer) RoomManager() *room.RoomManager    { return f.rooms }
func (f *fakeServer) ResultStore() *storage.ResultStore { return nil }
func (f *fakeServer) GetOnlineCount() int               { return 0 }

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	cfg := config.Default()
	rm := room.NewRoomManager(&cfg.Game, nil, 10*time.Minute)
	return NewHandler(&fakeServer{rooms: rm})
}

// lastOfType returns the most recent message of the wanted type.
func lastOfType(c *testutil.SimpleClient, mt protocol.MessageType) *protocol.Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Type == mt {
			return c.Messages[i]
		}
	}
	return nil
}

func TestHandle_Ping(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	c := testutil.NewSimpleClient("p1", "alice")

	h.Handle(c, protocol.MustNewMessage(protocol.MsgPing, nil))
	assert.NotNil(t, lastOfType(c, protocol.MsgPong))
}

func TestHandle_CreateAndJoinRoom(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	host := testutil.NewSimpleClient("p1", "alice")

	h.Handle(host, protocol.MustNewMessage(protocol.MsgCreateRoom, nil))
	created := lastOfType(host, protocol.MsgRoomCreated)
	require.NotNil(t, created)

	payload, err := protocol.ParsePayload[protocol.RoomCreatedPayload](created)
	require.NoError(t, err)
	assert.Len(t, payload.RoomCode, 6)
	assert.Equal(t, 1, payload.Seat)
	assert.Equal(t, payload.RoomCode, host.GetRoom())

	guest := testutil.NewSimpleClient("p2", "bob")
	h.Handle(guest, protocol.MustNewMessage(protocol.MsgJoinRoom,
		protocol.JoinRoomPayload{RoomCode: payload.RoomCode}))

	joined := lastOfType(guest, protocol.MsgRoomJoined)
	require.NotNil(t, joined)
	jp, err := protocol.ParsePayload[protocol.RoomJoinedPayload](joined)
	require.NoError(t, err)
	assert.Equal(t, 2, jp.Seat)
}

func TestHandle_JoinUnknownRoom(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	c := new(testutil.MockClient)
	c.On("GetRoom").Return("")
	c.On("SendMessage", mock.MatchedBy(func(msg *protocol.Message) bool {
		if msg.Type != protocol.MsgError {
			return false
		}
		ep, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
		return err == nil && ep.Code == protocol.ErrCodeRoomNotFound
	})).Once()

	h.Handle(c, protocol.MustNewMessage(protocol.MsgJoinRoom,
		protocol.JoinRoomPayload{RoomCode: "000000"}))

	c.AssertExpectations(t)
}

func TestHandle_StartGameNeedsQuorum(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	host := testutil.NewSimpleClient("p1", "alice")
	h.Handle(host, protocol.MustNewMessage(protocol.MsgCreateRoom, nil))

	h.Handle(host, protocol.MustNewMessage(protocol.MsgStartGame, nil))
	errMsg := lastOfType(host, protocol.MsgError)
	require.NotNil(t, errMsg)
	ep, err := protocol.ParsePayload[protocol.ErrorPayload](errMsg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotEnough, ep.Code)
}

func TestHandle_StatsWithoutStore(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	c := testutil.NewSimpleClient("p1", "alice")

	h.Handle(c, protocol.MustNewMessage(protocol.MsgGetStats, nil))
	assert.NotNil(t, lastOfType(c, protocol.MsgError))
}

func TestHandle_UnknownType(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	c := testutil.NewSimpleClient("p1", "alice")

	h.Handle(c, protocol.MustNewMessage(protocol.MessageType("teleport"), nil))
	errMsg := lastOfType(c, protocol.MsgError)
	require.NotNil(t, errMsg)
	ep, err := protocol.ParsePayload[protocol.ErrorPayload](errMsg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, ep.Code)
}
