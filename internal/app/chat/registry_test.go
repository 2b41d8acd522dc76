package chat

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn is an in-memory Conn implementation recording every delivered
// payload, standing in for a live WebSocket connection.
type fakeConn struct {
	id string

	mu       sync.Mutex
	received [][]byte
	closed   bool
	sendErr  error
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) UserID() string { return f.id }

func (f *fakeConn) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.received = append(f.received, payload)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) getReceived() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.received))
	copy(out, f.received)
	return out
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestRegistry_RegisterReplacesExistingConnection(t *testing.T) {
	reg := NewRegistry()

	first := newFakeConn("alice")
	second := newFakeConn("alice")

	reg.Register("alice", first)
	reg.Register("alice", second)

	// The old handle is closed before the replacement is installed, so a
	// reconnect never leaks a dangling connection.
	assert.True(t, first.isClosed())
	assert.False(t, second.isClosed())

	_, conns := reg.Stats()
	assert.Equal(t, 1, conns)

	require.NoError(t, reg.SendPersonal("alice", []byte("hello")))
	assert.Len(t, second.getReceived(), 1)
	assert.Empty(t, first.getReceived())
}

func TestRegistry_DeregisterSweepsAllRooms(t *testing.T) {
	reg := NewRegistry()
	conn := newFakeConn("alice")
	reg.Register("alice", conn)

	reg.JoinRoom("general", "alice")
	reg.JoinRoom("random", "alice")
	reg.JoinRoom("general", "bob")

	reg.Deregister("alice", conn)

	assert.NotContains(t, reg.RoomMembers("general"), "alice")
	assert.NotContains(t, reg.RoomMembers("random"), "alice")
	assert.Contains(t, reg.RoomMembers("general"), "bob")
	assert.False(t, reg.IsConnected("alice"))
}

func TestRegistry_StaleDeregisterIsIgnored(t *testing.T) {
	reg := NewRegistry()

	first := newFakeConn("alice")
	second := newFakeConn("alice")

	reg.Register("alice", first)
	reg.Register("alice", second)
	reg.JoinRoom("general", "alice")

	// The replaced connection's read loop exits late and tries to clean up.
	reg.Deregister("alice", first)

	assert.True(t, reg.IsConnected("alice"))
	assert.Contains(t, reg.RoomMembers("general"), "alice")
}

func TestRegistry_DeregisterUnknownUserIsNoop(t *testing.T) {
	reg := NewRegistry()

	reg.Deregister("ghost", nil)

	rooms, conns := reg.Stats()
	assert.Equal(t, 0, rooms)
	assert.Equal(t, 0, conns)
}

func TestRegistry_SendPersonalNotConnected(t *testing.T) {
	reg := NewRegistry()

	err := reg.SendPersonal("ghost", []byte("hello"))
	assert.ErrorIs(t, err, ErrRecipientNotConnected)
}

func TestRegistry_SendPersonalFailureEvictsConnection(t *testing.T) {
	reg := NewRegistry()
	conn := newFakeConn("alice")
	conn.sendErr = errors.New("broken pipe")

	reg.Register("alice", conn)
	reg.JoinRoom("general", "alice")

	err := reg.SendPersonal("alice", []byte("hello"))

	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.Equal(t, "alice", deliveryErr.UserID)

	assert.True(t, conn.isClosed())
	assert.False(t, reg.IsConnected("alice"))
	assert.NotContains(t, reg.RoomMembers("general"), "alice")
}

func TestRegistry_BroadcastExcludesSender(t *testing.T) {
	reg := NewRegistry()

	sender := newFakeConn("alice")
	recv1 := newFakeConn("bob")
	recv2 := newFakeConn("carol")

	reg.Register("alice", sender)
	reg.Register("bob", recv1)
	reg.Register("carol", recv2)

	for _, u := range []string{"alice", "bob", "carol"} {
		reg.JoinRoom("general", u)
	}

	reg.BroadcastToRoom("general", []byte("hi"), "alice")

	assert.Empty(t, sender.getReceived())
	assert.Len(t, recv1.getReceived(), 1)
	assert.Len(t, recv2.getReceived(), 1)
}

func TestRegistry_BroadcastToleratesPartialFailure(t *testing.T) {
	reg := NewRegistry()

	broken := newFakeConn("bob")
	broken.sendErr = errors.New("write failed")
	healthy := newFakeConn("carol")

	reg.Register("bob", broken)
	reg.Register("carol", healthy)
	reg.JoinRoom("general", "bob")
	reg.JoinRoom("general", "carol")

	reg.BroadcastToRoom("general", []byte("hi"), "alice")

	// The broken member is evicted, the healthy one still gets the payload.
	assert.Len(t, healthy.getReceived(), 1)
	assert.True(t, broken.isClosed())
	assert.False(t, reg.IsConnected("bob"))
}

func TestRegistry_BroadcastSkipsMembersWithoutConnection(t *testing.T) {
	reg := NewRegistry()

	healthy := newFakeConn("carol")
	reg.Register("carol", healthy)

	// "bob" joined before his transport settled; no connection exists yet.
	reg.JoinRoom("general", "bob")
	reg.JoinRoom("general", "carol")

	reg.BroadcastToRoom("general", []byte("hi"), "alice")

	assert.Len(t, healthy.getReceived(), 1)
	assert.Contains(t, reg.RoomMembers("general"), "bob")
}

func TestRegistry_BroadcastUnknownRoom(t *testing.T) {
	reg := NewRegistry()
	conn := newFakeConn("alice")
	reg.Register("alice", conn)

	reg.BroadcastToRoom("missing", []byte("hi"), "")

	assert.Empty(t, conn.getReceived())
}

func TestRegistry_LeaveRoomNonMember(t *testing.T) {
	reg := NewRegistry()
	reg.JoinRoom("general", "alice")

	reg.LeaveRoom("general", "bob")
	reg.LeaveRoom("missing", "alice")

	assert.Equal(t, []string{"alice"}, reg.RoomMembers("general"))
}

func TestRegistry_Stats(t *testing.T) {
	reg := NewRegistry()

	reg.Register("alice", newFakeConn("alice"))
	reg.Register("bob", newFakeConn("bob"))
	reg.JoinRoom("general", "alice")
	reg.JoinRoom("random", "alice")

	rooms, conns := reg.Stats()
	assert.Equal(t, 2, rooms)
	assert.Equal(t, 2, conns)
}

func TestRegistry_ConcurrentJoinLeave(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	users := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8"}

	for _, u := range users {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			conn := newFakeConn(userID)
			reg.Register(userID, conn)
			for i := 0; i < 100; i++ {
				reg.JoinRoom("general", userID)
				reg.BroadcastToRoom("general", []byte("x"), userID)
				reg.LeaveRoom("general", userID)
			}
			reg.Deregister(userID, conn)
		}(u)
	}

	wg.Wait()

	rooms, conns := reg.Stats()
	assert.Equal(t, 1, rooms)
	assert.Equal(t, 0, conns)
	assert.Empty(t, reg.RoomMembers("general"))
}
