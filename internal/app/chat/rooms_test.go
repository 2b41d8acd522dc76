package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomIndex_JoinIdempotent(t *testing.T) {
	ri := NewRoomIndex()

	created := ri.Join("general", "alice")
	assert.True(t, created)

	created = ri.Join("general", "alice")
	assert.False(t, created)

	assert.Equal(t, []string{"alice"}, ri.Members("general"))
}

func TestRoomIndex_LeaveNonMember(t *testing.T) {
	ri := NewRoomIndex()
	ri.Join("general", "alice")

	assert.False(t, ri.Leave("general", "bob"))
	assert.False(t, ri.Leave("missing", "alice"))

	assert.Equal(t, []string{"alice"}, ri.Members("general"))
}

func TestRoomIndex_EmptyRoomIsKept(t *testing.T) {
	ri := NewRoomIndex()
	ri.Join("general", "alice")

	assert.True(t, ri.Leave("general", "alice"))

	// Rooms are never pruned once created.
	assert.Equal(t, 1, ri.Len())
	assert.Empty(t, ri.Members("general"))
}

func TestRoomIndex_RemoveUserEverywhere(t *testing.T) {
	ri := NewRoomIndex()
	ri.Join("general", "alice")
	ri.Join("general", "bob")
	ri.Join("random", "alice")
	ri.Join("dev", "carol")

	removed := ri.RemoveUserEverywhere("alice")
	assert.Equal(t, 2, removed)

	assert.False(t, ri.Contains("general", "alice"))
	assert.False(t, ri.Contains("random", "alice"))
	assert.True(t, ri.Contains("general", "bob"))
	assert.True(t, ri.Contains("dev", "carol"))
}

func TestRoomIndex_MembersSnapshotIsIndependent(t *testing.T) {
	ri := NewRoomIndex()
	ri.Join("general", "alice")
	ri.Join("general", "bob")

	snapshot := ri.Members("general")
	require.Len(t, snapshot, 2)

	ri.Leave("general", "alice")
	ri.Leave("general", "bob")

	// The snapshot taken earlier is unaffected by later mutations.
	assert.Len(t, snapshot, 2)
	assert.Nil(t, ri.Members("missing"))
}
