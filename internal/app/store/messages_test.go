package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sockethub/internal/pkg/errs"
)

func TestMessages_CreateDefaultsToTextType(t *testing.T) {
	messages := NewMessages()

	msg := messages.Create("hello", "", "room-1", "alice", "alice")
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "text", msg.MessageType)
	assert.False(t, msg.Timestamp.IsZero())

	got, cerr := messages.Get(msg.ID)
	require.Nil(t, cerr)
	assert.Equal(t, msg, got)
}

func TestMessages_GetUnknown(t *testing.T) {
	messages := NewMessages()

	_, cerr := messages.Get("missing")
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrMessageNotFound, cerr.Code)
}

func TestMessages_Delete(t *testing.T) {
	messages := NewMessages()

	msg := messages.Create("hello", "text", "room-1", "alice", "alice")
	require.Nil(t, messages.Delete(msg.ID))

	_, cerr := messages.Get(msg.ID)
	require.NotNil(t, cerr)

	cerr = messages.Delete(msg.ID)
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrMessageNotFound, cerr.Code)
}

func TestMessages_ByRoomPagination(t *testing.T) {
	messages := NewMessages()

	for i := 0; i < 5; i++ {
		messages.Create(fmt.Sprintf("msg-%d", i), "text", "room-1", "alice", "alice")
	}
	messages.Create("elsewhere", "text", "room-2", "bob", "bob")

	page := messages.ByRoom("room-1", 2, 0)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, 5, page.Total)
	assert.True(t, page.HasMore)
	assert.Equal(t, "msg-0", page.Messages[0].Content)

	page = messages.ByRoom("room-1", 2, 4)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "msg-4", page.Messages[0].Content)
	assert.False(t, page.HasMore)
}

func TestMessages_ByRoomOffsetPastEnd(t *testing.T) {
	messages := NewMessages()
	messages.Create("only one", "text", "room-1", "alice", "alice")

	page := messages.ByRoom("room-1", 50, 10)
	assert.Empty(t, page.Messages)
	assert.Equal(t, 1, page.Total)
	assert.False(t, page.HasMore)
}

func TestMessages_ByUser(t *testing.T) {
	messages := NewMessages()

	messages.Create("from alice", "text", "room-1", "alice", "alice")
	messages.Create("from bob", "text", "room-1", "bob", "bob")
	messages.Create("alice again", "text", "room-2", "alice", "alice")

	page := messages.ByUser("alice", 50, 0)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "from alice", page.Messages[0].Content)
	assert.Equal(t, "alice again", page.Messages[1].Content)
}

func TestMessages_EmptyRoomHistory(t *testing.T) {
	messages := NewMessages()

	page := messages.ByRoom("room-1", 50, 0)
	assert.Empty(t, page.Messages)
	assert.Zero(t, page.Total)
	assert.False(t, page.HasMore)
}
