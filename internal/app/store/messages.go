/*
Package store holds the in-memory catalog backing the REST room and message
endpoints.

This file defines the message catalog: paginated room history, per-user
history, creation, lookup, and deletion.
*/
package store

import (
	"sync"
	"time"

	"sockethub/internal/pkg/errs"
	"sockethub/internal/pkg/randx"
)

// Message describes a chat message as reported by the REST API.
type Message struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type"`
	RoomID      string    `json:"room_id"`
	UserID      string    `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
	Username    string    `json:"username,omitempty"`
}

// Page is one slice of a paginated message listing.
type Page struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"has_more"`
}

// Messages is the mutex-guarded message catalog.
type Messages struct {
	mu       sync.RWMutex
	messages []Message
}

// NewMessages returns an empty message catalog.
func NewMessages() *Messages {
	return &Messages{}
}

// Create appends a new message and returns it.
func (ms *Messages) Create(content, messageType, roomID, userID, username string) Message {
	if messageType == "" {
		messageType = "text"
	}

	msg := Message{
		ID:          randx.MessageID(),
		Content:     content,
		MessageType: messageType,
		RoomID:      roomID,
		UserID:      userID,
		Timestamp:   time.Now().UTC(),
		Username:    username,
	}

	ms.mu.Lock()
	ms.messages = append(ms.messages, msg)
	ms.mu.Unlock()

	return msg
}

// Get returns the message with the given ID.
func (ms *Messages) Get(messageID string) (Message, *errs.CustomError) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	for _, msg := range ms.messages {
		if msg.ID == messageID {
			return msg, nil
		}
	}
	return Message{}, errs.NewError(errs.ErrMessageNotFound)
}

// Delete removes the message with the given ID.
func (ms *Messages) Delete(messageID string) *errs.CustomError {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for i, msg := range ms.messages {
		if msg.ID == messageID {
			ms.messages = append(ms.messages[:i], ms.messages[i+1:]...)
			return nil
		}
	}
	return errs.NewError(errs.ErrMessageNotFound)
}

// ByRoom returns one page of a room's message history in insertion order.
func (ms *Messages) ByRoom(roomID string, limit, offset int) Page {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return paginate(ms.filter(func(m Message) bool { return m.RoomID == roomID }), limit, offset)
}

// ByUser returns one page of a user's message history in insertion order.
func (ms *Messages) ByUser(userID string, limit, offset int) Page {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return paginate(ms.filter(func(m Message) bool { return m.UserID == userID }), limit, offset)
}

// filter returns the messages matching keep. Callers must hold mu.
func (ms *Messages) filter(keep func(Message) bool) []Message {
	var out []Message
	for _, msg := range ms.messages {
		if keep(msg) {
			out = append(out, msg)
		}
	}
	return out
}

// paginate applies limit/offset windowing over matched.
func paginate(matched []Message, limit, offset int) Page {
	total := len(matched)

	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]Message, end-offset)
	copy(page, matched[offset:end])

	return Page{
		Messages: page,
		Total:    total,
		HasMore:  offset+limit < total,
	}
}
