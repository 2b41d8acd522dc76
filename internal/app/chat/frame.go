/*
Package chat contains the core logic for real-time presence tracking, room
membership, and message broadcasting.

This file defines the wire-level frame schema exchanged over WebSocket
connections: the inbound control/data frames sent by clients and the outbound
event frames produced by the server.
*/
package chat

import (
	"encoding/json"
	"fmt"
)

// FrameType identifies the kind of a wire frame.
type FrameType string

// Inbound frame types accepted from clients.
const (
	FrameJoinRoom  FrameType = "join_room"
	FrameLeaveRoom FrameType = "leave_room"
	FrameMessage   FrameType = "message"
	FrameTyping    FrameType = "typing"
)

// Outbound frame types produced by the server.
const (
	FrameRoomJoined  FrameType = "room_joined"
	FrameRoomLeft    FrameType = "room_left"
	FrameMessageSent FrameType = "message_sent"
	FrameError       FrameType = "error"
)

// InboundFrame is the schema every client frame must deserialize into.
// Content is optional; the remaining fields are required.
type InboundFrame struct {
	Type      FrameType `json:"type"`
	Content   string    `json:"content,omitempty"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Timestamp string    `json:"timestamp"`
}

// Validate checks the frame against the inbound schema. The user_id and
// timestamp fields are required even though attribution always uses the
// connection's identity. It does not check that the type is one of the known
// inbound types; unknown types are reported separately so the sender gets a
// distinct error message.
func (f *InboundFrame) Validate() error {
	if f.Type == "" {
		return fmt.Errorf("missing required field: type")
	}
	if f.RoomID == "" {
		return fmt.Errorf("missing required field: room_id")
	}
	if f.UserID == "" {
		return fmt.Errorf("missing required field: user_id")
	}
	if f.Timestamp == "" {
		return fmt.Errorf("missing required field: timestamp")
	}
	return nil
}

// RoomEventFrame confirms a join_room or leave_room operation to its sender.
type RoomEventFrame struct {
	Type    FrameType `json:"type"`
	RoomID  string    `json:"room_id"`
	UserID  string    `json:"user_id"`
	Message string    `json:"message"`
}

// MessageFrame carries a chat message to every other member of a room.
type MessageFrame struct {
	Type      FrameType `json:"type"`
	Content   string    `json:"content"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Timestamp string    `json:"timestamp"`
}

// MessageSentFrame acknowledges a message frame to its sender only.
type MessageSentFrame struct {
	Type      FrameType `json:"type"`
	MessageID string    `json:"message_id"`
	RoomID    string    `json:"room_id"`
}

// TypingFrame relays a typing indicator to every other member of a room.
type TypingFrame struct {
	Type     FrameType `json:"type"`
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	RoomID   string    `json:"room_id"`
	IsTyping bool      `json:"is_typing"`
}

// ErrorFrame reports a protocol violation back to the offending sender.
type ErrorFrame struct {
	Type    FrameType `json:"type"`
	Message string    `json:"message"`
}

// encodeFrame marshals an outbound frame for delivery.
func encodeFrame(frame any) ([]byte, error) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return payload, nil
}
