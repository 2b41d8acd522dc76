/*
Package chat contains the core logic for real-time presence tracking, room
membership, and message broadcasting.

This file defines the Session struct, the per-connection protocol state
machine. It decodes inbound frames, validates them against the wire schema,
dispatches to the Registry, and sends acknowledgement or error frames back to
the client. A single malformed frame never disconnects the client.
*/
package chat

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sockethub/internal/pkg/logx"
)

// Session binds one live connection to the Registry and interprets its
// inbound frame stream. Frames from one connection are processed strictly in
// arrival order.
type Session struct {
	registry *Registry
	conn     Conn

	userID   string
	username string

	// closeOnce guarantees deregistration runs exactly once, on every exit path.
	closeOnce sync.Once

	// structured logger with session context.
	logger zerolog.Logger
}

// NewSession registers conn with the Registry and returns the session that
// will interpret its frames.
func NewSession(registry *Registry, conn Conn, username string) *Session {
	userID := conn.UserID()
	if username == "" {
		username = userID
	}

	sessionLogger := logx.Component("Session").With().
		Str("user_id", userID).
		Logger()

	registry.Register(userID, conn)

	return &Session{
		registry: registry,
		conn:     conn,
		userID:   userID,
		username: username,
		logger:   sessionLogger,
	}
}

// Close deregisters the session's connection and closes it. It is idempotent
// and runs on every read-loop exit path, graceful or not, so no room ever
// retains a member without a live connection.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.registry.Deregister(s.userID, s.conn)
		if err := s.conn.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Failed to close connection during session cleanup.")
		}
	})
}

// HandleFrame decodes and dispatches one inbound frame. Decode and validation
// failures are reported to the sender as error frames; the session stays open.
func (s *Session) HandleFrame(raw []byte) {
	var frame InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.logger.Warn().Err(err).Msg("Client sent invalid JSON.")
		s.sendError("Invalid JSON format")
		return
	}

	if err := frame.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("frame_type", string(frame.Type)).Msg("Client sent invalid frame.")
		s.sendError(fmt.Sprintf("Invalid message: %v", err))
		return
	}

	switch frame.Type {
	case FrameJoinRoom:
		s.handleJoinRoom(&frame)

	case FrameLeaveRoom:
		s.handleLeaveRoom(&frame)

	case FrameMessage:
		s.handleMessage(&frame)

	case FrameTyping:
		s.handleTyping(&frame)

	default:
		s.logger.Warn().Str("frame_type", string(frame.Type)).Msg("Client sent unknown frame type.")
		s.sendError(fmt.Sprintf("Unknown message type: %s", frame.Type))
	}
}

// handleJoinRoom processes a join_room frame and confirms it to the sender.
func (s *Session) handleJoinRoom(frame *InboundFrame) {
	s.registry.JoinRoom(frame.RoomID, s.userID)

	s.reply(RoomEventFrame{
		Type:    FrameRoomJoined,
		RoomID:  frame.RoomID,
		UserID:  s.userID,
		Message: fmt.Sprintf("Joined room %s", frame.RoomID),
	})
}

// handleLeaveRoom processes a leave_room frame and confirms it to the sender.
func (s *Session) handleLeaveRoom(frame *InboundFrame) {
	s.registry.LeaveRoom(frame.RoomID, s.userID)

	s.reply(RoomEventFrame{
		Type:    FrameRoomLeft,
		RoomID:  frame.RoomID,
		UserID:  s.userID,
		Message: fmt.Sprintf("Left room %s", frame.RoomID),
	})
}

// handleMessage broadcasts a chat message to the other room members and sends
// a message_sent acknowledgement to the sender only. The sender never receives
// an echo of its own message.
func (s *Session) handleMessage(frame *InboundFrame) {
	payload, err := encodeFrame(MessageFrame{
		Type:      FrameMessage,
		Content:   frame.Content,
		RoomID:    frame.RoomID,
		UserID:    s.userID,
		Username:  s.username,
		Timestamp: frame.Timestamp,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode message frame.")
		return
	}

	s.registry.BroadcastToRoom(frame.RoomID, payload, s.userID)

	s.reply(MessageSentFrame{
		Type:      FrameMessageSent,
		MessageID: uuid.NewString(),
		RoomID:    frame.RoomID,
	})
}

// handleTyping relays a typing indicator to the other room members. No
// acknowledgement is sent to the sender.
func (s *Session) handleTyping(frame *InboundFrame) {
	payload, err := encodeFrame(TypingFrame{
		Type:     FrameTyping,
		UserID:   s.userID,
		Username: s.username,
		RoomID:   frame.RoomID,
		IsTyping: true,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode typing frame.")
		return
	}

	s.registry.BroadcastToRoom(frame.RoomID, payload, s.userID)
}

// reply sends an acknowledgement frame straight to this session's connection.
func (s *Session) reply(frame any) {
	payload, err := encodeFrame(frame)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode reply frame.")
		return
	}

	if err := s.conn.Send(payload); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to queue reply frame.")
	}
}

// sendError reports a protocol violation to the sender. The connection stays
// open.
func (s *Session) sendError(message string) {
	s.reply(ErrorFrame{
		Type:    FrameError,
		Message: message,
	})
}
