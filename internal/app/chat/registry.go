/*
Package chat contains the core logic for real-time presence tracking, room
membership, and message broadcasting.

This file defines the Registry struct, the single shared authority for
connection and room-membership state. Every mutation is atomic with respect
to every other mutation; broadcasts snapshot membership before delivering.
*/
package chat

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"sockethub/internal/pkg/logx"
	"sockethub/internal/pkg/metrics"
)

// Registry owns the set of live connections and the room index. It is
// constructed once at service startup and injected into every connection
// session; it lives for the process lifetime.
type Registry struct {
	// mu serializes all mutations of connections and rooms.
	mu sync.Mutex

	// connections maps user IDs to their single live connection.
	connections map[string]Conn

	// rooms is the membership index; only touched under mu.
	rooms *RoomIndex

	// structured logger with Registry context.
	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	registryLogger := logx.Component("Registry")

	return &Registry{
		connections: make(map[string]Conn),
		rooms:       NewRoomIndex(),
		logger:      registryLogger,
	}
}

// Register installs conn as the live connection for userID. If a connection
// already exists for that user it is closed first, so a reconnect without a
// clean disconnect never leaks a dangling duplex channel.
func (r *Registry) Register(userID string, conn Conn) {
	r.mu.Lock()
	previous, replaced := r.connections[userID]
	r.connections[userID] = conn
	count := len(r.connections)
	r.mu.Unlock()

	if replaced {
		r.logger.Warn().Str("user_id", userID).Msg("User already connected. Closing old connection for replacement.")
		if err := previous.Close(); err != nil {
			r.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to close replaced connection.")
		}
	}

	if c, ok := conn.(*Connection); ok {
		c.markOpen()
	}

	metrics.ActiveConnections.Set(float64(count))
	r.logger.Info().Str("user_id", userID).Int("total_connections", count).Msg("User connected.")
}

// Deregister removes the connection entry for userID and sweeps the user out
// of every room, so no room retains a stale member. A deregister for a
// connection that has already been replaced is ignored; the replacement is
// live and keeps its memberships. Passing conn == nil deregisters
// unconditionally.
func (r *Registry) Deregister(userID string, conn Conn) {
	r.mu.Lock()

	current, ok := r.connections[userID]
	if ok && conn != nil && current != conn {
		r.mu.Unlock()
		r.logger.Info().Str("user_id", userID).Msg("Ignoring deregister for stale connection.")
		return
	}

	if ok {
		delete(r.connections, userID)
	}
	removed := r.rooms.RemoveUserEverywhere(userID)
	count := len(r.connections)

	r.mu.Unlock()

	metrics.ActiveConnections.Set(float64(count))
	r.logger.Info().
		Str("user_id", userID).
		Int("rooms_left", removed).
		Int("total_connections", count).
		Msg("User disconnected.")
}

// JoinRoom adds userID to roomID, creating the room on first join. Joining is
// deliberately lenient: the user is not required to hold a live connection
// yet, which tolerates joins racing the transport handshake.
func (r *Registry) JoinRoom(roomID, userID string) {
	r.mu.Lock()
	created := r.rooms.Join(roomID, userID)
	roomCount := r.rooms.Len()
	r.mu.Unlock()

	if created {
		r.logger.Info().Str("room_id", roomID).Msg("New room created.")
		metrics.TrackedRooms.Set(float64(roomCount))
	}
	r.logger.Info().Str("room_id", roomID).Str("user_id", userID).Msg("User joined room.")
}

// LeaveRoom removes userID from roomID. Leaving a room the user is not a
// member of is benign and only logged.
func (r *Registry) LeaveRoom(roomID, userID string) {
	r.mu.Lock()
	removed := r.rooms.Leave(roomID, userID)
	r.mu.Unlock()

	if !removed {
		r.logger.Warn().Str("room_id", roomID).Str("user_id", userID).Msg("User tried to leave room but was not in it.")
		return
	}
	r.logger.Info().Str("room_id", roomID).Str("user_id", userID).Msg("User left room.")
}

// SendPersonal delivers payload to userID's live connection. It reports
// ErrRecipientNotConnected when the user has no connection, and a
// DeliveryError when the write fails; a failed write evicts the connection.
func (r *Registry) SendPersonal(userID string, payload []byte) error {
	r.mu.Lock()
	conn, ok := r.connections[userID]
	r.mu.Unlock()

	if !ok {
		return ErrRecipientNotConnected
	}

	if err := conn.Send(payload); err != nil {
		metrics.DeliveryFailures.Inc()
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("Delivery failed, evicting connection.")

		r.Deregister(userID, conn)
		if closeErr := conn.Close(); closeErr != nil {
			r.logger.Error().Err(closeErr).Str("user_id", userID).Msg("Failed to close evicted connection.")
		}

		var deliveryErr *DeliveryError
		if errors.As(err, &deliveryErr) {
			return err
		}
		return &DeliveryError{UserID: userID, Err: err}
	}

	metrics.FramesDelivered.Inc()
	return nil
}

// BroadcastToRoom delivers payload to every member of roomID except
// excludeUserID. Membership is snapshotted at the instant of the call, so a
// concurrent leave or disconnect cannot corrupt the iteration; one member's
// failure never prevents delivery attempts to the rest.
func (r *Registry) BroadcastToRoom(roomID string, payload []byte, excludeUserID string) {
	r.mu.Lock()
	members := r.rooms.Members(roomID)
	r.mu.Unlock()

	if members == nil {
		r.logger.Warn().Str("room_id", roomID).Msg("Broadcast to unknown room.")
		return
	}

	metrics.Broadcasts.Inc()
	r.logger.Info().Str("room_id", roomID).Int("members", len(members)).Msg("Broadcasting to room.")

	for _, userID := range members {
		if userID == excludeUserID {
			continue
		}

		err := r.SendPersonal(userID, payload)
		switch {
		case err == nil:
		case errors.Is(err, ErrRecipientNotConnected):
			r.logger.Info().Str("user_id", userID).Str("room_id", roomID).Msg("Skipping member without live connection.")
		default:
			r.logger.Warn().Err(err).Str("user_id", userID).Str("room_id", roomID).Msg("Broadcast delivery failed for member.")
		}
	}
}

// RoomMembers returns a snapshot of roomID's current member set. Exposed for
// the REST layer, which reports live room occupancy.
func (r *Registry) RoomMembers(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rooms.Members(roomID)
}

// IsConnected reports whether userID currently holds a live connection.
func (r *Registry) IsConnected(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.connections[userID]
	return ok
}

// Stats returns the number of tracked rooms and live connections.
func (r *Registry) Stats() (rooms, connections int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rooms.Len(), len(r.connections)
}
