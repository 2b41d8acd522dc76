/*
Package chat contains the core logic for real-time presence tracking, room
membership, and message broadcasting.

This file defines the RoomIndex, the pure membership bookkeeping structure
mapping room identifiers to their current member sets. It performs no I/O and
no locking of its own; serialization is the Registry's job.
*/
package chat

// RoomIndex maps room identifiers to the set of member user identifiers.
// Rooms are created implicitly on first join and never pruned when empty.
type RoomIndex struct {
	rooms map[string]map[string]struct{}
}

// NewRoomIndex returns an empty RoomIndex.
func NewRoomIndex() *RoomIndex {
	return &RoomIndex{
		rooms: make(map[string]map[string]struct{}),
	}
}

// Join adds userID to the member set of roomID, creating the room if absent.
// Re-joining an already-joined room is a no-op. It reports whether the room
// was newly created.
func (ri *RoomIndex) Join(roomID, userID string) bool {
	members, ok := ri.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		ri.rooms[roomID] = members
	}
	members[userID] = struct{}{}
	return !ok
}

// Leave removes userID from roomID's member set. It reports whether the user
// was actually a member; removing a non-member is a no-op.
func (ri *RoomIndex) Leave(roomID, userID string) bool {
	members, ok := ri.rooms[roomID]
	if !ok {
		return false
	}
	if _, member := members[userID]; !member {
		return false
	}
	delete(members, userID)
	return true
}

// RemoveUserEverywhere scans all rooms and removes userID from each, returning
// the number of rooms the user was removed from. Used by disconnect cleanup;
// O(rooms) in the worst case.
func (ri *RoomIndex) RemoveUserEverywhere(userID string) int {
	removed := 0
	for _, members := range ri.rooms {
		if _, member := members[userID]; member {
			delete(members, userID)
			removed++
		}
	}
	return removed
}

// Members returns a snapshot copy of roomID's member set. The returned slice
// is independent of the index, so callers may iterate it while the index keeps
// mutating.
func (ri *RoomIndex) Members(roomID string) []string {
	members, ok := ri.rooms[roomID]
	if !ok {
		return nil
	}
	snapshot := make([]string, 0, len(members))
	for userID := range members {
		snapshot = append(snapshot, userID)
	}
	return snapshot
}

// Contains reports whether userID is currently a member of roomID.
func (ri *RoomIndex) Contains(roomID, userID string) bool {
	members, ok := ri.rooms[roomID]
	if !ok {
		return false
	}
	_, member := members[userID]
	return member
}

// Len returns the number of tracked rooms, including empty ones.
func (ri *RoomIndex) Len() int {
	return len(ri.rooms)
}
