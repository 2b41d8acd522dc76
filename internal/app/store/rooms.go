/*
Package store holds the in-memory catalog backing the REST room and message
endpoints. Message durability is out of scope for this service, so both
catalogs are process-local, mutex-guarded lists seeded with a couple of
default rooms.
*/
package store

import (
	"sync"
	"time"

	"sockethub/internal/pkg/errs"
	"sockethub/internal/pkg/randx"
)

// Room describes a chat room as reported by the REST API. The user_count
// field tracks REST-level join/leave calls; live occupancy comes from the
// presence registry.
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPrivate   bool      `json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
	UserCount   int       `json:"user_count"`
	CreatedBy   string    `json:"created_by"`
}

// Rooms is the mutex-guarded room catalog.
type Rooms struct {
	mu    sync.RWMutex
	rooms []Room
}

// NewRooms returns a catalog seeded with the default public rooms.
func NewRooms() *Rooms {
	seededAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	return &Rooms{
		rooms: []Room{
			{
				ID:          "room-1",
				Name:        "General",
				Description: "General discussion room",
				CreatedAt:   seededAt,
				UserCount:   5,
				CreatedBy:   "admin",
			},
			{
				ID:          "room-2",
				Name:        "Tech Talk",
				Description: "Technology discussions",
				CreatedAt:   seededAt,
				UserCount:   3,
				CreatedBy:   "admin",
			},
		},
	}
}

// List returns a snapshot of all rooms.
func (rs *Rooms) List() []Room {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	out := make([]Room, len(rs.rooms))
	copy(out, rs.rooms)
	return out
}

// Create adds a new room and returns it.
func (rs *Rooms) Create(name, description string, isPrivate bool, createdBy string) (Room, error) {
	id, err := randx.RoomID()
	if err != nil {
		return Room{}, err
	}

	room := Room{
		ID:          id,
		Name:        name,
		Description: description,
		IsPrivate:   isPrivate,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   createdBy,
	}

	rs.mu.Lock()
	rs.rooms = append(rs.rooms, room)
	rs.mu.Unlock()

	return room, nil
}

// Get returns the room with the given ID.
func (rs *Rooms) Get(roomID string) (Room, *errs.CustomError) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	for _, room := range rs.rooms {
		if room.ID == roomID {
			return room, nil
		}
	}
	return Room{}, errs.NewError(errs.ErrRoomNotFound)
}

// Join increments the room's user count.
func (rs *Rooms) Join(roomID string) *errs.CustomError {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	for i := range rs.rooms {
		if rs.rooms[i].ID == roomID {
			rs.rooms[i].UserCount++
			return nil
		}
	}
	return errs.NewError(errs.ErrRoomNotFound)
}

// Leave decrements the room's user count, never below zero.
func (rs *Rooms) Leave(roomID string) *errs.CustomError {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	for i := range rs.rooms {
		if rs.rooms[i].ID == roomID {
			if rs.rooms[i].UserCount > 0 {
				rs.rooms[i].UserCount--
			}
			return nil
		}
	}
	return errs.NewError(errs.ErrRoomNotFound)
}
