/*
Package handler provides HTTP handler functions for the room catalog.

REST join/leave mirror the catalog's user counts; live occupancy for a room
comes from the presence registry, which the room-users endpoint consults as a
library.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sockethub/internal/pkg/auth/jwt"
	"sockethub/internal/pkg/errs"
	"sockethub/internal/pkg/req"
	"sockethub/internal/pkg/resp"
)

// HandleListRooms returns every room in the catalog.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms := deps.Rooms.List()

		resp.RespondSuccess(w, r, map[string]any{
			"rooms": rooms,
			"total": len(rooms),
		})
	}
}

type CreateRoomInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

// HandleCreateRoom creates a new catalog room.
func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateRoomInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Name == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		createdBy := "anonymous"
		if identity := jwt.GetPayloadFromContext(r); identity != nil {
			createdBy = identity.Username
		}

		room, err := deps.Rooms.Create(input.Name, input.Description, input.IsPrivate, createdBy)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, room)
	}
}

// HandleGetRoom returns room details by ID.
func HandleGetRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, customErr := deps.Rooms.Get(chi.URLParam(r, "roomID"))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, room)
	}
}

type RoomMemberInput struct {
	UserID string `json:"user_id"`
}

// HandleJoinRoom records a REST-level room join.
func HandleJoinRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RoomMemberInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		roomID := chi.URLParam(r, "roomID")
		if customErr := deps.Rooms.Join(roomID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"message": "Successfully joined room",
			"room_id": roomID,
		})
	}
}

// HandleLeaveRoom records a REST-level room leave.
func HandleLeaveRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RoomMemberInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		roomID := chi.URLParam(r, "roomID")
		if customErr := deps.Rooms.Leave(roomID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"message": "Successfully left room",
			"room_id": roomID,
		})
	}
}

// HandleRoomUsers reports the room's live member set from the presence registry.
func HandleRoomUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")

		members := deps.Registry.RoomMembers(roomID)
		if members == nil {
			members = []string{}
		}

		type roomUser struct {
			UserID   string `json:"user_id"`
			IsActive bool   `json:"is_active"`
		}

		users := make([]roomUser, 0, len(members))
		for _, userID := range members {
			users = append(users, roomUser{
				UserID:   userID,
				IsActive: deps.Registry.IsConnected(userID),
			})
		}

		resp.RespondSuccess(w, r, map[string]any{
			"users": users,
			"total": len(users),
		})
	}
}
