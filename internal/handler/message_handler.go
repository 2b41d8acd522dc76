/*
Package handler provides HTTP handler functions for the message catalog.
*/
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sockethub/internal/pkg/auth/jwt"
	"sockethub/internal/pkg/errs"
	"sockethub/internal/pkg/req"
	"sockethub/internal/pkg/resp"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// pageParams parses the limit/offset query parameters, clamping them to sane bounds.
func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 {
			limit = parsed
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}

// HandleRoomMessages returns one page of a room's message history.
func HandleRoomMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pageParams(r)
		page := deps.Messages.ByRoom(chi.URLParam(r, "roomID"), limit, offset)
		resp.RespondSuccess(w, r, page)
	}
}

// HandleUserMessages returns one page of a user's message history.
func HandleUserMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pageParams(r)
		page := deps.Messages.ByUser(chi.URLParam(r, "userID"), limit, offset)
		resp.RespondSuccess(w, r, page)
	}
}

type CreateMessageInput struct {
	Content     string `json:"content"`
	MessageType string `json:"message_type"`
	RoomID      string `json:"room_id"`
	UserID      string `json:"user_id"`
}

// HandleCreateMessage records a new message in the catalog.
func HandleCreateMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Content == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageContentEmpty))
			return
		}
		if input.RoomID == "" || input.UserID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		username := ""
		if identity := jwt.GetPayloadFromContext(r); identity != nil {
			username = identity.Username
		}

		msg := deps.Messages.Create(input.Content, input.MessageType, input.RoomID, input.UserID, username)
		resp.RespondSuccess(w, r, msg)
	}
}

// HandleGetMessage returns a single message by ID.
func HandleGetMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, customErr := deps.Messages.Get(chi.URLParam(r, "messageID"))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, msg)
	}
}

// HandleDeleteMessage removes a message from the catalog.
func HandleDeleteMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageID := chi.URLParam(r, "messageID")

		if customErr := deps.Messages.Delete(messageID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"message":    "Message deleted successfully",
			"message_id": messageID,
		})
	}
}
