/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
validating the user parameter, upgrading the HTTP connection to WebSocket, and driving
the connection's session until the transport closes.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"sockethub/internal/app/chat"
	"sockethub/internal/pkg/errs"
	"sockethub/internal/pkg/limiter"
	"sockethub/internal/pkg/logx"
	"sockethub/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
// Identity is taken from the path as given; channel authentication is owned by the
// collaborator that fronts this endpoint.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		userID := chi.URLParam(r, "userID")
		if userID == "" {
			logx.Warn("WebSocket request rejected: Missing user id")
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		username := r.URL.Query().Get("username")

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		conn := chat.NewConnection(userID, ws)
		session := chat.NewSession(deps.Registry, conn, username)

		go conn.WritePump()

		logx.Info("WebSocket connection established", "user_id", userID)

		// Blocks until the peer disconnects; session cleanup (deregister +
		// room sweep) runs on every exit path.
		conn.ReadPump(session)
	}
}
