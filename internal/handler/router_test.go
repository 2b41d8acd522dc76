package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sockethub/internal/app/chat"
	"sockethub/internal/app/store"
	"sockethub/internal/configs"
	"sockethub/internal/pkg/errs"
)

func newTestRouter() http.Handler {
	return Router(&AppDeps{
		Registry: chat.NewRegistry(),
		Config: &configs.AppConfig{
			Environment: "development",
			Port:        8080,
			JWTSecret:   "test-secret",
		},
		Rooms:    store.NewRooms(),
		Messages: store.NewMessages(),
	})
}

// doJSON performs a request against the router and decodes the standard
// response envelope.
func doJSON(t *testing.T, router http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec.Code, envelope
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter()

	status, envelope := doJSON(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)

	data := envelope["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "sockethub-chat", data["service"])
}

func TestRouter_ListRooms(t *testing.T) {
	router := newTestRouter()

	status, envelope := doJSON(t, router, http.MethodGet, "/api/rooms/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, envelope["code"])

	data := envelope["data"].(map[string]any)
	assert.EqualValues(t, 2, data["total"])

	rooms := data["rooms"].([]any)
	require.Len(t, rooms, 2)
	assert.Equal(t, "General", rooms[0].(map[string]any)["name"])
}

func TestRouter_CreateAndGetRoom(t *testing.T) {
	router := newTestRouter()

	status, envelope := doJSON(t, router, http.MethodPost, "/api/rooms/",
		`{"name":"Random","description":"Off-topic chatter","is_private":false}`)
	require.Equal(t, http.StatusOK, status)

	created := envelope["data"].(map[string]any)
	assert.Equal(t, "Random", created["name"])
	assert.Equal(t, "anonymous", created["created_by"])

	roomID := created["id"].(string)
	status, envelope = doJSON(t, router, http.MethodGet, "/api/rooms/"+roomID, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Random", envelope["data"].(map[string]any)["name"])
}

func TestRouter_CreateRoomRequiresName(t *testing.T) {
	router := newTestRouter()

	status, envelope := doJSON(t, router, http.MethodPost, "/api/rooms/", `{"description":"no name"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.EqualValues(t, errs.ErrInvalidParams, envelope["code"])
}

func TestRouter_GetRoomNotFound(t *testing.T) {
	router := newTestRouter()

	status, envelope := doJSON(t, router, http.MethodGet, "/api/rooms/room-missing", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.EqualValues(t, errs.ErrRoomNotFound, envelope["code"])
}

func TestRouter_JoinAndLeaveRoom(t *testing.T) {
	router := newTestRouter()

	status, envelope := doJSON(t, router, http.MethodPost, "/api/rooms/room-1/join", `{"user_id":"alice"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Successfully joined room", envelope["data"].(map[string]any)["message"])

	status, envelope = doJSON(t, router, http.MethodPost, "/api/rooms/room-1/leave", `{"user_id":"alice"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Successfully left room", envelope["data"].(map[string]any)["message"])
}

func TestRouter_CreateMessageValidation(t *testing.T) {
	router := newTestRouter()

	status, envelope := doJSON(t, router, http.MethodPost, "/api/messages/",
		`{"room_id":"room-1","user_id":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.EqualValues(t, errs.ErrMessageContentEmpty, envelope["code"])
}

func TestRouter_MessageLifecycle(t *testing.T) {
	router := newTestRouter()

	status, envelope := doJSON(t, router, http.MethodPost, "/api/messages/",
		`{"content":"hello","room_id":"room-1","user_id":"alice"}`)
	require.Equal(t, http.StatusOK, status)

	created := envelope["data"].(map[string]any)
	messageID := created["id"].(string)
	assert.Equal(t, "text", created["message_type"])

	status, envelope = doJSON(t, router, http.MethodGet, "/api/messages/room/room-1?limit=10&offset=0", "")
	require.Equal(t, http.StatusOK, status)

	page := envelope["data"].(map[string]any)
	assert.EqualValues(t, 1, page["total"])
	assert.Equal(t, false, page["has_more"])

	status, _ = doJSON(t, router, http.MethodDelete, "/api/messages/"+messageID, "")
	require.Equal(t, http.StatusOK, status)

	status, envelope = doJSON(t, router, http.MethodGet, "/api/messages/"+messageID, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.EqualValues(t, errs.ErrMessageNotFound, envelope["code"])
}

func TestRouter_RoomUsersReflectsRegistry(t *testing.T) {
	registry := chat.NewRegistry()
	router := Router(&AppDeps{
		Registry: registry,
		Config: &configs.AppConfig{
			Environment: "development",
			Port:        8080,
			JWTSecret:   "test-secret",
		},
		Rooms:    store.NewRooms(),
		Messages: store.NewMessages(),
	})

	registry.JoinRoom("room-1", "alice")
	registry.JoinRoom("room-1", "bob")

	status, envelope := doJSON(t, router, http.MethodGet, "/api/rooms/room-1/users", "")
	require.Equal(t, http.StatusOK, status)

	data := envelope["data"].(map[string]any)
	assert.EqualValues(t, 2, data["total"])

	users := data["users"].([]any)
	assert.Len(t, users, 2)
}

func TestRouter_AuthRateLimit(t *testing.T) {
	router := newTestRouter()

	// The short username fails validation before the handler touches the
	// user store, so the requests only exercise the limiter.
	var lastStatus int
	var lastEnvelope map[string]any
	for i := 0; i <= AuthBurst; i++ {
		lastStatus, lastEnvelope = doJSON(t, router, http.MethodPost, "/api/auth/signup",
			`{"username":"ab","email":"ab@example.com","password":"secretpass"}`)
	}

	assert.Equal(t, http.StatusTooManyRequests, lastStatus)
	assert.EqualValues(t, errs.ErrRateLimitExceeded, lastEnvelope["code"])
}
