package handler

import (
	"sockethub/internal/app/chat"
	"sockethub/internal/app/db"
	"sockethub/internal/app/store"
	"sockethub/internal/configs"
)

// AppDeps bundles the shared collaborators every handler may need. The
// Registry is the single process-wide presence authority; it is constructed
// once at startup and injected here rather than held as a global.
type AppDeps struct {
	Registry *chat.Registry
	Config   *configs.AppConfig
	Rooms    *store.Rooms
	Messages *store.Messages
	Users    *db.Users
}
