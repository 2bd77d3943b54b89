package http

import (
	"github.com/neuroplay/neuroplay/internal/auth"
	"github.com/neuroplay/neuroplay/internal/database"
	"github.com/neuroplay/neuroplay/internal/database/catalog"
	"github.com/neuroplay/neuroplay/internal/database/profiles"
	"github.com/neuroplay/neuroplay/internal/database/users"
	"github.com/neuroplay/neuroplay/internal/progress"
	"github.com/neuroplay/neuroplay/internal/reports"
	"github.com/neuroplay/neuroplay/internal/tasks"
)

// RouterConfig carries every dependency the router needs. Optional fields
// may be nil; the router skips the corresponding routes or middleware.
type RouterConfig struct {
	Database *database.Database
	Version  string

	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	Users    *users.Repository
	Profiles *profiles.Repository
	Catalog  *catalog.Repository
	Progress *progress.Repository
	Reports  *reports.Generator

	TaskClient *tasks.Client
}
