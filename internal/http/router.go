// Package http wires the REST API: route registration, role gates and the
// JSON/SSE controllers.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/neuroplay/neuroplay/internal/auth"
	"github.com/neuroplay/neuroplay/internal/entities"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Session endpoints (login is public, the rest require a session)
	if cfg.AuthService != nil && cfg.SessionManager != nil {
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager)
		authController.RegisterRoutes(router)
	}

	usersController := NewUsersController(cfg.AuthService, cfg.Users)
	catalogController := NewCatalogController(cfg.Catalog)
	specialistsController := NewSpecialistsController(cfg.Profiles)
	childrenController := NewChildrenController(cfg.Profiles)
	progressController := NewProgressController(cfg.Progress)

	requireRole := func(roles ...entities.UserRole) gin.HandlerFunc {
		return cfg.AuthMiddleware.RequireRole(roles...)
	}

	// Any authenticated account
	router.POST("/api/auth/password", usersController.ChangePassword)
	router.GET("/api/games", catalogController.ListGames)

	// Account and catalog administration
	admin := router.Group("/api", requireRole(entities.UserRoleAdmin))
	{
		admin.POST("/specialists", usersController.RegisterSpecialist)
		admin.POST("/children", usersController.RegisterChild)
		admin.GET("/users", usersController.ListUsers)
		admin.DELETE("/users/:id", usersController.DeleteUser)

		admin.POST("/specialties", catalogController.CreateSpecialty)
		admin.DELETE("/specialties/:id", catalogController.DeleteSpecialty)
		admin.POST("/specialties/:id/games/:gameId", catalogController.LinkGame)
		admin.DELETE("/specialties/:id/games/:gameId", catalogController.UnlinkGame)
	}

	// Staff-facing reads and profile management
	staff := router.Group("/api", requireRole(entities.UserRoleAdmin, entities.UserRoleSpecialist))
	{
		staff.GET("/specialties", catalogController.ListSpecialties)
		staff.GET("/specialties/:id", catalogController.GetSpecialty)
		staff.GET("/specialties/:id/games", catalogController.GamesForSpecialty)

		staff.GET("/specialists", specialistsController.ListSpecialists)
		staff.GET("/specialists/:id", specialistsController.GetSpecialist)
		staff.PUT("/specialists/:id", specialistsController.UpdateSpecialist)
		staff.GET("/specialists/:id/children", specialistsController.ListAssignedChildren)

		staff.GET("/children", childrenController.ListChildren)
		staff.PUT("/children/:id", childrenController.UpdateChild)
		staff.PUT("/children/:id/specialist", childrenController.AssignSpecialist)
	}

	// Progress endpoints; per-child access is checked inside the handlers so
	// a child account can read its own data
	router.POST("/api/progress/sessions", progressController.RecordSession)
	router.GET("/api/children/:id", childrenController.GetChild)
	router.GET("/api/children/:id/sessions", progressController.ListSessions)
	router.GET("/api/children/:id/sessions/stream", progressController.StreamSessions)
	router.GET("/api/children/:id/summary", progressController.GetSummary)
	router.GET("/api/children/:id/summary/stream", progressController.StreamSummary)

	// Report endpoints
	if cfg.Reports != nil {
		reportsController := NewReportsController(cfg.Reports, cfg.TaskClient)
		staffReports := router.Group("/api", requireRole(entities.UserRoleAdmin, entities.UserRoleSpecialist))
		{
			staffReports.POST("/children/:id/reports", reportsController.RequestReport)
			staffReports.GET("/children/:id/reports", reportsController.ListReports)
			staffReports.GET("/reports/:id", reportsController.GetReport)
		}
	}

	return router
}
