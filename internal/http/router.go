package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mlopez/lectorpdf/internal/auth"
	"github.com/mlopez/lectorpdf/internal/reader"
	"github.com/mlopez/lectorpdf/internal/storage"
)

// RouterConfig bundles the router's dependencies to keep the
// constructor's parameter list flat and testable.
type RouterConfig struct {
	Session        *reader.Session
	Store          *storage.Store
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	router.Use(cfg.SessionManager.SessionLoadSave())
	router.Use(auth.NewMiddleware(cfg.SessionManager).Handler())

	authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager)
	authController.RegisterRoutes(router)

	libraryController := NewLibraryController(cfg.Session)
	libraryController.RegisterRoutes(router)

	healthController := NewHealthController(cfg.Store, cfg.Version)
	router.GET("/health", healthController.Status)

	return router
}
