package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mlopez/lectorpdf/internal/auth"
	"github.com/mlopez/lectorpdf/internal/config"
	http_controllers "github.com/mlopez/lectorpdf/internal/http"
	"github.com/mlopez/lectorpdf/internal/reader"
	"github.com/mlopez/lectorpdf/internal/storage"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// within the configured timeout, calling onShutdown first.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the stores, the session façade and the router, then serves.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting LectorPDF v%s", version)
	log.Printf("Data root: %s", cfg.Storage.DataRoot)

	store, err := storage.NewStore(cfg.Storage.DataRoot)
	if err != nil {
		log.Fatalf("Failed to initialize metadata store: %v", err)
	}

	authService, err := auth.NewService(cfg.Storage.DataRoot)
	if err != nil {
		log.Fatalf("Failed to initialize credential store: %v", err)
	}

	session, err := reader.NewSession(store, reader.NewHeadlessEngine())
	if err != nil {
		log.Fatalf("Failed to load library: %v", err)
	}

	sessionSecret := cfg.Auth.SessionSecret
	if sessionSecret == "" {
		sessionSecret, err = auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate session secret: %v", err)
		}
		log.Printf("AUTH_SESSION_SECRET not set, generated an ephemeral one")
	}
	csrfSecret, err := hex.DecodeString(sessionSecret)
	if err != nil || len(csrfSecret) < 32 {
		// Non-hex or short secrets are used as raw bytes
		csrfSecret = []byte(sessionSecret)
	}

	sessionManager := auth.NewSessionManager(cfg.Auth)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Session:        session,
		Store:          store,
		AuthService:    authService,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Version:        version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		// Final library flush: carries lastPage changes from this session
		if err := session.Close(); err != nil {
			log.Printf("Error flushing library on shutdown: %v", err)
		}
	})
}
