package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/coBecT/MtsTrueTech/internal/domain"
	"github.com/coBecT/MtsTrueTech/internal/notify"
	"github.com/coBecT/MtsTrueTech/internal/ports"
	"github.com/coBecT/MtsTrueTech/internal/shared/middleware"
)

//go:embed static/*
var staticFiles embed.FS

const sessionName = "labtrack_session"

// Options carries the collaborators of the web server.
type Options struct {
	Port          int
	Experiments   ports.ExperimentRepository
	Versions      ports.VersionRepository
	Identities    ports.IdentityRepository
	Files         ports.FileStorage
	Metrics       ports.MetricsExporter
	Registry      *notify.Registry
	SessionSecret string
	// DefaultUser is shown on /profile when nobody has signed in.
	DefaultUser *domain.User
}

type Server struct {
	router         *http.ServeMux
	port           int
	experimentRepo ports.ExperimentRepository
	versionRepo    ports.VersionRepository
	identityRepo   ports.IdentityRepository
	files          ports.FileStorage
	metrics        ports.MetricsExporter
	registry       *notify.Registry
	sessionStore   *sessions.CookieStore
	defaultUser    *domain.User
	now            func() time.Time
}

func NewServer(opts Options) *Server {
	sessionStore := sessions.NewCookieStore([]byte(opts.SessionSecret))
	sessionStore.MaxAge(86400 * 30)
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	s := &Server{
		router:         http.NewServeMux(),
		port:           opts.Port,
		experimentRepo: opts.Experiments,
		versionRepo:    opts.Versions,
		identityRepo:   opts.Identities,
		files:          opts.Files,
		metrics:        opts.Metrics,
		registry:       opts.Registry,
		sessionStore:   sessionStore,
		defaultUser:    opts.DefaultUser,
		now:            time.Now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static filesystem: %v", err))
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Health check
	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Pages
	s.router.HandleFunc("GET /{$}", s.handleExperimentList)
	s.router.HandleFunc("GET /experiment/{id}", s.handleExperimentDetail)
	s.router.HandleFunc("GET /comparison", s.handleComparison)
	s.router.HandleFunc("GET /experiments/new", s.handleExperimentForm)
	s.router.HandleFunc("POST /experiments/new/preview", s.handleExperimentFormPreview)
	s.router.HandleFunc("GET /login", s.handleLogin)
	s.router.HandleFunc("POST /login", s.handleLoginSubmit)
	s.router.HandleFunc("POST /register", s.handleLoginSubmit)
	s.router.HandleFunc("GET /profile", s.handleProfile)
	s.router.HandleFunc("POST /logout", s.handleLogout)

	// Experiments API
	s.router.HandleFunc("GET /api/experiments", s.handleAPIListExperiments)
	s.router.HandleFunc("POST /api/experiments", s.handleAPICreateExperiment)
	s.router.HandleFunc("GET /api/experiments/{id}", s.handleAPIGetExperiment)

	// Versions API
	s.router.HandleFunc("GET /api/experiments/{id}/versions", s.handleAPIListVersions)
	s.router.HandleFunc("POST /api/experiments/{id}/versions", s.handleAPICreateVersion)
	s.router.HandleFunc("POST /api/versions/{id}/fork", s.handleAPIForkVersion)
	s.router.HandleFunc("POST /api/versions/{id}/status", s.handleAPIVersionStatus)
	s.router.HandleFunc("GET /api/versions/{id}", s.handleAPIGetVersion)
	s.router.HandleFunc("POST /api/versions/{id}/files", s.handleAPIAddVersionFile)
	s.router.HandleFunc("POST /api/versions/{id}/results", s.handleAPIAddVersionResult)
	s.router.HandleFunc("PUT /api/versions/{id}/metadata/{key}", s.handleAPISetVersionMetadata)

	// Notifications API
	s.router.HandleFunc("GET /api/notifications", s.handleAPIListNotifications)
	s.router.HandleFunc("POST /api/notifications", s.handleAPIAddNotification)
	s.router.HandleFunc("POST /api/notifications/read-all", s.handleAPIMarkAllRead)
	s.router.HandleFunc("POST /api/notifications/{id}/read", s.handleAPIMarkRead)
	s.router.HandleFunc("DELETE /api/notifications/{id}", s.handleAPIRemoveNotification)
	s.router.HandleFunc("GET /api/notifications/stream", s.handleNotificationStream)

	// Social login
	s.router.HandleFunc("POST /api/auth/social", s.handleAPISocialLogin)

	// Everything else
	s.router.HandleFunc("/", s.handleNotFound)
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = s.withRegistry(h)
	h = middleware.HTMX(h)
	h = middleware.WithLogger(h)
	h = chimw.Recoverer(h)
	h = chimw.RequestID(h)
	return h
}

// withRegistry makes the notification registry reachable through
// notify.FromContext for the lifetime of each request.
func (s *Server) withRegistry(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.registry != nil {
			r = r.WithContext(notify.WithRegistry(r.Context(), s.registry))
		}
		next.ServeHTTP(w, r)
	})
}

// Start listens on the configured port and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info().Str("addr", ln.Addr().String()).Msg("starting server")

	eg.Go(func() error {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Handle graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		log.Debug().Msg("shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
