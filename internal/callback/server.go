package callback

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/orgball2608/directorflow-agent/internal/feed"
	"github.com/orgball2608/directorflow-agent/internal/social"
	"github.com/orgball2608/directorflow-agent/pkg/config"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
	"go.uber.org/fx"
)

const landingPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>DirectorFlow</title></head>
<body><p>%s</p><p>You can close this tab and return to the DirectorFlow bot.</p></body></html>`

type Opts struct {
	fx.In
	LC fx.Lifecycle

	Social social.Manager
	Feed   *feed.Feed
	Config *config.Config
	Logger logger.Logger
}

// Server is the HTTP endpoint OAuth providers redirect back to.
type Server struct {
	social social.Manager
	feed   *feed.Feed
	logger logger.Logger
	srv    *http.Server
}

func New(opts Opts) *Server {
	s := NewServer(opts.Social, opts.Feed, opts.Logger)
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", s.srv.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
			}
			go func() {
				if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					s.logger.Error("Callback server stopped", "error", err)
				}
			}()
			s.logger.Info("Callback server listening", "addr", s.srv.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.srv.Shutdown(ctx)
		},
	})
	return s
}

func NewServer(m social.Manager, f *feed.Feed, log logger.Logger) *Server {
	return &Server{
		social: m,
		feed:   f,
		logger: log.WithComponent("Callback"),
	}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logging)

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/auth/callback", s.authCallback).Methods(http.MethodGet)
	r.HandleFunc("/", s.landing).Methods(http.MethodGet)
	return r
}

// authCallback relays the provider code and redirects so the code leaves the
// visible URL.
func (s *Server) authCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if providerErr := q.Get("error"); providerErr != "" {
		desc := q.Get("error_description")
		s.logger.Warn("Provider returned an error", "error", providerErr, "description", desc)
		s.feed.Append("❌ Authorization denied: " + providerErr)
		if err := s.social.Cancel(r.Context()); err != nil {
			s.logger.Warn("Failed to cancel pending authorization", "error", err)
		}
		http.Redirect(w, r, "/?status=denied", http.StatusSeeOther)
		return
	}

	code := q.Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	s.social.Deliver(code)
	http.Redirect(w, r, "/?status=received", http.StatusSeeOther)
}

func (s *Server) landing(w http.ResponseWriter, r *http.Request) {
	msg := "DirectorFlow agent is running."
	switch r.URL.Query().Get("status") {
	case "received":
		msg = "Authorization received. Finishing the connection..."
	case "denied":
		msg = "Authorization was denied by the provider."
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintf(w, landingPage, msg)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
