package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tasktracker/internal/config"
	"tasktracker/internal/service"
)

// Server aggregates the HTTP router with services.
type Server struct {
	router  *mux.Router
	authSvc *service.AuthService
	taskSvc *service.TaskService
	config  *config.Config
}

func New(authSvc *service.AuthService, taskSvc *service.TaskService, cfg *config.Config) *Server {
	s := &Server{
		authSvc: authSvc,
		taskSvc: taskSvc,
		config:  cfg,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegisterPage).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLoginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)

	r.Handle("/home", s.requireUser(http.HandlerFunc(s.handleHome))).Methods(http.MethodGet)
	r.Handle("/add_task", s.requireUser(http.HandlerFunc(s.handleAddTask))).Methods(http.MethodPost)
	r.Handle("/update_task/{task_id}", s.requireUser(http.HandlerFunc(s.handleUpdateTask))).Methods(http.MethodPost)
	r.Handle("/delete_task/{task_id}", s.requireUser(http.HandlerFunc(s.handleDeleteTask))).Methods(http.MethodPost)

	s.router = r
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.HTTPAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("[info] listening on %s", s.config.HTTPAddr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
