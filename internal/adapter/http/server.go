// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"sortstore/internal/app"

	"go.uber.org/zap"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth    *app.AuthService
	arrays  *app.ArrayService
	history *app.HistoryService
	log     *zap.Logger
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, arrays *app.ArrayService, history *app.HistoryService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{auth: auth, arrays: arrays, history: history, log: log}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/register", s.handleRegister)
	mux.HandleFunc("/login", s.handleLogin)

	mux.Handle("/change_password", s.authMiddleware(http.HandlerFunc(s.handleChangePassword)))
	mux.Handle("/array", s.authMiddleware(http.HandlerFunc(s.handleArray)))
	mux.Handle("/array/create", s.authMiddleware(http.HandlerFunc(s.handleArrayCreate)))
	mux.Handle("/array/sort/shell", s.authMiddleware(http.HandlerFunc(s.handleArraySort)))
	mux.Handle("/requests_history", s.authMiddleware(http.HandlerFunc(s.handleHistory)))

	return s.loggingMiddleware(mux)
}

// recordHistory appends a history entry for a handled request. Failures
// are logged, never surfaced: history is fire-and-forget for callers.
func (s *Server) recordHistory(r *http.Request, userID int64, endpoint string) {
	if _, err := s.history.Record(r.Context(), userID, endpoint); err != nil {
		s.log.Warn("record history",
			zap.String("endpoint", endpoint),
			zap.Int64("user_id", userID),
			zap.Error(err))
	}
}
