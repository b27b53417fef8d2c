package adapthttp

import (
	"errors"
	"net/http"

	"sortstore/internal/app"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	token, err := s.auth.Register(r.Context(), q.Get("username"), q.Get("password"))
	switch {
	case errors.Is(err, app.ErrEmptyCredentials):
		writeErrorMsg(w, http.StatusBadRequest, "Username and password required")
	case errors.Is(err, app.ErrUserExists):
		writeErrorMsg(w, http.StatusBadRequest, "User already exists")
	case err != nil:
		writeErrorMsg(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "User registered successfully",
			"token":   token,
		})
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	token, err := s.auth.Login(r.Context(), q.Get("username"), q.Get("password"))
	switch {
	case errors.Is(err, app.ErrInvalidCredentials):
		writeErrorMsg(w, http.StatusUnauthorized, "invalid username or password")
	case err != nil:
		writeErrorMsg(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Login successful",
			"token":   token,
		})
	}
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user := userFrom(r)
	token, err := s.auth.ChangePassword(r.Context(), user.ID, r.URL.Query().Get("newPassword"))
	switch {
	case errors.Is(err, app.ErrEmptyPassword):
		writeErrorMsg(w, http.StatusBadRequest, "New password is required")
	case err != nil:
		writeErrorMsg(w, http.StatusInternalServerError, "internal error")
	default:
		s.recordHistory(r, user.ID, "PATCH /change_password")
		writeJSON(w, http.StatusOK, map[string]any{
			"message":  "Password changed",
			"newToken": token,
		})
	}
}
