package adapthttp

import (
	"errors"
	"net/http"
	"strconv"

	"sortstore/internal/app"
)

func (s *Server) handleArrayCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user := userFrom(r)
	size, _ := intQuery(r, "size") // missing or malformed reads as 0, rejected below

	values, err := s.arrays.Create(r.Context(), user.ID, size)
	switch {
	case errors.Is(err, app.ErrInvalidSize):
		writeErrorMsg(w, http.StatusBadRequest, "Size must be > 0")
	case err != nil:
		writeErrorMsg(w, http.StatusInternalServerError, "internal error")
	default:
		s.recordHistory(r, user.ID, "POST /array/create")
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Array created/updated",
			"array":   values,
		})
	}
}

func (s *Server) handleArray(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleArrayGet(w, r)
	case http.MethodPatch:
		s.handleArrayPatch(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleArrayGet(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	values, err := s.arrays.Get(r.Context(), user.ID)
	switch {
	case errors.Is(err, app.ErrArrayNotFound):
		writeErrorMsg(w, http.StatusNotFound, "Array not found")
	case err != nil:
		writeErrorMsg(w, http.StatusInternalServerError, "internal error")
	default:
		s.recordHistory(r, user.ID, "GET /array")
		writeJSON(w, http.StatusOK, map[string]any{"array": values})
	}
}

func (s *Server) handleArrayPatch(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	q := r.URL.Query()

	var newSize *int
	if v := q.Get("newSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "newSize must be an integer")
			return
		}
		newSize = &n
	}

	newValues, ok := intsQuery(r, "newValues")
	if !ok {
		writeErrorMsg(w, http.StatusBadRequest, "newValues must be integers")
		return
	}

	values, err := s.arrays.Patch(r.Context(), user.ID, newSize, newValues)
	switch {
	case errors.Is(err, app.ErrArrayNotFound):
		writeErrorMsg(w, http.StatusNotFound, "Array not found. Create an array first (/array/create)")
	case errors.Is(err, app.ErrNothingToUpdate):
		// The original API signals the no-op under a "message" key, not
		// "error"; preserved for compatibility.
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "Nothing to update. Provide newSize>0 or newValues.",
		})
	case err != nil:
		writeErrorMsg(w, http.StatusInternalServerError, "internal error")
	default:
		s.recordHistory(r, user.ID, "PATCH /array")
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Array updated",
			"array":   values,
		})
	}
}

func (s *Server) handleArraySort(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user := userFrom(r)
	sorted, err := s.arrays.SortShell(r.Context(), user.ID)
	switch {
	case errors.Is(err, app.ErrArrayNotFound):
		writeErrorMsg(w, http.StatusNotFound, "Array not found")
	case err != nil:
		writeErrorMsg(w, http.StatusInternalServerError, "internal error")
	default:
		s.recordHistory(r, user.ID, "POST /array/sort/shell")
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Shell sort completed",
			"array":   sorted,
		})
	}
}
