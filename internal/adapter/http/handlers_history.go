package adapthttp

import "net/http"

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleHistoryList(w, r)
	case http.MethodDelete:
		s.handleHistoryClear(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	entries, err := s.history.List(r.Context(), user.ID)
	if err != nil {
		writeErrorMsg(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Recorded after the query: the listing never contains its own entry,
	// but the next one will.
	s.recordHistory(r, user.ID, "GET /requests_history")
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	if err := s.history.Clear(r.Context(), user.ID); err != nil {
		writeErrorMsg(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.recordHistory(r, user.ID, "DELETE /requests_history")
	writeJSON(w, http.StatusOK, map[string]any{"message": "Request history deleted"})
}
