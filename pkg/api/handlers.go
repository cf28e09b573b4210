package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/lrtraviteja/contact-book-app/pkg/contacts"
	"github.com/lrtraviteja/contact-book-app/pkg/logger"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("API Working..."))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			logger.WarnCF("api", "Store ping failed", map[string]interface{}{
				"error": err.Error(),
			})
			writeJSONStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		page, err := s.service.List(r.Context(), queryInt(q.Get("page")), queryInt(q.Get("limit")))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, page)

	case http.MethodPost:
		var in contacts.Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		c, err := s.service.Create(r.Context(), in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSONStatus(w, http.StatusCreated, c)

	case http.MethodDelete:
		if r.URL.Query().Get("all") != "true" {
			writeError(w, http.StatusBadRequest, msgInvalidAll)
			return
		}
		if err := s.service.DeleteAll(r.Context()); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

func (s *Server) handleContactDetail(w http.ResponseWriter, r *http.Request) {
	// Extract id from path: /contacts/{id}
	raw := strings.TrimPrefix(r.URL.Path, "/contacts/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := s.service.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, c)

	case http.MethodDelete:
		if err := s.service.Delete(r.Context(), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

// queryInt reads the leading integer of a query value, so "2abc" is 2.
// A value with no leading digits counts as absent.
func queryInt(v string) int {
	v = strings.TrimSpace(v)
	end := 0
	if end < len(v) && (v[end] == '-' || v[end] == '+') {
		end++
	}
	digits := end
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(v[:end])
	if errors.Is(err, strconv.ErrRange) && v[0] != '-' {
		return math.MaxInt
	}
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
