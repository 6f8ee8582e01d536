package backend

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/pthm/hxtodo/lib/api"
)

// Server serves the /todos REST routes over a Store.
//
// Responses follow json-server: unknown ids answer 404 with an empty JSON
// object, deletes answer 200 with an empty JSON object, and creates answer
// 201 with the stored record.
type Server struct {
	store  Store
	logger *slog.Logger
	router *mux.Router
}

// NewServer creates a Server for store.
func NewServer(store Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{store: store, logger: logger, router: mux.NewRouter()}

	s.router.Use(s.accessLog)
	s.router.Methods(http.MethodGet).Path("/todos").HandlerFunc(s.list)
	s.router.Methods(http.MethodPost).Path("/todos").HandlerFunc(s.create)
	s.router.Methods(http.MethodPatch).Path("/todos/{id}").HandlerFunc(s.update)
	s.router.Methods(http.MethodDelete).Path("/todos/{id}").HandlerFunc(s.delete)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info("handled",
			"id", requestID,
			"method", r.Method,
			"url", r.URL,
			"duration", m.Duration,
			"status", m.Code,
		)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	todos, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var t api.NewTodo
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeJSON(w, http.StatusBadRequest, struct{}{})
		return
	}
	todo, err := s.store.Create(r.Context(), t)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	var p api.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, struct{}{})
		return
	}
	todo, err := s.store.Update(r.Context(), id, p)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	s.logger.Error("store failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, struct{}{})
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	return id, err == nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write out", "err", err)
	}
}
