package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"daily-menu/menutree"
	"daily-menu/models"
	"daily-menu/services"

	"github.com/go-chi/chi/v5"
)

var errInvalidDate = errors.New("date must be YYYY-MM-DD")

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

type MenusResponse struct {
	From  string           `json:"from"`
	Menus []models.DayMenu `json:"menus"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if err := s.ping(r.Context()); err != nil {
		s.log.Warnw("health check: database", "error", err)
		dbStatus = "error"
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: s.now(),
		Services:  map[string]string{"database": dbStatus},
	}
	status := http.StatusOK
	if dbStatus != "ok" {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, resp)
}

// listMenusHandler returns published menus from ?from= (default today) on.
func (s *Server) listMenusHandler(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	if from == "" {
		from = menutree.MinDate(s.now)
	}
	if !validDate(from) {
		s.errorJSON(w, http.StatusBadRequest, errInvalidDate)
		return
	}

	menus, err := s.menus.ListPublished(r.Context(), from)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if menus == nil {
		menus = []models.DayMenu{}
	}
	s.writeJSON(w, http.StatusOK, MenusResponse{From: from, Menus: menus})
}

func (s *Server) getMenuHandler(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !validDate(date) {
		s.errorJSON(w, http.StatusBadRequest, errInvalidDate)
		return
	}

	menu, err := s.menus.GetPublished(r.Context(), date)
	if errors.Is(err, services.ErrMenuNotPublished) {
		s.errorJSON(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, menu)
}

func validDate(date string) bool {
	_, err := time.Parse(menutree.DateLayout, date)
	return err == nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warnw("write response", "error", err)
	}
}

func (s *Server) errorJSON(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
	s.errorJSON(w, http.StatusInternalServerError, errors.New("the server encountered a problem"))
}
