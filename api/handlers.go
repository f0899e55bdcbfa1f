package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"weather-forecast/datasource"
	"weather-forecast/logging"
	"weather-forecast/models"
	"weather-forecast/session"
	"weather-forecast/view"

	"github.com/gorilla/mux"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// StateResponse is the JSON mirror of the page
type StateResponse struct {
	State session.State `json:"state"`
	View  view.Page     `json:"view"`
}

// SearchRequest submits a city
type SearchRequest struct {
	City string `json:"city"`
}

// SearchResponse acknowledges a submitted search
type SearchResponse struct {
	RequestID uint64        `json:"requestId"`
	State     session.State `json:"state"`
}

// InputRequest updates the search box text
type InputRequest struct {
	Text string `json:"text"`
}

// CurrentResponse carries current conditions for a city
type CurrentResponse struct {
	Weather models.CurrentWeather `json:"weather"`
	View    view.Current          `json:"view"`
}

func (s *Server) page() view.Page {
	return view.Render(s.session.State(), s.now(), s.cfg.LanguageTag(), s.cfg.Units)
}

// handleIndex renders the page for the current state
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.sendHTML(w, r, s.page(), http.StatusOK)
}

// handleSearchForm handles the HTML form submission
func (s *Server) handleSearchForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.sendError(w, r, "invalid form data", http.StatusBadRequest)
		return
	}

	city := r.PostFormValue("city")
	if strings.TrimSpace(city) == "" {
		s.session.SetInput(city)
		s.sendHTML(w, r, s.page(), http.StatusBadRequest)
		return
	}

	if s.session.Submit(city) == 0 {
		s.sendError(w, r, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleGetState returns the state and its rendered view as JSON
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, StateResponse{State: s.session.State(), View: s.page()}, http.StatusOK)
}

// handleSetInput records the search box text
func (s *Server) handleSetInput(w http.ResponseWriter, r *http.Request) {
	var req InputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, r, "request body must be JSON with a text field", http.StatusBadRequest)
		return
	}

	s.session.SetInput(req.Text)
	s.sendJSON(w, StateResponse{State: s.session.State(), View: s.page()}, http.StatusOK)
}

// handleSearch submits a city and returns immediately with the pending state
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, r, "request body must be JSON with a city field", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.City) == "" {
		s.sendError(w, r, "city is required", http.StatusBadRequest)
		return
	}

	id := s.session.Submit(req.City)
	if id == 0 {
		s.sendError(w, r, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	s.logger.Info(r.Context(), "[API] search submitted", logging.Fields{"city": req.City, "request_id": id})

	s.sendJSON(w, SearchResponse{RequestID: id, State: s.session.State()}, http.StatusAccepted)
}

// handleGetCurrent fetches current conditions for a city on demand
func (s *Server) handleGetCurrent(w http.ResponseWriter, r *http.Request) {
	city := mux.Vars(r)["city"]
	if strings.TrimSpace(city) == "" {
		s.sendError(w, r, "city is required", http.StatusBadRequest)
		return
	}

	// Create a context with timeout for the upstream request
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(s.cfg.FetchTimeout))
	defer cancel()

	weather, err := s.current.GetWeather(ctx, city, s.cfg.QueryOptions())
	if err != nil {
		// 404 for unknown cities, 502 for any other upstream failure
		status := http.StatusBadGateway
		var apiErr *datasource.APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() {
			status = http.StatusNotFound
		}
		s.logger.Error(r.Context(), "[API] current weather failed", logging.Fields{"city": city}, err)
		s.sendError(w, r, datasource.DisplayMessage(err), status)
		return
	}

	s.sendJSON(w, CurrentResponse{
		Weather: weather,
		View:    view.RenderCurrent(weather, s.cfg.LanguageTag(), s.cfg.Units),
	}, http.StatusOK)
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, map[string]string{
		"status":    "ok",
		"phase":     string(s.session.State().Phase),
		"timestamp": s.now().Format(time.RFC3339),
	}, http.StatusOK)
}

func (s *Server) sendHTML(w http.ResponseWriter, r *http.Request, page view.Page, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := view.WriteHTML(w, page); err != nil {
		s.logger.Error(r.Context(), "[API] failed to render page", nil, err)
	}
}

func (s *Server) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	s.logger.Warn(r.Context(), "[API] request rejected", logging.Fields{
		"path":    r.URL.Path,
		"status":  statusCode,
		"message": message,
	})

	s.sendJSON(w, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}, statusCode)
}
