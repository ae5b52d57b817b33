// Package api exposes the dashboard core over HTTP for presentation
// layers to call. It owns no rendering concerns; handlers return plain
// JSON views of repository and forecast state.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dashboard/conditions"
	"dashboard/datasource"
	"dashboard/settings"
	"dashboard/todo"
)

// Server represents the dashboard API server
type Server struct {
	todos          *todo.Repository
	prefs          *settings.Repository
	forecasts      datasource.ForecastSource
	defaultPeriods int
	server         *http.Server
}

// NewServer creates a new API server over the dashboard core.
func NewServer(todos *todo.Repository, prefs *settings.Repository, forecasts datasource.ForecastSource, defaultPeriods, port int) *Server {
	mux := http.NewServeMux()

	server := &Server{
		todos:          todos,
		prefs:          prefs,
		forecasts:      forecasts,
		defaultPeriods: defaultPeriods,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	// Register handlers for the task list
	mux.HandleFunc("/api/tasks", server.handleTasks)
	mux.HandleFunc("/api/tasks/", server.handleTaskSubpath)

	// Register handlers for settings
	mux.HandleFunc("/api/vibe", server.handleVibe)
	mux.HandleFunc("/api/vibes", server.handleVibes)

	// Weather summary
	mux.HandleFunc("/api/weather", server.handleWeather)

	// Health check
	mux.HandleFunc("/api/health", server.handleHealthCheck)

	return server
}

// Start begins the API server
func (s *Server) Start() error {
	fmt.Printf("Starting API server on %s\n", s.server.Addr)
	return s.server.ListenAndServe()
}

// Handler returns the root handler. Tests serve it through httptest.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// handleTasks serves the task collection: GET lists, POST adds.
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		tasks := s.todos.List()
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tasks": tasks,
			"count": len(tasks),
		})

	case http.MethodPost:
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid request body"})
			return
		}

		count, err := s.todos.Add(req.Text)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": fmt.Sprintf("failed to add task: %v", err)})
			return
		}

		// Blank text is a silent no-op; the unchanged count says so.
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{"count": count})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleTaskSubpath serves per-task operations and bulk clears:
// POST /api/tasks/clear[?completed=1], POST /api/tasks/{i}/toggle,
// DELETE /api/tasks/{i}.
func (s *Server) handleTaskSubpath(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	rest := strings.Trim(r.URL.Path[len("/api/tasks/"):], "/")
	if rest == "" {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "task index not specified"})
		return
	}

	if rest == "clear" {
		s.handleClear(w, r)
		return
	}

	parts := strings.Split(rest, "/")
	index, err := strconv.Atoi(parts[0])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": fmt.Sprintf("invalid task index: %s", parts[0])})
		return
	}

	switch {
	case len(parts) == 2 && parts[1] == "toggle" && r.Method == http.MethodPost:
		err = s.todos.ToggleAt(index)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		err = s.todos.RemoveAt(index)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if errors.Is(err, todo.ErrIndexOutOfRange) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": fmt.Sprintf("no task at index %d", index)})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"count": s.todos.Count()})
}

// handleClear empties the list, or only its completed tasks when the
// completed query flag is set.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var err error
	if r.URL.Query().Get("completed") != "" {
		err = s.todos.ClearCompleted()
	} else {
		err = s.todos.ClearAll()
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"count": s.todos.Count()})
}

// handleVibe serves the current vibe: GET reads, PUT updates.
func (s *Server) handleVibe(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"vibe": s.prefs.Vibe()})

	case http.MethodPut:
		var req struct {
			Vibe string `json:"vibe"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid request body"})
			return
		}

		if err := s.prefs.SetVibe(req.Vibe); err != nil {
			if errors.Is(err, settings.ErrInvalidChoice) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": fmt.Sprintf("unknown vibe: %s", req.Vibe)})
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"vibe": s.prefs.Vibe()})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleVibes returns the enumerated vibe set for constrained selection.
func (s *Server) handleVibes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"vibes":   settings.Vibes,
		"default": settings.Vibes[0],
	})
}

// handleWeather fetches the forecast, classifies each period, and returns
// the summary. Provider failure is one non-fatal condition: the handler
// answers 503 and the rest of the dashboard keeps serving.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	periods := s.defaultPeriods
	if p := r.URL.Query().Get("periods"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			periods = parsed
		}
	}

	w.Header().Set("Content-Type", "application/json")

	forecast, err := s.forecasts.FetchPeriods(r.Context(), periods)
	if err != nil {
		if datasource.Unavailable(err) {
			log.Printf("Weather unavailable: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"error": "weather unavailable"})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	for i := range forecast {
		forecast[i].Icon = string(conditions.Classify(forecast[i].ShortForecast, forecast[i].Temperature))
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"periods":   forecast,
		"source":    s.forecasts.Name(),
		"timestamp": time.Now(),
	})
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
