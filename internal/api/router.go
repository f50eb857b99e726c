package api

import (
	"elevator-dispatch-service/internal/api/handlers"
	"log/slog"
	"net/http"
)

// Deps are the router's collaborators.
type Deps struct {
	// Fleets are mounted at /<name>/...; the first one also at the root.
	Fleets []*handlers.FleetHandler
	// Metrics serves /metrics when set.
	Metrics http.Handler
	Log     *slog.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	names := make([]string, 0, len(d.Fleets))
	for i, h := range d.Fleets {
		if name := h.Fleet.Name(); name != "" {
			names = append(names, name)
			mountFleet(mux, "/"+name, h)
		}
		if i == 0 {
			mountFleet(mux, "", h)
		}
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/fleets", handlers.FleetList(names))
	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics)
	}

	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return loggingMiddleware(log, mux)
}

func mountFleet(mux *http.ServeMux, prefix string, h *handlers.FleetHandler) {
	mux.HandleFunc(prefix+"/nextCommands", h.NextCommands)
	mux.HandleFunc(prefix+"/reset", h.Reset)
	mux.HandleFunc(prefix+"/call", h.Call)
	mux.HandleFunc(prefix+"/go", h.Go)
	mux.HandleFunc(prefix+"/userHasEntered", h.UserHasEntered)
	mux.HandleFunc(prefix+"/userHasExited", h.UserHasExited)
	mux.HandleFunc(prefix+"/state", h.State)
	mux.HandleFunc(prefix+"/stats", h.Stats)
}
