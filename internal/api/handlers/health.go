package handlers

import (
	"elevator-dispatch-service/internal/api/dto"
	"net/http"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	res := map[string]string{"status": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}

// FleetList answers the names of the mounted fleets.
func FleetList(names []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet) {
			return
		}
		writeJSON(w, r, http.StatusOK, dto.FleetListResponse{Fleets: names})
	}
}
