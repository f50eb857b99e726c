package handlers

import (
	"elevator-dispatch-service/internal/api/dto"
	"elevator-dispatch-service/internal/domain"
	"elevator-dispatch-service/internal/ports"
	"elevator-dispatch-service/internal/services"
	"log/slog"
	"net/http"
)

// FleetHandler exposes one fleet's driver operations plus its state and
// statistics. The fleet serialises the operations itself; journal writes and
// tick publishing happen after the fleet lock is released.
type FleetHandler struct {
	Fleet     *services.Fleet
	Journal   ports.RideJournal
	Publisher ports.TickPublisher
	Log       *slog.Logger
}

func (h *FleetHandler) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

func (h *FleetHandler) flush(r *http.Request) {
	if err := services.FlushEvents(r.Context(), h.Fleet, h.Journal); err != nil {
		h.logger().Error("journal flush failed", "fleet", h.Fleet.Name(), "err", err)
	}
}

// NextCommands advances the fleet one tick and answers one command per line.
func (h *FleetHandler) NextCommands(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, driverMethods...) {
		return
	}

	ev := h.Fleet.NextTick(r.Context())
	h.flush(r)
	if h.Publisher != nil {
		if err := h.Publisher.PublishTick(r.Context(), ev); err != nil {
			h.logger().Warn("publish tick failed", "fleet", ev.Fleet, "tick", ev.Tick, "err", err)
		}
	}

	writeText(w, http.StatusOK, domain.JoinCommands(ev.Commands))
}

// Reset reinitialises the building. Omitted dimensions keep their current value.
func (h *FleetHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, driverMethods...) {
		return
	}

	snap := h.Fleet.Snapshot()
	capacity := 1
	if len(snap.Cabins) > 0 {
		capacity = snap.Cabins[0].Capacity
	}

	lower, err := queryInt(r, "lowerFloor", snap.LowerFloor)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	higher, err := queryInt(r, "higherFloor", snap.HigherFloor)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	size, err := queryInt(r, "cabinSize", capacity)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	count, err := queryInt(r, "cabinCount", len(snap.Cabins))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Fleet.Reset(r.URL.Query().Get("cause"), lower, higher, size, count); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.flush(r)

	writeText(w, http.StatusOK, "")
}

// Call registers a hall call: atFloor and to (UP or DOWN).
func (h *FleetHandler) Call(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, driverMethods...) {
		return
	}

	floor, err := queryInt(r, "atFloor")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	dir, err := domain.ParseDirection(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "to must be UP or DOWN")
		return
	}

	h.Fleet.Call(floor, dir)
	writeText(w, http.StatusOK, "")
}

// Go registers the destination floorToGo chosen inside cabin.
func (h *FleetHandler) Go(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, driverMethods...) {
		return
	}

	cabin, err := queryInt(r, "cabin", 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	floor, err := queryInt(r, "floorToGo")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.Fleet.Go(cabin, floor)
	writeText(w, http.StatusOK, "")
}

func (h *FleetHandler) UserHasEntered(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, driverMethods...) {
		return
	}

	cabin, err := queryInt(r, "cabin", 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.Fleet.UserHasEntered(cabin)
	writeText(w, http.StatusOK, "")
}

func (h *FleetHandler) UserHasExited(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, driverMethods...) {
		return
	}

	cabin, err := queryInt(r, "cabin", 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.Fleet.UserHasExited(cabin)
	h.flush(r)
	writeText(w, http.StatusOK, "")
}

// State returns a JSON snapshot of the fleet.
func (h *FleetHandler) State(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, r, http.StatusOK, h.Fleet.Snapshot())
}

// Stats reports call statistics and, when a journal is configured, its totals.
func (h *FleetHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	snap := h.Fleet.Snapshot()
	res := dto.StatsResponse{
		Fleet:        snap.Name,
		Tick:         snap.Tick,
		TotalScore:   snap.TotalScore,
		CallsByFloor: snap.CallsByFloor,
		CallsByTick:  h.Fleet.CallsByTick(),
	}

	if h.Journal != nil {
		sum, err := h.Journal.Summarize(r.Context(), snap.Name)
		if err != nil {
			h.logger().Error("summarize journal failed", "fleet", snap.Name, "err", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		res.Journal = &sum
	}

	writeJSON(w, r, http.StatusOK, res)
}
