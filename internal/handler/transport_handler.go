package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/antigravity/transitcore/internal/diagserver"
	"github.com/antigravity/transitcore/internal/models"
	"github.com/antigravity/transitcore/internal/repository"
	"github.com/antigravity/transitcore/internal/routing"
	"github.com/antigravity/transitcore/internal/transit"
	"github.com/antigravity/transitcore/internal/transit/model"
)

// TransportHandler is the thin HTTP surface over the search core: it
// accepts a request, builds a transit.Request, and calls the engine (spec
// SPEC_FULL.md §11 — "kept as a thin caller of the core, not part of it").
type TransportHandler struct {
	Repo       *repository.LineRepository
	Network    *routing.Network
	Diagnostics *diagserver.Collector
}

func NewTransportHandler(repo *repository.LineRepository, network *routing.Network, diagnostics *diagserver.Collector) *TransportHandler {
	return &TransportHandler{Repo: repo, Network: network, Diagnostics: diagnostics}
}

func (h *TransportHandler) GetAllLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Repo.GetAllLines(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(lines)
}

func (h *TransportHandler) GetLineDetails(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid line ID", http.StatusBadRequest)
		return
	}

	line, stops, err := h.Repo.GetLineDetails(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"line":  line,
		"stops": stops,
	}
	json.NewEncoder(w).Encode(response)
}

// GetRoute builds a transit.Request from nearby stops around the requested
// coordinates and runs the search core directly, replacing the teacher's
// single-pattern in-handler RAPTOR call.
func (h *TransportHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	log.Info().Str("request_id", reqID).Msg("route query received")

	fromLat, _ := strconv.ParseFloat(r.URL.Query().Get("from_lat"), 64)
	fromLon, _ := strconv.ParseFloat(r.URL.Query().Get("from_lon"), 64)
	toLat, _ := strconv.ParseFloat(r.URL.Query().Get("to_lat"), 64)
	toLon, _ := strconv.ParseFloat(r.URL.Query().Get("to_lon"), 64)

	departureTime := int64(8*3600 + 30*60) // default 08:30
	if timeParam := r.URL.Query().Get("time"); timeParam != "" {
		if parsed, err := strconv.Atoi(timeParam); err == nil && parsed >= 0 && parsed < 86400 {
			departureTime = int64(parsed)
		}
	}

	reverse := strings.EqualFold(r.URL.Query().Get("mode"), "arrive_by")
	multiCriteria := strings.EqualFold(r.URL.Query().Get("profile"), "multi_criteria")

	if fromLat == 0 || toLat == 0 {
		http.Error(w, "Missing source/destination coordinates", http.StatusBadRequest)
		return
	}

	sources, err := h.Repo.GetStopsInViewport(r.Context(), fromLat-0.01, fromLon-0.01, fromLat+0.01, fromLon+0.01)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	targets, err := h.Repo.GetStopsInViewport(r.Context(), toLat-0.01, toLon-0.01, toLat+0.01, toLon+0.01)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	accessLegs := h.toLegs(sources)
	egressLegs := h.toLegs(targets)
	if len(accessLegs) == 0 || len(egressLegs) == 0 {
		http.Error(w, "No nearby stops found", http.StatusNotFound)
		return
	}

	dir := model.Forward
	if reverse {
		dir = model.Reverse
	}
	profile := model.BestTimes
	if multiCriteria {
		profile = model.MultiCriteria
	}

	req := &transit.Request{
		ID:                    reqID,
		EarliestDepartureTime: departureTime,
		SearchWindowSeconds:   300,
		MaxTransfers:          3,
		AccessLegs:            accessLegs,
		EgressLegs:            egressLegs,
		Direction:             dir,
		Profile:               profile,
	}

	resp, err := transit.Run(r.Context(), h.Network.Provider, req)
	if err != nil {
		var terr *transit.Error
		if errors.As(err, &terr) && terr.Kind == transit.InvalidInput {
			http.Error(w, terr.Reason, http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("request_id", reqID).Msg("search failed")
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	if h.Diagnostics != nil {
		h.Diagnostics.Observe(resp.Counters)
	}

	if len(resp.Paths) == 0 {
		http.Error(w, "No route found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(resp)
}

// toLegs converts nearby stops into zero-cost, zero-duration access/egress
// legs (walk time to the first/last stop is not yet modeled by the viewport
// lookup; a future iteration can weight these by actual distance).
func (h *TransportHandler) toLegs(stops []models.Stop) []model.Leg {
	legs := make([]model.Leg, 0, len(stops))
	for _, s := range stops {
		if idx, ok := h.Network.DBIDToStop[s.ID]; ok {
			legs = append(legs, model.Leg{Stop: idx})
		}
	}
	return legs
}

func (h *TransportHandler) GetStops(w http.ResponseWriter, r *http.Request) {
	minLat, _ := strconv.ParseFloat(r.URL.Query().Get("min_lat"), 64)
	minLon, _ := strconv.ParseFloat(r.URL.Query().Get("min_lon"), 64)
	maxLat, _ := strconv.ParseFloat(r.URL.Query().Get("max_lat"), 64)
	maxLon, _ := strconv.ParseFloat(r.URL.Query().Get("max_lon"), 64)

	if minLat == 0 || maxLat == 0 {
		http.Error(w, "Missing viewport coordinates", http.StatusBadRequest)
		return
	}

	stops, err := h.Repo.GetStopsInViewport(r.Context(), minLat, minLon, maxLat, maxLon)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(stops)
}

func (h *TransportHandler) GetStopDetails(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid stop ID", http.StatusBadRequest)
		return
	}

	stop, lines, err := h.Repo.GetStopDetails(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "Stop not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"stop":  stop,
		"lines": lines,
	}
	json.NewEncoder(w).Encode(response)
}
