package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vanshika/campusnav/backend/internal/auth"
	"github.com/vanshika/campusnav/backend/internal/domain"
	"github.com/vanshika/campusnav/backend/internal/navigation"
	"github.com/vanshika/campusnav/backend/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.CampusService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.CampusService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

// --- Locations ---

func (h *APIHandlers) listLocations(w http.ResponseWriter, r *http.Request) {
	filter := listFilterFromQuery(r, "category")
	locations, err := h.service.ListLocations(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list locations")
		return
	}

	resp := make([]locationResponse, 0, len(locations))
	for _, loc := range locations {
		resp = append(resp, newLocationResponse(loc))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) getLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	loc, err := h.service.GetLocation(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to fetch location")
		return
	}
	respondJSON(w, http.StatusOK, newLocationResponse(loc))
}

func (h *APIHandlers) locationNeighbors(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ids, err := h.service.Neighbors(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to fetch connections")
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	respondJSON(w, http.StatusOK, neighborsResponse{LocationID: id, ConnectedTo: ids})
}

func (h *APIHandlers) createLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	input, err := req.toCreateInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	loc, err := h.service.CreateLocation(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create location")
		return
	}
	respondJSON(w, http.StatusCreated, newLocationResponse(loc))
}

func (h *APIHandlers) updateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req locationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	update, err := req.toUpdate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	loc, err := h.service.UpdateLocation(r.Context(), id, update)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to update location")
		return
	}
	respondJSON(w, http.StatusOK, newLocationResponse(loc))
}

func (h *APIHandlers) deleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteLocation(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "failed to delete location")
		return
	}
	respondJSON(w, http.StatusOK, statusResponse{Status: "deleted", ID: id})
}

// --- Path ---

func (h *APIHandlers) findPath(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, err := strconv.ParseInt(query.Get("start_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_id must be an integer")
		return
	}
	end, err := strconv.ParseInt(query.Get("end_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_id must be an integer")
		return
	}

	path, err := h.service.ComputePath(r.Context(), start, end)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to compute path")
		return
	}
	respondJSON(w, http.StatusOK, newPathResponse(path))
}

// --- Points of interest ---

func (h *APIHandlers) listPOIs(w http.ResponseWriter, r *http.Request) {
	pois, err := h.service.ListPOIs(r.Context(), listFilterFromQuery(r, "type"))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list points of interest")
		return
	}
	resp := make([]poiResponse, 0, len(pois))
	for _, poi := range pois {
		resp = append(resp, newPOIResponse(poi))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) getPOI(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	poi, err := h.service.GetPOI(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to fetch point of interest")
		return
	}
	respondJSON(w, http.StatusOK, newPOIResponse(poi))
}

func (h *APIHandlers) createPOI(w http.ResponseWriter, r *http.Request) {
	var req poiRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	poi, err := h.service.CreatePOI(r.Context(), service.POIInput(req))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create point of interest")
		return
	}
	respondJSON(w, http.StatusCreated, newPOIResponse(poi))
}

func (h *APIHandlers) updatePOI(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req poiRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	poi, err := h.service.UpdatePOI(r.Context(), id, service.POIInput(req))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to update point of interest")
		return
	}
	respondJSON(w, http.StatusOK, newPOIResponse(poi))
}

func (h *APIHandlers) deletePOI(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeletePOI(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "failed to delete point of interest")
		return
	}
	respondJSON(w, http.StatusOK, statusResponse{Status: "deleted", ID: id})
}

// --- Emergency services ---

func (h *APIHandlers) listEmergencyServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListEmergencyServices(r.Context(), listFilterFromQuery(r, "type"))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list emergency services")
		return
	}
	resp := make([]emergencyResponse, 0, len(services))
	for _, svc := range services {
		resp = append(resp, newEmergencyResponse(svc))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) getEmergencyService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	svc, err := h.service.GetEmergencyService(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to fetch emergency service")
		return
	}
	respondJSON(w, http.StatusOK, newEmergencyResponse(svc))
}

func (h *APIHandlers) createEmergencyService(w http.ResponseWriter, r *http.Request) {
	var req emergencyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	svc, err := h.service.CreateEmergencyService(r.Context(), service.EmergencyServiceInput(req))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create emergency service")
		return
	}
	respondJSON(w, http.StatusCreated, newEmergencyResponse(svc))
}

func (h *APIHandlers) updateEmergencyService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req emergencyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	svc, err := h.service.UpdateEmergencyService(r.Context(), id, service.EmergencyServiceInput(req))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to update emergency service")
		return
	}
	respondJSON(w, http.StatusOK, newEmergencyResponse(svc))
}

func (h *APIHandlers) deleteEmergencyService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteEmergencyService(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "failed to delete emergency service")
		return
	}
	respondJSON(w, http.StatusOK, statusResponse{Status: "deleted", ID: id})
}

// --- Helpers ---

// writeServiceError maps domain and navigation errors onto HTTP statuses.
// Unexpected errors are logged and reported with the generic message.
func (h *APIHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	writeServiceError(h.logger, w, r, err, msg)
}

func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, navigation.ErrInvalidWeight):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, service.ErrForbidden.Error())
	case errors.Is(err, navigation.ErrNoPath):
		writeError(w, http.StatusNotFound, "route not found")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		logger.Warn(msg, "error", err, "path", r.URL.Path)
		writeError(w, http.StatusServiceUnavailable, "store unavailable, retry later")
	default:
		logger.Error(msg, "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

func listFilterFromQuery(r *http.Request, typeParam string) domain.ListFilter {
	query := r.URL.Query()
	return domain.ListFilter{
		Type:  query.Get(typeParam),
		Skip:  parseInt(query.Get("skip"), 0),
		Limit: parseInt(query.Get("limit"), 100),
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
