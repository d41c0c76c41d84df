package rsvp_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rsvp-service/internal/logger"
	"rsvp-service/internal/models"
	"rsvp-service/internal/rsvp/service"
)

type Handler struct {
	RSVPService *service.RSVPService
	Logger      *logger.Logger
}

func NewHandler(rsvpService *service.RSVPService, log *logger.Logger) *Handler {
	return &Handler{
		RSVPService: rsvpService,
		Logger:      log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/rsvp", h.SubmitRSVP)
		r.Get("/rsvp", h.ListRSVPs)
		r.Put("/rsvp/{id}", h.UpdateRSVP)
		r.Delete("/rsvp/{id}", h.DeleteRSVP)
		r.Get("/stats", h.GetStats)
	})
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	rsvp, err := h.RSVPService.Submit(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "SubmitRSVP", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("SubmitRSVP: created rsvp id=%d", rsvp.ID))

	h.writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "RSVP submitted successfully"})
}

func (h *Handler) ListRSVPs(w http.ResponseWriter, r *http.Request) {
	rsvps, err := h.RSVPService.List(r.Context())
	if err != nil {
		h.writeServiceError(w, "ListRSVPs", err)
		return
	}

	h.writeJSON(w, http.StatusOK, rsvps)
}

func (h *Handler) UpdateRSVP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusNotFound, statusResponse{Success: false, Message: "RSVP not found"})
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	if err := h.RSVPService.Update(r.Context(), id, req); err != nil {
		h.writeServiceError(w, "UpdateRSVP", err)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "RSVP updated successfully"})
}

func (h *Handler) DeleteRSVP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusNotFound, statusResponse{Success: false, Message: "RSVP not found"})
		return
	}

	if err := h.RSVPService.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, "DeleteRSVP", err)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "RSVP deleted successfully"})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.RSVPService.Stats(r.Context())
	if err != nil {
		h.writeServiceError(w, "GetStats", err)
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

// decodeRequest parses the shared submission body. A missing or
// undecodable body is a request error, never a server error.
func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (models.RSVPRequest, bool) {
	var req *models.RSVPRequest

	if r.Body == nil {
		h.writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: "No data provided"})
		return models.RSVPRequest{}, false
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			h.Logger.Warn("API", fmt.Sprintf("Rejected body with bad field type %q: %v", typeErr.Field, err))
			h.writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: "Invalid count values"})
			return models.RSVPRequest{}, false
		}
		h.Logger.Warn("API", fmt.Sprintf("Rejected undecodable body: %v", err))
		h.writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: "No data provided"})
		return models.RSVPRequest{}, false
	}

	// A literal JSON null decodes without error but carries no mapping.
	if req == nil {
		h.writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: "No data provided"})
		return models.RSVPRequest{}, false
	}

	return *req, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.Logger.Warn("API", fmt.Sprintf("%s: validation failed: %v", op, err))
		h.writeJSON(w, http.StatusBadRequest, statusResponse{Success: false, Message: validationErr.Message})
	case errors.Is(err, service.ErrNotFound):
		h.Logger.Warn("API", fmt.Sprintf("%s: not found: %v", op, err))
		h.writeJSON(w, http.StatusNotFound, statusResponse{Success: false, Message: "RSVP not found"})
	default:
		// Store failures stay internal: the caller only learns that the
		// operation did not happen.
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		h.writeJSON(w, http.StatusInternalServerError, statusResponse{Success: false, Message: "Internal server error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to encode response: %v", err))
	}
}
