package tickets

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wellfit/gym-ai-concierge/pkg/logging"
)

// Handler exposes admin ticket management endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a ticket admin handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// HandleList returns tickets, optionally filtered by status and category.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Status:   Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Category: Category(strings.TrimSpace(r.URL.Query().Get("category"))),
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list tickets", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tickets"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tickets": list, "count": len(list)})
}

// HandleGet returns a single ticket.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ticketID")
	ticket, err := h.service.Get(r.Context(), id)
	if err == ErrNotFound {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "ticket not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to load ticket", "error", err, "ticket_id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load ticket"})
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// HandleAssign records the staff member handling a ticket.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ticketID")

	var req struct {
		AssignedTo string `json:"assignedTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.AssignedTo) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "assignedTo is required"})
		return
	}

	if err := h.service.Assign(r.Context(), id, req.AssignedTo); err != nil {
		if err == ErrNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "ticket not found"})
			return
		}
		h.logger.Error("failed to assign ticket", "error", err, "ticket_id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to assign ticket"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ticketId": id, "assignedTo": req.AssignedTo})
}

// HandleResolve marks a ticket resolved.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ticketID")

	if err := h.service.Resolve(r.Context(), id); err != nil {
		if err == ErrNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "ticket not found"})
			return
		}
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ticketId": id, "status": StatusResolved})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
