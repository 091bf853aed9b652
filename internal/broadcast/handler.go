package broadcast

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wellfit/gym-ai-concierge/pkg/logging"
)

// Handler exposes the broadcast template and opt-in endpoints.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a broadcast handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// HandleCreateTemplate registers a broadcast template.
func (h *Handler) HandleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID  string `json:"templateId"`
		Content     string `json:"content"`
		PreApproved bool   `json:"preApproved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.TemplateID) == "" || strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "templateId and content are required"})
		return
	}

	tpl, err := h.store.CreateTemplate(r.Context(), req.TemplateID, req.Content, req.PreApproved)
	if err != nil {
		h.logger.Error("failed to create template", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create template"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"templateId": req.TemplateID, "template": tpl})
}

// HandleApproveTemplate marks a template approved for sending.
func (h *Handler) HandleApproveTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	if err := h.store.ApproveTemplate(r.Context(), templateID); err != nil {
		if err == ErrTemplateNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
			return
		}
		h.logger.Error("failed to approve template", "error", err, "template_id", templateID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to approve template"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templateId": templateID, "approved": true})
}

// HandleOptIn records broadcast consent for a user.
func (h *Handler) HandleOptIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"userId"`
		ContactInfo string `json:"contactInfo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
		return
	}

	if err := h.store.OptInUser(r.Context(), req.UserID, req.ContactInfo); err != nil {
		h.logger.Error("failed to opt in user", "error", err, "user_id", req.UserID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to opt in"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"userId": req.UserID, "status": OptInActive})
}

// HandleOptOut marks a user as opted out.
func (h *Handler) HandleOptOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
		return
	}

	if err := h.store.OptOutUser(r.Context(), req.UserID); err != nil {
		h.logger.Error("failed to opt out user", "error", err, "user_id", req.UserID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to opt out"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"userId": req.UserID, "status": OptInOptedOut})
}

// HandleSimulateSend reports who would receive a broadcast.
func (h *Handler) HandleSimulateSend(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")

	result, err := h.store.SimulateSend(r.Context(), templateID)
	if err != nil {
		switch err {
		case ErrTemplateNotFound:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		case ErrNotApproved:
			writeJSON(w, http.StatusConflict, map[string]string{"error": "template not approved"})
		default:
			h.logger.Error("failed to simulate send", "error", err, "template_id", templateID)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to simulate send"})
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
