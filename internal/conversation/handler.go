package conversation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wellfit/gym-ai-concierge/pkg/logging"
)

// Handler wires the webhook and tool-call endpoints to the conversation
// service.
type Handler struct {
	service  *Service
	registry *Registry
	logger   *logging.Logger
}

// NewHandler creates a conversation handler.
func NewHandler(service *Service, registry *Registry, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, registry: registry, logger: logger}
}

// HandleWebhook handles POST /make/webhook.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	msg, err := ParseWebhookPayload(body)
	if err != nil {
		h.logger.Error("failed to parse webhook payload", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if msg.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if msg.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Process(r.Context(), *msg)
	if err != nil {
		h.logger.Error("failed to process message", "user_id", msg.UserID, "error", err)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

type toolCallRequest struct {
	ToolName string          `json:"tool_name"`
	ToolArgs json.RawMessage `json:"tool_args"`
}

// HandleToolCall handles POST /tool-call: direct dispatch into the same tool
// registry the assistant run loop uses.
func (h *Handler) HandleToolCall(w http.ResponseWriter, r *http.Request) {
	var req toolCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ToolName == "" {
		http.Error(w, "tool_name is required", http.StatusBadRequest)
		return
	}

	out, err := h.registry.Execute(r.Context(), req.ToolName, req.ToolArgs)
	if err != nil {
		if errors.Is(err, ErrUnknownTool) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("tool call failed", "tool", req.ToolName, "error", err)
		http.Error(w, "tool execution failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(out)); err != nil {
		h.logger.Error("failed to write tool result", "error", err)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
