// Package router assembles the HTTP surface: the public webhook, the
// bearer-key tool-call endpoint, and the JWT-protected admin routes.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wellfit/gym-ai-concierge/internal/broadcast"
	"github.com/wellfit/gym-ai-concierge/internal/conversation"
	httpmiddleware "github.com/wellfit/gym-ai-concierge/internal/http/middleware"
	"github.com/wellfit/gym-ai-concierge/internal/tickets"
	"github.com/wellfit/gym-ai-concierge/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	TicketsHandler      *tickets.Handler
	BroadcastHandler    *broadcast.Handler
	MetricsHandler      http.Handler
	ToolCallAPIKey      string
	AdminAuthSecret     string
	CORSAllowedOrigins  []string
	WebhookRateLimit    float64
	WebhookRateBurst    int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		public.Get("/healthz", handleHealth)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		webhook := public
		if cfg.WebhookRateLimit > 0 {
			webhook = public.With(httpmiddleware.RateLimit(cfg.WebhookRateLimit, cfg.WebhookRateBurst))
		}
		webhook.Post("/make/webhook", cfg.ConversationHandler.HandleWebhook)
	})

	// Tool-call endpoint, shared-key protected.
	r.Group(func(protected chi.Router) {
		protected.Use(httpmiddleware.BearerKey(cfg.ToolCallAPIKey))
		protected.Post("/tool-call", cfg.ConversationHandler.HandleToolCall)
	})

	// Admin surface, JWT protected.
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))

		admin.Route("/tickets", func(t chi.Router) {
			t.Get("/", cfg.TicketsHandler.HandleList)
			t.Get("/{ticketID}", cfg.TicketsHandler.HandleGet)
			t.Post("/{ticketID}/assign", cfg.TicketsHandler.HandleAssign)
			t.Post("/{ticketID}/resolve", cfg.TicketsHandler.HandleResolve)
		})

		admin.Route("/broadcasts", func(b chi.Router) {
			b.Post("/templates", cfg.BroadcastHandler.HandleCreateTemplate)
			b.Post("/templates/{templateID}/approve", cfg.BroadcastHandler.HandleApproveTemplate)
			b.Post("/templates/{templateID}/simulate", cfg.BroadcastHandler.HandleSimulateSend)
			b.Post("/opt-in", cfg.BroadcastHandler.HandleOptIn)
			b.Post("/opt-out", cfg.BroadcastHandler.HandleOptOut)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
