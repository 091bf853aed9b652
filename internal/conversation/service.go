package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/wellfit/gym-ai-concierge/internal/assistant"
	"github.com/wellfit/gym-ai-concierge/internal/faq"
	"github.com/wellfit/gym-ai-concierge/internal/guardrail"
	"github.com/wellfit/gym-ai-concierge/internal/threads"
	"github.com/wellfit/gym-ai-concierge/internal/tickets"
	"github.com/wellfit/gym-ai-concierge/pkg/logging"
)

// Source identifies which stage produced the user-facing reply.
const (
	SourceFAQ       = "faq"
	SourceAssistant = "assistant"
	SourceGuardrail = "guardrail"
)

// WebhookResponse is the body returned to the automation platform.
type WebhookResponse struct {
	Response      string `json:"response"`
	ThreadID      string `json:"threadId,omitempty"`
	UserID        string `json:"userId"`
	Success       bool   `json:"success"`
	Escalated     bool   `json:"escalated"`
	TicketID      string `json:"ticketId,omitempty"`
	ViolationType string `json:"violationType,omitempty"`
	Source        string `json:"source"`
	Platform      string `json:"platform"`
}

// FAQMiddleware is the FAQ short-circuit stage.
type FAQMiddleware interface {
	Process(ctx context.Context, userID, message string) (*faq.Answer, error)
}

// Engine drives assistant threads and runs.
type Engine interface {
	EnsureThread(ctx context.Context, storedThreadID string) (threadID string, created bool, err error)
	SendMessage(ctx context.Context, threadID, text string) error
	Run(ctx context.Context, threadID string, executor assistant.ToolExecutor) (*assistant.RunResult, error)
}

// Metrics counts webhook traffic and guardrail trips.
type Metrics interface {
	ObserveWebhook(platform, source string)
	ObserveWebhookLatency(source string, seconds float64)
	ObserveGuardrailTrip(violation string)
}

// Service orchestrates one webhook call end to end: guardrail pre-screens,
// FAQ short-circuit, assistant run with tool-call loop, output guardrails,
// escalation.
type Service struct {
	faqMW   FAQMiddleware
	engine  Engine
	threads threads.Store
	tickets TicketCreator
	tools   assistant.ToolExecutor
	metrics Metrics
	logger  *logging.Logger
}

// NewService creates the conversation orchestrator.
func NewService(faqMW FAQMiddleware, engine Engine, threadStore threads.Store, creator TicketCreator, tools assistant.ToolExecutor, m Metrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		faqMW:   faqMW,
		engine:  engine,
		threads: threadStore,
		tickets: creator,
		tools:   tools,
		metrics: m,
		logger:  logger,
	}
}

// Process handles one normalized inbound message. Guardrail trips and FAQ
// misses are not errors: they produce successful responses with
// escalated=true and a ticket reference. Only upstream failures return an
// error, which the handler maps to a 500.
func (s *Service) Process(ctx context.Context, msg NormalizedMessage) (*WebhookResponse, error) {
	start := time.Now()
	resp, err := s.process(ctx, msg)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveWebhook(msg.Platform, resp.Source)
		s.metrics.ObserveWebhookLatency(resp.Source, time.Since(start).Seconds())
	}
	return resp, nil
}

func (s *Service) process(ctx context.Context, msg NormalizedMessage) (*WebhookResponse, error) {
	// Input pre-screens run before any external call is made.
	if guardrail.IsNonsenseOrUnknown(msg.Message) {
		return s.escalate(ctx, msg, "", guardrail.ViolationNonsense, tickets.CategoryNonsenseQuery, guardrail.NonsenseReply)
	}
	if guardrail.IsRefundInquiry(msg.Message) {
		return s.escalate(ctx, msg, "", guardrail.ViolationRefundInquiry, tickets.CategoryRefundInquiry, guardrail.RefundInquiryReply)
	}

	answer, err := s.faqMW.Process(ctx, msg.UserID, msg.Message)
	if err != nil {
		return nil, fmt.Errorf("conversation: faq stage: %w", err)
	}
	if answer != nil {
		return &WebhookResponse{
			Response:  answer.Reply,
			UserID:    msg.UserID,
			Success:   true,
			Escalated: answer.Escalated,
			TicketID:  answer.TicketID,
			Source:    SourceFAQ,
			Platform:  msg.Platform,
		}, nil
	}

	return s.runAssistant(ctx, msg)
}

func (s *Service) runAssistant(ctx context.Context, msg NormalizedMessage) (*WebhookResponse, error) {
	stored := msg.ThreadID
	if stored == "" {
		persisted, ok, err := s.threads.Get(ctx, msg.UserID)
		if err != nil {
			return nil, fmt.Errorf("conversation: load thread mapping: %w", err)
		}
		if ok {
			stored = persisted
		}
	}

	threadID, created, err := s.engine.EnsureThread(ctx, stored)
	if err != nil {
		return nil, err
	}
	if created {
		if err := s.threads.Put(ctx, msg.UserID, threadID); err != nil {
			return nil, fmt.Errorf("conversation: persist thread mapping: %w", err)
		}
	}

	if err := s.engine.SendMessage(ctx, threadID, msg.Message); err != nil {
		return nil, err
	}
	result, err := s.engine.Run(ctx, threadID, s.tools)
	if err != nil {
		return nil, err
	}

	// Tool failures did not abort the run, but staff still need to see them.
	ticketID := ""
	if len(result.ToolErrors) > 0 {
		first := result.ToolErrors[0]
		if t, err := s.createTicket(ctx, msg, threadID, tickets.CategoryToolError, fmt.Sprintf("tool %s failed: %s (user message: %s)", first.Tool, first.Err, msg.Message)); err == nil {
			ticketID = t.ID
		}
	}

	if result.Outcome != assistant.OutcomeCompleted {
		s.logger.Warn("assistant run did not complete", "user_id", msg.UserID, "outcome", string(result.Outcome))
		resp, err := s.escalate(ctx, msg, threadID, "", tickets.CategoryHumanHandoff, guardrail.ToolErrorReply)
		if err != nil {
			return nil, err
		}
		return resp, nil
	}

	reply := result.Reply
	if guardrail.IsNonsenseOrUnknown(reply) || guardrail.IsLowConfidence(reply) {
		return s.escalate(ctx, msg, threadID, guardrail.ViolationLowConfidence, tickets.CategoryLowConfidence, guardrail.LowConfidenceReply)
	}
	if phrase, found := guardrail.ContainsRefundPromise(reply); found {
		s.logger.Warn("assistant reply contained refund promise", "user_id", msg.UserID, "phrase", phrase)
		return s.escalate(ctx, msg, threadID, guardrail.ViolationRefundPromise, tickets.CategoryRefundViolation, guardrail.RefundPromiseReply)
	}

	return &WebhookResponse{
		Response: reply,
		ThreadID: threadID,
		UserID:   msg.UserID,
		Success:  true,
		TicketID: ticketID,
		Source:   SourceAssistant,
		Platform: msg.Platform,
	}, nil
}

func (s *Service) escalate(ctx context.Context, msg NormalizedMessage, threadID string, violation guardrail.ViolationType, category tickets.Category, reply string) (*WebhookResponse, error) {
	if s.metrics != nil && violation != "" {
		s.metrics.ObserveGuardrailTrip(string(violation))
	}

	resp := &WebhookResponse{
		Response:      reply,
		ThreadID:      threadID,
		UserID:        msg.UserID,
		Success:       true,
		Escalated:     true,
		ViolationType: string(violation),
		Source:        SourceGuardrail,
		Platform:      msg.Platform,
	}

	ticket, err := s.createTicket(ctx, msg, threadID, category, msg.Message)
	if err != nil {
		// The user still gets the handoff reply; staff lose the ticket, which
		// is logged inside the ticket service.
		return resp, nil
	}
	resp.TicketID = ticket.ID
	return resp, nil
}

func (s *Service) createTicket(ctx context.Context, msg NormalizedMessage, threadID string, category tickets.Category, message string) (*tickets.Ticket, error) {
	ticket, err := s.tickets.Create(ctx, tickets.CreateRequest{
		UserID:      msg.UserID,
		Message:     message,
		ContactInfo: tickets.PlaceholderContact(),
		Category:    category,
		ThreadID:    threadID,
	})
	if err != nil {
		s.logger.Error("ticket creation failed", "user_id", msg.UserID, "category", string(category), "error", err)
		return nil, err
	}
	return ticket, nil
}
