package tickets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wellfit/gym-ai-concierge/internal/notify"
	"github.com/wellfit/gym-ai-concierge/pkg/logging"
)

var ticketTracer = otel.Tracer("concierge/tickets")

// Metrics receives ticket counters. May be nil.
type Metrics interface {
	ObserveTicketCreated(category string)
}

// Service wraps the store with staff notification and instrumentation.
// Notification failures never fail the escalation itself.
type Service struct {
	store      Store
	sender     notify.EmailSender
	staffEmail string
	metrics    Metrics
	logger     *logging.Logger
}

// NewService creates a ticket service. sender and metrics may be nil.
func NewService(store Store, sender notify.EmailSender, staffEmail string, metrics Metrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:      store,
		sender:     sender,
		staffEmail: staffEmail,
		metrics:    metrics,
		logger:     logger,
	}
}

// Create opens a ticket and notifies staff.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Ticket, error) {
	ctx, span := ticketTracer.Start(ctx, "tickets.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("ticket.category", string(req.Category)),
		attribute.String("ticket.user_id", req.UserID),
	)

	ticket, err := s.store.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("tickets: create: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ObserveTicketCreated(string(ticket.Category))
	}

	if err := s.notifyStaff(ctx, ticket); err != nil {
		s.logger.Error("failed to notify staff", "error", err, "ticket_id", ticket.ID)
	}

	s.logger.Info("ticket created",
		"ticket_id", ticket.ID,
		"category", ticket.Category,
		"user_id", ticket.UserID,
	)
	return ticket, nil
}

// Get returns a ticket by ID.
func (s *Service) Get(ctx context.Context, id string) (*Ticket, error) {
	return s.store.Get(ctx, id)
}

// List returns tickets matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Ticket, error) {
	return s.store.List(ctx, filter)
}

// Assign records the staff member handling a ticket.
func (s *Service) Assign(ctx context.Context, id, staffMember string) error {
	if err := s.store.Assign(ctx, id, staffMember); err != nil {
		return err
	}
	s.logger.Info("ticket assigned", "ticket_id", id, "assigned_to", staffMember)
	return nil
}

// Resolve marks a ticket resolved.
func (s *Service) Resolve(ctx context.Context, id string) error {
	if err := s.store.Resolve(ctx, id); err != nil {
		return err
	}
	s.logger.Info("ticket resolved", "ticket_id", id)
	return nil
}

func (s *Service) notifyStaff(ctx context.Context, t *Ticket) error {
	if s.sender == nil || s.staffEmail == "" {
		return nil
	}
	subject, body := formatStaffEmail(t)
	return s.sender.Send(ctx, notify.EmailMessage{
		To:      s.staffEmail,
		Subject: subject,
		Body:    body,
	})
}

func formatStaffEmail(t *Ticket) (subject, body string) {
	subject = fmt.Sprintf("[%s] Ticket %s needs a human", t.Category, t.ID)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Ticket ID: %s\n", t.ID))
	sb.WriteString(fmt.Sprintf("Category: %s\n", t.Category))
	sb.WriteString(fmt.Sprintf("Created: %s\n", t.CreatedAt.Format(time.RFC1123)))
	sb.WriteString(fmt.Sprintf("User: %s\n", t.UserID))
	if t.ThreadID != "" {
		sb.WriteString(fmt.Sprintf("Thread: %s\n", t.ThreadID))
	}
	if t.ContactInfo.Name != "" {
		sb.WriteString(fmt.Sprintf("Contact: %s %s %s\n", t.ContactInfo.Name, t.ContactInfo.Phone, t.ContactInfo.Email))
	}
	sb.WriteString("\n--- Message ---\n")
	sb.WriteString(t.Message)
	sb.WriteString("\n")
	return subject, sb.String()
}
