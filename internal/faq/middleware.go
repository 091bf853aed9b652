package faq

import (
	"context"
	"strings"

	"github.com/wellfit/gym-ai-concierge/internal/tickets"
	"github.com/wellfit/gym-ai-concierge/pkg/logging"
)

// HandoffReply is returned verbatim when no FAQ entry matches and a human
// ticket has been opened.
const HandoffReply = "Thanks for reaching out! I don't have an answer for that on hand, so I've passed your question to our team. Someone will get back to you shortly."

// TicketCreator opens a human-handoff ticket.
type TicketCreator interface {
	Create(ctx context.Context, req tickets.CreateRequest) (*tickets.Ticket, error)
}

// Metrics counts lookup outcomes. A nil Metrics disables counting.
type Metrics interface {
	ObserveFAQLookup(result string)
}

// Answer is the middleware's decision for a non-bypassed message.
type Answer struct {
	Reply     string
	Entry     *Entry
	Escalated bool
	TicketID  string
}

// Middleware routes a message in one of three ways: bypass (nil, nil) when it
// carries booking/schedule intent, answer from the FAQ store, or escalate to
// a human when no match exists.
type Middleware struct {
	cache      *Cache
	classifier IntentClassifier
	tickets    TicketCreator
	metrics    Metrics
	logger     *logging.Logger
}

// NewMiddleware creates the FAQ middleware.
func NewMiddleware(cache *Cache, classifier IntentClassifier, creator TicketCreator, m Metrics, logger *logging.Logger) *Middleware {
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Middleware{
		cache:      cache,
		classifier: classifier,
		tickets:    creator,
		metrics:    m,
		logger:     logger,
	}
}

func (m *Middleware) observe(result string) {
	if m.metrics != nil {
		m.metrics.ObserveFAQLookup(result)
	}
}

// Process decides how a message is handled. A nil Answer means the message
// should continue to the live schedule/booking path; that path always wins
// over an FAQ match because the schedule system is authoritative.
func (m *Middleware) Process(ctx context.Context, userID, message string) (*Answer, error) {
	if m.classifier.IsBookingRequest(message) || m.classifier.IsScheduleRequest(message) {
		m.logger.Debug("faq bypassed for booking/schedule intent", "user_id", userID)
		m.observe("bypass")
		return nil, nil
	}

	entries := m.cache.Entries(ctx)
	if entry := FindMatchingFAQ(message, entries); entry != nil {
		m.logger.Info("faq matched", "user_id", userID, "faq_id", entry.ID)
		m.observe("hit")
		return &Answer{Reply: entry.Reply, Entry: entry}, nil
	}
	m.observe("miss")

	// No match: hand off to a human. A dead FAQ source lands here too.
	ticket, err := m.tickets.Create(ctx, tickets.CreateRequest{
		UserID:      userID,
		Message:     strings.TrimSpace(message),
		ContactInfo: tickets.PlaceholderContact(),
		Category:    tickets.CategoryUnansweredFAQ,
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("faq miss escalated", "user_id", userID, "ticket_id", ticket.ID)
	return &Answer{Reply: HandoffReply, Escalated: true, TicketID: ticket.ID}, nil
}
