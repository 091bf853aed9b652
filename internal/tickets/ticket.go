package tickets

import (
	"context"
	"errors"
	"time"
)

// Status represents the lifecycle state of a ticket.
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
)

// Category tags why a ticket was created.
type Category string

const (
	CategoryUnansweredFAQ   Category = "unanswered_faq"
	CategoryNonsenseQuery   Category = "nonsense_query"
	CategoryLowConfidence   Category = "low_confidence"
	CategoryRefundInquiry   Category = "refund_inquiry"
	CategoryRefundViolation Category = "refund_violation"
	CategoryToolError       Category = "tool_error"
	CategoryHumanHandoff    Category = "human_handoff"
)

// ContactInfo carries whatever we know about how to reach the member back.
type ContactInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// PlaceholderContact is used when a ticket is created before any member
// details are known (e.g. a FAQ miss outside an assistant thread).
func PlaceholderContact() ContactInfo {
	return ContactInfo{Name: "unknown"}
}

// Ticket is a persisted human-handoff request. Tickets are never deleted;
// they move open -> (optionally assigned) -> resolved.
type Ticket struct {
	ID          string      `json:"ticketId"`
	UserID      string      `json:"userId"`
	Message     string      `json:"message"`
	ContactInfo ContactInfo `json:"contactInfo"`
	Category    Category    `json:"category"`
	ThreadID    string      `json:"threadId,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	Status      Status      `json:"status"`
	AssignedTo  string      `json:"assignedTo,omitempty"`
	ResolvedAt  *time.Time  `json:"resolvedAt,omitempty"`
}

// CreateRequest contains the details needed to open a ticket.
type CreateRequest struct {
	UserID      string
	Message     string
	ContactInfo ContactInfo
	Category    Category
	ThreadID    string
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Status   Status
	Category Category
}

// ErrNotFound is returned when a ticket ID does not exist.
var ErrNotFound = errors.New("tickets: not found")

// Store persists tickets. Implementations must assign monotonically
// increasing, zero-padded sequential IDs.
type Store interface {
	Create(ctx context.Context, req CreateRequest) (*Ticket, error)
	Get(ctx context.Context, id string) (*Ticket, error)
	List(ctx context.Context, filter ListFilter) ([]*Ticket, error)
	Assign(ctx context.Context, id, staffMember string) error
	Resolve(ctx context.Context, id string) error
}
