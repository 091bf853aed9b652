package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wellfit/gym-ai-concierge/internal/gymapi"
	"github.com/wellfit/gym-ai-concierge/internal/tickets"
	"github.com/wellfit/gym-ai-concierge/pkg/logging"
)

// ErrUnknownTool marks a tool name the registry does not recognize. The run
// loop converts it into a structured error output; the tool-call endpoint
// maps it to a 400.
var ErrUnknownTool = errors.New("conversation: unknown tool")

// GymAPI is the slice of the gym CRM client the tools need.
type GymAPI interface {
	GetProfile(ctx context.Context, memberID string) (*gymapi.MemberProfile, error)
	GetMemberships(ctx context.Context, memberID string) ([]gymapi.Membership, error)
	GetClassSchedule(ctx context.Context, weekOffset int, branchID string) ([]gymapi.ClassSession, error)
	GetSeatCount(ctx context.Context, classID string) (*gymapi.SeatCount, error)
	BookClass(ctx context.Context, req gymapi.BookingRequest) (*gymapi.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
	CreateProspect(ctx context.Context, req gymapi.ProspectRequest) (*gymapi.Prospect, error)
	ListClubs(ctx context.Context) ([]gymapi.Club, error)
	ListMembershipPlans(ctx context.Context) ([]gymapi.MembershipPlan, error)
}

// TicketCreator creates escalation tickets.
type TicketCreator interface {
	Create(ctx context.Context, req tickets.CreateRequest) (*tickets.Ticket, error)
}

// ToolMetrics counts tool executions.
type ToolMetrics interface {
	ObserveToolCall(tool, status string)
}

// Registry dispatches assistant tool calls by name. The same registry backs
// both the run loop and the direct tool-call endpoint.
type Registry struct {
	gym     GymAPI
	tickets TicketCreator
	metrics ToolMetrics
	logger  *logging.Logger
}

// NewRegistry creates a tool registry.
func NewRegistry(gym GymAPI, creator TicketCreator, m ToolMetrics, logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Default()
	}
	return &Registry{gym: gym, tickets: creator, metrics: m, logger: logger}
}

type scheduleArgs struct {
	WeekOffset int    `json:"week_offset"`
	BranchID   string `json:"branch_id"`
}

type seatCountArgs struct {
	ClassID string `json:"class_id"`
}

type bookClassArgs struct {
	ClassID  string `json:"class_id"`
	MemberID string `json:"member_id"`
}

type cancelBookingArgs struct {
	BookingID string `json:"booking_id"`
}

type memberProfileArgs struct {
	MemberID string `json:"member_id"`
}

type createProspectArgs struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Interest string `json:"interest"`
}

type escalateArgs struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

// Execute runs the named tool and returns its JSON-encoded result.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	out, err := r.dispatch(ctx, name, args)
	status := "ok"
	if err != nil {
		status = "error"
	}
	if r.metrics != nil {
		r.metrics.ObserveToolCall(name, status)
	}
	if err != nil {
		return "", err
	}
	return out, nil
}

func (r *Registry) dispatch(ctx context.Context, name string, args json.RawMessage) (string, error) {
	switch name {
	case "get_class_schedule":
		var a scheduleArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		classes, err := r.gym.GetClassSchedule(ctx, a.WeekOffset, a.BranchID)
		if err != nil {
			return "", err
		}
		return encodeResult(map[string]any{"classes": classes})

	case "get_seat_count":
		var a seatCountArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		seats, err := r.gym.GetSeatCount(ctx, a.ClassID)
		if err != nil {
			return "", err
		}
		return encodeResult(seats)

	case "book_class":
		var a bookClassArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		booking, err := r.gym.BookClass(ctx, gymapi.BookingRequest{ClassID: a.ClassID, MemberID: a.MemberID})
		if err != nil {
			return "", err
		}
		return encodeResult(booking)

	case "cancel_booking":
		var a cancelBookingArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		if err := r.gym.CancelBooking(ctx, a.BookingID); err != nil {
			return "", err
		}
		return encodeResult(map[string]string{"status": "cancelled"})

	case "get_member_profile":
		var a memberProfileArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		profile, err := r.gym.GetProfile(ctx, a.MemberID)
		if err != nil {
			return "", err
		}
		return encodeResult(profile)

	case "get_memberships":
		var a memberProfileArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		memberships, err := r.gym.GetMemberships(ctx, a.MemberID)
		if err != nil {
			return "", err
		}
		return encodeResult(map[string]any{"memberships": memberships})

	case "get_membership_plans":
		plans, err := r.gym.ListMembershipPlans(ctx)
		if err != nil {
			return "", err
		}
		return encodeResult(map[string]any{"plans": plans})

	case "list_clubs":
		clubs, err := r.gym.ListClubs(ctx)
		if err != nil {
			return "", err
		}
		return encodeResult(map[string]any{"clubs": clubs})

	case "create_prospect":
		var a createProspectArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		prospect, err := r.gym.CreateProspect(ctx, gymapi.ProspectRequest{
			Name:     a.Name,
			Email:    a.Email,
			Phone:    a.Phone,
			Interest: a.Interest,
		})
		if err != nil {
			return "", err
		}
		return encodeResult(prospect)

	case "escalate_to_human":
		var a escalateArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		ticket, err := r.tickets.Create(ctx, tickets.CreateRequest{
			UserID:      a.UserID,
			Message:     a.Message + " (reason: " + a.Reason + ")",
			ContactInfo: tickets.PlaceholderContact(),
			Category:    tickets.CategoryHumanHandoff,
		})
		if err != nil {
			return "", err
		}
		return encodeResult(map[string]string{"ticketId": ticket.ID, "status": "escalated"})

	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
}

func decodeArgs(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("conversation: decode tool arguments: %w", err)
	}
	return nil
}

func encodeResult(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("conversation: encode tool result: %w", err)
	}
	return string(raw), nil
}
