package tickets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisCounterKey = "tickets:next_id"
	redisIndexKey   = "tickets:index"
	redisTicketKey  = "tickets:ticket:%s"
)

// RedisStore is the ticket store for multi-instance deployments where the
// flat-file counter would race across processes. INCR makes ID assignment
// atomic without any file locking.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed ticket store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Create atomically reserves the next sequential ID and persists the ticket.
func (s *RedisStore) Create(ctx context.Context, req CreateRequest) (*Ticket, error) {
	seq, err := s.client.Incr(ctx, redisCounterKey).Result()
	if err != nil {
		return nil, fmt.Errorf("tickets: reserve id: %w", err)
	}

	ticket := &Ticket{
		ID:          FormatID(int(seq)),
		UserID:      req.UserID,
		Message:     req.Message,
		ContactInfo: req.ContactInfo,
		Category:    req.Category,
		ThreadID:    req.ThreadID,
		CreatedAt:   time.Now().UTC(),
		Status:      StatusOpen,
	}

	if err := s.put(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.client.ZAdd(ctx, redisIndexKey, redis.Z{Score: float64(seq), Member: ticket.ID}).Err(); err != nil {
		return nil, fmt.Errorf("tickets: index ticket: %w", err)
	}
	return ticket, nil
}

// Get returns a ticket by ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*Ticket, error) {
	raw, err := s.client.Get(ctx, fmt.Sprintf(redisTicketKey, id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tickets: get ticket: %w", err)
	}
	var ticket Ticket
	if err := json.Unmarshal([]byte(raw), &ticket); err != nil {
		return nil, fmt.Errorf("tickets: decode ticket: %w", err)
	}
	return &ticket, nil
}

// List returns tickets matching the filter in ID order.
func (s *RedisStore) List(ctx context.Context, filter ListFilter) ([]*Ticket, error) {
	ids, err := s.client.ZRange(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("tickets: list ids: %w", err)
	}

	out := make([]*Ticket, 0, len(ids))
	for _, id := range ids {
		ticket, err := s.Get(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if filter.Status != "" && ticket.Status != filter.Status {
			continue
		}
		if filter.Category != "" && ticket.Category != filter.Category {
			continue
		}
		out = append(out, ticket)
	}
	return out, nil
}

// Assign records the staff member handling a ticket.
func (s *RedisStore) Assign(ctx context.Context, id, staffMember string) error {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	ticket.AssignedTo = staffMember
	return s.put(ctx, ticket)
}

// Resolve marks a ticket resolved. Resolving twice is an error.
func (s *RedisStore) Resolve(ctx context.Context, id string) error {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if ticket.Status == StatusResolved {
		return fmt.Errorf("tickets: %s already resolved", id)
	}
	now := time.Now().UTC()
	ticket.Status = StatusResolved
	ticket.ResolvedAt = &now
	return s.put(ctx, ticket)
}

func (s *RedisStore) put(ctx context.Context, ticket *Ticket) error {
	raw, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("tickets: encode ticket: %w", err)
	}
	if err := s.client.Set(ctx, fmt.Sprintf(redisTicketKey, ticket.ID), raw, 0).Err(); err != nil {
		return fmt.Errorf("tickets: store ticket: %w", err)
	}
	return nil
}
