package tickets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileStore persists tickets to a single flat JSON file shaped
// {"tickets": {id: Ticket}, "nextTicketId": N}. Read-modify-write cycles are
// serialized by a process-local mutex so concurrent webhook calls cannot race
// on the ID counter.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type ticketFile struct {
	Tickets      map[string]*Ticket `json:"tickets"`
	NextTicketID int                `json:"nextTicketId"`
}

// NewFileStore creates a file-backed ticket store. The file is created on
// first write; a missing file reads as empty.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Create assigns the next sequential ID and persists the ticket.
func (s *FileStore) Create(ctx context.Context, req CreateRequest) (*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	ticket := &Ticket{
		ID:          FormatID(data.NextTicketID),
		UserID:      req.UserID,
		Message:     req.Message,
		ContactInfo: req.ContactInfo,
		Category:    req.Category,
		ThreadID:    req.ThreadID,
		CreatedAt:   time.Now().UTC(),
		Status:      StatusOpen,
	}

	data.Tickets[ticket.ID] = ticket
	data.NextTicketID++

	if err := s.save(data); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Get returns a ticket by ID.
func (s *FileStore) Get(ctx context.Context, id string) (*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	ticket, ok := data.Tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ticket, nil
}

// List returns tickets matching the filter, oldest first.
func (s *FileStore) List(ctx context.Context, filter ListFilter) ([]*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]*Ticket, 0, len(data.Tickets))
	for _, t := range data.Tickets {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Assign records the staff member handling a ticket.
func (s *FileStore) Assign(ctx context.Context, id, staffMember string) error {
	return s.update(id, func(t *Ticket) error {
		t.AssignedTo = staffMember
		return nil
	})
}

// Resolve marks a ticket resolved. Resolving twice is an error.
func (s *FileStore) Resolve(ctx context.Context, id string) error {
	return s.update(id, func(t *Ticket) error {
		if t.Status == StatusResolved {
			return fmt.Errorf("tickets: %s already resolved", id)
		}
		now := time.Now().UTC()
		t.Status = StatusResolved
		t.ResolvedAt = &now
		return nil
	})
}

func (s *FileStore) update(id string, apply func(*Ticket) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	ticket, ok := data.Tickets[id]
	if !ok {
		return ErrNotFound
	}
	if err := apply(ticket); err != nil {
		return err
	}
	return s.save(data)
}

func (s *FileStore) load() (*ticketFile, error) {
	data := &ticketFile{Tickets: map[string]*Ticket{}, NextTicketID: 1}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tickets: read store: %w", err)
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("tickets: parse store: %w", err)
	}
	if data.Tickets == nil {
		data.Tickets = map[string]*Ticket{}
	}
	if data.NextTicketID < 1 {
		data.NextTicketID = 1
	}
	return data, nil
}

func (s *FileStore) save(data *ticketFile) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("tickets: encode store: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("tickets: create data dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("tickets: write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("tickets: replace store: %w", err)
	}
	return nil
}

// FormatID renders a sequential counter as a zero-padded ticket ID.
func FormatID(n int) string {
	return fmt.Sprintf("TKT-%04d", n)
}
