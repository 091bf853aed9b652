// Package broadcast manages outbound message templates, their approval state,
// and member opt-ins. Sends are simulated only; actual delivery belongs to
// the messaging platform.
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// OptInStatus tracks whether a user may receive broadcasts.
type OptInStatus string

const (
	OptInActive   OptInStatus = "active"
	OptInOptedOut OptInStatus = "opted-out"
)

// Template is a reusable broadcast message body.
type Template struct {
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	PreApproved bool      `json:"preApproved"`
}

// OptIn records a user's consent to receive broadcasts.
type OptIn struct {
	ContactInfo string      `json:"contactInfo"`
	OptedInAt   time.Time   `json:"optedInAt"`
	Status      OptInStatus `json:"status"`
	OptedOutAt  *time.Time  `json:"optedOutAt,omitempty"`
}

// SimulationResult summarizes what a broadcast send would do.
type SimulationResult struct {
	TemplateID string   `json:"templateId"`
	Content    string   `json:"content"`
	Recipients []string `json:"recipients"`
	Skipped    int      `json:"skipped"`
}

var (
	// ErrTemplateNotFound is returned for unknown template IDs.
	ErrTemplateNotFound = errors.New("broadcast: template not found")
	// ErrNotApproved is returned when simulating a send of an unapproved template.
	ErrNotApproved = errors.New("broadcast: template not approved")
)

type broadcastFile struct {
	Templates         map[string]*Template `json:"templates"`
	OptIns            map[string]*OptIn    `json:"optIns"`
	ApprovedTemplates []string             `json:"approvedTemplates"`
}

// Store keeps templates, approvals, and opt-ins in one flat JSON file.
type Store struct {
	path string
	mu   sync.Mutex

	now func() time.Time
}

// NewStore creates a file-backed broadcast store.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// CreateTemplate registers a broadcast template under the given ID.
func (s *Store) CreateTemplate(ctx context.Context, templateID, content string, preApproved bool) (*Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	tpl := &Template{
		Content:     content,
		CreatedAt:   s.now().UTC(),
		PreApproved: preApproved,
	}
	data.Templates[templateID] = tpl
	if err := s.save(data); err != nil {
		return nil, err
	}
	return tpl, nil
}

// ApproveTemplate marks a template as approved for sending.
func (s *Store) ApproveTemplate(ctx context.Context, templateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := data.Templates[templateID]; !ok {
		return ErrTemplateNotFound
	}
	for _, id := range data.ApprovedTemplates {
		if id == templateID {
			return nil
		}
	}
	data.ApprovedTemplates = append(data.ApprovedTemplates, templateID)
	return s.save(data)
}

// OptInUser records (or reactivates) a user's broadcast consent.
func (s *Store) OptInUser(ctx context.Context, userID, contactInfo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data.OptIns[userID] = &OptIn{
		ContactInfo: contactInfo,
		OptedInAt:   s.now().UTC(),
		Status:      OptInActive,
	}
	return s.save(data)
}

// OptOutUser marks a user as opted out. Opting out an unknown user is a no-op.
func (s *Store) OptOutUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	record, ok := data.OptIns[userID]
	if !ok {
		return nil
	}
	now := s.now().UTC()
	record.Status = OptInOptedOut
	record.OptedOutAt = &now
	return s.save(data)
}

// SimulateSend reports who would receive the template without sending
// anything. The template must be approved or pre-approved; only active
// opt-ins are included.
func (s *Store) SimulateSend(ctx context.Context, templateID string) (*SimulationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	tpl, ok := data.Templates[templateID]
	if !ok {
		return nil, ErrTemplateNotFound
	}

	approved := tpl.PreApproved
	for _, id := range data.ApprovedTemplates {
		if id == templateID {
			approved = true
			break
		}
	}
	if !approved {
		return nil, ErrNotApproved
	}

	result := &SimulationResult{TemplateID: templateID, Content: tpl.Content}
	for userID, record := range data.OptIns {
		if record.Status != OptInActive {
			result.Skipped++
			continue
		}
		result.Recipients = append(result.Recipients, userID)
	}
	sort.Strings(result.Recipients)
	return result, nil
}

// Templates returns all registered templates keyed by ID.
func (s *Store) Templates(ctx context.Context) (map[string]*Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data.Templates, nil
}

func (s *Store) load() (*broadcastFile, error) {
	data := &broadcastFile{
		Templates: map[string]*Template{},
		OptIns:    map[string]*OptIn{},
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("broadcast: read store: %w", err)
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("broadcast: parse store: %w", err)
	}
	if data.Templates == nil {
		data.Templates = map[string]*Template{}
	}
	if data.OptIns == nil {
		data.OptIns = map[string]*OptIn{}
	}
	return data, nil
}

func (s *Store) save(data *broadcastFile) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("broadcast: encode store: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("broadcast: create data dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("broadcast: write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("broadcast: replace store: %w", err)
	}
	return nil
}
