// Package gymapi is a thin typed wrapper over the gym-management REST API.
// Every call carries the shared API key; member-scoped calls also carry a
// bearer token obtained from login. Failed calls surface immediately — no
// retries.
package gymapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wellfit/gym-ai-concierge/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// Client talks to the gym CRM.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	username   string
	password   string
	branchID   string
	logger     *logging.Logger

	mu    sync.Mutex
	token string
}

// NewClient creates a gym CRM client. branchID is the default branch used
// when a schedule lookup does not name one.
func NewClient(baseURL, apiKey, username, password, branchID string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		apiKey:   apiKey,
		username: username,
		password: password,
		branchID: branchID,
		logger:   logger,
	}
}

// Login authenticates with the configured credentials and caches the bearer
// token for subsequent member-scoped calls.
func (c *Client) Login(ctx context.Context) (string, error) {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Username: c.username, Password: c.password}, &out, false); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("gymapi: login returned empty token")
	}
	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()
	return out.Token, nil
}

// GetProfile returns the CRM profile for a member.
func (c *Client) GetProfile(ctx context.Context, memberID string) (*MemberProfile, error) {
	if strings.TrimSpace(memberID) == "" {
		return nil, fmt.Errorf("gymapi: missing member id")
	}
	var out MemberProfile
	if err := c.do(ctx, http.MethodGet, "/members/"+url.PathEscape(memberID), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMemberships returns the memberships held by a member.
func (c *Client) GetMemberships(ctx context.Context, memberID string) ([]Membership, error) {
	if strings.TrimSpace(memberID) == "" {
		return nil, fmt.Errorf("gymapi: missing member id")
	}
	var out membershipsResponse
	if err := c.do(ctx, http.MethodGet, "/members/"+url.PathEscape(memberID)+"/memberships", nil, &out, true); err != nil {
		return nil, err
	}
	return out.Memberships, nil
}

// GetClassSchedule returns the class schedule for a week. weekOffset 0 is the
// current week, 1 the next, and so on. An empty branchID falls back to the
// client's default branch.
func (c *Client) GetClassSchedule(ctx context.Context, weekOffset int, branchID string) ([]ClassSession, error) {
	if weekOffset < 0 {
		return nil, fmt.Errorf("gymapi: week offset must not be negative")
	}
	if strings.TrimSpace(branchID) == "" {
		branchID = c.branchID
	}
	q := url.Values{}
	q.Set("week", strconv.Itoa(weekOffset))
	if branchID != "" {
		q.Set("branchId", branchID)
	}
	var out scheduleResponse
	if err := c.do(ctx, http.MethodGet, "/classes/schedule?"+q.Encode(), nil, &out, false); err != nil {
		return nil, err
	}
	return out.Classes, nil
}

// GetSeatCount returns remaining availability for one class session.
func (c *Client) GetSeatCount(ctx context.Context, classID string) (*SeatCount, error) {
	if strings.TrimSpace(classID) == "" {
		return nil, fmt.Errorf("gymapi: missing class id")
	}
	var out SeatCount
	if err := c.do(ctx, http.MethodGet, "/classes/"+url.PathEscape(classID)+"/seats", nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// BookClass reserves a seat in a class for a member.
func (c *Client) BookClass(ctx context.Context, req BookingRequest) (*Booking, error) {
	if strings.TrimSpace(req.ClassID) == "" {
		return nil, fmt.Errorf("gymapi: missing class id")
	}
	if strings.TrimSpace(req.MemberID) == "" {
		return nil, fmt.Errorf("gymapi: missing member id")
	}
	var out Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelBooking releases a previously booked seat.
func (c *Client) CancelBooking(ctx context.Context, bookingID string) error {
	if strings.TrimSpace(bookingID) == "" {
		return fmt.Errorf("gymapi: missing booking id")
	}
	return c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(bookingID), nil, nil, true)
}

// CreateProspect records a sales lead.
func (c *Client) CreateProspect(ctx context.Context, req ProspectRequest) (*Prospect, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("gymapi: missing prospect name")
	}
	var out Prospect
	if err := c.do(ctx, http.MethodPost, "/prospects", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListClubs returns all gym locations.
func (c *Client) ListClubs(ctx context.Context) ([]Club, error) {
	var out clubsResponse
	if err := c.do(ctx, http.MethodGet, "/clubs", nil, &out, false); err != nil {
		return nil, err
	}
	return out.Clubs, nil
}

// ListMembershipPlans returns the purchasable plan tiers.
func (c *Client) ListMembershipPlans(ctx context.Context) ([]MembershipPlan, error) {
	var out plansResponse
	if err := c.do(ctx, http.MethodGet, "/membership-plans", nil, &out, false); err != nil {
		return nil, err
	}
	return out.Plans, nil
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}
	return c.Login(ctx)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}, memberScoped bool) error {
	if strings.TrimSpace(c.apiKey) == "" {
		return fmt.Errorf("gymapi: missing api key")
	}
	if strings.TrimSpace(c.baseURL) == "" {
		return fmt.Errorf("gymapi: missing base url")
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("gymapi: marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("gymapi: create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if memberScoped {
		token, err := c.ensureToken(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gymapi: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gymapi: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return fmt.Errorf("gymapi: %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("gymapi: unmarshal response: %w", err)
	}
	return nil
}
