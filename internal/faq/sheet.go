package faq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wellfit/gym-ai-concierge/pkg/logging"
)

// Entry is a question/reply pair sourced from the FAQ spreadsheet.
type Entry struct {
	ID       string
	Question string
	Platform string
	Reply    string
}

const sheetFetchTimeout = 15 * time.Second

// SheetClient fetches the FAQ dataset from a published Google Sheet via its
// public gviz query endpoint. The endpoint returns a JSONP-wrapped table that
// has to be unwrapped before parsing.
type SheetClient struct {
	sheetID    string
	gid        string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewSheetClient creates a gviz FAQ fetcher for a published sheet.
func NewSheetClient(sheetID, gid string, logger *logging.Logger) *SheetClient {
	if logger == nil {
		logger = logging.Default()
	}
	if gid == "" {
		gid = "0"
	}
	return &SheetClient{
		sheetID:    sheetID,
		gid:        gid,
		httpClient: &http.Client{Timeout: sheetFetchTimeout},
		logger:     logger,
	}
}

// BaseURL returns the gviz query URL for the configured sheet.
func (c *SheetClient) BaseURL() string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:json&gid=%s", c.sheetID, c.gid)
}

// SetHTTPClient overrides the HTTP client. Tests point it at a local server.
func (c *SheetClient) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Fetch downloads and parses the FAQ table.
func (c *SheetClient) Fetch(ctx context.Context) ([]Entry, error) {
	return c.FetchFrom(ctx, c.BaseURL())
}

// FetchFrom downloads and parses the FAQ table from an explicit URL.
func (c *SheetClient) FetchFrom(ctx context.Context, url string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("faq: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("faq: fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("faq: sheet returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("faq: read sheet body: %w", err)
	}

	entries, err := parseGvizResponse(raw)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("faq sheet fetched", "entries", len(entries))
	return entries, nil
}

// gviz response shape, after the JSONP wrapper is stripped.
type gvizTable struct {
	Table struct {
		Cols []struct {
			Label string `json:"label"`
		} `json:"cols"`
		Rows []struct {
			C []*struct {
				V any `json:"v"`
			} `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

// parseGvizResponse strips the google.visualization.Query.setResponse(...)
// wrapper and maps columns to FAQ fields by header label, falling back to
// positional order (id, question, platform, reply).
func parseGvizResponse(raw []byte) ([]Entry, error) {
	body := string(raw)
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("faq: malformed gviz response")
	}

	var table gvizTable
	if err := json.Unmarshal([]byte(body[start:end+1]), &table); err != nil {
		return nil, fmt.Errorf("faq: parse gviz table: %w", err)
	}

	idx := map[string]int{"id": 0, "question": 1, "platform": 2, "reply": 3}
	for i, col := range table.Table.Cols {
		label := strings.ToLower(strings.TrimSpace(col.Label))
		switch label {
		case "id", "question", "platform", "reply":
			idx[label] = i
		case "answer":
			idx["reply"] = i
		}
	}

	entries := make([]Entry, 0, len(table.Table.Rows))
	for _, row := range table.Table.Rows {
		entry := Entry{
			ID:       cellString(row.C, idx["id"]),
			Question: cellString(row.C, idx["question"]),
			Platform: cellString(row.C, idx["platform"]),
			Reply:    cellString(row.C, idx["reply"]),
		}
		if strings.TrimSpace(entry.Question) == "" || strings.TrimSpace(entry.Reply) == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func cellString(cells []*struct {
	V any `json:"v"`
}, i int) string {
	if i < 0 || i >= len(cells) || cells[i] == nil || cells[i].V == nil {
		return ""
	}
	switch v := cells[i].V.(type) {
	case string:
		return v
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%v", v), ".0")
	default:
		return fmt.Sprintf("%v", v)
	}
}
