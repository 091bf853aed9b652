package conversation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NormalizedMessage is the single inbound shape the rest of the pipeline
// works with, regardless of which chat platform delivered it.
type NormalizedMessage struct {
	Message  string
	UserID   string
	ThreadID string
	Platform string
}

const (
	PlatformManyChat = "manychat"
	PlatformWati     = "wati"
	PlatformGeneric  = "generic"
)

// Per-platform payload shapes. The automation platforms forward webhooks
// with their own field names; each adapter maps one shape onto
// NormalizedMessage and is selected by its discriminator field.
type manychatPayload struct {
	SubscriberID  string `json:"subscriber_id"`
	LastInputText string `json:"last_input_text"`
	Message       string `json:"message"`
	ThreadID      string `json:"threadId"`
}

type watiPayload struct {
	WaID     string `json:"waId"`
	Text     string `json:"text"`
	ThreadID string `json:"threadId"`
}

type genericPayload struct {
	Message  string `json:"message"`
	Text     string `json:"text"`
	UserID   string `json:"userId"`
	ThreadID string `json:"threadId"`
	Platform string `json:"platform"`
}

type discriminator struct {
	SubscriberID string `json:"subscriber_id"`
	WaID         string `json:"waId"`
}

// ParseWebhookPayload normalizes an inbound webhook body. Automation
// platforms send either a single JSON object or a one-element array wrapping
// it; both are accepted.
func ParseWebhookPayload(raw []byte) (*NormalizedMessage, error) {
	obj := bytes.TrimSpace(raw)
	if len(obj) == 0 {
		return nil, fmt.Errorf("conversation: empty payload")
	}

	if obj[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(obj, &items); err != nil {
			return nil, fmt.Errorf("conversation: decode payload array: %w", err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("conversation: empty payload array")
		}
		obj = items[0]
	}

	var disc discriminator
	if err := json.Unmarshal(obj, &disc); err != nil {
		return nil, fmt.Errorf("conversation: decode payload: %w", err)
	}

	switch {
	case disc.SubscriberID != "":
		return parseManyChat(obj)
	case disc.WaID != "":
		return parseWati(obj)
	default:
		return parseGeneric(obj)
	}
}

func parseManyChat(raw []byte) (*NormalizedMessage, error) {
	var p manychatPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("conversation: decode manychat payload: %w", err)
	}
	message := p.LastInputText
	if strings.TrimSpace(message) == "" {
		message = p.Message
	}
	return &NormalizedMessage{
		Message:  strings.TrimSpace(message),
		UserID:   p.SubscriberID,
		ThreadID: p.ThreadID,
		Platform: PlatformManyChat,
	}, nil
}

func parseWati(raw []byte) (*NormalizedMessage, error) {
	var p watiPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("conversation: decode wati payload: %w", err)
	}
	return &NormalizedMessage{
		Message:  strings.TrimSpace(p.Text),
		UserID:   p.WaID,
		ThreadID: p.ThreadID,
		Platform: PlatformWati,
	}, nil
}

func parseGeneric(raw []byte) (*NormalizedMessage, error) {
	var p genericPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("conversation: decode payload: %w", err)
	}
	message := p.Message
	if strings.TrimSpace(message) == "" {
		message = p.Text
	}
	platform := p.Platform
	if platform == "" {
		platform = PlatformGeneric
	}
	return &NormalizedMessage{
		Message:  strings.TrimSpace(message),
		UserID:   p.UserID,
		ThreadID: p.ThreadID,
		Platform: platform,
	}, nil
}
