package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhookPayloadManyChat(t *testing.T) {
	raw := []byte(`{"subscriber_id":"mc_123","last_input_text":"What are your opening hours?"}`)

	msg, err := ParseWebhookPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "What are your opening hours?", msg.Message)
	assert.Equal(t, "mc_123", msg.UserID)
	assert.Equal(t, PlatformManyChat, msg.Platform)
}

func TestParseWebhookPayloadManyChatMessageFallback(t *testing.T) {
	raw := []byte(`{"subscriber_id":"mc_123","message":"hello"}`)

	msg, err := ParseWebhookPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Message)
}

func TestParseWebhookPayloadWati(t *testing.T) {
	raw := []byte(`{"waId":"15550001111","text":"do you have yoga classes"}`)

	msg, err := ParseWebhookPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "do you have yoga classes", msg.Message)
	assert.Equal(t, "15550001111", msg.UserID)
	assert.Equal(t, PlatformWati, msg.Platform)
}

func TestParseWebhookPayloadGeneric(t *testing.T) {
	raw := []byte(`{"message":"hi","userId":"u1","threadId":"thread_9","platform":"instagram"}`)

	msg, err := ParseWebhookPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Message)
	assert.Equal(t, "u1", msg.UserID)
	assert.Equal(t, "thread_9", msg.ThreadID)
	assert.Equal(t, "instagram", msg.Platform)
}

func TestParseWebhookPayloadArrayWrapped(t *testing.T) {
	raw := []byte(`[{"message":"hi","userId":"u1"}]`)

	msg, err := ParseWebhookPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Message)
	assert.Equal(t, "u1", msg.UserID)
	assert.Equal(t, PlatformGeneric, msg.Platform)
}

func TestParseWebhookPayloadEmptyArray(t *testing.T) {
	_, err := ParseWebhookPayload([]byte(`[]`))
	assert.Error(t, err)
}

func TestParseWebhookPayloadTrimsWhitespace(t *testing.T) {
	raw := []byte(`{"message":"  hi there  ","userId":"u1"}`)

	msg, err := ParseWebhookPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "hi there", msg.Message)
}
