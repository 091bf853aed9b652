package conversation

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellfit/gym-ai-concierge/internal/assistant"
	"github.com/wellfit/gym-ai-concierge/internal/faq"
	"github.com/wellfit/gym-ai-concierge/internal/guardrail"
	"github.com/wellfit/gym-ai-concierge/internal/threads"
	"github.com/wellfit/gym-ai-concierge/internal/tickets"
)

type fakeFAQ struct {
	answer *faq.Answer
	calls  int
}

func (f *fakeFAQ) Process(ctx context.Context, userID, message string) (*faq.Answer, error) {
	f.calls++
	return f.answer, nil
}

type fakeEngine struct {
	result       *assistant.RunResult
	threadID     string
	created      bool
	sentMessages []string
	runs         int
}

func (f *fakeEngine) EnsureThread(ctx context.Context, stored string) (string, bool, error) {
	if f.threadID == "" {
		f.threadID = "thread_test"
	}
	return f.threadID, f.created, nil
}

func (f *fakeEngine) SendMessage(ctx context.Context, threadID, text string) error {
	f.sentMessages = append(f.sentMessages, text)
	return nil
}

func (f *fakeEngine) Run(ctx context.Context, threadID string, executor assistant.ToolExecutor) (*assistant.RunResult, error) {
	f.runs++
	return f.result, nil
}

func newTestService(t *testing.T, faqMW FAQMiddleware, engine Engine, creator TicketCreator) *Service {
	t.Helper()
	store := threads.NewFileStore(filepath.Join(t.TempDir(), "threads.json"))
	return NewService(faqMW, engine, store, creator, &Registry{}, nil, nil)
}

func TestProcessFAQAnswerVerbatim(t *testing.T) {
	storedReply := "We offer yoga, spin, HIIT and strength classes across all branches."
	faqMW := &fakeFAQ{answer: &faq.Answer{Reply: storedReply}}
	engine := &fakeEngine{}
	svc := newTestService(t, faqMW, engine, &fakeTicketCreator{})

	resp, err := svc.Process(context.Background(), NormalizedMessage{Message: "What types of classes do you offer?", UserID: "u1", Platform: PlatformManyChat})
	require.NoError(t, err)

	assert.Equal(t, storedReply, resp.Response)
	assert.False(t, resp.Escalated)
	assert.Equal(t, SourceFAQ, resp.Source)
	assert.Equal(t, 0, engine.runs, "assistant must not run when FAQ answers")
}

func TestProcessNonsenseEscalates(t *testing.T) {
	faqMW := &fakeFAQ{}
	engine := &fakeEngine{}
	creator := &fakeTicketCreator{}
	svc := newTestService(t, faqMW, engine, creator)

	resp, err := svc.Process(context.Background(), NormalizedMessage{Message: "asdf", UserID: "u1", Platform: PlatformWati})
	require.NoError(t, err)

	assert.True(t, resp.Escalated)
	assert.Equal(t, guardrail.NonsenseReply, resp.Response)
	assert.Equal(t, string(guardrail.ViolationNonsense), resp.ViolationType)
	require.Len(t, creator.created, 1)
	assert.Equal(t, tickets.CategoryNonsenseQuery, creator.created[0].Category)
	assert.Equal(t, 0, faqMW.calls, "nonsense pre-screen runs before the FAQ stage")
	assert.Equal(t, 0, engine.runs)
}

func TestProcessRefundInquiryPreScreen(t *testing.T) {
	creator := &fakeTicketCreator{}
	engine := &fakeEngine{}
	svc := newTestService(t, &fakeFAQ{}, engine, creator)

	resp, err := svc.Process(context.Background(), NormalizedMessage{Message: "Can I get a refund for last month?", UserID: "u1"})
	require.NoError(t, err)

	assert.True(t, resp.Escalated)
	assert.Equal(t, guardrail.RefundInquiryReply, resp.Response)
	assert.Equal(t, string(guardrail.ViolationRefundInquiry), resp.ViolationType)
	require.Len(t, creator.created, 1)
	assert.Equal(t, tickets.CategoryRefundInquiry, creator.created[0].Category)
	assert.Equal(t, 0, engine.runs, "refund questions never reach the assistant")
}

func TestProcessAssistantReply(t *testing.T) {
	engine := &fakeEngine{
		created: true,
		result:  &assistant.RunResult{Outcome: assistant.OutcomeCompleted, Reply: "Spin runs Monday and Thursday at 6pm."},
	}
	store := threads.NewFileStore(filepath.Join(t.TempDir(), "threads.json"))
	svc := NewService(&fakeFAQ{}, engine, store, &fakeTicketCreator{}, &Registry{}, nil, nil)

	resp, err := svc.Process(context.Background(), NormalizedMessage{Message: "When is the next spin session at downtown?", UserID: "u1", Platform: PlatformManyChat})
	require.NoError(t, err)

	assert.Equal(t, "Spin runs Monday and Thursday at 6pm.", resp.Response)
	assert.Equal(t, SourceAssistant, resp.Source)
	assert.Equal(t, "thread_test", resp.ThreadID)
	assert.False(t, resp.Escalated)

	persisted, ok, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "thread_test", persisted)
}

func TestProcessRefundPromiseReplaced(t *testing.T) {
	engine := &fakeEngine{
		result: &assistant.RunResult{Outcome: assistant.OutcomeCompleted, Reply: "Sure, I can offer you a free trial for a month."},
	}
	creator := &fakeTicketCreator{}
	svc := newTestService(t, &fakeFAQ{}, engine, creator)

	resp, err := svc.Process(context.Background(), NormalizedMessage{Message: "What membership options are there?", UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, guardrail.RefundPromiseReply, resp.Response)
	assert.True(t, resp.Escalated)
	assert.Equal(t, string(guardrail.ViolationRefundPromise), resp.ViolationType)
	require.Len(t, creator.created, 1, "exactly one ticket per promise violation")
	assert.Equal(t, tickets.CategoryRefundViolation, creator.created[0].Category)
}

func TestProcessLowConfidenceReplaced(t *testing.T) {
	engine := &fakeEngine{
		result: &assistant.RunResult{Outcome: assistant.OutcomeCompleted, Reply: "I'm not sure about that, you should probably ask someone."},
	}
	creator := &fakeTicketCreator{}
	svc := newTestService(t, &fakeFAQ{}, engine, creator)

	resp, err := svc.Process(context.Background(), NormalizedMessage{Message: "Is the sauna open on public holidays?", UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, guardrail.LowConfidenceReply, resp.Response)
	assert.True(t, resp.Escalated)
	assert.Equal(t, string(guardrail.ViolationLowConfidence), resp.ViolationType)
	require.Len(t, creator.created, 1)
	assert.Equal(t, tickets.CategoryLowConfidence, creator.created[0].Category)
}

func TestProcessRunTimeoutEscalates(t *testing.T) {
	engine := &fakeEngine{result: &assistant.RunResult{Outcome: assistant.OutcomeTimedOut}}
	creator := &fakeTicketCreator{}
	svc := newTestService(t, &fakeFAQ{}, engine, creator)

	resp, err := svc.Process(context.Background(), NormalizedMessage{Message: "When is the next bodypump class?", UserID: "u1"})
	require.NoError(t, err)

	assert.True(t, resp.Escalated)
	assert.Equal(t, guardrail.ToolErrorReply, resp.Response)
	require.Len(t, creator.created, 1)
	assert.Equal(t, tickets.CategoryHumanHandoff, creator.created[0].Category)
}

func TestProcessToolErrorCreatesTicketButKeepsReply(t *testing.T) {
	engine := &fakeEngine{
		result: &assistant.RunResult{
			Outcome:    assistant.OutcomeCompleted,
			Reply:      "The 6pm spin class is fully booked, but 7pm has open seats.",
			ToolErrors: []assistant.ToolError{{Tool: "get_seat_count", Err: "gymapi: status 502"}},
		},
	}
	creator := &fakeTicketCreator{}
	svc := newTestService(t, &fakeFAQ{}, engine, creator)

	resp, err := svc.Process(context.Background(), NormalizedMessage{Message: "Any seats left for spin tonight?", UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, "The 6pm spin class is fully booked, but 7pm has open seats.", resp.Response)
	assert.False(t, resp.Escalated)
	assert.NotEmpty(t, resp.TicketID)
	require.Len(t, creator.created, 1)
	assert.Equal(t, tickets.CategoryToolError, creator.created[0].Category)
}
