// Package assistant drives conversations through the OpenAI Assistants API:
// one thread per end user, one run per inbound message, with a polling loop
// that executes requested tool calls and feeds the outputs back.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/wellfit/gym-ai-concierge/pkg/logging"
)

// Outcome classifies how a run ended. Timing out is reported separately from
// failing so callers can tell a slow upstream from a broken one.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeTimedOut  Outcome = "timed_out"
)

// ToolError records one failed tool execution inside a run. The run itself
// continues; the error is returned to the model as that call's output.
type ToolError struct {
	Tool string
	Err  string
}

// RunResult is the terminal state of one assistant run.
type RunResult struct {
	Outcome    Outcome
	Reply      string
	ToolErrors []ToolError
}

// ToolExecutor executes a named tool with raw JSON arguments and returns a
// JSON-encoded result.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args json.RawMessage) (string, error)
}

// api is the slice of the OpenAI client the engine uses. *openai.Client
// satisfies it; tests substitute a fake.
type api interface {
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	RetrieveThread(ctx context.Context, threadID string) (openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID, runID string) (openai.Run, error)
	SubmitToolOutputs(ctx context.Context, threadID, runID string, request openai.SubmitToolOutputsRequest) (openai.Run, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order, after, before, runID *string) (openai.MessagesList, error)
}

// Engine runs assistant conversations.
type Engine struct {
	client       api
	assistantID  string
	pollInterval time.Duration
	runTimeout   time.Duration
	logger       *logging.Logger
}

// NewEngine creates an engine backed by the real OpenAI API.
func NewEngine(apiKey, assistantID string, pollInterval, runTimeout time.Duration, logger *logging.Logger) *Engine {
	return newEngine(openai.NewClient(apiKey), assistantID, pollInterval, runTimeout, logger)
}

func newEngine(client api, assistantID string, pollInterval, runTimeout time.Duration, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if runTimeout <= 0 {
		runTimeout = time.Minute
	}
	return &Engine{
		client:       client,
		assistantID:  assistantID,
		pollInterval: pollInterval,
		runTimeout:   runTimeout,
		logger:       logger,
	}
}

// EnsureThread returns a usable thread ID. A stored thread that no longer
// exists upstream (expired, deleted) is replaced with a fresh one rather than
// treated as fatal; created reports whether the caller must persist a new
// mapping.
func (e *Engine) EnsureThread(ctx context.Context, storedThreadID string) (threadID string, created bool, err error) {
	if storedThreadID != "" {
		if _, err := e.client.RetrieveThread(ctx, storedThreadID); err == nil {
			return storedThreadID, false, nil
		}
		e.logger.Warn("assistant: stored thread unusable, creating new", "thread_id", storedThreadID)
	}
	thread, err := e.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", false, fmt.Errorf("assistant: create thread: %w", err)
	}
	return thread.ID, true, nil
}

// SendMessage appends a user message to a thread.
func (e *Engine) SendMessage(ctx context.Context, threadID, text string) error {
	_, err := e.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})
	if err != nil {
		return fmt.Errorf("assistant: create message: %w", err)
	}
	return nil
}

// Run starts a run on the thread and drives it to a terminal state. On
// requires_action every requested tool is executed via the executor and all
// outputs are submitted in one batch. A tool failure (including an unknown
// tool name) is not fatal: the model receives a structured error output and
// the failure is recorded in the result. The loop is bounded by the engine's
// wall-clock timeout.
func (e *Engine) Run(ctx context.Context, threadID string, executor ToolExecutor) (*RunResult, error) {
	run, err := e.client.CreateRun(ctx, threadID, openai.RunRequest{AssistantID: e.assistantID})
	if err != nil {
		return nil, fmt.Errorf("assistant: create run: %w", err)
	}

	result := &RunResult{}
	deadline := time.Now().Add(e.runTimeout)

	for {
		switch run.Status {
		case openai.RunStatusCompleted:
			reply, err := e.latestReply(ctx, threadID, run.ID)
			if err != nil {
				return nil, err
			}
			result.Outcome = OutcomeCompleted
			result.Reply = reply
			return result, nil

		case openai.RunStatusRequiresAction:
			run, err = e.executeTools(ctx, threadID, run, executor, result)
			if err != nil {
				return nil, err
			}
			continue

		case openai.RunStatusFailed, openai.RunStatusCancelled, openai.RunStatusExpired, openai.RunStatusIncomplete:
			if run.LastError != nil {
				e.logger.Error("assistant: run failed", "run_id", run.ID, "code", run.LastError.Code, "message", run.LastError.Message)
			}
			result.Outcome = OutcomeFailed
			return result, nil
		}

		if time.Now().After(deadline) {
			e.logger.Warn("assistant: run timed out", "run_id", run.ID, "status", string(run.Status))
			result.Outcome = OutcomeTimedOut
			return result, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("assistant: run wait: %w", ctx.Err())
		case <-time.After(e.pollInterval):
		}

		run, err = e.client.RetrieveRun(ctx, threadID, run.ID)
		if err != nil {
			return nil, fmt.Errorf("assistant: retrieve run: %w", err)
		}
	}
}

func (e *Engine) executeTools(ctx context.Context, threadID string, run openai.Run, executor ToolExecutor, result *RunResult) (openai.Run, error) {
	if run.RequiredAction == nil || run.RequiredAction.SubmitToolOutputs == nil {
		return run, fmt.Errorf("assistant: run %s requires action without tool calls", run.ID)
	}

	calls := run.RequiredAction.SubmitToolOutputs.ToolCalls
	outputs := make([]openai.ToolOutput, 0, len(calls))
	for _, call := range calls {
		name := call.Function.Name
		out, err := executor.Execute(ctx, name, json.RawMessage(call.Function.Arguments))
		if err != nil {
			e.logger.Error("assistant: tool call failed", "tool", name, "error", err)
			result.ToolErrors = append(result.ToolErrors, ToolError{Tool: name, Err: err.Error()})
			out = toolErrorOutput(err)
		}
		outputs = append(outputs, openai.ToolOutput{ToolCallID: call.ID, Output: out})
	}

	next, err := e.client.SubmitToolOutputs(ctx, threadID, run.ID, openai.SubmitToolOutputsRequest{ToolOutputs: outputs})
	if err != nil {
		return run, fmt.Errorf("assistant: submit tool outputs: %w", err)
	}
	return next, nil
}

func (e *Engine) latestReply(ctx context.Context, threadID, runID string) (string, error) {
	limit := 1
	order := "desc"
	msgs, err := e.client.ListMessage(ctx, threadID, &limit, &order, nil, nil, &runID)
	if err != nil {
		return "", fmt.Errorf("assistant: list messages: %w", err)
	}
	for _, msg := range msgs.Messages {
		for _, part := range msg.Content {
			if part.Text != nil {
				return part.Text.Value, nil
			}
		}
	}
	return "", fmt.Errorf("assistant: run %s produced no text reply", runID)
}

func toolErrorOutput(err error) string {
	raw, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return `{"error":"tool execution failed"}`
	}
	return string(raw)
}
