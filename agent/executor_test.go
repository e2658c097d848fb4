package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentsquad/agentsquad/model"
	"github.com/agentsquad/agentsquad/schema"
	"github.com/agentsquad/agentsquad/tool"
)

func parseExpenseTool(t *testing.T) *tool.FunctionTool {
	t.Helper()
	record, err := schema.NewRecord("Expense",
		schema.Field{Name: "description", Type: schema.String(), Required: true},
		schema.Field{Name: "value", Type: schema.Number(), Required: true},
	)
	require.NoError(t, err)

	ft, err := tool.NewFunctionTool("parse_expense", "Extract a structured expense", record,
		func(_ context.Context, args map[string]any) (any, error) {
			return args, nil
		},
	)
	require.NoError(t, err)
	return ft
}

func failingTool(t *testing.T) *tool.FunctionTool {
	t.Helper()
	record, err := schema.NewRecord("Empty", schema.Field{Name: "x", Type: schema.String()})
	require.NoError(t, err)
	ft, err := tool.NewFunctionTool("always_fails", "Never works", record,
		func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("broken pipe")
		},
	)
	require.NoError(t, err)
	return ft
}

func newExecutor(t *testing.T, mdl model.Model, optFns ...func(*Options)) *Executor {
	t.Helper()
	e, err := NewExecutor(mdl, optFns...)
	require.NoError(t, err)
	return e
}

// -------------------- Construction --------------------

func TestNewExecutorValidation(t *testing.T) {
	_, err := NewExecutor(nil)
	assert.Error(t, err)

	mock := model.NewMockModel("mock", "test")
	_, err = NewExecutor(mock, func(o *Options) {
		o.Tools = []tool.Tool{parseExpenseTool(t), parseExpenseTool(t)}
	})
	assert.Error(t, err)
}

// -------------------- Plain turns --------------------

func TestInvokePlainAnswer(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	mock.AddResponse("registrei 200 no mercado", "Expense recorded.")

	e := newExecutor(t, mock, func(o *Options) { o.SystemPrompt = "You track expenses." })

	out, err := e.Invoke(context.Background(), "registrei 200 no mercado")
	require.NoError(t, err)
	assert.Equal(t, "Expense recorded.", out)
	assert.Equal(t, StateDone, e.State())

	// system + user + assistant
	msgs := e.Conversation().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, model.RoleSystem, msgs[0].Role)
	assert.Equal(t, model.RoleUser, msgs[1].Role)
	assert.Equal(t, model.RoleAssistant, msgs[2].Role)
}

func TestInvokeWithoutMemoryStartsFresh(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	e := newExecutor(t, mock, func(o *Options) { o.SystemPrompt = "sys" })

	_, err := e.Invoke(context.Background(), "first input")
	require.NoError(t, err)
	firstLen := e.Conversation().Len()

	_, err = e.Invoke(context.Background(), "second input")
	require.NoError(t, err)

	// Each invocation produced an independent transcript of exactly
	// system + user + assistant.
	assert.Equal(t, 3, firstLen)
	msgs := e.Conversation().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "second input", msgs[1].Content)

	reqs := mock.Requests()
	require.Len(t, reqs, 2)
	assert.Len(t, reqs[0].Messages, 2) // system + user, per fresh run
	assert.Len(t, reqs[1].Messages, 2)
}

func TestInvokeWithMemoryRetainsTranscript(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	e := newExecutor(t, mock, func(o *Options) {
		o.SystemPrompt = "sys"
		o.Memory = true
	})

	_, err := e.Invoke(context.Background(), "first")
	require.NoError(t, err)
	_, err = e.Invoke(context.Background(), "second")
	require.NoError(t, err)

	// system + (user+assistant) * 2
	msgs := e.Conversation().Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, "first", msgs[1].Content)
	assert.Equal(t, "second", msgs[3].Content)

	e.ClearMemory()
	require.Equal(t, 1, e.Conversation().Len())
	system, ok := e.Conversation().System()
	require.True(t, ok)
	assert.Equal(t, "sys", system.Content)
}

// -------------------- Tool dispatch --------------------

func TestInvokeDispatchesToolCalls(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	mock.Enqueue(
		model.Response{ToolCalls: []model.ToolCall{{
			ID:        "call-1",
			Name:      "parse_expense",
			Arguments: `{"description":"mercado","value":"200,50"}`,
		}}},
		model.Response{Content: "Saved."},
	)

	e := newExecutor(t, mock, func(o *Options) {
		o.Tools = []tool.Tool{parseExpenseTool(t)}
	})

	out, err := e.Invoke(context.Background(), "gastei 200,50 no mercado")
	require.NoError(t, err)
	assert.Equal(t, "Saved.", out)

	// The ledger recorded the resolved, coerced arguments.
	last, ok := e.Usage().LastFor("parse_expense")
	require.True(t, ok)
	assert.True(t, last.Success)
	assert.Equal(t, 200.5, last.Arguments["value"])

	// Transcript: user, assistant(tool_calls), tool result, final assistant.
	msgs := e.Conversation().Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	require.Len(t, msgs[1].ToolCalls, 1)
	assert.Equal(t, model.RoleTool, msgs[2].Role)
	assert.Equal(t, "call-1", msgs[2].ToolCallID)

	// The second model request replays the tool result.
	reqs := mock.Requests()
	require.Len(t, reqs, 2)
	assert.Len(t, reqs[1].Messages, 3)

	// Tool descriptors were offered on every round.
	require.Len(t, reqs[0].Tools, 1)
	assert.Equal(t, "parse_expense", reqs[0].Tools[0].Name)
	assert.Equal(t, "object", reqs[0].Tools[0].Parameters["type"])
}

func TestInvokeSkipsUnknownTool(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	mock.Enqueue(
		model.Response{ToolCalls: []model.ToolCall{
			{ID: "call-1", Name: "no_such_tool", Arguments: `{}`},
			{ID: "call-2", Name: "parse_expense", Arguments: `{"description":"x","value":1}`},
		}},
		model.Response{Content: "Done."},
	)

	e := newExecutor(t, mock, func(o *Options) {
		o.Tools = []tool.Tool{parseExpenseTool(t)}
	})

	out, err := e.Invoke(context.Background(), "input")
	require.NoError(t, err)
	assert.Equal(t, "Done.", out)

	// Only the valid call reached the ledger.
	assert.Equal(t, 1, e.Usage().Len())
	assert.True(t, e.Usage().Called("parse_expense"))
	assert.False(t, e.Usage().Called("no_such_tool"))
}

func TestInvokeContainsToolFailure(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	mock.Enqueue(
		model.Response{ToolCalls: []model.ToolCall{
			{ID: "call-1", Name: "always_fails", Arguments: `{}`},
			{ID: "call-2", Name: "parse_expense", Arguments: `{"description":"x","value":2}`},
		}},
		model.Response{Content: "Partially done."},
	)

	e := newExecutor(t, mock, func(o *Options) {
		o.Tools = []tool.Tool{failingTool(t), parseExpenseTool(t)}
	})

	out, err := e.Invoke(context.Background(), "input")
	require.NoError(t, err)
	assert.Equal(t, "Partially done.", out)

	// The failure was recorded and did not abort the remaining call.
	calls := e.Usage().Calls()
	require.Len(t, calls, 2)
	assert.False(t, calls[0].Success)
	assert.Contains(t, calls[0].Failure, "broken pipe")
	assert.True(t, calls[1].Success)

	// The failure is surfaced to the model as an error result message.
	msgs := e.Conversation().Messages()
	var toolMsgs []model.Message
	for _, m := range msgs {
		if m.Role == model.RoleTool {
			toolMsgs = append(toolMsgs, m)
		}
	}
	require.Len(t, toolMsgs, 2)
	assert.Equal(t, "call-1", toolMsgs[0].ToolCallID)
	assert.Contains(t, toolMsgs[0].Content, "failed")
}

func TestInvokeMultipleToolRounds(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	mock.Enqueue(
		model.Response{ToolCalls: []model.ToolCall{{ID: "c1", Name: "parse_expense", Arguments: `{"description":"a","value":1}`}}},
		model.Response{ToolCalls: []model.ToolCall{{ID: "c2", Name: "parse_expense", Arguments: `{"description":"b","value":2}`}}},
		model.Response{Content: "Both recorded."},
	)

	e := newExecutor(t, mock, func(o *Options) {
		o.Tools = []tool.Tool{parseExpenseTool(t)}
	})

	out, err := e.Invoke(context.Background(), "two expenses")
	require.NoError(t, err)
	assert.Equal(t, "Both recorded.", out)
	assert.Equal(t, 2, e.Usage().Len())
	require.Len(t, mock.Requests(), 3)
}

func TestInvokeBoundsToolRounds(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	looping := model.Response{ToolCalls: []model.ToolCall{{ID: "c", Name: "parse_expense", Arguments: `{}`}}}
	for i := 0; i < 20; i++ {
		mock.Enqueue(looping)
	}

	e := newExecutor(t, mock, func(o *Options) {
		o.Tools = []tool.Tool{parseExpenseTool(t)}
		o.MaxRounds = 3
	})

	_, err := e.Invoke(context.Background(), "loop forever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool rounds")
}

// -------------------- Failure propagation --------------------

func TestInvokePropagatesModelFailure(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	transport := errors.New("connection reset")
	mock.FailWith(transport)

	e := newExecutor(t, mock)
	_, err := e.Invoke(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, transport)
}
