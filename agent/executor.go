package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agentsquad/agentsquad/logging"
	"github.com/agentsquad/agentsquad/model"
	"github.com/agentsquad/agentsquad/tool"
)

// State identifies where the execution loop currently is.
type State int

const (
	// StateInit is the state before the transcript is seeded.
	StateInit State = iota
	// StateAwaitingModel means a model call is in flight; it is the loop's
	// only suspension point.
	StateAwaitingModel
	// StateToolDispatch means requested tool calls are being executed,
	// strictly sequentially.
	StateToolDispatch
	// StateDone means the loop produced its final answer.
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateAwaitingModel:
		return "AWAITING_MODEL"
	case StateToolDispatch:
		return "TOOL_DISPATCH"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// DefaultMaxRounds bounds the number of tool-dispatch rounds one Invoke may
// run before giving up on convergence.
const DefaultMaxRounds = 8

// Options configure an Executor.
type Options struct {
	// Tools registered with the loop. Names must be unique.
	Tools []tool.Tool
	// SystemPrompt seeds the transcript's leading system message.
	SystemPrompt string
	// Memory retains the conversation across Invoke calls. When disabled
	// (default) every Invoke starts from a fresh transcript.
	Memory bool
	// MaxRounds bounds tool-dispatch rounds per Invoke; defaults to
	// DefaultMaxRounds.
	MaxRounds int
	// TaskID and AgentID key the usage ledger; generated when zero.
	TaskID  uuid.UUID
	AgentID uuid.UUID
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Executor drives one conversation through zero or more tool rounds to a
// final answer. It is single-threaded: one Invoke runs to completion before
// the next may start, and the Conversation is owned exclusively by this
// executor.
type Executor struct {
	id       uuid.UUID
	taskID   uuid.UUID
	agentID  uuid.UUID
	mdl      model.Model
	tools    map[string]tool.Tool
	order    []string
	system   string
	memory   bool
	maxRound int
	logger   logging.Logger

	state State
	conv  *Conversation
	usage *tool.UsageRecord
}

// NewExecutor builds an execution loop around a model. A nil model or a
// duplicate tool name is a construction error.
func NewExecutor(mdl model.Model, optFns ...func(*Options)) (*Executor, error) {
	if mdl == nil {
		return nil, fmt.Errorf("agent: a model is required")
	}

	opts := Options{MaxRounds: DefaultMaxRounds, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.TaskID == uuid.Nil {
		opts.TaskID = uuid.New()
	}
	if opts.AgentID == uuid.Nil {
		opts.AgentID = uuid.New()
	}

	tools := make(map[string]tool.Tool, len(opts.Tools))
	order := make([]string, 0, len(opts.Tools))
	for _, t := range opts.Tools {
		if t == nil {
			return nil, fmt.Errorf("agent: nil tool registered")
		}
		if _, dup := tools[t.Name()]; dup {
			return nil, fmt.Errorf("agent: duplicate tool name %q", t.Name())
		}
		tools[t.Name()] = t
		order = append(order, t.Name())
	}

	return &Executor{
		id:       uuid.New(),
		taskID:   opts.TaskID,
		agentID:  opts.AgentID,
		mdl:      mdl,
		tools:    tools,
		order:    order,
		system:   opts.SystemPrompt,
		memory:   opts.Memory,
		maxRound: opts.MaxRounds,
		logger:   opts.Logger,
		state:    StateInit,
		usage:    tool.NewUsageRecord(opts.TaskID, opts.AgentID),
	}, nil
}

// ID returns the executor identity.
func (e *Executor) ID() uuid.UUID { return e.id }

// State returns the loop's current state.
func (e *Executor) State() State { return e.state }

// Usage returns the executor's tool usage ledger.
func (e *Executor) Usage() *tool.UsageRecord { return e.usage }

// Conversation returns the current transcript, or nil before the first
// Invoke.
func (e *Executor) Conversation() *Conversation { return e.conv }

// ClearMemory resets the retained transcript, preserving only the leading
// system message.
func (e *Executor) ClearMemory() {
	if e.conv != nil {
		e.conv.Clear()
	}
}

// Invoke runs the loop on one user input until the model replies without
// tool calls. The reply content of that final round is the result. A model
// call failure is fatal and propagates unmodified; individual tool failures
// are contained, logged and recorded without aborting the turn.
func (e *Executor) Invoke(ctx context.Context, input string) (string, error) {
	e.seed(input)

	for round := 0; ; round++ {
		e.state = StateAwaitingModel
		resp, err := e.mdl.Call(ctx, model.Request{
			Messages: e.conv.Messages(),
			Tools:    e.toolDefinitions(),
		})
		if err != nil {
			return "", err
		}

		if len(resp.ToolCalls) == 0 {
			e.conv.Append(model.Message{Role: model.RoleAssistant, Content: resp.Content})
			e.state = StateDone
			e.logger.Debug("agent.invoke.done", "executor", e.id.String(), "rounds", round)
			return resp.Content, nil
		}

		if round >= e.maxRound {
			e.logger.Error("agent.invoke.rounds_exceeded", "executor", e.id.String(), "max_rounds", e.maxRound)
			return "", fmt.Errorf("agent: exceeded %d tool rounds without a final answer", e.maxRound)
		}

		e.conv.Append(model.Message{
			Role:      model.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		e.state = StateToolDispatch
		e.dispatch(ctx, resp.ToolCalls)
	}
}

// seed prepares the transcript for one invocation. Without memory every
// invocation starts fresh; with memory the transcript is retained and only
// the user message is appended after the first call.
func (e *Executor) seed(input string) {
	if !e.memory || e.conv == nil {
		e.conv = NewConversation()
		if e.system != "" {
			e.conv.Append(model.Message{Role: model.RoleSystem, Content: e.system})
		}
	}
	e.conv.Append(model.Message{Role: model.RoleUser, Content: input})
}

// dispatch executes the requested calls in reply order. An unknown tool name
// is logged and skipped without a ledger entry. A resolve or execution
// failure is recorded as a failed ledger entry and surfaced to the model as
// an error result message; it never aborts the remaining calls of the reply.
func (e *Executor) dispatch(ctx context.Context, calls []model.ToolCall) {
	for _, call := range calls {
		t, ok := e.tools[call.Name]
		if !ok {
			e.logger.Warn("agent.tool.unknown", "executor", e.id.String(), "tool", call.Name, "call_id", call.ID)
			continue
		}

		start := time.Now()
		args, err := t.Resolve(call.Arguments)
		var output any
		if err == nil {
			output, err = t.Call(ctx, args)
		}
		duration := time.Since(start)

		result := tool.CallResult{
			ToolName:  call.Name,
			Arguments: args,
			Output:    output,
			Success:   err == nil,
			Duration:  duration,
		}
		if err != nil {
			result.Failure = err.Error()
		}
		// Ledger append happens only after the call fully returned, so an
		// outer abort between calls can never leave a partial entry.
		e.usage.AddToolCall(result)

		if err != nil {
			e.logger.Error("agent.tool.failed",
				"executor", e.id.String(),
				"tool", call.Name,
				"call_id", call.ID,
				"error", err.Error(),
			)
			e.conv.Append(model.Message{
				Role:       model.RoleTool,
				Content:    fmt.Sprintf("tool %s failed: %v", call.Name, err),
				ToolCallID: call.ID,
			})
			continue
		}

		e.logger.Info("agent.tool.executed",
			"executor", e.id.String(),
			"tool", call.Name,
			"call_id", call.ID,
			"duration_ms", duration.Milliseconds(),
		)
		e.conv.Append(model.Message{
			Role:       model.RoleTool,
			Content:    serializeResult(output),
			ToolCallID: call.ID,
		})
	}
}

// toolDefinitions renders every registered tool descriptor in registration
// order.
func (e *Executor) toolDefinitions() []model.ToolDefinition {
	if len(e.order) == 0 {
		return nil
	}
	defs := make([]model.ToolDefinition, 0, len(e.order))
	for _, name := range e.order {
		d := e.tools[name].Descriptor()
		defs = append(defs, model.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters.Map(),
		})
	}
	return defs
}

// serializeResult renders a tool output for the transcript: strings pass
// through, everything else is JSON encoded.
func serializeResult(output any) string {
	if s, ok := output.(string); ok {
		return s
	}
	encoded, err := json.Marshal(output)
	if err != nil {
		return fmt.Sprintf("%v", output)
	}
	return string(encoded)
}
