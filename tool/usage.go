package tool

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// CallResult records one executed tool invocation. It is immutable once
// appended to a UsageRecord.
type CallResult struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"` // resolved, validated arguments
	Output    any            `json:"output,omitempty"`
	Failure   string         `json:"failure,omitempty"`
	Success   bool           `json:"success"`
	Duration  time.Duration  `json:"duration,omitempty"`
}

// UsageRecord is the append-only ledger of tool invocations for one
// (task, agent) pair. AddToolCall is the only writer; past entries are never
// mutated and accessors hand out copies.
type UsageRecord struct {
	mu        sync.Mutex
	id        uuid.UUID
	taskID    uuid.UUID
	agentID   uuid.UUID
	createdAt time.Time
	calls     []CallResult
}

// NewUsageRecord creates an empty ledger for the given task and agent.
func NewUsageRecord(taskID, agentID uuid.UUID) *UsageRecord {
	return &UsageRecord{
		id:        uuid.New(),
		taskID:    taskID,
		agentID:   agentID,
		createdAt: time.Now(),
	}
}

// ID returns the ledger identity.
func (u *UsageRecord) ID() uuid.UUID { return u.id }

// TaskID returns the task this ledger belongs to.
func (u *UsageRecord) TaskID() uuid.UUID { return u.taskID }

// AgentID returns the agent that executed the recorded calls.
func (u *UsageRecord) AgentID() uuid.UUID { return u.agentID }

// CreatedAt returns the ledger creation time.
func (u *UsageRecord) CreatedAt() time.Time { return u.createdAt }

// AddToolCall appends one result. Each append is atomic: a result enters the
// ledger only after the underlying tool call has fully returned.
func (u *UsageRecord) AddToolCall(result CallResult) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, result)
}

// Len returns the number of recorded calls.
func (u *UsageRecord) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

// Calls returns a copy of every recorded call in append order.
func (u *UsageRecord) Calls() []CallResult {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]CallResult, len(u.calls))
	copy(out, u.calls)
	return out
}

// ToolNames lists the tool name of every recorded call, in order.
func (u *UsageRecord) ToolNames() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	names := make([]string, len(u.calls))
	for i, call := range u.calls {
		names[i] = call.ToolName
	}
	return names
}

// ResultsFor returns the outputs of every call to the named tool.
func (u *UsageRecord) ResultsFor(toolName string) []any {
	u.mu.Lock()
	defer u.mu.Unlock()
	var results []any
	for _, call := range u.calls {
		if call.ToolName == toolName {
			results = append(results, call.Output)
		}
	}
	return results
}

// Last returns the most recent call, if any.
func (u *UsageRecord) Last() (CallResult, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.calls) == 0 {
		return CallResult{}, false
	}
	return u.calls[len(u.calls)-1], true
}

// LastFor returns the most recent call to the named tool, if any.
func (u *UsageRecord) LastFor(toolName string) (CallResult, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i := len(u.calls) - 1; i >= 0; i-- {
		if u.calls[i].ToolName == toolName {
			return u.calls[i], true
		}
	}
	return CallResult{}, false
}

// Called reports whether the named tool was ever invoked.
func (u *UsageRecord) Called(toolName string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, call := range u.calls {
		if call.ToolName == toolName {
			return true
		}
	}
	return false
}

// Successful returns the calls that succeeded with a non-nil output.
func (u *UsageRecord) Successful() []CallResult {
	u.mu.Lock()
	defer u.mu.Unlock()
	var out []CallResult
	for _, call := range u.calls {
		if call.Success && call.Output != nil {
			out = append(out, call)
		}
	}
	return out
}

// Summary renders the ledger as a plain map, convenient for logging and
// serialization.
func (u *UsageRecord) Summary() map[string]any {
	u.mu.Lock()
	defer u.mu.Unlock()
	calls := make([]map[string]any, len(u.calls))
	for i, call := range u.calls {
		calls[i] = map[string]any{
			"tool_name": call.ToolName,
			"arguments": call.Arguments,
			"output":    call.Output,
			"success":   call.Success,
		}
		if call.Failure != "" {
			calls[i]["failure"] = call.Failure
		}
	}
	return map[string]any{
		"id":          u.id.String(),
		"task_id":     u.taskID.String(),
		"agent_id":    u.agentID.String(),
		"created_at":  u.createdAt,
		"tool_calls":  calls,
		"total_calls": len(u.calls),
	}
}
