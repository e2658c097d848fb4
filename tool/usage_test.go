package tool

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageRecordAppendOnly(t *testing.T) {
	taskID, agentID := uuid.New(), uuid.New()
	u := NewUsageRecord(taskID, agentID)

	assert.Equal(t, taskID, u.TaskID())
	assert.Equal(t, agentID, u.AgentID())
	assert.Equal(t, 0, u.Len())
	assert.False(t, u.Called("parse_expense"))
	_, ok := u.Last()
	assert.False(t, ok)

	u.AddToolCall(CallResult{ToolName: "parse_expense", Output: "first", Success: true})
	u.AddToolCall(CallResult{ToolName: "parse_income", Failure: "boom", Success: false})
	u.AddToolCall(CallResult{ToolName: "parse_expense", Output: "second", Success: true})

	assert.Equal(t, 3, u.Len())
	assert.Equal(t, []string{"parse_expense", "parse_income", "parse_expense"}, u.ToolNames())
	assert.True(t, u.Called("parse_expense"))
	assert.False(t, u.Called("unknown"))

	assert.Equal(t, []any{"first", "second"}, u.ResultsFor("parse_expense"))

	last, ok := u.Last()
	require.True(t, ok)
	assert.Equal(t, "second", last.Output)

	lastIncome, ok := u.LastFor("parse_income")
	require.True(t, ok)
	assert.False(t, lastIncome.Success)
	assert.Equal(t, "boom", lastIncome.Failure)

	_, ok = u.LastFor("unknown")
	assert.False(t, ok)

	successful := u.Successful()
	require.Len(t, successful, 2)
	assert.Equal(t, "first", successful[0].Output)
	assert.Equal(t, "second", successful[1].Output)
}

func TestUsageRecordCallsReturnsCopy(t *testing.T) {
	u := NewUsageRecord(uuid.New(), uuid.New())
	u.AddToolCall(CallResult{ToolName: "a", Output: 1, Success: true})

	calls := u.Calls()
	calls[0].ToolName = "tampered"

	fresh := u.Calls()
	assert.Equal(t, "a", fresh[0].ToolName)
}

func TestUsageRecordSummary(t *testing.T) {
	u := NewUsageRecord(uuid.New(), uuid.New())
	u.AddToolCall(CallResult{
		ToolName:  "parse_expense",
		Arguments: map[string]any{"value": 200.5},
		Output:    map[string]any{"ok": true},
		Success:   true,
	})
	u.AddToolCall(CallResult{ToolName: "broken", Failure: "no luck", Success: false})

	summary := u.Summary()
	assert.Equal(t, 2, summary["total_calls"])
	assert.Equal(t, u.ID().String(), summary["id"])

	calls, ok := summary["tool_calls"].([]map[string]any)
	require.True(t, ok)
	assert.Equal(t, "parse_expense", calls[0]["tool_name"])
	assert.Equal(t, true, calls[0]["success"])
	assert.Equal(t, "no luck", calls[1]["failure"])
}
