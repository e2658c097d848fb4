// Package tool implements the function / tool calling subsystem: invocable
// capabilities bound to a name, a description and a structured argument
// contract, plus the append-only usage ledger recording their invocations.
package tool

import (
	"context"
	"fmt"

	"github.com/agentsquad/agentsquad/schema"
)

// Tool defines the interface for a single invocable capability.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions (snake_case names)
//   - Declare their argument contract as a schema.Record
//   - Handle errors gracefully and return *ToolError where possible
type Tool interface {
	// Name returns the unique identifier for this tool. Names must be unique
	// among the tools registered for one conversation turn.
	Name() string

	// Description returns a human-readable description of what this tool
	// does, provided to the model to guide tool selection.
	Description() string

	// Schema returns the argument contract.
	Schema() *schema.Record

	// Descriptor returns the wire-ready external view of the tool.
	Descriptor() Descriptor

	// Resolve validates and coerces raw model-supplied arguments (JSON
	// string or decoded map) into a validated instance of the schema.
	Resolve(args any) (map[string]any, error)

	// Call executes the tool with resolved arguments.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Descriptor is the externally visible {name, description, argument schema}
// triple for a tool, regenerated whenever the underlying schema changes.
type Descriptor struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Parameters  *schema.Description `json:"parameters"`
}

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

// Error codes used by the built-in tools.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeExecutionError  = "EXECUTION_ERROR"
)

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
