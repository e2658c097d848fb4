package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentsquad/agentsquad/logging"
	"github.com/agentsquad/agentsquad/parser"
	"github.com/agentsquad/agentsquad/schema"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a
// tool.
//
// Responsibilities:
//   - Holds the argument contract as a schema.Record (explicit, or derived
//     once at construction from a struct)
//   - Resolves model-supplied arguments through the resilient parser in
//     non-strict mode before execution
//   - Normalizes error handling so callers receive *ToolError with consistent
//     codes: VALIDATION_ERROR for argument defects, EXECUTION_ERROR for
//     underlying function failure (custom codes are preserved when the
//     function returns *ToolError directly)
//
// A FunctionTool has no internal mutable state after construction and is safe
// for concurrent use.
type FunctionTool struct {
	name        string
	description string
	args        *schema.Record
	parser      *parser.Parser
	descriptor  Descriptor
	fn          Func
	logger      logging.Logger
}

// Func is the capability signature wrapped by FunctionTool: a plain callable
// receiving already-validated, name-bound arguments.
type Func func(ctx context.Context, args map[string]any) (any, error)

// FunctionToolOptions configure FunctionTool construction.
type FunctionToolOptions struct {
	Logger logging.Logger
	// AugmentDescription controls whether a per-argument summary derived
	// from the schema is appended to the tool description. On by default.
	AugmentDescription bool
}

// NewFunctionTool constructs a FunctionTool from an explicit argument record
// and function. An empty name or description, a nil record or a nil function
// is a construction error; the argument schema is described once here, so a
// record the engine cannot render fails at registration rather than at call
// time.
func NewFunctionTool(
	name, description string,
	args *schema.Record,
	fn Func,
	optFns ...func(*FunctionToolOptions),
) (*FunctionTool, error) {
	if name == "" {
		return nil, fmt.Errorf("tool: a name is required")
	}
	if description == "" {
		return nil, fmt.Errorf("tool %s: a description is required", name)
	}
	if args == nil {
		return nil, fmt.Errorf("tool %s: an argument record is required", name)
	}
	if fn == nil {
		return nil, fmt.Errorf("tool %s: a function is required", name)
	}

	opts := FunctionToolOptions{Logger: logging.NoOpLogger{}, AugmentDescription: true}
	for _, optFn := range optFns {
		optFn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	argsDesc, err := schema.Describe(args)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}
	p, err := parser.New(args, func(o *parser.Options) { o.Logger = opts.Logger })
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}

	if opts.AugmentDescription {
		description = augmentDescription(description, args)
	}

	return &FunctionTool{
		name:        name,
		description: description,
		args:        args,
		parser:      p,
		descriptor:  Descriptor{Name: name, Description: description, Parameters: argsDesc},
		fn:          fn,
		logger:      opts.Logger,
	}, nil
}

// NewFunctionToolFromStruct derives the argument record from a struct using
// reflection. It is a convenience for simple argument containers.
//
// Example:
//
//	type SumArgs struct {
//	  A float64 `json:"a" description:"First addend"`
//	  B float64 `json:"b" description:"Second addend"`
//	}
//
//	sumTool, err := NewFunctionToolFromStruct(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  SumArgs{},
//	  func(_ context.Context, args map[string]any) (any, error) {
//	    return args["a"].(float64) + args["b"].(float64), nil
//	  },
//	)
func NewFunctionToolFromStruct(
	name, description string,
	structType any,
	fn Func,
	optFns ...func(*FunctionToolOptions),
) (*FunctionTool, error) {
	record, err := schema.FromStruct(structType)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}
	return NewFunctionTool(name, description, record, fn, optFns...)
}

// Name returns the unique tool name used in tool declarations and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the natural language description exposed to models,
// including the generated per-argument summary.
func (t *FunctionTool) Description() string { return t.description }

// Schema returns the argument contract.
func (t *FunctionTool) Schema() *schema.Record { return t.args }

// Descriptor returns the wire-ready external view of the tool.
func (t *FunctionTool) Descriptor() Descriptor { return t.descriptor }

// Resolve validates and coerces raw arguments through the resilient parser
// in non-strict mode. Failures are wrapped as *ToolError with
// VALIDATION_ERROR.
func (t *FunctionTool) Resolve(args any) (map[string]any, error) {
	resolved, err := t.parser.Parse(args, false)
	if err != nil {
		return nil, &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("argument validation failed: %v", err),
			Code:    CodeValidationError,
			Details: err,
		}
	}
	return resolved, nil
}

// Call invokes the underlying function with resolved arguments. Execution
// failures are wrapped (or passed through) as *ToolError for uniform
// downstream handling; the capability's own failure is otherwise propagated
// unchanged inside the wrapper.
func (t *FunctionTool) Call(ctx context.Context, args map[string]any) (any, error) {
	start := time.Now()
	t.logger.Debug("tool.call.start", "tool", t.name)

	result, err := t.fn(ctx, args)
	if err != nil {
		if toolErr, ok := err.(*ToolError); ok {
			t.logger.Error("tool.call.error", "tool", t.name, "error", toolErr.Message)
			return nil, toolErr
		}
		t.logger.Error("tool.call.error", "tool", t.name, "error", err.Error())
		return nil, &ToolError{
			Tool:    t.name,
			Message: err.Error(),
			Code:    CodeExecutionError,
		}
	}

	t.logger.Info("tool.call.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// augmentDescription appends a per-argument summary derived from the schema
// to the human-supplied description.
func augmentDescription(description string, args *schema.Record) string {
	fields := args.Fields()
	if len(fields) == 0 {
		return description
	}
	var b strings.Builder
	b.WriteString(description)
	b.WriteString("\nArguments:")
	for _, f := range fields {
		requirement := "optional"
		if f.Required {
			requirement = "required"
		}
		b.WriteString(fmt.Sprintf("\n- %s: %s (%s)", f.Name, f.Type.Kind, requirement))
		if f.Description != "" {
			b.WriteString(". " + f.Description)
		}
	}
	return b.String()
}
