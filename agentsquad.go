// Package agentsquad provides a small façade over the execution loop core:
// a schema bridge between statically defined record types and the text-based
// tool-calling protocol of a language model, a resilient argument parser, a
// tool abstraction with its usage ledger, and the turn-based loop driving a
// conversation through tool rounds to a final answer.
//
// Most applications interact with this package by:
//  1. Declaring tools (tool.NewFunctionTool / NewFunctionToolFromStruct)
//  2. Creating an executor via New() around a model implementation
//  3. Calling Invoke per user input
//
// The façade delegates to agent.Executor while keeping setup concise; use
// the agent package directly for full control.
package agentsquad

import (
	"github.com/agentsquad/agentsquad/agent"
	"github.com/agentsquad/agentsquad/logging"
	"github.com/agentsquad/agentsquad/model"
	"github.com/agentsquad/agentsquad/tool"
)

// Options configure New.
type Options struct {
	// Tools registered with the loop.
	Tools []tool.Tool
	// SystemPrompt seeds the transcript's system message.
	SystemPrompt string
	// Memory retains the conversation across invocations.
	Memory bool
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// New creates an execution loop around a model with optional overrides.
func New(mdl model.Model, optFns ...func(o *Options)) (*agent.Executor, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return agent.NewExecutor(mdl, func(o *agent.Options) {
		o.Tools = opts.Tools
		o.SystemPrompt = opts.SystemPrompt
		o.Memory = opts.Memory
		o.Logger = opts.Logger
	})
}
