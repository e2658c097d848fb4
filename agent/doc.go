// Package agent implements the turn-based execution loop mediating between a
// conversation transcript, a language model and a set of registered tools.
//
// One Executor owns one Conversation. Each Invoke drives the explicit state
// machine
//
//	INIT -> AWAITING_MODEL -> (TOOL_DISPATCH -> AWAITING_MODEL)* -> DONE
//
// sending the full transcript plus every tool descriptor to the model each
// round, dispatching any requested tool calls strictly sequentially, and
// terminating on the first reply without tool calls. Tool failures are
// contained; model failures propagate to the caller unchanged.
package agent
