package agent

import "github.com/agentsquad/agentsquad/model"

// Conversation is the ordered transcript owned by exactly one Executor. It
// only ever grows by appends; messages are never reordered or rewritten.
type Conversation struct {
	messages []model.Message
}

// NewConversation creates an empty transcript.
func NewConversation() *Conversation { return &Conversation{} }

// Append adds a message to the end of the transcript.
func (c *Conversation) Append(msg model.Message) {
	c.messages = append(c.messages, msg)
}

// Messages returns a copy of the transcript in order.
func (c *Conversation) Messages() []model.Message {
	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int { return len(c.messages) }

// System returns the leading system message, if the transcript has one.
func (c *Conversation) System() (model.Message, bool) {
	if len(c.messages) > 0 && c.messages[0].Role == model.RoleSystem {
		return c.messages[0], true
	}
	return model.Message{}, false
}

// Clear empties the transcript, preserving the leading system message.
func (c *Conversation) Clear() {
	if system, ok := c.System(); ok {
		c.messages = []model.Message{system}
		return
	}
	c.messages = nil
}
