package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentsquad/agentsquad/model"
)

func TestConversationAppendOrder(t *testing.T) {
	c := NewConversation()
	c.Append(model.Message{Role: model.RoleSystem, Content: "sys"})
	c.Append(model.Message{Role: model.RoleUser, Content: "hi"})
	c.Append(model.Message{Role: model.RoleAssistant, Content: "hello"})

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "sys", msgs[0].Content)
	assert.Equal(t, "hello", msgs[2].Content)

	// Messages hands out a copy; mutating it does not touch the transcript.
	msgs[0].Content = "tampered"
	fresh := c.Messages()
	assert.Equal(t, "sys", fresh[0].Content)
}

func TestConversationClearKeepsSystem(t *testing.T) {
	c := NewConversation()
	c.Append(model.Message{Role: model.RoleSystem, Content: "sys"})
	c.Append(model.Message{Role: model.RoleUser, Content: "hi"})
	c.Append(model.Message{Role: model.RoleAssistant, Content: "hello"})

	c.Clear()
	require.Equal(t, 1, c.Len())
	system, ok := c.System()
	require.True(t, ok)
	assert.Equal(t, "sys", system.Content)
}

func TestConversationClearWithoutSystem(t *testing.T) {
	c := NewConversation()
	c.Append(model.Message{Role: model.RoleUser, Content: "hi"})

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.System()
	assert.False(t, ok)
}
