package ai

import "encoding/json"

// Message is one chat message. ReasoningDetails is the opaque reasoning
// trace returned by the service; it is passed back unmodified.
type Message struct {
	Role             string          `json:"role"`
	Content          string          `json:"content"`
	ReasoningDetails json.RawMessage `json:"reasoning_details,omitempty"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation accumulates the messages of the two-round verify exchange.
type Conversation struct {
	Messages []Message
}

// NewConversation starts a conversation with a system and a user prompt.
func NewConversation(systemPrompt, userPrompt string) *Conversation {
	return &Conversation{
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userPrompt},
		},
	}
}

// AddAssistant appends a model reply, keeping its reasoning trace attached.
func (c *Conversation) AddAssistant(reply Message) {
	c.Messages = append(c.Messages, Message{
		Role:             RoleAssistant,
		Content:          reply.Content,
		ReasoningDetails: reply.ReasoningDetails,
	})
}

// AddUser appends a user message.
func (c *Conversation) AddUser(content string) {
	c.Messages = append(c.Messages, Message{Role: RoleUser, Content: content})
}

// History returns a copy of the messages so far.
func (c *Conversation) History() []Message {
	return append([]Message(nil), c.Messages...)
}
