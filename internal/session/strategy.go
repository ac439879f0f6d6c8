package session

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// ContextStrategy shapes stored messages into model context.
type ContextStrategy interface {
	BuildContext(messages []*schema.Message) string
	GetMaxTurns() int
}

// RecentStrategy keeps the last N turns.
type RecentStrategy struct {
	maxTurns int
}

func NewRecentStrategy(maxTurns int) *RecentStrategy {
	return &RecentStrategy{maxTurns: maxTurns}
}

func (s *RecentStrategy) GetMaxTurns() int {
	return s.maxTurns
}

func (s *RecentStrategy) BuildContext(messages []*schema.Message) string {
	recent := trimTail(messages, s.maxTurns)

	var contextBuilder strings.Builder
	contextBuilder.WriteString("<conversation_context>\n")
	for _, msg := range recent {
		switch msg.Role {
		case schema.User:
			contextBuilder.WriteString("UserMessage(" + msg.Content + ")\n")
		case schema.Assistant:
			contextBuilder.WriteString("AssistantMessage(" + msg.Content + ")\n")
		}
	}
	contextBuilder.WriteString("</conversation_context>")
	return contextBuilder.String()
}

func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if len(messages) <= maxTurns {
		return messages
	}
	return messages[len(messages)-maxTurns:]
}
