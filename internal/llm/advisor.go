// Package llm wraps the hosted chat completion service that generates
// the actual investment advice text. The service is a black box: no
// retries, no backoff; callers degrade gracefully when it fails.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"

	"giniguardian/internal/logger"
	"giniguardian/internal/model"
	"giniguardian/internal/session"
)

// ErrServiceUnavailable wraps any generation failure. The rest of the
// pipeline still runs against the raw input.
var ErrServiceUnavailable = errors.New("advice service unavailable")

const systemPrompt = `너는 GINI GUARDIAN 투자 방어 챗봇이다. 충동적인 매매로부터 사용자를 지키는 것이 최우선이다.
솔직하고 직설적으로, 친구처럼 반말로 조언하라. 특정 종목 매수를 권하지 마라.
답변 마지막 줄에 반드시 사용자의 감정 상태를 0~10 사이 숫자로 평가한 마커를 넣어라: [emotion_score: X]`

// Advisor generates advice text for a consultation.
type Advisor interface {
	Advise(ctx context.Context, sessionID, userText string) (string, error)
}

// ChatAdvisor implements Advisor on an eino openai-compatible chat
// model, with Redis-backed session context.
type ChatAdvisor struct {
	model    *openai.ChatModel
	sessions session.Repository
	strategy session.ContextStrategy
}

// NewChatAdvisor builds the chat model from config.
func NewChatAdvisor(ctx context.Context, config model.LLMConfig, sessions session.Repository, strategy session.ContextStrategy) (*ChatAdvisor, error) {
	maxTokens := config.MaxTokens
	temperature := float32(config.Temperature)

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      config.APIKey,
		BaseURL:     config.BaseURL,
		Model:       config.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}

	return &ChatAdvisor{
		model:    chatModel,
		sessions: sessions,
		strategy: strategy,
	}, nil
}

// Advise generates a reply for userText. The call may block for a few
// seconds; there is no timeout beyond what ctx carries.
func (a *ChatAdvisor) Advise(ctx context.Context, sessionID, userText string) (string, error) {
	start := time.Now()

	history, err := a.sessions.Load(ctx, sessionID)
	if err != nil {
		// Context loss is not fatal: advise without it.
		logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to load session context")
		history = &session.History{}
	}

	var userContent strings.Builder
	if len(history.Messages) > 0 {
		userContent.WriteString(a.strategy.BuildContext(history.Messages))
		userContent.WriteString("\n")
	}
	userContent.WriteString("<current_message_to_analyze>\n")
	userContent.WriteString(userText)
	userContent.WriteString("\n</current_message_to_analyze>")

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userContent.String()),
	}

	out, err := a.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if err := a.sessions.AddMessage(ctx, sessionID, schema.UserMessage(userText)); err != nil {
		logger.Warn().Err(err).Msg("failed to save user message")
	}
	if err := a.sessions.AddMessage(ctx, sessionID, schema.AssistantMessage(out.Content, nil)); err != nil {
		logger.Warn().Err(err).Msg("failed to save assistant message")
	}

	logger.Debug().
		Str("session_id", sessionID).
		Dur("elapsed", time.Since(start)).
		Int("reply_length", len(out.Content)).
		Msg("advice generated")

	return out.Content, nil
}
