// Package rewrite polishes transcribed text into formal report prose.
package rewrite

import (
	"context"
	"fmt"
	"strings"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/frn-eng/intake-agent/internal/domain"
)

type OpenAIRewriter struct {
	client openaigo.Client
	model  string
}

// NewOpenAIRewriter builds the default chat-completion rewriter.
func NewOpenAIRewriter(apiKey, baseURL, model string) *OpenAIRewriter {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}
	if model == "" {
		model = "gpt-4"
	}

	return &OpenAIRewriter{
		client: openaigo.NewClient(opts...),
		model:  model,
	}
}

func (r *OpenAIRewriter) Rewrite(ctx context.Context, fieldID domain.FieldID, label, raw string) (string, error) {
	prompt := BuildPrompt(fieldID, label, raw)

	res, err := r.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(r.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	text := strings.TrimSpace(res.Choices[0].Message.Content)
	if text == "" {
		// Behavior on empty output is undefined upstream; treat as retryable.
		return "", fmt.Errorf("chat completion returned empty text")
	}
	return text, nil
}
