package models

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAILLM talks to any OpenAI-compatible chat completion endpoint. Groq
// exposes one, which is what the reference deployment points at.
type OpenAILLM struct {
	Client *openai.Client
}

// NewOpenAILLM constructs a client. An empty baseURL targets api.openai.com.
func NewOpenAILLM(apiKey, baseURL string) *OpenAILLM {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAILLM{Client: openai.NewClientWithConfig(cfg)}
}

func (o *OpenAILLM) Chat(ctx context.Context, req ChatRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from completion service")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ Provider = (*OpenAILLM)(nil)
