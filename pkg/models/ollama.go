package models

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// OllamaLLM implements Provider against a local Ollama server.
type OllamaLLM struct {
	Client *ollama.Client
}

// NewOllamaLLM constructs a client. An empty host defaults to the standard
// local Ollama address.
func NewOllamaLLM(host string) (*OllamaLLM, error) {
	if host == "" {
		host = "http://localhost:11434"
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}

	httpClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	return &OllamaLLM{Client: ollama.NewClient(u, httpClient)}, nil
}

func (o *OllamaLLM) Chat(ctx context.Context, req ChatRequest) (string, error) {
	messages := make([]ollama.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, ollama.Message{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	options := map[string]any{}
	if req.Temperature > 0 {
		options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	stream := false
	chatReq := &ollama.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   &stream,
		Options:  options,
	}

	var text strings.Builder
	if err := o.Client.Chat(ctx, chatReq, func(resp ollama.ChatResponse) error {
		text.WriteString(resp.Message.Content)
		return nil
	}); err != nil {
		return "", err
	}

	return text.String(), nil
}

var _ Provider = (*OllamaLLM)(nil)
