package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/toolbridge/chatd/pkg/models"
)

const defaultSystemPrompt = "You are a helpful assistant."

// Default sampling parameters. The tool-decision pass runs cooler than the
// final natural-language pass.
const (
	DefaultToolTemperature   = 0.3
	DefaultAnswerTemperature = 0.7
	DefaultMaxTokens         = 500
)

// Options configure a new Orchestrator.
type Options struct {
	Provider models.Provider
	Store    *Store
	Catalog  *Catalog
	Backend  BackendClient

	Model             string
	SystemPrompt      string
	ToolTemperature   float32
	AnswerTemperature float32
	MaxTokens         int
}

// Orchestrator drives one conversational turn end to end: prompt, first
// completion, tool-call detection, optional resolve/dispatch/re-prompt, and
// the history update.
type Orchestrator struct {
	provider   models.Provider
	store      *Store
	catalog    *Catalog
	dispatcher *Dispatcher

	model             string
	systemPrompt      string
	toolTemperature   float32
	answerTemperature float32
	maxTokens         int
}

// New creates an Orchestrator with the provided options.
func New(opts Options) (*Orchestrator, error) {
	if opts.Provider == nil {
		return nil, errors.New("orchestrator requires a completion provider")
	}
	if opts.Backend == nil {
		return nil, errors.New("orchestrator requires a tool backend client")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, errors.New("orchestrator requires a model id")
	}

	store := opts.Store
	if store == nil {
		store = NewStore()
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	systemPrompt := opts.SystemPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = defaultSystemPrompt
	}
	toolTemp := opts.ToolTemperature
	if toolTemp <= 0 {
		toolTemp = DefaultToolTemperature
	}
	answerTemp := opts.AnswerTemperature
	if answerTemp <= 0 {
		answerTemp = DefaultAnswerTemperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &Orchestrator{
		provider:          opts.Provider,
		store:             store,
		catalog:           catalog,
		dispatcher:        NewDispatcher(catalog, opts.Backend),
		model:             opts.Model,
		systemPrompt:      systemPrompt,
		toolTemperature:   toolTemp,
		answerTemperature: answerTemp,
		maxTokens:         maxTokens,
	}, nil
}

// TurnRequest is one caller message.
type TurnRequest struct {
	UserID         string
	Message        string
	ConversationID string
}

// TurnResult is the terminal outcome of a turn.
type TurnResult struct {
	Response       string
	ToolUsed       bool
	ToolResult     string
	ConversationID string
}

// Turn processes a single user message. A completion failure on either pass
// is fatal and leaves history untouched; a tool dispatch failure is narrated
// back through the model like a success.
func (o *Orchestrator) Turn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return TurnResult{}, errors.New("message is empty")
	}
	convoID := NormalizeID(req.ConversationID)
	caller := CallerContext{UserID: strings.TrimSpace(req.UserID)}

	history := o.store.History(convoID)
	prompt := BuildPrompt(caller.UserID, req.Message, history, o.catalog.Specs())

	completion, err := o.complete(ctx, prompt, o.toolTemperature)
	if err != nil {
		return TurnResult{}, fmt.Errorf("completion failed: %w", err)
	}

	inv, isToolCall := DetectToolCall(completion)
	if !isToolCall {
		log.Printf("[turn] conversation=%s direct answer", convoID)
		o.store.Append(convoID,
			Turn{Role: RoleUser, Content: req.Message},
			Turn{Role: RoleAssistant, Content: completion},
		)
		return TurnResult{
			Response:       completion,
			ToolUsed:       false,
			ConversationID: convoID,
		}, nil
	}

	inv = ResolveArguments(inv, caller)
	log.Printf("[turn] conversation=%s tool=%s", convoID, inv.Name)

	result := o.dispatcher.Invoke(ctx, inv)
	if !result.Success {
		log.Printf("[turn] conversation=%s tool=%s dispatch failed: %s", convoID, inv.Name, result.Text)
	}

	finalPrompt := BuildToolResultPrompt(inv.Name, result.Text, req.Message)
	finalAnswer, err := o.complete(ctx, finalPrompt, o.answerTemperature)
	if err != nil {
		return TurnResult{}, fmt.Errorf("completion failed: %w", err)
	}

	o.store.Append(convoID,
		Turn{Role: RoleUser, Content: req.Message},
		Turn{Role: RoleAssistant, Content: fmt.Sprintf("[Tool call: %s]", inv.Name)},
		Turn{Role: RoleAssistant, Content: finalAnswer},
	)

	return TurnResult{
		Response:       finalAnswer,
		ToolUsed:       true,
		ToolResult:     result.Text,
		ConversationID: convoID,
	}, nil
}

// InvokeTool dispatches a tool directly, bypassing the model. Exposed for
// the development /test_tool endpoint.
func (o *Orchestrator) InvokeTool(ctx context.Context, name string, arguments map[string]any) ToolResult {
	if arguments == nil {
		arguments = map[string]any{}
	}
	return o.dispatcher.Invoke(ctx, ToolInvocation{Name: name, Arguments: arguments})
}

// History returns a copy of the conversation's turns.
func (o *Orchestrator) History(conversationID string) []Turn {
	return o.store.History(conversationID)
}

// Clear removes a conversation. Unknown ids are a no-op.
func (o *Orchestrator) Clear(conversationID string) {
	o.store.Clear(conversationID)
}

// Specs exposes the tool catalog for the listing endpoint.
func (o *Orchestrator) Specs() []ToolSpec {
	return o.catalog.Specs()
}

func (o *Orchestrator) complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	return o.provider.Chat(ctx, models.ChatRequest{
		Model: o.model,
		Messages: []models.Message{
			{Role: models.RoleSystem, Content: o.systemPrompt},
			{Role: models.RoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   o.maxTokens,
	})
}
