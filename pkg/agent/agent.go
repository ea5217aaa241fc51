package agent

import (
	"context"
	"regexp"
	"strings"

	"bi-copilot-be/pkg/llm"
	"bi-copilot-be/pkg/tools"
)

// BusinessContext carries the caller's profile attributes used to ground the
// model. It is transient, attached per request, never persisted on its own.
type BusinessContext struct {
	Company      string
	Industry     string
	BusinessType string
	CompanySize  string
}

func (c BusinessContext) IsEmpty() bool {
	return c.Company == "" && c.Industry == "" && c.BusinessType == "" && c.CompanySize == ""
}

// Format renders the context as a single line for a system message.
func (c BusinessContext) Format() string {
	var parts []string
	if c.Company != "" {
		parts = append(parts, "Company: "+c.Company)
	}
	if c.Industry != "" {
		parts = append(parts, "Industry: "+c.Industry)
	}
	if c.BusinessType != "" {
		parts = append(parts, "Business Type: "+c.BusinessType)
	}
	if c.CompanySize != "" {
		parts = append(parts, "Company Size: "+c.CompanySize)
	}
	return strings.Join(parts, " | ")
}

// Result is one completed assistant turn.
type Result struct {
	Reply     string
	ToolsUsed []string
}

type Config struct {
	SystemPrompt   string
	FollowUpPrompt string
	Temperature    float64
	MaxTokens      int
	HistoryWindow  int // max history messages sent upstream
}

// Agent wraps the completion provider with the tool-use protocol: the model
// requests tools inline via TOOL_USE markers, the agent executes them and
// asks for a final grounded answer.
type Agent struct {
	provider llm.LLMProvider
	registry *tools.Registry
	cfg      Config
}

func New(provider llm.LLMProvider, registry *tools.Registry, cfg Config) *Agent {
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 10
	}
	return &Agent{
		provider: provider,
		registry: registry,
		cfg:      cfg,
	}
}

var (
	toolCallRe  = regexp.MustCompile(`TOOL_USE:\s*(\w+)\("([^"]+)"\)`)
	toolStripRe = regexp.MustCompile(`TOOL_USE:\s*\w+\("[^"]+"\)\s*`)
)

// Complete runs one assistant turn over the given user/assistant history.
// Provider errors propagate; the caller owns the degrade policy.
func (a *Agent) Complete(ctx context.Context, history []llm.Message, bizCtx BusinessContext) (*Result, error) {
	messages := a.buildConversation(history, bizCtx)

	opts := []llm.Option{
		llm.WithTemperature(a.cfg.Temperature),
	}
	if a.cfg.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(a.cfg.MaxTokens))
	}

	reply, err := a.provider.Chat(ctx, messages, opts...)
	if err != nil {
		return nil, err
	}

	toolsUsed := a.runTools(ctx, reply, &messages)

	// A second pass folds the tool output into the final answer.
	if len(toolsUsed) > 0 {
		messages = append(messages, llm.Message{
			Role:    "user",
			Content: a.cfg.FollowUpPrompt,
		})

		final, err := a.provider.Chat(ctx, messages, opts...)
		if err == nil && final != "" {
			reply = final
		}
		// On follow-up failure the first-pass reply still stands.
	}

	reply = strings.TrimSpace(toolStripRe.ReplaceAllString(reply, ""))

	return &Result{
		Reply:     reply,
		ToolsUsed: toolsUsed,
	}, nil
}

func (a *Agent) buildConversation(history []llm.Message, bizCtx BusinessContext) []llm.Message {
	messages := []llm.Message{
		{Role: "system", Content: a.cfg.SystemPrompt},
	}

	if !bizCtx.IsEmpty() {
		messages = append(messages, llm.Message{
			Role:    "system",
			Content: "Business Context: " + bizCtx.Format(),
		})
	}

	recent := history
	if len(recent) > a.cfg.HistoryWindow {
		recent = recent[len(recent)-a.cfg.HistoryWindow:]
	}

	for _, msg := range recent {
		if msg.Role == "user" || msg.Role == "assistant" {
			messages = append(messages, msg)
		}
	}

	return messages
}

// runTools executes each requested tool and appends its result to the
// conversation. A failing tool is skipped; the remaining tools still run.
func (a *Agent) runTools(ctx context.Context, reply string, messages *[]llm.Message) []string {
	var toolsUsed []string
	seen := make(map[string]bool)

	for _, match := range toolCallRe.FindAllStringSubmatch(reply, -1) {
		name, input := match[1], match[2]

		tool, ok := a.registry.Get(name)
		if !ok {
			continue
		}

		result, err := tool.Execute(ctx, input)
		if err != nil {
			continue
		}

		if !seen[name] {
			seen[name] = true
			toolsUsed = append(toolsUsed, name)
		}

		*messages = append(*messages, llm.Message{
			Role:    "system",
			Content: "Tool " + name + " result: " + result,
		})
	}

	return toolsUsed
}
