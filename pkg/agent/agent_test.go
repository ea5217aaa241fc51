package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bi-copilot-be/pkg/llm"
	"bi-copilot-be/pkg/tools"
)

// scriptedProvider returns queued replies in order, then repeats the last.
type scriptedProvider struct {
	replies []string
	err     error
	calls   [][]llm.Message
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	p.calls = append(p.calls, history)
	if p.err != nil {
		return "", p.err
	}
	idx := len(p.calls) - 1
	if idx >= len(p.replies) {
		idx = len(p.replies) - 1
	}
	return p.replies[idx], nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func testConfig() Config {
	return Config{
		SystemPrompt:   "system prompt",
		FollowUpPrompt: "follow up",
		Temperature:    0.7,
		HistoryWindow:  10,
	}
}

func TestCompletePlainReply(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"Here is my take."}}
	a := New(provider, tools.DefaultRegistry(), testConfig())

	res, err := a.Complete(context.Background(), []llm.Message{
		{Role: "user", Content: "how should I price?"},
	}, BusinessContext{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Reply != "Here is my take." {
		t.Errorf("Reply = %q", res.Reply)
	}
	if len(res.ToolsUsed) != 0 {
		t.Errorf("ToolsUsed = %v, want none", res.ToolsUsed)
	}
	if len(provider.calls) != 1 {
		t.Errorf("provider called %d times, want 1", len(provider.calls))
	}
}

func TestCompleteToolUseRoundTrip(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		`Let me check. TOOL_USE: market_research("fintech")`,
		"Final grounded answer.",
	}}
	a := New(provider, tools.DefaultRegistry(), testConfig())

	res, err := a.Complete(context.Background(), []llm.Message{
		{Role: "user", Content: "fintech market trends?"},
	}, BusinessContext{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Reply != "Final grounded answer." {
		t.Errorf("Reply = %q", res.Reply)
	}
	if len(res.ToolsUsed) != 1 || res.ToolsUsed[0] != "market_research" {
		t.Errorf("ToolsUsed = %v", res.ToolsUsed)
	}
	if len(provider.calls) != 2 {
		t.Fatalf("provider called %d times, want 2", len(provider.calls))
	}

	// Second call must carry the tool result and the follow-up prompt.
	second := provider.calls[1]
	var sawToolResult, sawFollowUp bool
	for _, m := range second {
		if m.Role == "system" && strings.Contains(m.Content, "Tool market_research result:") {
			sawToolResult = true
		}
		if m.Role == "user" && m.Content == "follow up" {
			sawFollowUp = true
		}
	}
	if !sawToolResult || !sawFollowUp {
		t.Errorf("second call missing tool result (%v) or follow-up (%v)", sawToolResult, sawFollowUp)
	}
}

func TestCompleteStripsUnknownToolMarkers(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		`TOOL_USE: nonexistent("x") Here is the answer anyway.`,
	}}
	a := New(provider, tools.DefaultRegistry(), testConfig())

	res, err := a.Complete(context.Background(), []llm.Message{
		{Role: "user", Content: "hello"},
	}, BusinessContext{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(res.Reply, "TOOL_USE") {
		t.Errorf("marker not stripped: %q", res.Reply)
	}
	if len(res.ToolsUsed) != 0 {
		t.Errorf("unknown tool recorded: %v", res.ToolsUsed)
	}
}

func TestCompleteProviderErrorPropagates(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("upstream down")}
	a := New(provider, tools.DefaultRegistry(), testConfig())

	_, err := a.Complete(context.Background(), nil, BusinessContext{})
	if err == nil {
		t.Fatal("expected provider error to propagate")
	}
}

func TestBuildConversationWindowAndContext(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"done"}}
	cfg := testConfig()
	cfg.HistoryWindow = 4
	a := New(provider, tools.DefaultRegistry(), cfg)

	var history []llm.Message
	for i := 0; i < 12; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history = append(history, llm.Message{Role: role, Content: "turn"})
	}

	_, err := a.Complete(context.Background(), history, BusinessContext{
		Company:  "Acme",
		Industry: "Fintech",
	})
	if err != nil {
		t.Fatal(err)
	}

	call := provider.calls[0]
	// system prompt + business context + 4 windowed turns
	if len(call) != 6 {
		t.Fatalf("conversation length = %d, want 6", len(call))
	}
	if call[1].Role != "system" || !strings.Contains(call[1].Content, "Company: Acme | Industry: Fintech") {
		t.Errorf("business context message = %+v", call[1])
	}
}

func TestBusinessContextFormat(t *testing.T) {
	ctx := BusinessContext{
		Company:      "Acme",
		Industry:     "Retail",
		BusinessType: "B2C",
		CompanySize:  "11-50",
	}
	want := "Company: Acme | Industry: Retail | Business Type: B2C | Company Size: 11-50"
	if got := ctx.Format(); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	if !(BusinessContext{}).IsEmpty() {
		t.Error("zero context should be empty")
	}
}
