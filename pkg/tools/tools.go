package tools

import (
	"context"
	"fmt"
)

// Tool is a single analysis capability the agent can invoke by name with a
// free-text input.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, input string) (string, error)
}

// Registry maps tool names to implementations. Registration order is kept so
// tool listings are stable.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// DefaultRegistry wires the built-in business intelligence tool set.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewWebSearchTool(),
		NewMarketResearchTool(),
		NewCompetitorAnalysisTool(),
		NewBusinessStrategyTool(),
	)
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Execute runs a registered tool by name.
func (r *Registry) Execute(ctx context.Context, name, input string) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	return t.Execute(ctx, input)
}
