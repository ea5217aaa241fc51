package titlegen

import (
	"math/rand"
	"testing"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultConfig(), rand.New(rand.NewSource(42)))
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func TestDeriveSelectsFromExpectedSet(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		message  string
		industry string
		wantSet  []string
	}{
		{
			name:    "fintech message prefers finance industry set over market research topic",
			message: "What are the market trends in fintech?",
			wantSet: cfg.IndustryTitles["finance"],
		},
		{
			name:     "profile industry wins without message keywords",
			message:  "Where should we expand next year?",
			industry: "SaaS",
			wantSet:  cfg.IndustryTitles["technology"],
		},
		{
			name:    "competitor question maps to competitor analysis set",
			message: "How do I compare against my competitors?",
			wantSet: cfg.TopicTitles["competitor_analysis"],
		},
		{
			name:    "marketing keywords map to marketing set",
			message: "help me plan a marketing campaign",
			wantSet: cfg.TopicTitles["marketing"],
		},
		{
			name:    "no match falls back to generic pool",
			message: "hello there",
			wantSet: cfg.GenericTitles,
		},
		{
			name:    "empty message falls back to generic pool",
			message: "",
			wantSet: cfg.GenericTitles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			got := e.Derive(tt.message, tt.industry)
			if got == "" {
				t.Fatal("Derive returned empty title")
			}
			if !contains(tt.wantSet, got) {
				t.Errorf("Derive(%q, %q) = %q, want one of %v", tt.message, tt.industry, got, tt.wantSet)
			}
		})
	}
}

func TestDeriveContentPatterns(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "business plan beats proper noun extraction",
			message: "business plan for Acme Corp",
			want:    "Business Planning",
		},
		{
			name:    "what plus trend yields market trends title",
			message: "what do these trends mean for my shop?",
			want:    "Market Trends Analysis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			if got := e.Derive(tt.message, ""); got != tt.want {
				t.Errorf("Derive(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestDeriveProperNounExtraction(t *testing.T) {
	e := newTestEngine()

	got := e.Derive("Tell me about Acme Corp", "")
	if got != "Acme Corp Analysis" {
		t.Errorf("Derive = %q, want %q", got, "Acme Corp Analysis")
	}

	// A matched topic with no title set falls through to the extractor,
	// which picks up the topic's suffix.
	cfg := DefaultConfig()
	delete(cfg.TopicTitles, "business_strategy")
	e2 := NewEngine(cfg, rand.New(rand.NewSource(1)))
	got = e2.Derive("analyze the Globex strategy for next year", "")
	if got != "Globex Strategy" {
		t.Errorf("Derive = %q, want %q", got, "Globex Strategy")
	}
}

func TestDeriveSentenceStartersNotExtracted(t *testing.T) {
	e := newTestEngine()
	cfg := DefaultConfig()

	// "Should" is capitalized but must not become "Should Analysis".
	got := e.Derive("Should we expand?", "")
	if !contains(cfg.GenericTitles, got) {
		t.Errorf("Derive = %q, want a generic title", got)
	}
}

func TestDeriveSignificantWordsFallback(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "content words become a title before the generic pool",
			message: "analyze quarterly revenue projections",
			want:    "Analyze Quarterly Revenue",
		},
		{
			name:    "fillers are skipped",
			message: "hello, need help with supplier contract renewals",
			want:    "Supplier Contract Renewals",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			if got := e.Derive(tt.message, ""); got != tt.want {
				t.Errorf("Derive(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}

	// A single content word is not a title; that still lands in the pool.
	e := newTestEngine()
	got := e.Derive("projections?", "")
	if !contains(cfg.GenericTitles, got) {
		t.Errorf("Derive = %q, want a generic title", got)
	}
}

func TestDeriveNeverEmpty(t *testing.T) {
	e := newTestEngine()
	inputs := []string{"", " ", "?", "123", "ALLCAPS", "a b c d e f g"}
	for _, in := range inputs {
		if got := e.Derive(in, ""); got == "" {
			t.Errorf("Derive(%q) returned empty title", in)
		}
	}
}

func TestDeriveSeededReproducibility(t *testing.T) {
	a := NewEngine(DefaultConfig(), rand.New(rand.NewSource(7)))
	b := NewEngine(DefaultConfig(), rand.New(rand.NewSource(7)))

	for i := 0; i < 10; i++ {
		ta := a.Derive("market research for my startup", "")
		tb := b.Derive("market research for my startup", "")
		if ta != tb {
			t.Fatalf("same seed diverged: %q vs %q", ta, tb)
		}
	}
}

func TestRandomDefaultNeverEmpty(t *testing.T) {
	e := newTestEngine()
	for i := 0; i < 20; i++ {
		if e.RandomDefault() == "" {
			t.Fatal("RandomDefault returned empty title")
		}
	}
}
