package titlegen

import (
	"math/rand"
	"regexp"
	"strings"
)

// TopicRule pairs a topic code with the keywords that trigger it. Rules are
// evaluated in slice order; the first match becomes the primary topic.
type TopicRule struct {
	Topic    string
	Keywords []string
}

// ContentPattern maps a phrase co-occurrence to a fixed title. All phrases
// must be present in the lower-cased message for the pattern to fire.
type ContentPattern struct {
	Phrases []string
	Title   string
}

// Config holds the heuristic tables. All of them are data, not logic, so
// deployments can extend the rules without touching code.
type Config struct {
	Topics          []TopicRule
	IndustryAliases map[string]string   // raw keyword -> canonical industry
	IndustryTitles  map[string][]string // canonical industry -> title set
	TopicTitles     map[string][]string // topic code -> title set
	Patterns        []ContentPattern
	TopicSuffixes   map[string]string // topic code -> proper-noun suffix
	GenericTitles   []string
	DefaultTitles   []string // assigned at session creation when no name given
}

func DefaultConfig() Config {
	return Config{
		Topics: []TopicRule{
			{Topic: "market_research", Keywords: []string{"market research", "market size", "market trend", "industry report", "market analysis"}},
			{Topic: "competitor_analysis", Keywords: []string{"competitor", "competition", "compare against", "rival", "market share"}},
			{Topic: "business_strategy", Keywords: []string{"strategy", "business model", "growth plan", "roadmap", "positioning"}},
			{Topic: "startup", Keywords: []string{"startup", "founder", "mvp", "seed round", "venture"}},
			{Topic: "marketing", Keywords: []string{"marketing", "campaign", "branding", "advertising", "seo"}},
		},
		IndustryAliases: map[string]string{
			"fintech":    "finance",
			"banking":    "finance",
			"finance":    "finance",
			"financial":  "finance",
			"insurance":  "finance",
			"saas":       "technology",
			"software":   "technology",
			"tech":       "technology",
			"technology": "technology",
			"ecommerce":  "retail",
			"e-commerce": "retail",
			"retail":     "retail",
			"healthcare": "healthcare",
			"health":     "healthcare",
			"medical":    "healthcare",
		},
		IndustryTitles: map[string][]string{
			"finance":    {"Financial Strategy", "Fintech Analysis", "Financial Planning"},
			"technology": {"Tech Strategy", "Software Market Analysis", "Technology Roadmap"},
			"retail":     {"Retail Strategy", "E-commerce Analysis", "Retail Growth Planning"},
			"healthcare": {"Healthcare Strategy", "Health Market Analysis", "Healthcare Planning"},
		},
		TopicTitles: map[string][]string{
			"market_research":     {"Market Research", "Market Analysis", "Industry Insights"},
			"competitor_analysis": {"Competitor Analysis", "Competitive Landscape", "Competitor Research"},
			"business_strategy":   {"Business Strategy", "Strategic Planning", "Growth Strategy"},
			"startup":             {"Startup Planning", "Startup Strategy", "Venture Discussion"},
			"marketing":           {"Marketing Strategy", "Marketing Plan", "Campaign Planning"},
		},
		Patterns: []ContentPattern{
			{Phrases: []string{"what", "trend"}, Title: "Market Trends Analysis"},
			{Phrases: []string{"business plan"}, Title: "Business Planning"},
			{Phrases: []string{"how", "grow"}, Title: "Growth Discussion"},
			{Phrases: []string{"swot"}, Title: "SWOT Analysis"},
		},
		TopicSuffixes: map[string]string{
			"market_research":     "Market Research",
			"competitor_analysis": "Analysis",
			"business_strategy":   "Strategy",
		},
		GenericTitles: []string{
			"Business Discussion",
			"Quick Question",
			"Strategy Session",
			"Business Insights",
		},
		DefaultTitles: []string{
			"New Conversation",
			"Fresh Ideas",
			"Business Brainstorm",
			"Untitled Session",
		},
	}
}

// Engine derives chat session titles from the first user message. The random
// source is injected so title selection is reproducible under test.
type Engine struct {
	cfg Config
	rng *rand.Rand
}

func NewEngine(cfg Config, rng *rand.Rand) *Engine {
	return &Engine{cfg: cfg, rng: rng}
}

// Capitalized phrase: two-or-more consecutive capitalized words, or a single
// capitalized word as a last resort.
var properNounRe = regexp.MustCompile(`[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)+|[A-Z][a-zA-Z]+`)

// Sentence starters and fillers that the proper-noun extractor must skip.
var skipWords = map[string]bool{
	"what": true, "how": true, "why": true, "when": true, "where": true,
	"who": true, "can": true, "could": true, "should": true, "would": true,
	"is": true, "are": true, "do": true, "does": true, "the": true,
	"a": true, "an": true, "i": true, "my": true, "please": true,
}

// Derive maps a first chat message (plus the caller's profile industry, ""
// if unknown) to a short display title. It never returns an empty string.
func (e *Engine) Derive(message, industry string) string {
	lower := strings.ToLower(message)

	// 1. Industry beats everything: a fintech question gets a finance title
	// even when it also matches a generic topic or content pattern.
	if canonical := e.detectIndustry(lower, industry); canonical != "" {
		if set, ok := e.cfg.IndustryTitles[canonical]; ok && len(set) > 0 {
			return e.pick(set)
		}
	}

	// 2. Fixed content patterns.
	for _, p := range e.cfg.Patterns {
		if containsAll(lower, p.Phrases) {
			return p.Title
		}
	}

	// 3. Topic keyword sets, in priority order.
	topics := e.matchTopics(lower)
	if len(topics) > 0 {
		if set, ok := e.cfg.TopicTitles[topics[0]]; ok && len(set) > 0 {
			return e.pick(set)
		}
	}

	// 4. Proper-noun phrase plus a topic-derived suffix.
	if phrase := e.extractProperNoun(message); phrase != "" {
		suffix := "Analysis"
		if len(topics) > 0 {
			if s, ok := e.cfg.TopicSuffixes[topics[0]]; ok {
				suffix = s
			}
		}
		return phrase + " " + suffix
	}

	// 5. First significant words of the message, title-cased.
	if t := e.significantWords(lower); t != "" {
		return t
	}

	// 6. Generic pool.
	return e.pick(e.cfg.GenericTitles)
}

// RandomDefault returns a creative placeholder title for freshly created
// sessions with no caller-supplied name.
func (e *Engine) RandomDefault() string {
	return e.pick(e.cfg.DefaultTitles)
}

// detectIndustry prefers the caller-supplied profile industry over keywords
// found in the message, then normalizes either through the alias table.
func (e *Engine) detectIndustry(lowerMessage, profileIndustry string) string {
	if profileIndustry != "" {
		p := strings.ToLower(strings.TrimSpace(profileIndustry))
		if canonical, ok := e.cfg.IndustryAliases[p]; ok {
			return canonical
		}
		for _, word := range splitWords(p) {
			if canonical, ok := e.cfg.IndustryAliases[word]; ok {
				return canonical
			}
		}
	}

	// Whole-word lookup so "tech" never fires inside "fintech".
	for _, word := range splitWords(lowerMessage) {
		if canonical, ok := e.cfg.IndustryAliases[word]; ok {
			return canonical
		}
	}
	return ""
}

func (e *Engine) matchTopics(lowerMessage string) []string {
	var matched []string
	for _, rule := range e.cfg.Topics {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowerMessage, kw) {
				matched = append(matched, rule.Topic)
				break
			}
		}
	}
	return matched
}

func (e *Engine) extractProperNoun(message string) string {
	matches := properNounRe.FindAllString(message, -1)

	// Multi-word phrases are a stronger signal than single words.
	for _, c := range matches {
		if !strings.Contains(c, " ") {
			continue
		}
		if skipWords[strings.ToLower(strings.Fields(c)[0])] {
			continue
		}
		return c
	}

	for _, c := range matches {
		if strings.Contains(c, " ") || skipWords[strings.ToLower(c)] {
			continue
		}
		if strings.HasPrefix(message, c) {
			// Sentence-initial capitalization, not a name.
			continue
		}
		return c
	}
	return ""
}

// Greetings and fillers that carry no topic signal on their own. Checked
// alongside skipWords when picking significant words.
var fillerWords = map[string]bool{
	"hello": true, "hi": true, "hey": true, "there": true, "thanks": true,
	"about": true, "tell": true, "give": true, "need": true, "want": true,
	"help": true, "with": true, "for": true, "and": true, "you": true,
	"your": true, "our": true, "this": true, "that": true, "some": true,
}

// significantWords builds a title from the first few content-bearing words.
// It needs at least two to avoid one-word non-titles; otherwise the caller
// falls through to the generic pool.
func (e *Engine) significantWords(lowerMessage string) string {
	var picked []string
	for _, w := range splitWords(lowerMessage) {
		if len(w) < 3 || skipWords[w] || fillerWords[w] {
			continue
		}
		picked = append(picked, strings.ToUpper(w[:1])+w[1:])
		if len(picked) == 3 {
			break
		}
	}
	if len(picked) < 2 {
		return ""
	}
	return strings.Join(picked, " ")
}

func (e *Engine) pick(set []string) string {
	return set[e.rng.Intn(len(set))]
}

func containsAll(s string, phrases []string) bool {
	for _, p := range phrases {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' || r == '-')
	})
}
