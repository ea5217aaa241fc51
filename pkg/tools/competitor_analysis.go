package tools

import (
	"context"
	"fmt"
	"strings"
)

type competitorProfile struct {
	FullName   string
	MarketCap  string
	Revenue    string
	Strengths  []string
	Weaknesses []string
}

var competitorProfiles = map[string]competitorProfile{
	"microsoft": {
		FullName:   "Microsoft Corporation",
		MarketCap:  "$2.8T",
		Revenue:    "$211B",
		Strengths:  []string{"Cloud platform", "Enterprise software", "Developer tools", "AI capabilities"},
		Weaknesses: []string{"Mobile presence", "Consumer products"},
	},
	"google": {
		FullName:   "Google (Alphabet Inc.)",
		MarketCap:  "$1.7T",
		Revenue:    "$307B",
		Strengths:  []string{"Search dominance", "AI/ML", "Cloud infrastructure"},
		Weaknesses: []string{"Enterprise sales", "Regulatory scrutiny"},
	},
	"amazon": {
		FullName:   "Amazon.com Inc.",
		MarketCap:  "$1.5T",
		Revenue:    "$514B",
		Strengths:  []string{"Logistics", "Cloud services", "Prime ecosystem"},
		Weaknesses: []string{"Regulatory pressure", "Retail margins"},
	},
	"walmart": {
		FullName:   "Walmart Inc.",
		MarketCap:  "$500B",
		Revenue:    "$611B",
		Strengths:  []string{"Physical presence", "Supply chain", "Low prices"},
		Weaknesses: []string{"Technology lag", "International presence"},
	},
}

type CompetitorAnalysisTool struct{}

func NewCompetitorAnalysisTool() *CompetitorAnalysisTool {
	return &CompetitorAnalysisTool{}
}

func (t *CompetitorAnalysisTool) Name() string {
	return "competitor_analysis"
}

func (t *CompetitorAnalysisTool) Description() string {
	return "Competitor analysis and competitive intelligence"
}

func (t *CompetitorAnalysisTool) Execute(ctx context.Context, input string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, ".", "")

	profile, ok := competitorProfiles[key]
	if !ok {
		// No profile on file: return a framework the model can reason with.
		return fmt.Sprintf(
			"No detailed profile available for %q. Suggested competitive assessment framework: "+
				"(1) market positioning and pricing strategy, (2) product and feature comparison, "+
				"(3) distribution channels, (4) customer sentiment, (5) SWOT summary. "+
				"Recommend gathering public filings, pricing pages, and review-site data.",
			strings.TrimSpace(input)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Competitor: %s\n", profile.FullName)
	fmt.Fprintf(&b, "Market cap: %s, revenue: %s\n", profile.MarketCap, profile.Revenue)
	fmt.Fprintf(&b, "Strengths: %s\n", strings.Join(profile.Strengths, "; "))
	fmt.Fprintf(&b, "Weaknesses: %s", strings.Join(profile.Weaknesses, "; "))
	return b.String(), nil
}
