package tools

import (
	"context"
	"fmt"
	"strings"
)

type businessModel struct {
	Name           string
	Description    string
	RevenueStreams []string
	SuccessMetrics []string
}

var businessModels = map[string]businessModel{
	"saas": {
		Name:           "Software as a Service (SaaS)",
		Description:    "Subscription-based software delivery model",
		RevenueStreams: []string{"Subscription fees", "Premium features", "Professional services"},
		SuccessMetrics: []string{"MRR/ARR", "Churn rate", "LTV/CAC", "Net revenue retention"},
	},
	"marketplace": {
		Name:           "Marketplace Platform",
		Description:    "Two-sided platform connecting buyers and sellers",
		RevenueStreams: []string{"Transaction fees", "Listing fees", "Advertising"},
		SuccessMetrics: []string{"GMV", "Take rate", "Active users"},
	},
	"freemium": {
		Name:           "Freemium Model",
		Description:    "Free basic service with premium paid features",
		RevenueStreams: []string{"Premium subscriptions", "In-app purchases", "Advertising"},
		SuccessMetrics: []string{"Conversion rate", "ARPU", "Retention"},
	},
	"subscription": {
		Name:           "Subscription Model",
		Description:    "Recurring payment for continued access",
		RevenueStreams: []string{"Monthly/annual subscriptions", "Tiered pricing", "Add-ons"},
		SuccessMetrics: []string{"MRR/ARR", "Churn rate", "LTV"},
	},
}

var swotDimensions = []string{"Strengths", "Weaknesses", "Opportunities", "Threats"}

var porterForces = []string{
	"Threat of new entrants",
	"Bargaining power of suppliers",
	"Bargaining power of buyers",
	"Threat of substitutes",
	"Competitive rivalry",
}

type BusinessStrategyTool struct{}

func NewBusinessStrategyTool() *BusinessStrategyTool {
	return &BusinessStrategyTool{}
}

func (t *BusinessStrategyTool) Name() string {
	return "business_strategy"
}

func (t *BusinessStrategyTool) Description() string {
	return "Business strategy analysis and recommendations"
}

func (t *BusinessStrategyTool) Execute(ctx context.Context, input string) (string, error) {
	lower := strings.ToLower(input)

	for key, model := range businessModels {
		if strings.Contains(strings.ReplaceAll(lower, " ", ""), key) {
			var b strings.Builder
			fmt.Fprintf(&b, "Business model: %s\n", model.Name)
			fmt.Fprintf(&b, "%s\n", model.Description)
			fmt.Fprintf(&b, "Revenue streams: %s\n", strings.Join(model.RevenueStreams, "; "))
			fmt.Fprintf(&b, "Success metrics: %s", strings.Join(model.SuccessMetrics, ", "))
			return b.String(), nil
		}
	}

	if strings.Contains(lower, "swot") {
		return fmt.Sprintf("SWOT framework dimensions: %s. Assess each dimension against the stated goal: %s",
			strings.Join(swotDimensions, ", "), strings.TrimSpace(input)), nil
	}

	return fmt.Sprintf(
		"Strategic assessment for %q using Porter's Five Forces: %s. "+
			"Recommendation: score each force, then prioritize initiatives that strengthen the weakest position.",
		strings.TrimSpace(input), strings.Join(porterForces, "; ")), nil
}
