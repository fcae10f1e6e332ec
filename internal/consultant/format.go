package consultant

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoRecommendation is returned when a report is requested for a result
// without a primary recommendation.
var ErrNoRecommendation = errors.New("no recommendation available")

// Greeting opens every consultation.
const Greeting = "👋 Hi! I'm your database consultant. I'll help you find the perfect database solution for your project.\n\n" +
	"To get started, tell me about your project:\n" +
	"• What type of application are you building?\n" +
	"• What's your expected user load?\n" +
	"• Do you have any specific requirements?"

// FallbackReply is used when nothing better can be said.
const FallbackReply = "I need a bit more information to provide the best recommendation. Could you tell me more about your specific requirements?"

// NoMatchReply is used when no catalog record scores above zero.
const NoMatchReply = "I couldn't find a database in the catalog that matches these requirements. " +
	"Try relaxing one of them, or add more databases to the catalog."

var followUps = map[Topic][]string{
	TopicProjectType: {
		"What type of application are you building? (e.g., web app, mobile app, analytics dashboard, IoT system)",
		"Could you describe your project? Is it a web application, mobile app, or something else?",
	},
	TopicLoad: {
		"What's your expected user load? (e.g., hundreds, thousands, millions of users)",
		"How many users do you expect to have? This helps me recommend the right scaling approach.",
	},
	TopicBudget: {
		"Do you have any budget constraints? Are you looking for open-source solutions or is enterprise licensing okay?",
		"What's your budget situation? Are you cost-conscious or do you have enterprise-level funding?",
	},
	TopicTeam: {
		"How large is your development team? Are you a solo developer or part of a larger team?",
		"What's your team size? This affects the complexity of solutions I can recommend.",
	},
}

// VariantPicker chooses one of n question variants and returns its index.
type VariantPicker func(n int) int

// FirstVariant always picks the first variant.
func FirstVariant(int) int { return 0 }

// FollowUpQuestion asks about the first missing topic and reminds the user
// of what is already known.
func FollowUpQuestion(req Requirements, missing []Topic, pick VariantPicker) string {
	if pick == nil {
		pick = FirstVariant
	}
	question := "Could you provide more details about your requirements?"
	if len(missing) > 0 {
		if variants := followUps[missing[0]]; len(variants) > 0 {
			i := pick(len(variants))
			if i < 0 || i >= len(variants) {
				i = 0
			}
			question = variants[i]
		}
	}

	var b strings.Builder
	b.WriteString(question)
	if req.ProjectType != "" {
		fmt.Fprintf(&b, "\n\nI understand you're building a %s.", req.ProjectType)
	}
	if req.ExpectedLoad != "" {
		fmt.Fprintf(&b, " You mentioned %s load.", req.ExpectedLoad)
	}
	return b.String()
}

// ChatReply renders a recommendation as a chat message.
func ChatReply(r Result) string {
	if r.Primary == nil {
		return NoMatchReply
	}
	p := r.Primary

	var b strings.Builder
	b.WriteString("🎯 **Perfect Match Found!**\n\n")
	fmt.Fprintf(&b, "I recommend **%s** for your project.\n\n", p.Database.Name)
	b.WriteString("**Why it's perfect for you:**\n")
	for _, reason := range p.Reasons {
		fmt.Fprintf(&b, "✅ %s\n", reason)
	}

	if len(p.Warnings) > 0 {
		b.WriteString("\n**Things to consider:**\n")
		for _, w := range p.Warnings {
			fmt.Fprintf(&b, "⚠️ %s\n", w)
		}
	}

	fmt.Fprintf(&b, "\n**Architecture Pattern:** %s\n", r.Architecture.Pattern)
	fmt.Fprintf(&b, "**Estimated Timeline:** %s\n", r.Implementation.Timeline)

	if len(r.Alternatives) > 0 {
		b.WriteString("\n**Alternative Options:**\n")
		for i, alt := range r.Alternatives {
			if i == 2 {
				break
			}
			fmt.Fprintf(&b, "• %s - %s\n", alt.Database.Name, firstOr(alt.Reasons, "Good alternative choice"))
		}
	}

	b.WriteString("\nExport the full report for the implementation plan and cost estimates. 📊")
	return b.String()
}

// MarkdownReport renders a downloadable report for r.
func MarkdownReport(r Result, req Requirements, generatedAt time.Time) (string, error) {
	if r.Primary == nil {
		return "", ErrNoRecommendation
	}
	p := r.Primary

	var b strings.Builder
	b.WriteString("# Database Recommendation Report\n\n")
	fmt.Fprintf(&b, "Generated on: %s\n\n", generatedAt.Format("January 2, 2006"))

	b.WriteString("## Project Requirements\n\n")
	fmt.Fprintf(&b, "- **Project Type:** %s\n", orNotSpecified(string(req.ProjectType)))
	fmt.Fprintf(&b, "- **Expected Load:** %s\n", orNotSpecified(string(req.ExpectedLoad)))
	fmt.Fprintf(&b, "- **Budget:** %s\n", orNotSpecified(string(req.Budget)))
	fmt.Fprintf(&b, "- **Team Size:** %s\n", orNotSpecified(string(req.Team)))
	if len(req.Performance) > 0 {
		needs := make([]string, len(req.Performance))
		for i, n := range req.Performance {
			needs[i] = string(n)
		}
		fmt.Fprintf(&b, "- **Performance Requirements:** %s\n", strings.Join(needs, ", "))
	}

	fmt.Fprintf(&b, "\n## Primary Recommendation: %s\n\n", p.Database.Name)
	fmt.Fprintf(&b, "%s\n\n", p.Database.Description)

	b.WriteString("### Why This Database?\n\n")
	for _, reason := range p.Reasons {
		fmt.Fprintf(&b, "- %s\n", reason)
	}
	if len(p.Warnings) > 0 {
		b.WriteString("\n### Considerations\n\n")
		for _, w := range p.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	b.WriteString("\n## Architecture\n\n")
	fmt.Fprintf(&b, "**Pattern:** %s\n\n", r.Architecture.Pattern)
	b.WriteString("**Components:**\n")
	for _, c := range r.Architecture.Components {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	fmt.Fprintf(&b, "\n**Scaling Strategy:** %s\n", r.Architecture.ScalingStrategy)
	fmt.Fprintf(&b, "**Backup Strategy:** %s\n", r.Architecture.BackupStrategy)

	b.WriteString("\n## Implementation Plan\n\n")
	for i, step := range r.Implementation.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	fmt.Fprintf(&b, "\n**Timeline:** %s\n", r.Implementation.Timeline)

	b.WriteString("\n## Cost Estimates\n\n")
	fmt.Fprintf(&b, "- **Development:** %s\n", r.Costs.Development)
	fmt.Fprintf(&b, "- **Operational:** %s\n", r.Costs.Operational)
	fmt.Fprintf(&b, "- **Scaling:** %s\n", r.Costs.Scaling)

	if len(r.Alternatives) > 0 {
		b.WriteString("\n## Alternative Options\n\n")
		for _, alt := range r.Alternatives {
			fmt.Fprintf(&b, "### %s\n", alt.Database.Name)
			fmt.Fprintf(&b, "%s\n\n", firstOr(alt.Reasons, "Alternative option"))
		}
	}

	b.WriteString("\n---\n*Generated by DBAtlas Database Consultant*")
	return b.String(), nil
}

func firstOr(items []string, fallback string) string {
	if len(items) > 0 {
		return items[0]
	}
	return fallback
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}
