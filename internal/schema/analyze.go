package schema

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UseCaseAnalysis is a keyword reading of a free-text use-case description.
type UseCaseAnalysis struct {
	Entities              []string `json:"entities"`
	Relationships         []string `json:"relationships"`
	BusinessRules         []string `json:"businessRules"`
	DataFlow              []string `json:"dataFlow"`
	ScalingConsiderations []string `json:"scalingConsiderations"`
}

var knownEntities = []string{
	"user", "customer", "product", "order", "payment", "address", "category",
	"post", "comment", "article", "blog", "tag", "media", "image", "file",
	"company", "contact", "deal", "lead", "opportunity", "task", "activity",
	"invoice", "transaction", "account", "profile", "setting", "notification",
	"message", "chat", "conversation", "group", "team", "project", "event",
	"booking", "reservation", "appointment", "schedule", "calendar",
	"inventory", "stock", "warehouse", "supplier", "vendor", "purchase",
}

var relationshipPhrases = []string{
	"belongs to", "has many", "has one", "contains", "includes",
	"associated with", "linked to", "connected to", "part of",
}

// cue emits its findings when any keyword occurs in a description.
type cue struct {
	keywords []string
	findings []string
}

var businessRuleCues = []cue{
	{[]string{"must", "required"}, []string{"Required field validation needed"}},
	{[]string{"unique", "duplicate"}, []string{"Unique constraints required"}},
	{[]string{"audit", "track"}, []string{"Audit trail required"}},
	{[]string{"permission", "access"}, []string{"Access control needed"}},
}

var dataFlowCues = []cue{
	{[]string{"create", "add"}, []string{"Data creation workflow"}},
	{[]string{"update", "edit"}, []string{"Data modification workflow"}},
	{[]string{"delete", "remove"}, []string{"Data deletion workflow"}},
	{[]string{"search", "find"}, []string{"Data retrieval workflow"}},
}

var scalingCues = []cue{
	{[]string{"million", "large scale"}, []string{"Horizontal scaling required", "Database sharding consideration"}},
	{[]string{"real-time", "live"}, []string{"Real-time data synchronization"}},
	{[]string{"global", "worldwide"}, []string{"Multi-region deployment"}},
}

// Analyze reads entities, relationship hints, business rules, data flows
// and scaling concerns out of description by keyword.
func Analyze(description string) UseCaseAnalysis {
	lower := strings.ToLower(description)
	entities := extractEntities(lower)
	return UseCaseAnalysis{
		Entities:              entities,
		Relationships:         extractRelationships(lower, entities),
		BusinessRules:         collect(lower, businessRuleCues),
		DataFlow:              collect(lower, dataFlowCues),
		ScalingConsiderations: collect(lower, scalingCues),
	}
}

func extractEntities(lower string) []string {
	found := []string{}
	for _, e := range knownEntities {
		if strings.Contains(lower, e) {
			found = append(found, e)
		}
	}
	if len(found) == 0 {
		found = []string{"user", "item", "category"}
	}
	title := cases.Title(language.English)
	for i, e := range found {
		found[i] = title.String(e)
	}
	return found
}

func extractRelationships(lower string, entities []string) []string {
	rels := []string{}
	for _, phrase := range relationshipPhrases {
		if strings.Contains(lower, phrase) {
			rels = append(rels, "Entities are "+phrase)
		}
	}
	if slices.Contains(entities, "User") && slices.Contains(entities, "Order") {
		rels = append(rels, "User has many Orders")
	}
	if slices.Contains(entities, "Category") && slices.Contains(entities, "Product") {
		rels = append(rels, "Category has many Products")
	}
	return rels
}

func collect(lower string, cues []cue) []string {
	out := []string{}
	for _, c := range cues {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				out = append(out, c.findings...)
				break
			}
		}
	}
	return out
}
