package consultant

import "strings"

type keywordRule[T any] struct {
	keywords []string
	value    T
}

// Tables are evaluated top to bottom; the first rule with a matching
// keyword wins.
var (
	projectRules = []keywordRule[ProjectType]{
		{[]string{"web app", "website"}, ProjectWeb},
		{[]string{"mobile", "app"}, ProjectMobile},
		{[]string{"analytics", "dashboard"}, ProjectAnalytics},
		{[]string{"iot", "sensor"}, ProjectIoT},
		{[]string{"ecommerce", "e-commerce"}, ProjectECommerce},
	}
	loadRules = []keywordRule[Load]{
		{[]string{"high load", "millions"}, LoadHigh},
		{[]string{"medium", "thousands"}, LoadMedium},
		{[]string{"low", "small"}, LoadLow},
	}
	budgetRules = []keywordRule[Budget]{
		{[]string{"budget", "cost", "cheap"}, BudgetLimited},
		{[]string{"enterprise", "unlimited budget"}, BudgetEnterprise},
	}
	teamRules = []keywordRule[TeamSize]{
		{[]string{"solo", "one person"}, TeamSolo},
		{[]string{"small team", "startup"}, TeamSmall},
		{[]string{"large team", "enterprise"}, TeamLarge},
	}
	performanceRules = []keywordRule[PerformanceNeed]{
		{[]string{"fast", "performance"}, PerfHigh},
		{[]string{"real-time", "realtime"}, PerfRealTime},
		{[]string{"scale", "scaling"}, PerfScalability},
	}
)

func firstMatch[T any](text string, rules []keywordRule[T]) (T, bool) {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.value, true
			}
		}
	}
	var zero T
	return zero, false
}

// Extract scans input for keyword substrings and returns the requirements
// it mentions. Matching is case-insensitive and purely lexical.
func Extract(input string) Requirements {
	text := strings.ToLower(input)

	var r Requirements
	r.ProjectType, _ = firstMatch(text, projectRules)
	r.ExpectedLoad, _ = firstMatch(text, loadRules)
	r.Budget, _ = firstMatch(text, budgetRules)
	r.Team, _ = firstMatch(text, teamRules)

	for _, rule := range performanceRules {
		if _, ok := firstMatch(text, []keywordRule[PerformanceNeed]{rule}); ok {
			r.Performance = append(r.Performance, rule.value)
		}
	}
	return r
}
