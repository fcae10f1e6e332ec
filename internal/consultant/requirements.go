// Package consultant turns free-text project descriptions into database
// recommendations: requirement extraction, rule based scoring, planning and
// the chat and Markdown narratives built on top of them.
package consultant

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ProjectType is the kind of application being built.
type ProjectType string

const (
	ProjectWeb       ProjectType = "web application"
	ProjectMobile    ProjectType = "mobile application"
	ProjectAnalytics ProjectType = "analytics platform"
	ProjectIoT       ProjectType = "iot application"
	ProjectECommerce ProjectType = "e-commerce platform"
)

// ProjectTypes lists every ProjectType.
var ProjectTypes = []ProjectType{ProjectWeb, ProjectMobile, ProjectAnalytics, ProjectIoT, ProjectECommerce}

// Load is the expected traffic level.
type Load string

const (
	LoadLow    Load = "low"
	LoadMedium Load = "medium"
	LoadHigh   Load = "high"
)

// Loads lists every Load.
var Loads = []Load{LoadLow, LoadMedium, LoadHigh}

// Budget is the spending posture.
type Budget string

const (
	BudgetLimited    Budget = "limited"
	BudgetEnterprise Budget = "enterprise"
)

// Budgets lists every Budget.
var Budgets = []Budget{BudgetLimited, BudgetEnterprise}

// TeamSize is the size of the development team.
type TeamSize string

const (
	TeamSolo  TeamSize = "solo"
	TeamSmall TeamSize = "small"
	TeamLarge TeamSize = "large"
)

// TeamSizes lists every TeamSize.
var TeamSizes = []TeamSize{TeamSolo, TeamSmall, TeamLarge}

// PerformanceNeed is one performance tag.
type PerformanceNeed string

const (
	PerfHigh        PerformanceNeed = "high performance"
	PerfRealTime    PerformanceNeed = "real-time"
	PerfScalability PerformanceNeed = "scalability"
)

// PerformanceNeeds lists every PerformanceNeed.
var PerformanceNeeds = []PerformanceNeed{PerfHigh, PerfRealTime, PerfScalability}

// Requirements is what is known about a project. Empty fields are unknown.
type Requirements struct {
	ProjectType  ProjectType       `json:"projectType,omitempty" yaml:"projectType,omitempty"`
	ExpectedLoad Load              `json:"expectedLoad,omitempty" yaml:"expectedLoad,omitempty"`
	Budget       Budget            `json:"budget,omitempty" yaml:"budget,omitempty"`
	Team         TeamSize          `json:"team,omitempty" yaml:"team,omitempty"`
	Performance  []PerformanceNeed `json:"performance,omitempty" yaml:"performance,omitempty"`
}

// Merge returns r with every non-empty field of partial applied on top. A
// non-empty performance list replaces the previous one.
func (r Requirements) Merge(partial Requirements) Requirements {
	if partial.ProjectType != "" {
		r.ProjectType = partial.ProjectType
	}
	if partial.ExpectedLoad != "" {
		r.ExpectedLoad = partial.ExpectedLoad
	}
	if partial.Budget != "" {
		r.Budget = partial.Budget
	}
	if partial.Team != "" {
		r.Team = partial.Team
	}
	if len(partial.Performance) > 0 {
		r.Performance = slices.Clone(partial.Performance)
	}
	return r
}

// Topic names a piece of information the consultant asks about.
type Topic string

const (
	TopicProjectType Topic = "project type"
	TopicLoad        Topic = "expected load"
	TopicBudget      Topic = "budget constraints"
	TopicTeam        Topic = "team size"
)

// Missing returns the unknown topics in the order they are asked about.
func (r Requirements) Missing() []Topic {
	var missing []Topic
	if r.ProjectType == "" {
		missing = append(missing, TopicProjectType)
	}
	if r.ExpectedLoad == "" {
		missing = append(missing, TopicLoad)
	}
	if r.Budget == "" {
		missing = append(missing, TopicBudget)
	}
	if r.Team == "" {
		missing = append(missing, TopicTeam)
	}
	return missing
}

// Sufficient reports whether a recommendation can be computed.
func (r Requirements) Sufficient() bool {
	return r.ProjectType != "" && r.ExpectedLoad != ""
}

// IsZero reports whether nothing is known.
func (r Requirements) IsZero() bool {
	return r.ProjectType == "" && r.ExpectedLoad == "" && r.Budget == "" && r.Team == "" && len(r.Performance) == 0
}

// ErrInvalidRequirement is returned when a requirement value is not recognised.
var ErrInvalidRequirement = errors.New("invalid requirement")

func parseEnum[T ~string](kind, s string, values []T) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, v := range values {
		if string(v) == s {
			return v, nil
		}
	}
	opts := make([]string, len(values))
	for i, v := range values {
		opts[i] = string(v)
	}
	return "", fmt.Errorf("%w: %s %q (expected one of: %s)", ErrInvalidRequirement, kind, s, strings.Join(opts, ", "))
}

// ParseRequirements builds Requirements from flag style strings. Empty
// strings leave a field unknown; anything else must be a known value.
func ParseRequirements(projectType, load, budget, team string, performance []string) (Requirements, error) {
	var r Requirements
	var err error
	if r.ProjectType, err = parseEnum("project type", projectType, ProjectTypes); err != nil {
		return r, err
	}
	if r.ExpectedLoad, err = parseEnum("load", load, Loads); err != nil {
		return r, err
	}
	if r.Budget, err = parseEnum("budget", budget, Budgets); err != nil {
		return r, err
	}
	if r.Team, err = parseEnum("team size", team, TeamSizes); err != nil {
		return r, err
	}
	for _, p := range performance {
		need, err := parseEnum("performance need", p, PerformanceNeeds)
		if err != nil {
			return r, err
		}
		if need != "" && !slices.Contains(r.Performance, need) {
			r.Performance = append(r.Performance, need)
		}
	}
	return r, nil
}
