package consultant

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/josephgoksu/DBAtlas/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []models.Database {
	return []models.Database{
		{
			Name: "PostgreSQL", Description: "Relational database.", Category: "Relational",
			Type: models.TypeSQL, License: models.LicenseOpenSource, CloudOffering: true,
			Features: []string{"ACID Transactions", "High Availability"},
		},
		{
			Name: "DynamoDB", Description: "Managed key-value store.", Category: "Key-Value",
			Type: models.TypeNoSQL, License: models.LicenseCommercial, CloudOffering: true,
			Features: []string{"Horizontal Scaling", "Serverless"},
		},
		{
			Name: "MongoDB", Description: "Document database.", Category: "Document",
			Type: models.TypeNoSQL, License: models.LicenseHybrid, CloudOffering: true,
			Features: []string{"Horizontal Scaling", "Sharding"},
		},
		{
			Name: "Redis", Description: "In-memory store.", Category: "In-Memory",
			Type: models.TypeKeyValue, License: models.LicenseHybrid, CloudOffering: true,
			Features: []string{"High Performance"},
		},
		{
			Name: "InfluxDB", Description: "Time series database.", Category: "Time Series",
			Type: models.TypeTimeSeries, License: models.LicenseHybrid,
		},
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		input string
		want  Requirements
	}{
		{
			input: "I'm building an e-commerce platform for millions of users on a limited budget",
			want:  Requirements{ProjectType: ProjectECommerce, ExpectedLoad: LoadHigh, Budget: BudgetLimited},
		},
		{
			input: "A WEBSITE with thousands of visitors, small team, needs to be FAST",
			want:  Requirements{ProjectType: ProjectWeb, ExpectedLoad: LoadMedium, Team: TeamSmall, Performance: []PerformanceNeed{PerfHigh}},
		},
		{
			input: "IoT sensor platform, realtime ingest that must scale",
			want:  Requirements{ProjectType: ProjectIoT, Performance: []PerformanceNeed{PerfRealTime, PerfScalability}},
		},
		{
			input: "analytics dashboard for an enterprise",
			want:  Requirements{ProjectType: ProjectAnalytics, Budget: BudgetEnterprise, Team: TeamLarge},
		},
		{
			// "app" is checked before "analytics", so any mention of an app wins.
			input: "an app with an analytics screen",
			want:  Requirements{ProjectType: ProjectMobile},
		},
		{
			input: "hello there",
			want:  Requirements{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.input))
		})
	}
}

func TestExtract_MillionsMeansHighLoad(t *testing.T) {
	assert.Equal(t, LoadHigh, Extract("we expect MILLIONS of requests").ExpectedLoad)
}

func TestRequirements_Merge(t *testing.T) {
	base := Requirements{ProjectType: ProjectWeb, ExpectedLoad: LoadLow, Performance: []PerformanceNeed{PerfHigh}}

	merged := base.Merge(Requirements{ExpectedLoad: LoadHigh, Team: TeamSolo})
	assert.Equal(t, Requirements{ProjectType: ProjectWeb, ExpectedLoad: LoadHigh, Team: TeamSolo, Performance: []PerformanceNeed{PerfHigh}}, merged)

	merged = merged.Merge(Requirements{Performance: []PerformanceNeed{PerfRealTime}})
	assert.Equal(t, []PerformanceNeed{PerfRealTime}, merged.Performance)
	assert.Equal(t, []PerformanceNeed{PerfHigh}, base.Performance, "merge must not alias the receiver")

	assert.Equal(t, []Topic{TopicBudget}, merged.Missing())
	assert.True(t, merged.Sufficient())
	assert.Equal(t, []Topic{TopicProjectType, TopicLoad, TopicBudget, TopicTeam}, Requirements{}.Missing())
}

func TestParseRequirements(t *testing.T) {
	r, err := ParseRequirements("Web Application", "HIGH", "", "solo", []string{"real-time", "real-time"})
	require.NoError(t, err)
	assert.Equal(t, Requirements{ProjectType: ProjectWeb, ExpectedLoad: LoadHigh, Team: TeamSolo, Performance: []PerformanceNeed{PerfRealTime}}, r)

	_, err = ParseRequirements("desktop", "", "", "", nil)
	assert.ErrorIs(t, err, ErrInvalidRequirement)
	_, err = ParseRequirements("", "", "", "", []string{"cheap"})
	assert.Error(t, err)
}

func TestRecommend_ECommerceScenario(t *testing.T) {
	req := Extract("I'm building an e-commerce platform for millions of users on a limited budget")
	result := NewScorer(nil).Recommend(req, testCatalog())

	require.NotNil(t, result.Primary)
	assert.Equal(t, "PostgreSQL", result.Primary.Database.Name)
	// 35 project + 10 high load (SQL fallback) + 30 open source
	assert.Equal(t, 75, result.Primary.Score)
	assert.Equal(t, "E-commerce", result.Primary.UseCaseMatch)
	assert.Equal(t, []string{"May require read replicas and careful optimization for high load"}, result.Primary.Warnings)

	rank := func(name string) int {
		if result.Primary.Database.Name == name {
			return 0
		}
		for i, alt := range result.Alternatives {
			if alt.Database.Name == name {
				return i + 1
			}
		}
		return -1
	}
	require.NotEqual(t, -1, rank("DynamoDB"))
	assert.Less(t, rank("PostgreSQL"), rank("DynamoDB"))
	assert.LessOrEqual(t, len(result.Alternatives), MaxAlternatives)

	assert.Equal(t, "Microservices architecture with CQRS", result.Architecture.Pattern)
	assert.Equal(t, "Vertical scaling with read replicas", result.Architecture.ScalingStrategy)
	assert.Equal(t, "2-4 weeks for initial implementation", result.Implementation.Timeline)
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	req := Requirements{ProjectType: ProjectWeb, ExpectedLoad: LoadHigh}

	for _, catalog := range [][]models.Database{nil, {}} {
		result := NewScorer(nil).Recommend(req, catalog)
		assert.Nil(t, result.Primary)
		assert.NotNil(t, result.Alternatives)
		assert.Empty(t, result.Alternatives)
		assert.Equal(t, NoMatchReply, ChatReply(result))
		_, err := MarkdownReport(result, req, time.Now())
		assert.ErrorIs(t, err, ErrNoRecommendation)
	}
}

func TestRecommend_NothingScores(t *testing.T) {
	graph := models.Database{Name: "Neo4j", Category: "Graph", Type: models.TypeGraph, License: models.LicenseHybrid}
	result := NewScorer(nil).Recommend(Requirements{ProjectType: ProjectWeb}, []models.Database{graph})
	assert.Nil(t, result.Primary)
}

func TestRecommend_TiesKeepCatalogOrder(t *testing.T) {
	a := models.Database{Name: "A", Category: "x", Type: models.TypeSQL, License: models.LicenseOpenSource}
	b := a
	b.Name = "B"
	result := NewScorer(nil).Recommend(Requirements{ProjectType: ProjectWeb}, []models.Database{a, b})
	require.NotNil(t, result.Primary)
	assert.Equal(t, "A", result.Primary.Database.Name)
	assert.Equal(t, "B", result.Alternatives[0].Database.Name)
}

func TestScore_ClauseOrderDoesNotChangeTotals(t *testing.T) {
	forward := DefaultRules()
	reversed := DefaultRules()
	reverseAll(reversed.ProjectType)
	reverseAll(reversed.Load)
	reverseAll(reversed.Budget)
	reverseAll(reversed.Team)
	reverseAll(reversed.Performance)

	a, b := NewScorer(forward), NewScorer(reversed)
	for _, pt := range ProjectTypes {
		for _, load := range Loads {
			for _, budget := range Budgets {
				for _, team := range TeamSizes {
					req := Requirements{ProjectType: pt, ExpectedLoad: load, Budget: budget, Team: team, Performance: PerformanceNeeds}
					for _, db := range testCatalog() {
						assert.Equal(t, a.Score(req, db).Score, b.Score(req, db).Score, "%+v %s", req, db.Name)
					}
				}
			}
		}
	}
}

func reverseAll[K comparable](m map[K][]Clause) {
	for _, clauses := range m {
		slices.Reverse(clauses)
	}
}

func TestScore_Dimensions(t *testing.T) {
	cat := testCatalog()
	pg, dynamo, mongo, redis, influx := cat[0], cat[1], cat[2], cat[3], cat[4]
	s := NewScorer(nil)

	tests := []struct {
		name     string
		req      Requirements
		db       models.Database
		score    int
		warnings int
	}{
		{name: "web sql", req: Requirements{ProjectType: ProjectWeb}, db: pg, score: 30},
		{name: "web document", req: Requirements{ProjectType: ProjectWeb}, db: mongo, score: 25},
		{name: "web key-value", req: Requirements{ProjectType: ProjectWeb}, db: dynamo, score: 0},
		{name: "mobile nosql in cloud", req: Requirements{ProjectType: ProjectMobile}, db: dynamo, score: 40},
		{name: "iot time series category", req: Requirements{ProjectType: ProjectIoT}, db: influx, score: 40},
		{name: "analytics sql", req: Requirements{ProjectType: ProjectAnalytics}, db: pg, score: 20},
		{name: "medium load with ha", req: Requirements{ExpectedLoad: LoadMedium}, db: pg, score: 25},
		{name: "medium load without scaling", req: Requirements{ExpectedLoad: LoadMedium}, db: influx, score: 15, warnings: 1},
		{name: "high load non sql fallback", req: Requirements{ExpectedLoad: LoadHigh}, db: redis, score: 5, warnings: 1},
		{name: "limited commercial", req: Requirements{Budget: BudgetLimited}, db: dynamo, score: 0, warnings: 1},
		{name: "limited hybrid", req: Requirements{Budget: BudgetLimited}, db: mongo, score: 15, warnings: 1},
		{name: "enterprise open source", req: Requirements{Budget: BudgetEnterprise}, db: pg, score: 20},
		{name: "solo cloud nosql", req: Requirements{Team: TeamSolo}, db: mongo, score: 35},
		{name: "large commercial", req: Requirements{Team: TeamLarge}, db: dynamo, score: 30},
		{name: "large open source", req: Requirements{Team: TeamLarge}, db: pg, score: 10},
		{name: "every perf need in memory", req: Requirements{Performance: PerformanceNeeds}, db: redis, score: 55},
		{name: "scalability", req: Requirements{Performance: []PerformanceNeed{PerfScalability}}, db: mongo, score: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.Score(tt.req, tt.db)
			assert.Equal(t, tt.score, rec.Score)
			assert.Len(t, rec.Warnings, tt.warnings)
		})
	}
}

func TestScore_DedupesReasons(t *testing.T) {
	rules := DefaultRules()
	rules.Team[TeamSmall] = append(rules.Team[TeamSmall], rules.Team[TeamSmall]...)
	rec := NewScorer(rules).Score(Requirements{Team: TeamSmall}, testCatalog()[0])
	assert.Equal(t, 30, rec.Score)
	assert.Equal(t, []string{"Good balance of features and complexity"}, rec.Reasons)
}

func TestPlan(t *testing.T) {
	cat := testCatalog()
	pg, dynamo := cat[0], cat[1]

	arch := planArchitecture(dynamo, Requirements{ProjectType: ProjectAnalytics, ExpectedLoad: LoadHigh})
	assert.Equal(t, "Data lake architecture with ETL pipeline", arch.Pattern)
	assert.Equal(t, []string{"Application Server", "Database", "Cache Layer", "Load Balancer", "Read Replicas", "Data Warehouse", "ETL Pipeline"}, arch.Components)
	assert.Equal(t, "Horizontal scaling with sharding", arch.ScalingStrategy)
	assert.Equal(t, "Automated cloud backups with point-in-time recovery", arch.BackupStrategy)

	arch = planArchitecture(cat[4], Requirements{})
	assert.Equal(t, "Three-tier architecture with load balancer", arch.Pattern)
	assert.Equal(t, "Start with single instance, scale as needed", arch.ScalingStrategy)
	assert.Equal(t, "Regular automated backups with offsite storage", arch.BackupStrategy)

	impl := planImplementation(dynamo, Requirements{ExpectedLoad: LoadHigh, Team: TeamSolo})
	assert.Equal(t, "Install and configure DynamoDB", impl.Steps[1])
	assert.Len(t, impl.Steps, 7)
	assert.Contains(t, impl.Considerations, "Design for eventual consistency")
	assert.Equal(t, "8-10 weeks for initial implementation", impl.Timeline)

	assert.Equal(t, "1-3 weeks for initial implementation", estimateTimeline(Requirements{Team: TeamLarge}))

	assert.Equal(t, Costs{Development: "Low", Operational: "High", Scaling: "Low-Medium"},
		estimateCosts(dynamo, Requirements{Team: TeamSolo}))
	assert.Equal(t, Costs{Development: "Medium", Operational: "Medium-High", Scaling: "High"},
		estimateCosts(pg, Requirements{Team: TeamSmall, ExpectedLoad: LoadHigh}))
	assert.Equal(t, Costs{Development: "High", Operational: "Low", Scaling: "Low-Medium"},
		estimateCosts(pg, Requirements{}))
}

func TestChatReply(t *testing.T) {
	req := Requirements{ProjectType: ProjectWeb, ExpectedLoad: LoadLow, Budget: BudgetLimited, Team: TeamSmall}
	result := NewScorer(nil).Recommend(req, testCatalog())
	require.NotNil(t, result.Primary)

	reply := ChatReply(result)
	assert.True(t, strings.HasPrefix(reply, "🎯 **Perfect Match Found!**\n\nI recommend **PostgreSQL** for your project.\n\n**Why it's perfect for you:**\n✅ Excellent for web applications with structured data\n"))
	assert.NotContains(t, reply, "Things to consider", "no warnings, no section")
	assert.Contains(t, reply, "\n**Architecture Pattern:** Three-tier architecture with load balancer\n")
	assert.Contains(t, reply, "**Estimated Timeline:** 2-4 weeks for initial implementation\n")
	assert.Contains(t, reply, "\n**Alternative Options:**\n• MongoDB - Great for web apps with flexible data models\n")
	assert.Equal(t, 2, strings.Count(reply, "• "), "at most two alternatives are shown")

	result.Primary.Warnings = []string{"Watch out"}
	assert.Contains(t, ChatReply(result), "\n**Things to consider:**\n⚠️ Watch out\n")
}

func TestFollowUpQuestion(t *testing.T) {
	req := Requirements{ProjectType: ProjectWeb, ExpectedLoad: LoadHigh}
	got := FollowUpQuestion(req, req.Missing(), nil)
	assert.Equal(t, "Do you have any budget constraints? Are you looking for open-source solutions or is enterprise licensing okay?\n\n"+
		"I understand you're building a web application. You mentioned high load.", got)

	second := func(n int) int { return n - 1 }
	got = FollowUpQuestion(Requirements{}, Requirements{}.Missing(), second)
	assert.Equal(t, "Could you describe your project? Is it a web application, mobile app, or something else?", got)

	outOfRange := func(int) int { return 9 }
	got = FollowUpQuestion(Requirements{}, []Topic{TopicTeam}, outOfRange)
	assert.True(t, strings.HasPrefix(got, "How large is your development team?"))
}

func TestMarkdownReport(t *testing.T) {
	req := Requirements{ProjectType: ProjectECommerce, ExpectedLoad: LoadHigh, Budget: BudgetLimited, Performance: []PerformanceNeed{PerfScalability}}
	result := NewScorer(nil).Recommend(req, testCatalog())

	md, err := MarkdownReport(result, req, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(md, "# Database Recommendation Report\n\nGenerated on: March 4, 2025\n\n## Project Requirements\n\n"))
	assert.Contains(t, md, "- **Team Size:** Not specified\n")
	assert.Contains(t, md, "- **Performance Requirements:** scalability\n")
	assert.Contains(t, md, "\n## Primary Recommendation: "+result.Primary.Database.Name+"\n\n"+result.Primary.Database.Description+"\n\n")
	assert.Contains(t, md, "\n## Implementation Plan\n\n1. Set up development environment\n")
	assert.Contains(t, md, "\n## Cost Estimates\n\n- **Development:** High\n")
	assert.Contains(t, md, "\n## Alternative Options\n\n### ")
	assert.True(t, strings.HasSuffix(md, "\n---\n*Generated by DBAtlas Database Consultant*"))
}

func TestSession_Conversation(t *testing.T) {
	calls := 0
	s := NewSession(nil, func() ([]models.Database, error) {
		calls++
		return testCatalog(), nil
	})

	reply, err := s.Respond("I'm building a web app")
	require.NoError(t, err)
	assert.Equal(t, ProjectWeb, reply.Requirements.ProjectType)
	assert.Nil(t, reply.Result)
	assert.True(t, strings.HasPrefix(reply.Text, "What's your expected user load?"))
	assert.Zero(t, calls)

	reply, err = s.Respond("we expect millions of users")
	require.NoError(t, err)
	require.NotNil(t, reply.Result, "project type and load are enough to rank")
	assert.Equal(t, []Topic{TopicBudget, TopicTeam}, reply.Missing)
	assert.True(t, strings.HasPrefix(reply.Text, "Do you have any budget constraints?"))
	assert.Contains(t, reply.Text, "You mentioned high load.")

	reply, err = s.Respond("tight budget, I'm a solo developer")
	require.NoError(t, err)
	assert.Empty(t, reply.Missing)
	assert.True(t, strings.HasPrefix(reply.Text, "🎯 **Perfect Match Found!**"))
	assert.Equal(t, Requirements{ProjectType: ProjectWeb, ExpectedLoad: LoadHigh, Budget: BudgetLimited, Team: TeamSolo}, s.Requirements())

	_, ok := s.LastResult()
	assert.True(t, ok)
	md, err := s.Report(time.Now())
	require.NoError(t, err)
	assert.Contains(t, md, "- **Team Size:** solo\n")

	s.Reset()
	assert.True(t, s.Requirements().IsZero())
	_, err = s.Report(time.Now())
	assert.ErrorIs(t, err, ErrNoRecommendation)
}

func TestSession_CatalogError(t *testing.T) {
	boom := errors.New("store offline")
	s := NewSession(nil, func() ([]models.Database, error) { return nil, boom })
	_, err := s.Respond("web app with millions of users")
	assert.ErrorIs(t, err, boom)
}

func TestLoadRules(t *testing.T) {
	rs, err := LoadRules("")
	require.NoError(t, err)
	assert.Len(t, rs.ProjectType, len(ProjectTypes))
	assert.Len(t, rs.Load, len(Loads))

	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	custom := write("custom.yaml", `
projectType:
  web application:
    - oneOf:
        - when: {types: [Graph]}
          points: 99
          reason: Graphs everywhere
`)
	rs, err = LoadRules(custom)
	require.NoError(t, err)
	graph := models.Database{Name: "Neo4j", Category: "Graph", Type: models.TypeGraph, License: models.LicenseHybrid}
	assert.Equal(t, 99, NewScorer(rs).Score(Requirements{ProjectType: ProjectWeb}, graph).Score)

	bad := map[string]string{
		"negative.yaml":      "load:\n  low:\n    - oneOf:\n        - points: -5\n",
		"unknown-value.yaml": "load:\n  extreme:\n    - oneOf:\n        - points: 5\n",
		"unknown-key.yaml":   "load:\n  low:\n    - oneOf:\n        - points: 5\n          bonus: 1\n",
		"empty-clause.yaml":  "team:\n  solo:\n    - oneOf: []\n",
		"bad-type.yaml":      "team:\n  solo:\n    - oneOf:\n        - when: {types: [Spreadsheet]}\n          points: 1\n",
	}
	for name, body := range bad {
		_, err := LoadRules(write(name, body))
		assert.Error(t, err, name)
	}

	_, err = LoadRules(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
