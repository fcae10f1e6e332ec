package consultant

import (
	"slices"
	"sort"

	"github.com/josephgoksu/DBAtlas/models"
)

// MaxAlternatives is the number of runner-up recommendations kept.
const MaxAlternatives = 3

// Recommendation is one scored database.
type Recommendation struct {
	Database     models.Database `json:"database"`
	Score        int             `json:"score"`
	Reasons      []string        `json:"reasons"`
	Warnings     []string        `json:"warnings"`
	UseCaseMatch string          `json:"useCaseMatch,omitempty"`
}

// Result is the outcome of a recommendation run. Primary is nil when no
// database scored above zero; the plan fields are then empty.
type Result struct {
	Primary        *Recommendation  `json:"primary"`
	Alternatives   []Recommendation `json:"alternatives"`
	Architecture   Architecture     `json:"architecture"`
	Implementation Implementation   `json:"implementation"`
	Costs          Costs            `json:"costs"`
}

// Scorer ranks catalog records against requirements using a RuleSet.
type Scorer struct {
	rules *RuleSet
}

// NewScorer returns a Scorer using rules, or the built-in rules when nil.
func NewScorer(rules *RuleSet) *Scorer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Scorer{rules: rules}
}

// Score evaluates a single database. Only the dimensions set in req
// contribute.
func (s *Scorer) Score(req Requirements, db models.Database) Recommendation {
	rec := Recommendation{Database: db}

	apply := func(clauses []Clause) {
		for _, c := range clauses {
			c.apply(db, &rec)
		}
	}
	if req.ProjectType != "" {
		apply(s.rules.ProjectType[req.ProjectType])
	}
	if req.ExpectedLoad != "" {
		apply(s.rules.Load[req.ExpectedLoad])
	}
	if req.Budget != "" {
		apply(s.rules.Budget[req.Budget])
	}
	if req.Team != "" {
		apply(s.rules.Team[req.Team])
	}
	for _, p := range req.Performance {
		apply(s.rules.Performance[p])
	}

	rec.Reasons = dedupe(rec.Reasons)
	rec.Warnings = dedupe(rec.Warnings)
	return rec
}

// Recommend scores every database, drops those scoring zero and ranks the
// rest by score. Ties keep catalog order.
func (s *Scorer) Recommend(req Requirements, catalog []models.Database) Result {
	ranked := make([]Recommendation, 0, len(catalog))
	for _, db := range catalog {
		rec := s.Score(req, db)
		if rec.Score > 0 {
			ranked = append(ranked, rec)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	result := Result{Alternatives: []Recommendation{}}
	if len(ranked) == 0 {
		return result
	}
	primary := ranked[0]
	result.Primary = &primary
	rest := ranked[1:]
	if len(rest) > MaxAlternatives {
		rest = rest[:MaxAlternatives]
	}
	result.Alternatives = slices.Clone(rest)
	result.Architecture = planArchitecture(primary.Database, req)
	result.Implementation = planImplementation(primary.Database, req)
	result.Costs = estimateCosts(primary.Database, req)
	return result
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}
