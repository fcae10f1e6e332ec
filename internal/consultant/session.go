package consultant

import (
	"sync"
	"time"

	"github.com/josephgoksu/DBAtlas/models"
)

// Reply is the consultant's answer to one message.
type Reply struct {
	Text         string       `json:"text"`
	Requirements Requirements `json:"requirements"`
	// Missing lists the topics still unknown after this turn.
	Missing []Topic `json:"missing,omitempty"`
	// Result is set once enough is known to rank databases, even while
	// follow-up questions are still being asked.
	Result *Result `json:"result,omitempty"`
}

// CatalogFunc returns the records to rank.
type CatalogFunc func() ([]models.Database, error)

// Session accumulates requirements over a conversation. It is safe for
// concurrent use.
type Session struct {
	mu       sync.Mutex
	scorer   *Scorer
	catalog  CatalogFunc
	pick     VariantPicker
	req      Requirements
	last     *Result
	lastUsed time.Time
}

// NewSession returns an empty session ranking the records catalog returns.
func NewSession(scorer *Scorer, catalog CatalogFunc) *Session {
	if scorer == nil {
		scorer = NewScorer(nil)
	}
	return &Session{scorer: scorer, catalog: catalog, pick: FirstVariant, lastUsed: time.Now()}
}

// WithPicker sets how follow-up question variants are chosen.
func (s *Session) WithPicker(pick VariantPicker) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pick != nil {
		s.pick = pick
	}
	return s
}

// Respond extracts requirements from input, merges them into the session
// and either asks for what is missing or returns a recommendation.
func (s *Session) Respond(input string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = time.Now()
	s.req = s.req.Merge(Extract(input))
	reply := Reply{Requirements: s.req, Missing: s.req.Missing()}

	if s.req.Sufficient() {
		dbs, err := s.catalog()
		if err != nil {
			return Reply{}, err
		}
		result := s.scorer.Recommend(s.req, dbs)
		s.last = &result
		reply.Result = &result
	}

	switch {
	case len(reply.Missing) > 0:
		reply.Text = FollowUpQuestion(s.req, reply.Missing, s.pick)
	case reply.Result != nil:
		reply.Text = ChatReply(*reply.Result)
	default:
		reply.Text = FallbackReply
	}
	return reply, nil
}

// Requirements returns what the session knows so far.
func (s *Session) Requirements() Requirements {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.req
}

// LastResult returns the most recent recommendation, if any.
func (s *Session) LastResult() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Report renders the Markdown report of the most recent recommendation.
func (s *Session) Report(generatedAt time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return "", ErrNoRecommendation
	}
	return MarkdownReport(*s.last, s.req, generatedAt)
}

// Reset forgets everything said so far.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.req = Requirements{}
	s.last = nil
	s.lastUsed = time.Now()
}

// LastUsed returns when the session last handled a message.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
