package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"yacs/internal/domain"
)

// Service filters course lists with a fuzzy match on code, name and instructors
type Service struct {
	state State
}

// NewService creates a new search service
func NewService() *Service {
	return &Service{}
}

// Query returns the active filter
func (s *Service) Query() string {
	return s.state.Query
}

// SetQuery changes the filter; surrounding space is ignored
func (s *Service) SetQuery(query string) {
	s.state.Query = strings.TrimSpace(query)
}

// ClearSearch drops the filter
func (s *Service) ClearSearch() {
	s.state = State{}
}

// Filter returns the courses matching the active query. Without a query the
// input is returned unchanged.
func (s *Service) Filter(courses []*domain.Course) []*domain.Course {
	if s.state.Query == "" {
		s.state.Matches = nil
		return courses
	}

	targets := make([]string, len(courses))
	for i, c := range courses {
		targets[i] = Target(c)
	}

	ranks := fuzzy.RankFindNormalizedFold(s.state.Query, targets)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	s.state.Matches = make([]int, 0, len(ranks))
	result := make([]*domain.Course, 0, len(ranks))
	for _, rank := range ranks {
		s.state.Matches = append(s.state.Matches, rank.OriginalIndex)
		result = append(result, courses[rank.OriginalIndex])
	}
	return result
}

// MatchCount is the number of courses the last Filter kept
func (s *Service) MatchCount() int {
	return len(s.state.Matches)
}

// Target is the text a course is matched against
func Target(c *domain.Course) string {
	parts := []string{c.Code(), c.Name}
	seen := make(map[string]bool)
	for _, section := range c.Sections {
		for _, name := range section.Instructors() {
			if !seen[name] {
				seen[name] = true
				parts = append(parts, name)
			}
		}
	}
	return strings.Join(parts, " ")
}
