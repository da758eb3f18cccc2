package search

// State holds search state
type State struct {
	Query   string
	Matches []int // Indices of matching courses, best match first
}
