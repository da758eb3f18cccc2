package navigation

// Service keeps a list cursor inside [0, MaxIndex] and the viewport around it
type Service struct {
	state   State
	queryFn func() int // returns the number of rows
}

// NewService creates a navigation service over a list of countFn() rows
func NewService(countFn func() int) *Service {
	return &Service{
		state:   State{ViewportHeight: 20},
		queryFn: countFn,
	}
}

// Cursor returns current cursor position
func (s *Service) Cursor() int {
	s.refresh()
	return s.state.Cursor
}

// ViewportOffset returns the first visible row
func (s *Service) ViewportOffset() int {
	s.refresh()
	return s.state.ViewportOffset
}

// ViewportHeight returns the number of visible rows
func (s *Service) ViewportHeight() int {
	return s.state.ViewportHeight
}

// SetViewportHeight updates viewport height
func (s *Service) SetViewportHeight(height int) {
	if height < 1 {
		height = 1
	}
	s.state.ViewportHeight = height
	s.ensureVisible()
}

// Navigate handles navigation in a direction
func (s *Service) Navigate(direction Direction) {
	s.refresh()
	switch direction {
	case DirectionUp:
		s.state.Cursor--
	case DirectionDown:
		s.state.Cursor++
	case DirectionPageUp:
		s.state.Cursor -= s.pageSize()
		s.state.ViewportOffset -= s.pageSize()
		if s.state.ViewportOffset < 0 {
			s.state.ViewportOffset = 0
		}
	case DirectionPageDown:
		s.state.Cursor += s.pageSize()
	case DirectionHome:
		s.state.Cursor = 0
		s.state.ViewportOffset = 0
	case DirectionEnd:
		s.state.Cursor = s.state.MaxIndex
	}
	s.state.Cursor = s.clampIndex(s.state.Cursor)
	s.ensureVisible()
}

// MoveToIndex moves cursor to specific index
func (s *Service) MoveToIndex(index int) {
	s.refresh()
	s.state.Cursor = s.clampIndex(index)
	s.ensureVisible()
}

// Reset puts the cursor back on the first row
func (s *Service) Reset() {
	s.state.Cursor = 0
	s.state.ViewportOffset = 0
}

func (s *Service) pageSize() int {
	if s.state.ViewportHeight > 1 {
		return s.state.ViewportHeight - 1
	}
	return 1
}

// refresh re-reads the row count; the list changes under the cursor as courses load
func (s *Service) refresh() {
	if s.queryFn != nil {
		s.state.MaxIndex = s.queryFn() - 1
	}
	if s.state.MaxIndex < 0 {
		s.state.MaxIndex = 0
	}
	s.state.Cursor = s.clampIndex(s.state.Cursor)
	s.ensureVisible()
}

func (s *Service) clampIndex(index int) int {
	if index < 0 {
		return 0
	}
	if index > s.state.MaxIndex {
		return s.state.MaxIndex
	}
	return index
}

func (s *Service) ensureVisible() {
	if s.state.Cursor < s.state.ViewportOffset {
		s.state.ViewportOffset = s.state.Cursor
	} else if s.state.Cursor >= s.state.ViewportOffset+s.state.ViewportHeight {
		s.state.ViewportOffset = s.state.Cursor - s.state.ViewportHeight + 1
	}
	if last := s.state.MaxIndex - s.state.ViewportHeight + 1; s.state.ViewportOffset > last && last >= 0 {
		s.state.ViewportOffset = last
	}
}
