package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Semester represents the semester / quarter courses are offered for
type Semester struct {
	ID    int    `json:"id"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Name  string `json:"name"`
}

// Before reports whether s starts earlier than other
func (s Semester) Before(other Semester) bool {
	if s.Year != other.Year {
		return s.Year < other.Year
	}
	return s.Month < other.Month
}

// Department groups courses for drill-down browsing
type Department struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (d Department) String() string {
	if d.Name != "" {
		return fmt.Sprintf("%s (%s)", d.Name, d.Code)
	}
	return d.Code
}

// Course represents a course offered in a semester.
// Selected is view state written by Selection.Apply.
type Course struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Number        int        `json:"number"`
	Department    Department `json:"department"`
	MinCredits    int        `json:"min_credits"`
	MaxCredits    int        `json:"max_credits"`
	Description   string     `json:"description"`
	Prereqs       string     `json:"prereqs"`
	IsCommIntense bool       `json:"is_comm_intense"`
	GradeType     string     `json:"grade_type,omitempty"`
	Sections      []*Section `json:"sections"`

	Selected bool `json:"-"`
}

// Code returns the department code and course number, e.g. "CSCI 1100"
func (c *Course) Code() string {
	return fmt.Sprintf("%s %d", c.Department.Code, c.Number)
}

// CreditsDisplay returns a human readable credit range
func (c *Course) CreditsDisplay() string {
	if c.MinCredits == c.MaxCredits {
		if c.MinCredits == 1 {
			return "1 credit"
		}
		return fmt.Sprintf("%d credits", c.MinCredits)
	}
	return fmt.Sprintf("%d - %d credits", c.MinCredits, c.MaxCredits)
}

// SeatsLeft sums the open seats over every section
func (c *Course) SeatsLeft() int {
	total := 0
	for _, s := range c.Sections {
		total += s.SeatsLeft()
	}
	return total
}

// CRNs returns the reference numbers of all sections
func (c *Course) CRNs() []int {
	crns := make([]int, 0, len(c.Sections))
	for _, s := range c.Sections {
		crns = append(crns, s.CRN)
	}
	return crns
}

// SectionByID finds a section of this course
func (c *Course) SectionByID(id int) *Section {
	for _, s := range c.Sections {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// ToggleSelected flips the course selection and carries the new state to every section
func (c *Course) ToggleSelected() {
	c.Selected = !c.Selected
	for _, s := range c.Sections {
		s.Selected = c.Selected
	}
}

// ToggleSection flips a single section; the course stays selected while any section is
func (c *Course) ToggleSection(section *Section) {
	section.Selected = !section.Selected
	c.Selected = false
	for _, s := range c.Sections {
		if s.Selected {
			c.Selected = true
			break
		}
	}
}

// Kinds returns the distinct meeting kinds of the course (LEC, LAB, ...)
func (c *Course) Kinds() []string {
	seen := make(map[string]bool)
	var kinds []string
	for _, s := range c.Sections {
		for _, p := range s.Periods {
			if p.Kind != "" && !seen[p.Kind] {
				seen[p.Kind] = true
				kinds = append(kinds, p.Kind)
			}
		}
	}
	sort.Strings(kinds)
	return kinds
}

// Tag is a short label describing a course property
type Tag struct {
	Name      string
	Title     string
	SortOrder int
}

var sectionKindTags = map[string]Tag{
	"LEC": {Name: "Lecture", Title: "This course has lecture, where the instructor teaches the course.", SortOrder: 0},
	"LAB": {Name: "Lab", Title: "This course has lab, where hands-on activities occur.", SortOrder: 1},
	"REC": {Name: "Recitation", Title: "This course has recitation, where problemsets and quizzes generally occur.", SortOrder: 2},
	"STU": {Name: "Studio", Title: "This course has studio", SortOrder: 4},
	"TES": {Name: "Testing", Title: "This course has a testing period outside normal lecture or recitation.", SortOrder: 5},
}

// Tags derives display tags from meeting kinds, communication intensity and grade type
func (c *Course) Tags() []Tag {
	var tags []Tag
	for _, kind := range c.Kinds() {
		if tag, ok := sectionKindTags[kind]; ok {
			tags = append(tags, tag)
		}
	}
	if c.IsCommIntense {
		tags = append(tags, Tag{Name: "Comm Intensive", Title: "This course counts as a communication intensive course.", SortOrder: 10})
	}
	if c.GradeType == "Satisfactory/Unsatisfactory" {
		tags = append(tags, Tag{Name: "Pass/Fail", Title: "This course's final grade is pass or fail instead of a GPA.", SortOrder: 11})
	}
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].SortOrder < tags[j].SortOrder })
	return tags
}

// Section is a particular offering of a course a student can sign up for
type Section struct {
	ID         int      `json:"id"`
	Number     string   `json:"number"`
	CRN        int      `json:"crn"`
	SeatsTaken int      `json:"seats_taken"`
	SeatsTotal int      `json:"seats_total"`
	Notes      []string `json:"notes"`
	Periods    []Period `json:"periods"`

	Selected bool `json:"-"`
}

// SeatsLeft never goes below zero
func (s *Section) SeatsLeft() int {
	if left := s.SeatsTotal - s.SeatsTaken; left > 0 {
		return left
	}
	return 0
}

// IsFull reports whether no seats remain
func (s *Section) IsFull() bool {
	return s.SeatsLeft() <= 0
}

// Instructors returns the distinct instructors over all periods
func (s *Section) Instructors() []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range s.Periods {
		if p.Instructor != "" && !seen[p.Instructor] {
			seen[p.Instructor] = true
			names = append(names, p.Instructor)
		}
	}
	return names
}

// ConflictsWith reports whether any period of s overlaps a period of other.
// A section always conflicts with itself.
func (s *Section) ConflictsWith(other *Section) bool {
	if s == other {
		return true
	}
	for _, p1 := range s.Periods {
		for _, p2 := range other.Periods {
			if p1.ConflictsWith(p2) {
				return true
			}
		}
	}
	return false
}

// Period is a weekly meeting time of a section
type Period struct {
	Start      Time      `json:"start_time"`
	End        Time      `json:"end_time"`
	Days       []Weekday `json:"days_of_the_week"`
	Kind       string    `json:"kind"`
	Instructor string    `json:"instructor"`
	Location   string    `json:"location"`
}

// IsToBeAnnounced reports a period without a known time
func (p Period) IsToBeAnnounced() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// IsOnDay reports whether the period meets on day
func (p Period) IsOnDay(day Weekday) bool {
	for _, d := range p.Days {
		if d == day {
			return true
		}
	}
	return false
}

// ConflictsWith reports whether both periods share a day and their time ranges touch
func (p Period) ConflictsWith(other Period) bool {
	if p.IsToBeAnnounced() || other.IsToBeAnnounced() {
		return false
	}
	shared := false
	for _, d := range p.Days {
		if other.IsOnDay(d) {
			shared = true
			break
		}
	}
	if !shared {
		return false
	}
	return !p.End.Before(other.Start) && !other.End.Before(p.Start)
}

// Covers reports whether the half-open block [t, t+step) overlaps the period on day
func (p Period) Covers(day Weekday, t Time, stepMinutes int) bool {
	if !p.IsOnDay(day) || p.IsToBeAnnounced() {
		return false
	}
	blockStart := t.Minutes()
	blockEnd := blockStart + stepMinutes
	return p.Start.Minutes() < blockEnd && blockStart < p.End.Minutes()
}

// Schedule is one non-conflicting combination of sections, identified by CRNs
type Schedule struct {
	CRNs []int `json:"crns"`
}

// CourseQuery holds the criteria passed to a course fetcher
type CourseQuery struct {
	SemesterID     int
	DepartmentCode string
	IDs            []string
}

// Key returns a stable representation usable as a cache key
func (q CourseQuery) Key() string {
	ids := append([]string(nil), q.IDs...)
	sort.Strings(ids)
	return fmt.Sprintf("courses:%d:%s:%s", q.SemesterID, q.DepartmentCode, strings.Join(ids, ","))
}

// IntIDs parses IDs, skipping anything that is not a number
func (q CourseQuery) IntIDs() []int {
	ids := make([]int, 0, len(q.IDs))
	for _, raw := range q.IDs {
		if id, err := strconv.Atoi(raw); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
