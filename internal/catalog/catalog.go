package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"yacs/internal/api"
	"yacs/internal/domain"
)

// ErrNoSemester is returned when the catalog holds no rows
var ErrNoSemester = errors.New("catalog has no semester")

// Row is one meeting of one section. Course and section columns repeat on every meeting.
type Row struct {
	SemesterID     int    `csv:"semester_id"`
	SemesterName   string `csv:"semester_name"`
	Year           int    `csv:"year"`
	Month          int    `csv:"month"`
	DepartmentCode string `csv:"department_code"`
	DepartmentName string `csv:"department_name"`
	CourseID       int    `csv:"course_id"`
	CourseNumber   int    `csv:"course_number"`
	CourseName     string `csv:"course_name"`
	MinCredits     int    `csv:"min_credits"`
	MaxCredits     int    `csv:"max_credits"`
	CommIntense    bool   `csv:"comm_intense"`
	GradeType      string `csv:"grade_type"`
	SectionID      int    `csv:"section_id"`
	SectionNumber  string `csv:"section_number"`
	CRN            int    `csv:"crn"`
	SeatsTaken     int    `csv:"seats_taken"`
	SeatsTotal     int    `csv:"seats_total"`
	Kind           string `csv:"kind"`
	Days           string `csv:"days"`
	Start          string `csv:"start"`
	End            string `csv:"end"`
	Instructor     string `csv:"instructor"`
	Location       string `csv:"location"`
}

// Catalog is an offline course source built from a CSV export
type Catalog struct {
	semester    domain.Semester
	departments []domain.Department
	rows        []*Row
}

var _ api.Source = (*Catalog)(nil)

// LoadFile reads a catalog from a CSV file
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a catalog. Rows for other semesters than the newest are ignored.
func Load(r io.Reader) (*Catalog, error) {
	var rows []*Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoSemester
	}

	newest := rows[0]
	for _, row := range rows[1:] {
		if semesterOf(newest).Before(semesterOf(row)) {
			newest = row
		}
	}

	c := &Catalog{semester: semesterOf(newest)}
	seen := make(map[string]bool)
	for i, row := range rows {
		if row.SemesterID != c.semester.ID {
			continue
		}
		if _, err := periodOf(row); err != nil {
			return nil, fmt.Errorf("catalog line %d: %w", i+2, err)
		}
		c.rows = append(c.rows, row)
		if !seen[row.DepartmentCode] {
			seen[row.DepartmentCode] = true
			c.departments = append(c.departments, domain.Department{Code: row.DepartmentCode, Name: row.DepartmentName})
		}
	}
	sort.Slice(c.departments, func(i, j int) bool { return c.departments[i].Code < c.departments[j].Code })
	return c, nil
}

func semesterOf(row *Row) domain.Semester {
	return domain.Semester{ID: row.SemesterID, Year: row.Year, Month: row.Month, Name: row.SemesterName}
}

func periodOf(row *Row) (domain.Period, error) {
	p := domain.Period{Kind: row.Kind, Instructor: row.Instructor, Location: row.Location}
	var err error
	if p.Days, err = domain.ParseDays(row.Days); err != nil {
		return p, err
	}
	if row.Start != "" {
		if p.Start, err = domain.ParseTime(row.Start); err != nil {
			return p, err
		}
	}
	if row.End != "" {
		if p.End, err = domain.ParseTime(row.End); err != nil {
			return p, err
		}
	}
	return p, nil
}

// CurrentSemester returns the newest semester in the file
func (c *Catalog) CurrentSemester(context.Context) (domain.Semester, error) {
	return c.semester, nil
}

// Departments lists departments with at least one course
func (c *Catalog) Departments(_ context.Context, semesterID int) ([]domain.Department, error) {
	if semesterID != 0 && semesterID != c.semester.ID {
		return []domain.Department{}, nil
	}
	return append([]domain.Department(nil), c.departments...), nil
}

// Courses builds fresh course values for the rows matching query
func (c *Catalog) Courses(_ context.Context, query domain.CourseQuery) ([]*domain.Course, error) {
	if query.SemesterID != 0 && query.SemesterID != c.semester.ID {
		return []*domain.Course{}, nil
	}
	ids := make(map[int]bool)
	for _, id := range query.IntIDs() {
		ids[id] = true
	}

	courses := []*domain.Course{}
	byID := make(map[int]*domain.Course)
	sections := make(map[int]*domain.Section)
	for _, row := range c.rows {
		if query.DepartmentCode != "" && !strings.EqualFold(row.DepartmentCode, query.DepartmentCode) {
			continue
		}
		if len(query.IDs) > 0 && !ids[row.CourseID] {
			continue
		}

		course, ok := byID[row.CourseID]
		if !ok {
			course = &domain.Course{
				ID:            row.CourseID,
				Name:          row.CourseName,
				Number:        row.CourseNumber,
				Department:    domain.Department{Code: row.DepartmentCode, Name: row.DepartmentName},
				MinCredits:    row.MinCredits,
				MaxCredits:    row.MaxCredits,
				IsCommIntense: row.CommIntense,
				GradeType:     row.GradeType,
			}
			byID[row.CourseID] = course
			courses = append(courses, course)
		}

		section, ok := sections[row.SectionID]
		if !ok {
			section = &domain.Section{
				ID:         row.SectionID,
				Number:     row.SectionNumber,
				CRN:        row.CRN,
				SeatsTaken: row.SeatsTaken,
				SeatsTotal: row.SeatsTotal,
			}
			sections[row.SectionID] = section
			course.Sections = append(course.Sections, section)
		}

		// validated in Load
		p, _ := periodOf(row)
		if len(p.Days) > 0 || !p.IsToBeAnnounced() {
			section.Periods = append(section.Periods, p)
		}
	}

	sort.SliceStable(courses, func(i, j int) bool {
		if courses[i].Department.Code != courses[j].Department.Code {
			return courses[i].Department.Code < courses[j].Department.Code
		}
		return courses[i].Number < courses[j].Number
	})
	return courses, nil
}

// Export writes courses in the catalog CSV layout, one row per meeting
func Export(w io.Writer, semester domain.Semester, courses []*domain.Course) error {
	var rows []*Row
	for _, course := range courses {
		for _, section := range course.Sections {
			base := Row{
				SemesterID:     semester.ID,
				SemesterName:   semester.Name,
				Year:           semester.Year,
				Month:          semester.Month,
				DepartmentCode: course.Department.Code,
				DepartmentName: course.Department.Name,
				CourseID:       course.ID,
				CourseNumber:   course.Number,
				CourseName:     course.Name,
				MinCredits:     course.MinCredits,
				MaxCredits:     course.MaxCredits,
				CommIntense:    course.IsCommIntense,
				GradeType:      course.GradeType,
				SectionID:      section.ID,
				SectionNumber:  section.Number,
				CRN:            section.CRN,
				SeatsTaken:     section.SeatsTaken,
				SeatsTotal:     section.SeatsTotal,
			}
			if len(section.Periods) == 0 {
				row := base
				rows = append(rows, &row)
				continue
			}
			for _, p := range section.Periods {
				row := base
				row.Kind = p.Kind
				row.Days = domain.DayCodes(p.Days)
				if !p.IsToBeAnnounced() {
					row.Start = p.Start.String()
					row.End = p.End.String()
				}
				row.Instructor = p.Instructor
				row.Location = p.Location
				rows = append(rows, &row)
			}
		}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// Semester returns the semester the catalog describes
func (c *Catalog) Semester() domain.Semester {
	return c.semester
}

// Size returns the number of meeting rows loaded
func (c *Catalog) Size() int {
	return len(c.rows)
}

// String is used in log lines
func (c *Catalog) String() string {
	return c.semester.Name + " (" + strconv.Itoa(len(c.rows)) + " meetings)"
}
