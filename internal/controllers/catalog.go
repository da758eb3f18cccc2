package controllers

import (
	"go.uber.org/zap"

	"yacs/internal/async"
	"yacs/internal/domain"
)

// CatalogController lists the courses of one department for the current
// semester and forwards course and section clicks into the current selection.
type CatalogController struct {
	binder

	// Department is the department code being browsed
	Department string
	// Semester is nil until the semester future resolves
	Semester *domain.Semester

	fetch CourseFetcher

	// latest fetch result, held until the selection is also available
	fetched    []*domain.Course
	fetchDone  bool
	generation int
}

// NewCatalogController wires the controller to its collaborators. Nothing is
// fetched until semester resolves.
func NewCatalogController(
	department string,
	semester *async.Future[domain.Semester],
	fetch CourseFetcher,
	current *async.Future[Selection],
	opts ...Option,
) *CatalogController {
	o := buildOptions(opts)
	c := &CatalogController{
		binder:     newBinder(o),
		Department: department,
		fetch:      fetch,
	}
	c.logger = o.logger.Named("catalog")

	semester.Then(func(s domain.Semester) {
		c.Semester = &s
		c.load()
	}, func(err error) {
		c.report("could not resolve the current semester", err, true)
	})

	current.Then(func(sel Selection) {
		c.selection = sel
		c.bind()
	}, func(err error) {
		c.report("could not load the current selection", err, true)
	})

	return c
}

// Query returns the fetch criteria for the current department and semester
func (c *CatalogController) Query() domain.CourseQuery {
	q := domain.CourseQuery{DepartmentCode: c.Department}
	if c.Semester != nil {
		q.SemesterID = c.Semester.ID
	}
	return q
}

func (c *CatalogController) load() {
	c.generation++
	gen := c.generation
	query := c.Query()

	c.logger.Debug("fetching courses",
		zap.Int("semester_id", query.SemesterID),
		zap.String("department", query.DepartmentCode))

	c.fetch(query).Then(func(courses []*domain.Course) {
		if gen != c.generation {
			return
		}
		c.fetched = courses
		c.fetchDone = true
		c.bind()
	}, func(err error) {
		if gen != c.generation {
			return
		}
		c.report("could not fetch courses", err, true)
	})
}

// bind runs once both the fetch and the selection are available, in either order
func (c *CatalogController) bind() {
	if !c.fetchDone || c.selection == nil {
		return
	}
	c.bindCourses(c.fetched)
	if len(c.Courses) == 0 {
		c.EmptyText = "No courses found for " + c.Department + "."
	}
	c.publish(domain.CoursesLoadedEvent{
		SemesterID:     c.Query().SemesterID,
		DepartmentCode: c.Department,
		Count:          len(c.Courses),
	})
}

// Reload fetches the department again. It is a no-op before the semester resolves.
func (c *CatalogController) Reload() {
	if c.Semester == nil {
		return
	}
	c.fetchDone = false
	c.load()
}

// SetDepartment switches to another department and fetches its courses
func (c *CatalogController) SetDepartment(code string) {
	if code == "" || code == c.Department {
		return
	}
	c.Department = code
	c.Courses = []*domain.Course{}
	c.coursesLoaded = false
	c.EmptyText = "Loading courses..."
	c.Reload()
}

// ClickCourse toggles a whole course in the selection.
// It reports false when the selection has not resolved yet.
func (c *CatalogController) ClickCourse(course *domain.Course) bool {
	return c.clickCourse(course, nil)
}

// ClickSection toggles one section of a course in the selection
func (c *CatalogController) ClickSection(course *domain.Course, section *domain.Section) bool {
	return c.clickSection(course, section, nil)
}
