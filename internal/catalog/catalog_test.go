package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yacs/internal/domain"
)

const header = "semester_id,semester_name,year,month,department_code,department_name,course_id,course_number,course_name,min_credits,max_credits,comm_intense,grade_type,section_id,section_number,crn,seats_taken,seats_total,kind,days,start,end,instructor,location\n"

const fixture = header +
	"12,Spring 2014,2014,1,CSCI,Computer Science,2,1200,Data Structures,4,4,false,,3,01,87654,10,30,LEC,MR,10:00,11:50,Cutler,DCC 308\n" +
	"12,Spring 2014,2014,1,CSCI,Computer Science,2,1200,Data Structures,4,4,false,,3,01,87654,10,30,LAB,W,12:00,13:50,Cutler,AE 217\n" +
	"12,Spring 2014,2014,1,CSCI,Computer Science,2,1200,Data Structures,4,4,false,,4,02,87655,30,30,LEC,MR,10:00,11:50,Cutler,DCC 308\n" +
	"12,Spring 2014,2014,1,CSCI,Computer Science,5,1100,Computer Science I,4,4,false,,6,01,87600,0,200,LEC,TF,14:00,15:50,Turner,WEST AUD\n" +
	"12,Spring 2014,2014,1,WRIT,Writing,8,2110,Writing Seminar,1,4,true,Satisfactory/Unsatisfactory,9,01,88000,3,20,LEC,T,,,Staff,TBA\n" +
	"11,Fall 2013,2013,9,CSCI,Computer Science,1,1010,Old Course,4,4,false,,1,01,10000,0,10,LEC,M,9:00,9:50,Nobody,Nowhere\n"

func loadFixture(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(strings.NewReader(fixture))
	require.NoError(t, err)
	return c
}

func TestLoadPicksNewestSemester(t *testing.T) {
	c := loadFixture(t)

	sem, err := c.CurrentSemester(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Semester{ID: 12, Year: 2014, Month: 1, Name: "Spring 2014"}, sem)
	assert.Equal(t, 5, c.Size())

	depts, err := c.Departments(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, []domain.Department{
		{Code: "CSCI", Name: "Computer Science"},
		{Code: "WRIT", Name: "Writing"},
	}, depts)
}

func TestCoursesByDepartment(t *testing.T) {
	c := loadFixture(t)

	courses, err := c.Courses(context.Background(), domain.CourseQuery{SemesterID: 12, DepartmentCode: "csci"})
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "CSCI 1100", courses[0].Code(), "sorted by number")

	ds := courses[1]
	require.Len(t, ds.Sections, 2)
	assert.Len(t, ds.Sections[0].Periods, 2)
	assert.True(t, ds.Sections[1].IsFull())
	assert.Equal(t, []domain.Weekday{domain.Monday, domain.Thursday}, ds.Sections[0].Periods[0].Days)
	assert.Equal(t, domain.NewTime(11, 50), ds.Sections[0].Periods[0].End)
}

func TestCoursesByID(t *testing.T) {
	c := loadFixture(t)

	courses, err := c.Courses(context.Background(), domain.CourseQuery{SemesterID: 12, IDs: []string{"8", "5"}})
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, 5, courses[0].ID)

	writing := courses[1]
	assert.Equal(t, "1 - 4 credits", writing.CreditsDisplay())
	assert.True(t, writing.Sections[0].Periods[0].IsToBeAnnounced())
	var tags []string
	for _, tag := range writing.Tags() {
		tags = append(tags, tag.Name)
	}
	assert.Equal(t, []string{"Lecture", "Comm Intensive", "Pass/Fail"}, tags)
}

func TestCoursesReturnsFreshValues(t *testing.T) {
	c := loadFixture(t)
	q := domain.CourseQuery{SemesterID: 12, DepartmentCode: "CSCI"}

	first, err := c.Courses(context.Background(), q)
	require.NoError(t, err)
	first[0].ToggleSelected()

	second, err := c.Courses(context.Background(), q)
	require.NoError(t, err)
	assert.False(t, second[0].Selected)
}

func TestOtherSemesterIsEmpty(t *testing.T) {
	c := loadFixture(t)
	courses, err := c.Courses(context.Background(), domain.CourseQuery{SemesterID: 11})
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(strings.NewReader(header))
	assert.ErrorIs(t, err, ErrNoSemester)

	bad := header + "12,S,2014,1,CSCI,CS,2,1200,DS,4,4,false,,3,01,1,0,1,LEC,MX,10:00,11:00,A,B\n"
	_, err = Load(strings.NewReader(bad))
	assert.ErrorContains(t, err, "line 2")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestExportRoundTrip(t *testing.T) {
	c := loadFixture(t)
	ctx := context.Background()
	want, err := c.Courses(ctx, domain.CourseQuery{SemesterID: 12})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, c.Semester(), want))

	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	reloaded, err := LoadFile(path)
	require.NoError(t, err)

	got, err := reloaded.Courses(ctx, domain.CourseQuery{SemesterID: 12})
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
