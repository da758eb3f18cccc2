package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"yacs/internal/domain"
)

// Source answers catalog queries. The HTTP client, the offline CSV catalog
// and the caching wrapper all implement it.
type Source interface {
	CurrentSemester(ctx context.Context) (domain.Semester, error)
	Departments(ctx context.Context, semesterID int) ([]domain.Department, error)
	Courses(ctx context.Context, query domain.CourseQuery) ([]*domain.Course, error)
}

// Scheduler generates schedules for a set of sections
type Scheduler interface {
	Schedules(ctx context.Context, sectionIDs []int) ([]domain.Schedule, error)
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// Client talks to the yacs JSON API
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *zap.Logger
}

var (
	_ Source    = (*Client)(nil)
	_ Scheduler = (*Client)(nil)
)

// New creates a client for the API rooted at baseURL, e.g. "https://yacs.example/api/v5"
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: 15 * time.Second},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CurrentSemester returns the semester the API considers current
func (c *Client) CurrentSemester(ctx context.Context) (domain.Semester, error) {
	var s domain.Semester
	if err := c.get(ctx, "semesters/current", nil, &s); err != nil {
		return domain.Semester{}, fmt.Errorf("current semester: %w", err)
	}
	return s, nil
}

// Departments lists the departments offering courses in a semester
func (c *Client) Departments(ctx context.Context, semesterID int) ([]domain.Department, error) {
	q := url.Values{}
	if semesterID != 0 {
		q.Set("semester_id", strconv.Itoa(semesterID))
	}
	var depts []domain.Department
	if err := c.get(ctx, "departments", q, &depts); err != nil {
		return nil, fmt.Errorf("departments: %w", err)
	}
	return depts, nil
}

// Courses returns the courses matching query
func (c *Client) Courses(ctx context.Context, query domain.CourseQuery) ([]*domain.Course, error) {
	q := url.Values{}
	if query.SemesterID != 0 {
		q.Set("semester_id", strconv.Itoa(query.SemesterID))
	}
	if query.DepartmentCode != "" {
		q.Set("department_code", query.DepartmentCode)
	}
	for _, id := range query.IDs {
		q.Add("id", id)
	}
	var courses []*domain.Course
	if err := c.get(ctx, "courses", q, &courses); err != nil {
		return nil, fmt.Errorf("courses: %w", err)
	}
	if courses == nil {
		courses = []*domain.Course{}
	}
	return courses, nil
}

type schedulesResponse struct {
	Schedules []domain.Schedule `json:"schedules"`
}

// Schedules asks the API for every non-conflicting combination of the sections
func (c *Client) Schedules(ctx context.Context, sectionIDs []int) ([]domain.Schedule, error) {
	q := url.Values{}
	for _, id := range sectionIDs {
		q.Add("section_id", strconv.Itoa(id))
	}
	var resp schedulesResponse
	if err := c.get(ctx, "schedules", q, &resp); err != nil {
		return nil, fmt.Errorf("schedules: %w", err)
	}
	if resp.Schedules == nil {
		resp.Schedules = []domain.Schedule{}
	}
	return resp.Schedules, nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = u.Path + "/" + path
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	target := c.endpoint(path, q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Status: resp.StatusCode, URL: target}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(body) > 0 {
			// best effort: the API reports {"code", "message"} on errors
			_ = json.Unmarshal(body, se)
			se.Status = resp.StatusCode
		}
		return se
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}
	return nil
}
