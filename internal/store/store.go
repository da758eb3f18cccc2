package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no selection matches
var ErrNotFound = errors.New("selection not found")

// Record is a persisted selection: course id to chosen section ids
type Record struct {
	ID         int64
	SemesterID int
	Courses    map[int][]int
	Revision   int
	UpdatedAt  time.Time
}

// SelectionStore persists selections in SQLite
type SelectionStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes the SQLite database at path. ":memory:" is accepted for tests.
func Open(path string) (*SelectionStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	s := &SelectionStore{db: db, path: path, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SelectionStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS selections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		semester_id INTEGER NOT NULL,
		courses TEXT NOT NULL,
		revision INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_selections_semester ON selections(semester_id, updated_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SelectionStore) Close() error {
	return s.db.Close()
}

// Save inserts a new selection when rec.ID is zero, otherwise replaces it
// unless the stored revision is newer. It returns the selection id.
func (s *SelectionStore) Save(ctx context.Context, rec Record) (int64, error) {
	courses, err := encodeCourses(rec.Courses)
	if err != nil {
		return 0, err
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = s.now()
	}

	if rec.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO selections (semester_id, courses, revision, updated_at) VALUES (?, ?, ?, ?)`,
			rec.SemesterID, courses, rec.Revision, updated.UTC())
		if err != nil {
			return 0, fmt.Errorf("failed to insert selection: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read selection id: %w", err)
		}
		return id, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO selections (id, semester_id, courses, revision, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			semester_id = excluded.semester_id,
			courses = excluded.courses,
			revision = excluded.revision,
			updated_at = excluded.updated_at
		WHERE excluded.revision >= selections.revision`,
		rec.ID, rec.SemesterID, courses, rec.Revision, updated.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to update selection %d: %w", rec.ID, err)
	}
	return rec.ID, nil
}

// Load returns the selection with the given id
func (s *SelectionStore) Load(ctx context.Context, id int64) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, semester_id, courses, revision, updated_at FROM selections WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("load selection %d: %w", id, err)
	}
	return rec, nil
}

// Latest returns the most recently saved selection for a semester
func (s *SelectionStore) Latest(ctx context.Context, semesterID int) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, semester_id, courses, revision, updated_at FROM selections
		WHERE semester_id = ?
		ORDER BY updated_at DESC, id DESC
		LIMIT 1`, semesterID)
	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("latest selection for semester %d: %w", semesterID, err)
	}
	return rec, nil
}

func scanRecord(row *sql.Row) (Record, error) {
	var (
		rec     Record
		courses string
	)
	if err := row.Scan(&rec.ID, &rec.SemesterID, &courses, &rec.Revision, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	m, err := decodeCourses(courses)
	if err != nil {
		return Record{}, err
	}
	rec.Courses = m
	return rec, nil
}

// courses are stored as a JSON object keyed by course id, section ids sorted
func encodeCourses(courses map[int][]int) (string, error) {
	normalized := make(map[int][]int, len(courses))
	for id, sections := range courses {
		sorted := append([]int(nil), sections...)
		sort.Ints(sorted)
		normalized[id] = sorted
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("failed to encode courses: %w", err)
	}
	return string(data), nil
}

func decodeCourses(raw string) (map[int][]int, error) {
	courses := make(map[int][]int)
	if raw == "" {
		return courses, nil
	}
	if err := json.Unmarshal([]byte(raw), &courses); err != nil {
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}
	return courses, nil
}
