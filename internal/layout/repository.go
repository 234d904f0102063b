package layout

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProjectRecord is a stored project.
type ProjectRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Project   *Project  `json:"project"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Repository defines the interface for project persistence operations.
type Repository interface {
	Create(ctx context.Context, rec *ProjectRecord) error
	Get(ctx context.Context, id string) (*ProjectRecord, error)
	List(ctx context.Context) ([]ProjectRecord, error)
	Update(ctx context.Context, rec *ProjectRecord) error
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite. The project
// document is stored as JSON in the data column.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed project repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts rec, assigning an ID if it has none. Name defaults to the
// project's metadata name.
func (r *SQLiteRepository) Create(ctx context.Context, rec *ProjectRecord) error {
	if rec.Project == nil {
		return fmt.Errorf("%w: no project document", ErrInvalidProject)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Name == "" {
		rec.Name = rec.Project.Metadata.Name
	}
	data, err := json.Marshal(rec.Project)
	if err != nil {
		return fmt.Errorf("encoding project %s: %w", rec.ID, err)
	}

	const query = `INSERT INTO projects (id, name, data) VALUES (?, ?, ?)
		RETURNING created_at, updated_at`
	var createdAt, updatedAt string
	if err := r.db.QueryRowContext(ctx, query, rec.ID, rec.Name, string(data)).Scan(&createdAt, &updatedAt); err != nil {
		return fmt.Errorf("inserting project %s: %w", rec.ID, err)
	}
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return nil
}

// Get returns a single project by ID.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*ProjectRecord, error) {
	const query = `SELECT id, name, data, created_at, updated_at FROM projects WHERE id = ?`
	return scanProject(r.db.QueryRowContext(ctx, query, id))
}

// List returns all projects, most recently updated first.
func (r *SQLiteRepository) List(ctx context.Context) ([]ProjectRecord, error) {
	const query = `SELECT id, name, data, created_at, updated_at FROM projects
		ORDER BY updated_at DESC, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectRecord
	for rows.Next() {
		rec, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return out, nil
}

// Update replaces the stored name and document.
// Returns ErrProjectNotFound if the project does not exist.
func (r *SQLiteRepository) Update(ctx context.Context, rec *ProjectRecord) error {
	if rec.Project == nil {
		return fmt.Errorf("%w: no project document", ErrInvalidProject)
	}
	data, err := json.Marshal(rec.Project)
	if err != nil {
		return fmt.Errorf("encoding project %s: %w", rec.ID, err)
	}
	const query = `UPDATE projects SET name = ?, data = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, rec.Name, string(data), rec.ID)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", rec.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Delete removes a project by ID.
// Returns ErrProjectNotFound if the project does not exist.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*ProjectRecord, error) {
	var rec ProjectRecord
	var data, createdAt, updatedAt string

	if err := row.Scan(&rec.ID, &rec.Name, &data, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	var p Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decoding project %s: %w", rec.ID, err)
	}
	rec.Project = &p
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
