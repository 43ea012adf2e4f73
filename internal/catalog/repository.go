package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/database"
	"github.com/nerrad567/sensor-monitor-core/internal/query"
)

// Repository defines persistence for one catalog kind.
type Repository interface {
	// Get returns the entry named name, or ErrNotFound.
	Get(ctx context.Context, name string) (*Entry, error)

	// List returns one page of entries and the total count.
	List(ctx context.Context, p query.Pageable) ([]Entry, int64, error)

	// Create inserts e. Returns ErrExists when the name is taken.
	Create(ctx context.Context, e *Entry) error

	// Rename changes the name of oldName to e.Name. Referencing sensors follow.
	// Returns ErrNotFound or ErrExists.
	Rename(ctx context.Context, oldName string, e *Entry) error

	// Delete removes the entry named name. Returns ErrNotFound, or ErrInUse
	// when sensors still require it.
	Delete(ctx context.Context, name string) error
}

// Sortable lists the fields a catalog listing may be sorted by.
var Sortable = query.Sortable{"name": "name"}

// SQLiteRepository implements Repository over the units or types table.
type SQLiteRepository struct {
	db    *sql.DB
	kind  Kind
	table string
}

// NewSQLiteRepository creates a repository for kind.
func NewSQLiteRepository(db *sql.DB, kind Kind) *SQLiteRepository {
	return &SQLiteRepository{db: db, kind: kind, table: kind.Table()}
}

// Get returns the entry named name.
func (r *SQLiteRepository) Get(ctx context.Context, name string) (*Entry, error) {
	var e Entry
	err := r.db.QueryRowContext(ctx, "SELECT name FROM "+r.table+" WHERE name = ?", name).Scan(&e.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying %s: %w", r.kind.Noun(), err)
	}
	return &e, nil
}

// List returns one page of entries ordered by p's sort, then name.
func (r *SQLiteRepository) List(ctx context.Context, p query.Pageable) ([]Entry, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+r.table).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting %s: %w", r.table, err)
	}

	limit, args := p.Limit()
	rows, err := r.db.QueryContext(ctx,
		"SELECT name FROM "+r.table+" "+p.OrderBy("name")+" "+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying %s: %w", r.table, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name); err != nil {
			return nil, 0, fmt.Errorf("scanning %s: %w", r.kind.Noun(), err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating %s: %w", r.table, err)
	}
	return entries, total, nil
}

// Create inserts e.
func (r *SQLiteRepository) Create(ctx context.Context, e *Entry) error {
	_, err := r.db.ExecContext(ctx, "INSERT INTO "+r.table+" (name) VALUES (?)", e.Name)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrExists
		}
		return fmt.Errorf("inserting %s: %w", r.kind.Noun(), err)
	}
	return nil
}

// Rename changes oldName to e.Name.
func (r *SQLiteRepository) Rename(ctx context.Context, oldName string, e *Entry) error {
	result, err := r.db.ExecContext(ctx, "UPDATE "+r.table+" SET name = ? WHERE name = ?", e.Name, oldName)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrExists
		}
		return fmt.Errorf("updating %s: %w", r.kind.Noun(), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the entry named name.
func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM "+r.table+" WHERE name = ?", name)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("deleting %s: %w", r.kind.Noun(), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
