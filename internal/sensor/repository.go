package sensor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/sensor-monitor-core/internal/catalog"
	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/database"
	"github.com/nerrad567/sensor-monitor-core/internal/query"
)

// Repository defines the persistence operations for sensors.
type Repository interface {
	// GetByID returns the sensor with id, or ErrSensorNotFound.
	GetByID(ctx context.Context, id string) (*Sensor, error)

	// List returns one page of sensors matching spec and the total number
	// of matches.
	List(ctx context.Context, spec query.Spec, p query.Pageable) ([]Sensor, int64, error)

	// Create inserts s, creating its unit and type by name when missing.
	Create(ctx context.Context, s *Sensor) error

	// Update overwrites s, creating its unit and type by name when missing.
	// Returns ErrSensorNotFound when no row has s.ID.
	Update(ctx context.Context, s *Sensor) error

	// Delete removes the sensor with id. Returns ErrSensorNotFound.
	Delete(ctx context.Context, id string) error
}

const sensorColumns = `id, name, model, range_from, range_to, unit, type,
	location, description, created_at, updated_at`

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *database.DB
}

// NewSQLiteRepository creates a new SQLite-backed sensor repository.
func NewSQLiteRepository(db *database.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID returns the sensor with id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Sensor, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+sensorColumns+" FROM sensors WHERE id = ?", id)
	s, err := scanSensor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSensorNotFound
		}
		return nil, fmt.Errorf("querying sensor: %w", err)
	}
	return s, nil
}

// List returns one page of sensors matching spec, ordered by p's sort with
// id as the final tiebreak.
func (r *SQLiteRepository) List(ctx context.Context, spec query.Spec, p query.Pageable) ([]Sensor, int64, error) {
	where, args := query.Where(spec)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sensors "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting sensors: %w", err)
	}

	limit, limitArgs := p.Limit()
	stmt := "SELECT " + sensorColumns + " FROM sensors " + where + " " + p.OrderBy("id") + " " + limit
	rows, err := r.db.QueryContext(ctx, stmt, append(args, limitArgs...)...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying sensors: %w", err)
	}
	defer rows.Close()

	var sensors []Sensor
	for rows.Next() {
		s, err := scanSensor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning sensor: %w", err)
		}
		sensors = append(sensors, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating sensors: %w", err)
	}
	return sensors, total, nil
}

// Create inserts s and its references in one transaction.
func (r *SQLiteRepository) Create(ctx context.Context, s *Sensor) error {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := ensureReferences(ctx, tx, s); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sensors (`+sensorColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.Model, nullInt(s.RangeFrom), nullInt(s.RangeTo),
			entryName(s.Unit), entryName(s.Type), s.Location, s.Description,
			formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting sensor: %w", err)
		}
		return nil
	})
}

// Update overwrites s and upserts its references in one transaction.
func (r *SQLiteRepository) Update(ctx context.Context, s *Sensor) error {
	s.UpdatedAt = time.Now().UTC()

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := ensureReferences(ctx, tx, s); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE sensors SET
				name = ?, model = ?, range_from = ?, range_to = ?, unit = ?, type = ?,
				location = ?, description = ?, updated_at = ?
			WHERE id = ?`,
			s.Name, s.Model, nullInt(s.RangeFrom), nullInt(s.RangeTo),
			entryName(s.Unit), entryName(s.Type), s.Location, s.Description,
			formatTime(s.UpdatedAt), s.ID,
		)
		if err != nil {
			return fmt.Errorf("updating sensor: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrSensorNotFound
		}
		return nil
	})
}

// Delete removes the sensor with id.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sensors WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting sensor: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSensorNotFound
	}
	return nil
}

// ensureReferences inserts the sensor's unit and type by name unless they
// already exist.
func ensureReferences(ctx context.Context, tx *sql.Tx, s *Sensor) error {
	refs := []struct {
		kind  catalog.Kind
		entry *catalog.Entry
	}{
		{catalog.Units, s.Unit},
		{catalog.Types, s.Type},
	}
	for _, ref := range refs {
		if ref.entry == nil {
			continue
		}
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO "+ref.kind.Table()+" (name) VALUES (?)", ref.entry.Name)
		if err != nil {
			return fmt.Errorf("upserting %s %q: %w", ref.kind.Noun(), ref.entry.Name, err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSensor(row scanner) (*Sensor, error) {
	var (
		s                  Sensor
		rangeFrom, rangeTo sql.NullInt64
		unit, typ          sql.NullString
		created, updated   string
	)
	err := row.Scan(&s.ID, &s.Name, &s.Model, &rangeFrom, &rangeTo, &unit, &typ,
		&s.Location, &s.Description, &created, &updated)
	if err != nil {
		return nil, err
	}

	if rangeFrom.Valid {
		s.RangeFrom = &rangeFrom.Int64
	}
	if rangeTo.Valid {
		s.RangeTo = &rangeTo.Int64
	}
	if unit.Valid {
		s.Unit = &catalog.Entry{Name: unit.String}
	}
	if typ.Valid {
		s.Type = &catalog.Entry{Name: typ.String}
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func entryName(e *catalog.Entry) sql.NullString {
	if e == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: e.Name, Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
