package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/sensor-monitor-core/internal/query"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ChangeFunc is called after a rename or delete has been committed. Sensors
// that referenced name have changed in storage when it runs.
type ChangeFunc func(kind Kind, name string)

// Registry runs the create, read, update and delete operations for one
// catalog kind on top of a Repository. Methods take and return DTOs.
type Registry struct {
	kind     Kind
	repo     Repository
	logger   Logger
	onChange ChangeFunc
}

// NewRegistry creates a registry for kind backed by repo.
func NewRegistry(kind Kind, repo Repository) *Registry {
	return &Registry{
		kind:     kind,
		repo:     repo,
		logger:   noopLogger{},
		onChange: func(Kind, string) {},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// OnChange registers fn to run after renames and deletes.
func (r *Registry) OnChange(fn ChangeFunc) {
	r.onChange = fn
}

// Kind returns the catalog kind this registry manages.
func (r *Registry) Kind() Kind {
	return r.kind
}

// Create validates and stores a new entry.
func (r *Registry) Create(ctx context.Context, d DTO) (DTO, error) {
	if err := Validate(d); err != nil {
		return DTO{}, err
	}

	e := ToEntity(d)
	if err := r.repo.Create(ctx, &e); err != nil {
		return DTO{}, err
	}

	r.logger.Info(r.kind.Noun()+" created", "name", e.Name)
	return ToDTO(e), nil
}

// Get returns the entry named name, or ErrNotFound.
func (r *Registry) Get(ctx context.Context, name string) (DTO, error) {
	e, err := r.repo.Get(ctx, name)
	if err != nil {
		return DTO{}, err
	}
	return ToDTO(*e), nil
}

// List returns one page of entries.
func (r *Registry) List(ctx context.Context, p query.Pageable) (query.Page[DTO], error) {
	entries, total, err := r.repo.List(ctx, p)
	if err != nil {
		return query.Page[DTO]{}, err
	}
	return query.Map(query.NewPage(entries, p, total), ToDTO), nil
}

// Update replaces the entry named name with d. Because the name is the
// identity, a different d.Name renames the entry.
func (r *Registry) Update(ctx context.Context, name string, d DTO) (DTO, error) {
	if err := Validate(d); err != nil {
		return DTO{}, err
	}

	e, err := r.repo.Get(ctx, name)
	if err != nil {
		return DTO{}, err
	}

	UpdateWithNull(d, e)
	if err := r.repo.Rename(ctx, name, e); err != nil {
		return DTO{}, err
	}

	if e.Name != name {
		r.logger.Info(r.kind.Noun()+" renamed", "from", name, "to", e.Name)
		r.onChange(r.kind, name)
	}
	return ToDTO(*e), nil
}

// Delete removes the entry named name and returns it. A missing entry is
// not an error: Delete returns nil, nil.
func (r *Registry) Delete(ctx context.Context, name string) (*DTO, error) {
	e, err := r.repo.Get(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.repo.Delete(ctx, name); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		if errors.Is(err, ErrInUse) {
			return nil, fmt.Errorf("%w: %s %q is referenced by sensors", ErrInUse, r.kind.Noun(), name)
		}
		return nil, err
	}

	r.logger.Info(r.kind.Noun()+" deleted", "name", name)
	r.onChange(r.kind, name)

	d := ToDTO(*e)
	return &d, nil
}
