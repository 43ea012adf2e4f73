package sensor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nerrad567/sensor-monitor-core/internal/cache"
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

// Registry runs the sensor operations on top of a Repository and keeps a
// read-through cache of single lookups keyed by id.
//
// Every update, patch and delete evicts the id before returning, so a Get
// issued after one of them has returned reads the new state.
type Registry struct {
	repo      Repository
	cache     *cache.Cache[string, DTO]
	logger    Logger
	publisher Publisher
}

// NewRegistry creates a registry over repo. dtoCache holds the results of
// Get and must not be shared with other registries.
func NewRegistry(repo Repository, dtoCache *cache.Cache[string, DTO]) *Registry {
	return &Registry{
		repo:      repo,
		cache:     dtoCache,
		logger:    noopLogger{},
		publisher: noopPublisher{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// SetPublisher sets the destination for lifecycle events.
func (r *Registry) SetPublisher(p Publisher) {
	r.publisher = p
}

// Create validates d and stores it as a new sensor with a fresh id.
// d must not carry an id.
func (r *Registry) Create(ctx context.Context, d DTO) (DTO, error) {
	if err := Validate(d, true); err != nil {
		return DTO{}, err
	}

	s := ToEntity(d)
	s.ID = uuid.NewString()
	if err := r.repo.Create(ctx, &s); err != nil {
		return DTO{}, err
	}

	out := ToDTO(s)
	r.logger.Info("sensor created", "id", s.ID, "name", s.Name)
	r.publish(ActionCreated, out)
	return out, nil
}

// Get returns the sensor with id, from the cache when present.
func (r *Registry) Get(ctx context.Context, id string) (DTO, error) {
	id, err := checkID(id)
	if err != nil {
		return DTO{}, err
	}

	if d, ok := r.cache.Get(id); ok {
		return d, nil
	}

	s, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return DTO{}, err
	}

	d := ToDTO(*s)
	r.cache.Put(id, d)
	return d, nil
}

// List returns one page of sensors matching f.
func (r *Registry) List(ctx context.Context, f Filter, p query.Pageable) (query.Page[DTO], error) {
	sensors, total, err := r.repo.List(ctx, f.Spec(), p)
	if err != nil {
		return query.Page[DTO]{}, err
	}
	return query.Map(query.NewPage(sensors, p, total), ToDTO), nil
}

// Update replaces every field of the sensor with id by d, nulls included.
// d must not carry an id.
func (r *Registry) Update(ctx context.Context, id string, d DTO) (DTO, error) {
	id, err := checkID(id)
	if err != nil {
		return DTO{}, err
	}
	if err := Validate(d, true); err != nil {
		return DTO{}, err
	}

	s, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return DTO{}, err
	}
	return r.apply(ctx, s, d)
}

// Patch merges the JSON object patch onto the sensor with id. Members
// absent from patch keep their value; explicit nulls clear. The merged
// sensor must pass the same validation as a full update.
func (r *Registry) Patch(ctx context.Context, id string, patch []byte) (DTO, error) {
	id, err := checkID(id)
	if err != nil {
		return DTO{}, err
	}

	s, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return DTO{}, err
	}

	merged, err := MergePatch(*s, patch)
	if err != nil {
		return DTO{}, err
	}
	if err := Validate(merged, false); err != nil {
		return DTO{}, err
	}
	return r.apply(ctx, s, merged)
}

// Delete removes the sensor with id and returns its last state. A missing
// sensor is not an error: Delete returns nil, nil.
func (r *Registry) Delete(ctx context.Context, id string) (*DTO, error) {
	id, err := checkID(id)
	if err != nil {
		return nil, err
	}

	s, err := r.repo.GetByID(ctx, id)
	if errors.Is(err, ErrSensorNotFound) {
		r.cache.Evict(id)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = r.repo.Delete(ctx, id)
	r.cache.Evict(id)
	if errors.Is(err, ErrSensorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	d := ToDTO(*s)
	r.logger.Info("sensor deleted", "id", id)
	r.publish(ActionDeleted, d)
	return &d, nil
}

// InvalidateAll drops every cached sensor. Called when a unit or type
// rename or delete has rewritten sensor rows in storage.
func (r *Registry) InvalidateAll() {
	r.cache.Purge()
	r.logger.Debug("sensor cache purged")
}

// CacheStats reports the read-through cache counters.
func (r *Registry) CacheStats() cache.Stats {
	return r.cache.Stats()
}

func (r *Registry) apply(ctx context.Context, s *Sensor, d DTO) (DTO, error) {
	UpdateWithNull(d, s)
	err := r.repo.Update(ctx, s)
	r.cache.Evict(s.ID)
	if err != nil {
		return DTO{}, err
	}

	out := ToDTO(*s)
	r.logger.Info("sensor updated", "id", s.ID)
	r.publish(ActionUpdated, out)
	return out, nil
}

func (r *Registry) publish(action Action, d DTO) {
	if err := r.publisher.PublishEvent(Event{Action: action, Sensor: d}); err != nil {
		r.logger.Warn("sensor event not published", "action", action, "error", err)
	}
}

// checkID returns id in canonical lowercase form, the form ids are stored
// and cached under.
func checkID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return u.String(), nil
}
