package sensor

import (
	"bytes"
	"fmt"

	jsonmerge "github.com/apapsch/go-jsonmerge/v2"
	"github.com/goccy/go-json"

	"github.com/nerrad567/sensor-monitor-core/internal/catalog"
)

// ToDTO flattens a stored sensor into its wire form.
func ToDTO(s Sensor) DTO {
	d := DTO{
		Name:        s.Name,
		Model:       s.Model,
		RangeFrom:   cloneInt(s.RangeFrom),
		RangeTo:     cloneInt(s.RangeTo),
		Unit:        nameOrNull(s.Unit),
		Location:    s.Location,
		Description: s.Description,
	}
	if s.ID != "" {
		id := s.ID
		d.ID = &id
	}
	if t := nameOrNull(s.Type); t != nil {
		d.Type = *t
	}
	return d
}

// ToEntity builds a sensor from d. Unit and type become name-only entries
// that the repository reconciles by name.
func ToEntity(d DTO) Sensor {
	var s Sensor
	if d.ID != nil {
		s.ID = *d.ID
	}
	UpdateWithNull(d, &s)
	return s
}

// UpdateWithNull overwrites every field of s except its identity and
// timestamps with d, including nulls.
func UpdateWithNull(d DTO, s *Sensor) {
	s.Name = d.Name
	s.Model = d.Model
	s.RangeFrom = cloneInt(d.RangeFrom)
	s.RangeTo = cloneInt(d.RangeTo)
	s.Unit = reference(d.Unit)
	s.Type = reference(&d.Type)
	s.Location = d.Location
	s.Description = d.Description
}

// MergePatch applies a JSON merge-patch document to s's DTO and returns the
// merged DTO. Only members present in patch change; explicit nulls clear.
// The id is never taken from the patch.
func MergePatch(s Sensor, patch []byte) (DTO, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(patch, &members); err != nil || members == nil {
		return DTO{}, fmt.Errorf("%w: body must be a JSON object", ErrPatchFailed)
	}

	baseline := ToDTO(s)
	base, err := json.Marshal(baseline)
	if err != nil {
		return DTO{}, fmt.Errorf("encoding sensor %s: %w", s.ID, err)
	}

	var merger jsonmerge.Merger
	merged, err := merger.MergeBytes(base, patch)
	if err != nil {
		return DTO{}, fmt.Errorf("%w: %w", ErrPatchFailed, err)
	}

	var out DTO
	dec := json.NewDecoder(bytes.NewReader(merged))
	if err := dec.Decode(&out); err != nil {
		return DTO{}, fmt.Errorf("%w: %w", ErrPatchFailed, err)
	}
	out.ID = baseline.ID
	return out, nil
}

// nameOrNull flattens a relation to its name.
func nameOrNull(e *catalog.Entry) *string {
	if e == nil {
		return nil
	}
	name := e.Name
	return &name
}

// reference turns a name into a name-only relation. Nil and empty names
// mean no relation.
func reference(name *string) *catalog.Entry {
	if name == nil || *name == "" {
		return nil
	}
	return &catalog.Entry{Name: *name}
}

func cloneInt(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
