package sensor

import (
	"github.com/nerrad567/sensor-monitor-core/internal/catalog"
	"github.com/nerrad567/sensor-monitor-core/internal/validation"
)

// Field limits.
const (
	minNameLength        = 3
	maxNameLength        = 30
	maxModelLength       = 15
	maxLocationLength    = 40
	maxDescriptionLength = 200
)

// Validate checks d before it reaches the store. requireNullID is set for
// create and full update, where the id is assigned by the server.
func Validate(d DTO, requireNullID bool) error {
	var v validation.Validator

	if requireNullID {
		v.Null("id", d.ID != nil)
	}

	v.NotBlank("name", d.Name)
	v.Length("name", d.Name, minNameLength, maxNameLength)

	v.NotBlank("model", d.Model)
	v.MaxLength("model", d.Model, maxModelLength)

	v.NotNull("rangeTo", d.RangeTo != nil)

	v.NotBlank("type", d.Type)
	v.MaxLength("type", d.Type, catalog.MaxNameLength)

	if d.Unit != nil {
		v.NotBlank("unit", *d.Unit)
		v.MaxLength("unit", *d.Unit, catalog.MaxNameLength)
	}

	v.NotBlank("location", d.Location)
	v.MaxLength("location", d.Location, maxLocationLength)

	v.NotBlank("description", d.Description)
	v.MaxLength("description", d.Description, maxDescriptionLength)

	if err := ValidateRange(d.RangeFrom, d.RangeTo); err != nil {
		v.Add("rangeFrom", "must be less than rangeTo")
	}

	return v.Err()
}

// ValidateRange requires from < to when both ends are present. A missing
// end skips the check.
func ValidateRange(from, to *int64) error {
	if from == nil || to == nil {
		return nil
	}
	if *from >= *to {
		return ErrInvalidRange
	}
	return nil
}
