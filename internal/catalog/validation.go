package catalog

import "github.com/nerrad567/sensor-monitor-core/internal/validation"

// MaxNameLength bounds unit and type names.
const MaxNameLength = 36

// Validate checks a DTO for create or full update. The id must be absent
// because names are the identity.
func Validate(d DTO) error {
	var v validation.Validator
	v.Null("id", d.ID != nil)
	v.NotBlank("name", d.Name)
	v.MaxLength("name", d.Name, MaxNameLength)
	return v.Err()
}
