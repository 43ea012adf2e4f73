package catalog

// Kind selects the catalog table.
type Kind string

const (
	// Units are measurement units such as "°C" or "bar".
	Units Kind = "units"

	// Types are sensor types such as "TEMPERATURE" or "PRESSURE".
	Types Kind = "types"
)

// Table returns the SQL table backing the kind.
func (k Kind) Table() string {
	return string(k)
}

// Noun returns the singular resource name used in logs and audit entries.
func (k Kind) Noun() string {
	switch k {
	case Units:
		return "unit"
	case Types:
		return "type"
	default:
		return string(k)
	}
}

// Entry is a stored unit or type.
type Entry struct {
	Name string
}

// DTO is the wire representation of a unit or type.
// ID exists so clients that send one can be told it must be null.
type DTO struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}
