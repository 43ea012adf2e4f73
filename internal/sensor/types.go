package sensor

import (
	"time"

	"github.com/nerrad567/sensor-monitor-core/internal/catalog"
)

// Sensor is a stored sensor.
type Sensor struct {
	ID          string
	Name        string
	Model       string
	RangeFrom   *int64
	RangeTo     *int64
	Unit        *catalog.Entry
	Type        *catalog.Entry
	Location    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DTO is the wire representation of a sensor. Every field is always
// serialised, nulls included, so a DTO can serve as a merge-patch baseline.
type DTO struct {
	ID          *string `json:"id"`
	Name        string  `json:"name"`
	Model       string  `json:"model"`
	RangeFrom   *int64  `json:"rangeFrom"`
	RangeTo     *int64  `json:"rangeTo"`
	Type        string  `json:"type"`
	Unit        *string `json:"unit"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
}

// Filter narrows a sensor listing. Empty terms do not constrain.
type Filter struct {
	NameContains  string
	ModelContains string
}
