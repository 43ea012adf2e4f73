package sensor

import "github.com/nerrad567/sensor-monitor-core/internal/query"

// Sortable maps the sortable wire fields of a sensor to their columns.
var Sortable = query.Sortable{
	"id":          "id",
	"name":        "name",
	"model":       "model",
	"rangeFrom":   "range_from",
	"rangeTo":     "range_to",
	"type":        "type",
	"unit":        "unit",
	"location":    "location",
	"description": "description",
}

// Spec builds the listing predicate: a sensor matches when its name
// contains NameContains and its model contains ModelContains.
func (f Filter) Spec() query.Spec {
	return query.And(
		query.Contains("name", f.NameContains),
		query.Contains("model", f.ModelContains),
	)
}
