// Package catalog manages the two name-keyed lookup tables that sensors
// reference: measurement units and sensor types.
//
// Both kinds share one shape (a unique name and nothing else), so one
// Repository and one Registry serve either table, selected by Kind.
//
// A sensor may refer to at most one unit and exactly one type. Deleting a
// unit clears it from its sensors; deleting a type that sensors still use
// fails with ErrInUse. Renaming either cascades to the sensors.
package catalog
