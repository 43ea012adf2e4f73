// Package sensor manages sensors: their storage, validation, mapping to the
// wire format, filtered listing and the read-through cache of single lookups.
//
// A Sensor references one type (required) and at most one unit (optional)
// by name. On every write the names become name-only catalog entries, and
// the repository inserts any that do not exist yet in the same transaction
// as the sensor row.
//
// Registry is the entry point for the HTTP handlers. It validates inbound
// DTOs, resolves the target, writes through the Repository, evicts the
// cache entry for the id and publishes a lifecycle event.
//
// Full update (PUT) overwrites every field, nulls included. Patch merges a
// partial JSON document onto the stored sensor's DTO and then applies the
// merged DTO with the same full-overwrite step.
package sensor
