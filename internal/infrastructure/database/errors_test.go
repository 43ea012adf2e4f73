package database

import (
	"context"
	"errors"
	"testing"
)

func TestConstraintErrors(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, stmt := range []string{
		"CREATE TABLE types (name TEXT PRIMARY KEY)",
		"CREATE TABLE sensors (id TEXT PRIMARY KEY, type TEXT NOT NULL REFERENCES types(name) ON DELETE RESTRICT)",
		"INSERT INTO types (name) VALUES ('TEMPERATURE')",
		"INSERT INTO sensors (id, type) VALUES ('s1', 'TEMPERATURE')",
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}

	_, err := db.ExecContext(ctx, "INSERT INTO types (name) VALUES ('TEMPERATURE')")
	if !IsUniqueViolation(err) {
		t.Errorf("duplicate insert: IsUniqueViolation(%v) = false", err)
	}
	if IsForeignKeyViolation(err) {
		t.Error("duplicate insert reported as foreign key violation")
	}

	_, err = db.ExecContext(ctx, "DELETE FROM types WHERE name = 'TEMPERATURE'")
	if !IsForeignKeyViolation(err) {
		t.Errorf("restricted delete: IsForeignKeyViolation(%v) = false", err)
	}

	if IsUniqueViolation(errors.New("UNIQUE constraint failed")) {
		t.Error("plain error matched as unique violation")
	}
	if IsUniqueViolation(nil) || IsForeignKeyViolation(nil) {
		t.Error("nil matched as constraint violation")
	}
}
