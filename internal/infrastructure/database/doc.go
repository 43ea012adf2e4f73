// Package database provides the SQLite connection used by the sensor,
// unit, type and audit repositories.
//
// This package manages:
//   - Connection setup with WAL mode, busy timeout and foreign keys on
//   - Schema migrations loaded from an fs.FS (see the migrations package)
//   - Transaction helper for multi-statement writes
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql. Migrations are additive: new columns must be
// nullable or carry a default.
package database
