// Package database provides the SQLite connection used to store projects.
//
// Open creates the database file (or an in-memory database for
// MemoryPath) with WAL mode and a busy timeout, and limits the pool to a
// single connection. Schema changes are versioned SQL files applied by
// Migrate from any fs.FS, normally the embedded migrations package:
//
//	db, err := database.Open(ctx, cfg.Database)
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
// optional matching .down.sql.
package database
