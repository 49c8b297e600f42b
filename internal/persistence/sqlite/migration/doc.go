// Package migration applies versioned SQL migrations to a SQLite database.
//
// Migration files are read from an fs.FS, usually an embedded directory, and
// follow the naming convention {version}_{description}.sql (for example
// "001_initial_schema.sql"). Applied versions are recorded in the
// schema_migrations table together with a checksum of the file so that a
// changed migration is detected instead of silently skipped.
//
//	manager := migration.NewManager(db, migrations, "migrations", logger)
//	if err := manager.Run(ctx); err != nil {
//		return err
//	}
package migration
