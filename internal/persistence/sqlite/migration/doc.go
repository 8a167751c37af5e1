// Package migration applies versioned schema changes to the gallery SQLite
// database.
//
// Migrations are SQL files named {version}_{description}.sql (for example
// "001_initial_schema.sql") read from an fs.FS, usually an embedded
// directory. Each file runs inside its own transaction and is recorded in the
// schema_migrations table together with a checksum, so a file that changes
// after it was applied is reported instead of silently diverging.
//
// Example usage:
//
//	manager := migration.NewManager(migration.NewScanner(migrations.FS, "."), migration.NewExecutor(db), logger)
//	if err := manager.Run(ctx); err != nil {
//		return fmt.Errorf("migrate: %w", err)
//	}
package migration
