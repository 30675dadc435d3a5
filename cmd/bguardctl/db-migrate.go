package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/spf13/cobra"

	"github.com/bguard/bguard-suite/pkg/db"
)

const migrationsTable = "bguard_schema_migrations"

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

This command runs all pending database migrations to bring the schema
up to date. Migrations are read from db/migrations, or from the binary
when it was built with -tags embed_migrations.

Example:
  bguardctl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMigrations(); err != nil {
			fatal("Migration failed: %v", err)
		}
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback database migrations",
	Long: `Rollback database migrations.

This command rolls back the specified number of migrations (default: 1).

Example:
  bguardctl db down      # Rollback 1 migration
  bguardctl db down 3    # Rollback 3 migrations`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				fatal("steps must be a positive number, got %q", args[0])
			}
			steps = n
		}

		if err := runMigrationsDown(steps); err != nil {
			fatal("Rollback failed: %v", err)
		}
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current database migration version.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := showMigrationStatus(); err != nil {
			fatal("Failed to get status: %v", err)
		}
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}

// migrationsURL returns dbURL pointing golang-migrate at its own version
// table.
func migrationsURL(dbURL string) string {
	sep := "?"
	if strings.Contains(dbURL, "?") {
		sep = "&"
	}
	return dbURL + sep + "x-migrations-table=" + migrationsTable
}

func openMigrations() (*migrate.Migrate, error) {
	dbURL := db.URL()
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}
	m, err := createMigrateInstance(migrationsURL(dbURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func runMigrations() error {
	m, err := openMigrations()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, _ := m.Version()
	fmt.Println(mutedStyle.Render(fmt.Sprintf("Current version: %d (dirty: %v)", version, dirty)))

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			printOK("No migrations to run - database is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, _ := m.Version()
	printOK("Migrated to version %d", newVersion)
	return nil
}

func runMigrationsDown(steps int) error {
	m, err := openMigrations()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	fmt.Printf("Rolling back %d migration(s)...\n", steps)

	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		printOK("Rolled back every migration")
		return nil
	}
	printOK("Rolled back to version %d", version)
	return nil
}

func showMigrationStatus() error {
	m, err := openMigrations()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			printWarn("No migrations have been applied yet")
			return nil
		}
		return err
	}

	latest, err := latestMigration()
	if err != nil {
		return err
	}

	fmt.Printf("%s %d\n", keyStyle.Render("Current version:"), version)
	fmt.Printf("%s %d\n", keyStyle.Render("Latest version: "), latest)
	if dirty {
		printWarn("Database is in a dirty state")
	} else if uint(latest) > version {
		printWarn("%d migration(s) pending", pendingCount(version, latest))
	}
	return nil
}

// latestMigration returns the highest version among the available up
// migrations.
func latestMigration() (uint64, error) {
	files, err := listMigrationFiles()
	if err != nil {
		return 0, err
	}
	var latest uint64
	for _, name := range files {
		if v, ok := migrationVersion(name); ok && v > latest {
			latest = v
		}
	}
	return latest, nil
}

func pendingCount(current uint, latest uint64) int {
	files, err := listMigrationFiles()
	if err != nil {
		return 0
	}
	n := 0
	for _, name := range files {
		if v, ok := migrationVersion(name); ok && v > uint64(current) && v <= latest {
			n++
		}
	}
	return n
}

// migrationVersion extracts 3 from "000003_create_reviews_reports.up.sql".
func migrationVersion(name string) (uint64, bool) {
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(prefix, 10, 64)
	return v, err == nil
}
