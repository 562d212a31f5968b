package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

func main() {
	var (
		command  string
		steps    int
		version  int
		path     string
		name     string
		desc     string
		logLevel string
	)
	flag.StringVar(&command, "command", "up", "up | down | steps | version | force | create | list")
	flag.IntVar(&steps, "steps", 0, "number of migrations for -command steps (negative rolls back)")
	flag.IntVar(&version, "version", -1, "target version for -command force")
	flag.StringVar(&path, "path", "", "read migrations from this directory instead of the embedded set")
	flag.StringVar(&name, "name", "", "migration name for -command create")
	flag.StringVar(&desc, "description", "", "migration description for -command create")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// File-only commands
	switch command {
	case "create":
		dir := path
		if dir == "" {
			dir = "migrations"
		}
		mf, err := migration.CreateMigration(dir, name, desc)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created", zap.String("up_file", mf.UpPath), zap.String("down_file", mf.DownPath))
		return
	case "list":
		dir := path
		if dir == "" {
			dir = "migrations"
		}
		names, err := migration.ListMigrations(dir)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, n := range names {
			fmt.Println("  -", n)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver != "postgres" {
		log.Info("SQL migrations only apply to postgres; sqlite stores are migrated at startup",
			zap.String("driver", cfg.Database.Driver))
		return
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var opts []migration.Option
	if path != "" {
		opts = append(opts, migration.WithPath(path))
	}
	m, err := migration.New(db, log, opts...)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(steps)
	case "force":
		if version < 0 {
			log.Fatal("-version is required for force")
		}
		err = m.Force(version)
	case "version":
		v, dirty, verr := m.Version()
		if verr == nil {
			log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		}
		err = verr
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Storefront list-store migrations

Usage:
  migrate -command <command> [flags]

Commands:
  up        apply all pending migrations
  down      roll back all migrations
  steps     apply -steps n migrations (negative rolls back)
  version   print the current version
  force     set -version without running migrations
  create    write the next -name pair into -path (default ./migrations)
  list      list migrations in -path (default ./migrations)`)
	flag.PrintDefaults()
}
