package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"cinetrack/logging"
	"cinetrack/storage"
)

func main() {
	var (
		dataPath = flag.String("data", "./data", "Path to database directory")
		command  = flag.String("cmd", "up", "Migration command: up, down, status, version")
	)
	flag.Parse()

	logging.Setup()

	// No metadata fetches happen here, so the storage needs no fetcher
	sqliteStorage := storage.NewSQLiteStorage(*dataPath, nil, storage.MatchStrict)
	if err := sqliteStorage.Initialize(); err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer sqliteStorage.Close()

	switch *command {
	case "up":
		if err := sqliteStorage.RunMigrations(); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		fmt.Println("Migrations completed successfully")

	case "down":
		if err := sqliteStorage.RollbackMigration(); err != nil {
			slog.Error("failed to rollback migration", "error", err)
			os.Exit(1)
		}
		fmt.Println("Migration rolled back successfully")

	case "status":
		migrationManager := sqliteStorage.GetMigrationManager()
		if err := migrationManager.Initialize(); err != nil {
			slog.Error("failed to initialize migration manager", "error", err)
			os.Exit(1)
		}
		if err := migrationManager.Status(); err != nil {
			slog.Error("failed to get migration status", "error", err)
			os.Exit(1)
		}

	case "version":
		version, err := sqliteStorage.GetDatabaseVersion()
		if err != nil {
			slog.Error("failed to get database version", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Database version: %d\n", version)

	default:
		fmt.Printf("Unknown command: %s\n", *command)
		fmt.Println("Available commands: up, down, status, version")
		os.Exit(1)
	}
}
