package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"cinetrack/logging"
	"cinetrack/menu"
	"cinetrack/omdb"
	"cinetrack/storage"
)

func main() {
	logging.Setup()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = "./data"
	}

	apiKey := os.Getenv("OMDB_API_KEY")
	if apiKey == "" {
		// Not fatal: the process starts, every metadata lookup just fails
		// as unavailable until a key is configured.
		slog.Warn("OMDB_API_KEY is not set; adding movies will not work")
	}

	client := omdb.NewClient(apiKey, slog.Default())

	sqliteStorage := storage.NewSQLiteStorage(dataPath, client, matchPolicy())
	if err := sqliteStorage.Initialize(); err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer sqliteStorage.Close()

	m := menu.New(sqliteStorage, os.Stdin, os.Stdout)
	m.Run(context.Background())
}

// matchPolicy reads how strictly added titles must match the metadata
// source's canonical title. Strict unless MATCH_POLICY=lenient.
func matchPolicy() storage.MatchPolicy {
	if os.Getenv("MATCH_POLICY") == "lenient" {
		return storage.MatchLenient
	}
	return storage.MatchStrict
}
