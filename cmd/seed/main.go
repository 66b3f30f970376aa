// Command seed bulk-adds a fixed list of well-known titles to a test
// profile, creating the profile first when needed. Every title goes through
// the normal metadata lookup, so an OMDB_API_KEY is required.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"cinetrack/logging"
	"cinetrack/omdb"
	"cinetrack/storage"
)

const seedUserName = "Testuser"

var seedTitles = []string{
	"The Shawshank Redemption", "The Godfather", "The Dark Knight",
	"Pulp Fiction", "Forrest Gump", "The Matrix", "Goodfellas",
	"The Silence of the Lambs", "Se7en", "The Green Mile",
	"Gladiator", "The Prestige", "The Departed", "Whiplash",
	"Fight Club", "Interstellar", "Parasite", "Spirited Away",
	"Back to the Future", "The Lion King", "Jurassic Park",
	"The Terminator", "Terminator 2: Judgment Day", "Alien",
	"Aliens", "Avatar", "Titanic", "The Avengers",
	"Avengers: Endgame",
	"The Lord of the Rings: The Fellowship of the Ring",
	"The Lord of the Rings: The Two Towers",
	"The Lord of the Rings: The Return of the King",
	"Star Wars: Episode IV - A New Hope",
	"Star Wars: Episode V - The Empire Strikes Back",
	"Inception", "Spider-Man: Into the Spider-Verse",
	"Toy Story", "Finding Nemo", "Up", "WALL·E",
}

func main() {
	logging.Setup()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = "./data"
	}

	client := omdb.NewClient(os.Getenv("OMDB_API_KEY"), slog.Default())
	sqliteStorage := storage.NewSQLiteStorage(dataPath, client, storage.MatchStrict)
	if err := sqliteStorage.Initialize(); err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer sqliteStorage.Close()

	ctx := context.Background()

	user, err := ensureSeedUser(ctx, sqliteStorage)
	if err != nil {
		slog.Error("failed to create or retrieve seed user", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Seeding collection of %s (id %d)\n", user.Name, user.ID)

	for _, title := range seedTitles {
		fmt.Printf("Adding: %s\n", title)
		outcome, err := sqliteStorage.AddMovie(ctx, user.ID, title, "")
		if outcome == storage.OutcomeUnavailable {
			slog.Error("metadata source unreachable, stopping", "error", err)
			break
		}
		if err != nil {
			slog.Error("failed to add movie", "title", title, "error", err)
			continue
		}
		fmt.Println(outcome.Message())
	}
}

// ensureSeedUser resolves the seed profile, creating it on first run.
func ensureSeedUser(ctx context.Context, store storage.StorageInterface) (*storage.User, error) {
	user, err := store.UserByName(ctx, seedUserName)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	fmt.Printf("User %q not found. Creating...\n", seedUserName)
	if _, err := store.CreateUser(ctx, seedUserName); err != nil {
		return nil, err
	}
	return store.UserByName(ctx, seedUserName)
}
