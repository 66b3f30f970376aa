package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"cinetrack/omdb"
)

func TestMigrations(t *testing.T) {
	tempDir := t.TempDir()

	s := NewSQLiteStorage(tempDir, &stubFetcher{}, MatchStrict)
	if err := s.Initialize(); err != nil {
		t.Fatalf("Failed to initialize storage: %v", err)
	}
	defer s.Close()

	version, err := s.GetDatabaseVersion()
	if err != nil {
		t.Fatalf("Failed to get database version: %v", err)
	}
	if version < 2 {
		t.Errorf("Expected database version >= 2, got %d", version)
	}

	db, err := s.GetDB()
	if err != nil {
		t.Fatalf("Failed to get database: %v", err)
	}

	for _, table := range []string{"users", "movies"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("Table %s was not created: %v", table, err)
		}
	}

	// Running migrations again must be idempotent
	if err := s.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations again: %v", err)
	}

	newVersion, err := s.GetDatabaseVersion()
	if err != nil {
		t.Fatalf("Failed to get database version after re-running migrations: %v", err)
	}
	if newVersion < version {
		t.Errorf("Database version went backwards: %d -> %d", version, newVersion)
	}
}

// TestGenreColumnAdded stages a database at the pre-genre schema, inserts
// rows, then rolls forward and checks the column arrived with no data loss.
func TestGenreColumnAdded(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	manager := NewMigrationManager(db)
	if err := manager.Initialize(); err != nil {
		t.Fatalf("Failed to initialize migration manager: %v", err)
	}
	if err := manager.UpTo(1); err != nil {
		t.Fatalf("Failed to migrate to version 1: %v", err)
	}

	if hasColumn(t, db, "movies", "genre") {
		t.Fatal("Version 1 schema should not have a genre column yet")
	}

	_, err = db.Exec("INSERT INTO users (name) VALUES ('Alice')")
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
	_, err = db.Exec(`
	INSERT INTO movies (user_id, title, year, rating, poster, external_id, country, note)
	VALUES (1, 'The Matrix', 1999, 8.7, '', 'tt0133093', 'USA', 'classic')
	`)
	if err != nil {
		t.Fatalf("Failed to insert movie: %v", err)
	}

	if err := manager.Up(); err != nil {
		t.Fatalf("Failed to migrate to latest: %v", err)
	}

	if !hasColumn(t, db, "movies", "genre") {
		t.Fatal("Genre column was not added")
	}

	// Pre-existing rows survive with the column defaulted
	var title, note, genre string
	err = db.QueryRow("SELECT title, note, genre FROM movies WHERE user_id = 1").Scan(&title, &note, &genre)
	if err != nil {
		t.Fatalf("Failed to read migrated row: %v", err)
	}
	if title != "The Matrix" || note != "classic" || genre != "" {
		t.Errorf("Migrated row changed: title=%q note=%q genre=%q", title, note, genre)
	}
}

// TestUserCascadeDelete checks that removing a profile removes its movies.
func TestUserCascadeDelete(t *testing.T) {
	fetcher := &stubFetcher{results: map[string]*omdb.Result{
		"the shawshank redemption": shawshank,
	}}
	s := newTestStorage(t, fetcher, MatchStrict)
	ctx := context.Background()
	u := createTestUser(t, s, "Alice")

	if _, err := s.AddMovie(ctx, u.ID, "The Shawshank Redemption", ""); err != nil {
		t.Fatalf("Failed to add movie: %v", err)
	}

	db, err := s.GetDB()
	if err != nil {
		t.Fatalf("Failed to get database: %v", err)
	}
	if _, err := db.Exec("DELETE FROM users WHERE id = ?", u.ID); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}

	movies, err := s.ListMovies(ctx, u.ID)
	if err != nil {
		t.Fatalf("Failed to list movies: %v", err)
	}
	if len(movies) != 0 {
		t.Errorf("Expected cascade delete to remove movies, got %d", len(movies))
	}
}

func hasColumn(t *testing.T, db *sql.DB, table, column string) bool {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		t.Fatalf("Failed to read table info: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("Failed to scan column name: %v", err)
		}
		if name == column {
			return true
		}
	}
	return false
}
