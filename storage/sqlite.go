package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-sqlite3"

	"cinetrack/omdb"
)

// MetadataFetcher resolves a title against the external metadata source.
// A (nil, nil) return means the source had no match; a non-nil error means
// the source could not be reached or answered garbage.
type MetadataFetcher interface {
	Fetch(ctx context.Context, title string) (*omdb.Result, error)
}

type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	dataPath string
	fetcher  MetadataFetcher
	policy   MatchPolicy
	logger   *slog.Logger
}

type StorageInterface interface {
	Initialize() error
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, name string) (Outcome, error)
	UserByName(ctx context.Context, name string) (*User, error)
	ListMovies(ctx context.Context, userID int64) (map[string]Movie, error)
	AddMovie(ctx context.Context, userID int64, title, note string) (Outcome, error)
	DeleteMovie(ctx context.Context, userID int64, title string) (bool, error)
	UpdateMovie(ctx context.Context, userID int64, title, note string) (bool, error)
	Close() error
}

func NewSQLiteStorage(dataPath string, fetcher MetadataFetcher, policy MatchPolicy) *SQLiteStorage {
	dbPath := filepath.Join(dataPath, "cinetrack.db")
	return &SQLiteStorage{
		dbPath:   dbPath,
		dataPath: dataPath,
		fetcher:  fetcher,
		policy:   policy,
		logger:   slog.Default(),
	}
}

func (s *SQLiteStorage) Initialize() error {
	// Create data directory if it doesn't exist
	if err := os.MkdirAll(s.dataPath, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	// Cascade deletes depend on the foreign_keys pragma, which is
	// per-connection, so it goes in the DSN rather than a one-off Exec.
	db, err := sql.Open("sqlite3", s.dbPath+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}
	s.db = db

	migrationManager := NewMigrationManager(s.db)
	if err := migrationManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize migrations: %v", err)
	}
	if err := migrationManager.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %v", err)
	}

	s.logger.Info("SQLite database initialized", "path", s.dbPath)
	return nil
}

// ListUsers returns all profiles ordered by name.
func (s *SQLiteStorage) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM users ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %v", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %v", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %v", err)
	}

	return users, nil
}

// CreateUser inserts a profile under the normalized form of name.
// A name already taken yields OutcomeDuplicate, not an error.
func (s *SQLiteStorage) CreateUser(ctx context.Context, name string) (Outcome, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return OutcomeNone, errors.New("user name must not be empty")
	}

	_, err := s.db.ExecContext(ctx, "INSERT INTO users (name) VALUES (?)", normalized)
	if isUniqueViolation(err) {
		return OutcomeDuplicate, nil
	}
	if err != nil {
		return OutcomeNone, fmt.Errorf("failed to insert user: %v", err)
	}

	return OutcomeCreated, nil
}

// UserByName looks a profile up by its normalized name. Returns nil, nil
// when no such profile exists.
func (s *SQLiteStorage) UserByName(ctx context.Context, name string) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name FROM users WHERE name = ?", NormalizeName(name),
	).Scan(&u.ID, &u.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by name: %v", err)
	}
	return u, nil
}

// ListMovies returns the movies owned by userID, keyed by title. An id that
// owns nothing (including 0, the guest sentinel) yields an empty map.
func (s *SQLiteStorage) ListMovies(ctx context.Context, userID int64) (map[string]Movie, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, user_id, title, year, rating, poster, external_id, country, note, genre
	FROM movies
	WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %v", err)
	}
	defer rows.Close()

	movies := make(map[string]Movie)
	for rows.Next() {
		var m Movie
		err := rows.Scan(&m.ID, &m.UserID, &m.Title, &m.Year, &m.Rating,
			&m.Poster, &m.ExternalID, &m.Country, &m.Note, &m.Genre)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %v", err)
		}
		movies[m.Title] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movies: %v", err)
	}

	return movies, nil
}

// AddMovie resolves title against the metadata source and inserts the full
// row for userID. Movies are never created freehand; a failed lookup means
// no insert.
func (s *SQLiteStorage) AddMovie(ctx context.Context, userID int64, title, note string) (Outcome, error) {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < 3 {
		return OutcomeTitleTooShort, nil
	}

	result, err := s.fetcher.Fetch(ctx, title)
	if err != nil {
		return OutcomeUnavailable, err
	}
	if result == nil {
		return OutcomeNotFound, nil
	}
	if s.policy == MatchStrict && !strings.EqualFold(strings.TrimSpace(result.Title), title) {
		// The source resolved a different movie than the one asked for
		return OutcomeNotFound, nil
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO movies (user_id, title, year, rating, poster, external_id, country, note, genre)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, result.Title, result.Year, result.Rating, result.Poster,
		result.ExternalID, result.Country, note, result.Genre)
	if isUniqueViolation(err) {
		return OutcomeDuplicate, nil
	}
	if err != nil {
		return OutcomeNone, fmt.Errorf("failed to insert movie: %v", err)
	}

	return OutcomeAdded, nil
}

// DeleteMovie removes userID's row matching title exactly. The boolean
// reports whether a row was actually removed.
func (s *SQLiteStorage) DeleteMovie(ctx context.Context, userID int64, title string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM movies WHERE user_id = ? AND title = ?", userID, title)
	if err != nil {
		return false, fmt.Errorf("failed to delete movie: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted rows: %v", err)
	}
	return n > 0, nil
}

// UpdateMovie overwrites the note of userID's row matching title. Same
// found semantics as DeleteMovie; the note is the only mutable field.
func (s *SQLiteStorage) UpdateMovie(ctx context.Context, userID int64, title, note string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE movies SET note = ? WHERE user_id = ? AND title = ?", note, userID, title)
	if err != nil {
		return false, fmt.Errorf("failed to update movie: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count updated rows: %v", err)
	}
	return n > 0, nil
}

func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStorage) GetDB() (*sql.DB, error) {
	if s.db == nil {
		db, err := sql.Open("sqlite3", s.dbPath+"?_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %v", err)
		}
		s.db = db
	}
	return s.db, nil
}

// NormalizeName trims a profile name, collapses inner whitespace and
// capitalizes the first letter, so "  test_USER " and "Test_user" name the
// same profile.
func NormalizeName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	joined := strings.ToLower(strings.Join(fields, " "))
	r, size := utf8.DecodeRuneInString(joined)
	return string(unicode.ToUpper(r)) + joined[size:]
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// Migration management methods
func (s *SQLiteStorage) GetMigrationManager() *MigrationManager {
	return NewMigrationManager(s.db)
}

func (s *SQLiteStorage) GetDatabaseVersion() (int64, error) {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return 0, err
	}
	return migrationManager.Version()
}

func (s *SQLiteStorage) RunMigrations() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Up()
}

func (s *SQLiteStorage) RollbackMigration() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Down()
}
