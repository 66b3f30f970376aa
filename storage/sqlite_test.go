package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinetrack/omdb"
)

// stubFetcher serves canned metadata keyed by lowercased query title.
type stubFetcher struct {
	results map[string]*omdb.Result
	err     error
}

func (f *stubFetcher) Fetch(_ context.Context, title string) (*omdb.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results[strings.ToLower(strings.TrimSpace(title))], nil
}

func newTestStorage(t *testing.T, fetcher MetadataFetcher, policy MatchPolicy) *SQLiteStorage {
	t.Helper()
	s := NewSQLiteStorage(t.TempDir(), fetcher, policy)
	if err := s.Initialize(); err != nil {
		t.Fatalf("Failed to initialize storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *SQLiteStorage, name string) *User {
	t.Helper()
	ctx := context.Background()
	if _, err := s.CreateUser(ctx, name); err != nil {
		t.Fatalf("Failed to create user %q: %v", name, err)
	}
	u, err := s.UserByName(ctx, name)
	if err != nil || u == nil {
		t.Fatalf("Failed to look up user %q: %v", name, err)
	}
	return u
}

var shawshank = &omdb.Result{
	Title:      "The Shawshank Redemption",
	Year:       1994,
	Rating:     9.3,
	Poster:     "https://example.com/shawshank.jpg",
	ExternalID: "tt0111161",
	Country:    "USA",
	Genre:      "Drama",
}

func TestSQLiteStorageInit(t *testing.T) {
	tempDir := t.TempDir()

	s := NewSQLiteStorage(tempDir, &stubFetcher{}, MatchStrict)
	if err := s.Initialize(); err != nil {
		t.Fatalf("Failed to initialize storage: %v", err)
	}
	defer s.Close()

	dbPath := filepath.Join(tempDir, "cinetrack.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatalf("Database file was not created")
	}
}

func TestCreateUserNormalizesName(t *testing.T) {
	s := newTestStorage(t, &stubFetcher{}, MatchStrict)
	ctx := context.Background()

	outcome, err := s.CreateUser(ctx, "  test_USER ")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)

	u, err := s.UserByName(ctx, "Test_user")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Test_user", u.Name)

	// A differently cased spelling names the same profile
	outcome, err = s.CreateUser(ctx, "TEST_USER")
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)
}

func TestCreateUserRejectsEmptyName(t *testing.T) {
	s := newTestStorage(t, &stubFetcher{}, MatchStrict)

	outcome, err := s.CreateUser(context.Background(), "   ")
	if err == nil {
		t.Error("Expected error for empty user name")
	}
	// An error branch must not assert a business condition
	assert.Equal(t, OutcomeNone, outcome)
}

func TestListUsersOrderedByName(t *testing.T) {
	s := newTestStorage(t, &stubFetcher{}, MatchStrict)
	ctx := context.Background()

	createTestUser(t, s, "Zoe")
	createTestUser(t, s, "Alice")
	createTestUser(t, s, "Mallory")

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Mallory", users[1].Name)
	assert.Equal(t, "Zoe", users[2].Name)
}

func TestAddMovie(t *testing.T) {
	fetcher := &stubFetcher{results: map[string]*omdb.Result{
		"the shawshank redemption": shawshank,
	}}
	s := newTestStorage(t, fetcher, MatchStrict)
	ctx := context.Background()
	u := createTestUser(t, s, "Alice")

	outcome, err := s.AddMovie(ctx, u.ID, "The Shawshank Redemption", "a note")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdded, outcome)

	movies, err := s.ListMovies(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	m := movies["The Shawshank Redemption"]
	assert.Equal(t, 1994, m.Year)
	assert.Equal(t, 9.3, m.Rating)
	assert.Equal(t, "tt0111161", m.ExternalID)
	assert.Equal(t, "USA", m.Country)
	assert.Equal(t, "Drama", m.Genre)
	assert.Equal(t, "a note", m.Note)

	// Same title for the same owner is a duplicate, not an error
	outcome, err = s.AddMovie(ctx, u.ID, "The Shawshank Redemption", "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)
}

func TestAddMovieRejectsShortTitle(t *testing.T) {
	s := newTestStorage(t, &stubFetcher{}, MatchStrict)
	u := createTestUser(t, s, "Alice")

	outcome, err := s.AddMovie(context.Background(), u.ID, "  up ", "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeTitleTooShort, outcome)
}

func TestAddMovieNotFound(t *testing.T) {
	s := newTestStorage(t, &stubFetcher{}, MatchStrict)
	u := createTestUser(t, s, "Alice")

	outcome, err := s.AddMovie(context.Background(), u.ID, "No Such Movie", "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, outcome)

	movies, err := s.ListMovies(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestAddMovieStrictMatch(t *testing.T) {
	// The source resolves "shawshank" to its canonical title; under the
	// strict policy the inexact query must be rejected as not found.
	fetcher := &stubFetcher{results: map[string]*omdb.Result{
		"shawshank": shawshank,
	}}

	s := newTestStorage(t, fetcher, MatchStrict)
	u := createTestUser(t, s, "Alice")

	outcome, err := s.AddMovie(context.Background(), u.ID, "shawshank", "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, outcome)

	// The lenient policy accepts whatever the source resolved
	lenient := newTestStorage(t, fetcher, MatchLenient)
	lu := createTestUser(t, lenient, "Alice")

	outcome, err = lenient.AddMovie(context.Background(), lu.ID, "shawshank", "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdded, outcome)
}

func TestAddMovieServiceUnavailable(t *testing.T) {
	fetcher := &stubFetcher{err: omdb.ErrUnavailable}
	s := newTestStorage(t, fetcher, MatchStrict)
	u := createTestUser(t, s, "Alice")

	outcome, err := s.AddMovie(context.Background(), u.ID, "The Shawshank Redemption", "")
	assert.Equal(t, OutcomeUnavailable, outcome)
	assert.True(t, errors.Is(err, omdb.ErrUnavailable))
}

func TestPerUserTitleUniqueness(t *testing.T) {
	fetcher := &stubFetcher{results: map[string]*omdb.Result{
		"the shawshank redemption": shawshank,
	}}
	s := newTestStorage(t, fetcher, MatchStrict)
	ctx := context.Background()
	alice := createTestUser(t, s, "Alice")
	bob := createTestUser(t, s, "Bob")

	for _, u := range []*User{alice, bob} {
		outcome, err := s.AddMovie(ctx, u.ID, "The Shawshank Redemption", "")
		require.NoError(t, err)
		assert.Equal(t, OutcomeAdded, outcome, "user %s", u.Name)
	}

	aliceMovies, err := s.ListMovies(ctx, alice.ID)
	require.NoError(t, err)
	bobMovies, err := s.ListMovies(ctx, bob.ID)
	require.NoError(t, err)

	// Textually identical titles, distinct storage rows
	require.Len(t, aliceMovies, 1)
	require.Len(t, bobMovies, 1)
	assert.NotEqual(t, aliceMovies["The Shawshank Redemption"].ID, bobMovies["The Shawshank Redemption"].ID)

	// Deleting one owner's row leaves the other untouched
	found, err := s.DeleteMovie(ctx, alice.ID, "The Shawshank Redemption")
	require.NoError(t, err)
	assert.True(t, found)

	bobMovies, err = s.ListMovies(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobMovies, 1)
}

func TestDeleteMovieNotFound(t *testing.T) {
	fetcher := &stubFetcher{results: map[string]*omdb.Result{
		"the shawshank redemption": shawshank,
	}}
	s := newTestStorage(t, fetcher, MatchStrict)
	ctx := context.Background()
	u := createTestUser(t, s, "Alice")

	_, err := s.AddMovie(ctx, u.ID, "The Shawshank Redemption", "")
	require.NoError(t, err)

	found, err := s.DeleteMovie(ctx, u.ID, "No Such Movie")
	require.NoError(t, err)
	assert.False(t, found)

	movies, err := s.ListMovies(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, movies, 1, "stored set must be unchanged")
}

func TestUpdateMovieNote(t *testing.T) {
	fetcher := &stubFetcher{results: map[string]*omdb.Result{
		"the shawshank redemption": shawshank,
	}}
	s := newTestStorage(t, fetcher, MatchStrict)
	ctx := context.Background()
	u := createTestUser(t, s, "Alice")

	_, err := s.AddMovie(ctx, u.ID, "The Shawshank Redemption", "old")
	require.NoError(t, err)

	found, err := s.UpdateMovie(ctx, u.ID, "The Shawshank Redemption", "seen twice, still great")
	require.NoError(t, err)
	assert.True(t, found)

	movies, err := s.ListMovies(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "seen twice, still great", movies["The Shawshank Redemption"].Note)

	found, err = s.UpdateMovie(ctx, u.ID, "No Such Movie", "note")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestListMoviesGuest(t *testing.T) {
	s := newTestStorage(t, &stubFetcher{}, MatchStrict)

	// Owner id 0 is the guest sentinel and never owns rows
	movies, err := s.ListMovies(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice", "Alice"},
		{"  ALICE  ", "Alice"},
		{"test_user", "Test_user"},
		{"  two   words ", "Two words"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
