package storage

// User is a local profile that owns a movie collection. Names are unique and
// stored in capitalized form.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movie is a catalog entry owned by exactly one user. The (Title, UserID)
// pair is unique; the same title may exist for different users.
type Movie struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	Title      string  `json:"title"`
	Year       int     `json:"year"`
	Rating     float64 `json:"rating"`
	Poster     string  `json:"poster,omitempty"`
	ExternalID string  `json:"external_id,omitempty"`
	Country    string  `json:"country,omitempty"`
	Note       string  `json:"note,omitempty"`
	Genre      string  `json:"genre,omitempty"`
}

// MatchPolicy controls how strictly an added title must match the canonical
// title returned by the metadata source.
type MatchPolicy int

const (
	// MatchStrict rejects an add unless the queried title equals the
	// canonical title case-insensitively.
	MatchStrict MatchPolicy = iota
	// MatchLenient accepts whatever title the metadata source resolved.
	MatchLenient
)
