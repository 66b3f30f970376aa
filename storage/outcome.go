package storage

// Outcome reports the business result of a mutating storage operation.
// Expected conditions (duplicate entry, no metadata match) are outcomes, not
// errors; errors are reserved for the database or the metadata transport
// actually failing. Callers branch on the outcome kind, never on message
// text.
type Outcome int

const (
	// OutcomeNone is the neutral zero value returned alongside a non-nil
	// error, when no business condition occurred at all.
	OutcomeNone Outcome = iota
	// OutcomeAdded means a movie row was inserted.
	OutcomeAdded
	// OutcomeCreated means a user row was inserted.
	OutcomeCreated
	// OutcomeDuplicate means the row already exists for this owner.
	OutcomeDuplicate
	// OutcomeNotFound means the metadata source had no match for the title.
	OutcomeNotFound
	// OutcomeTitleTooShort means the trimmed title was under three characters.
	OutcomeTitleTooShort
	// OutcomeUnavailable means the metadata source could not be reached.
	OutcomeUnavailable
)

// Message returns the user-facing text for the outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeAdded:
		return "Movie added successfully."
	case OutcomeCreated:
		return "User created successfully."
	case OutcomeDuplicate:
		return "Movie already exists."
	case OutcomeNotFound:
		return "Movie not found."
	case OutcomeTitleTooShort:
		return "Movie title must be at least 3 characters."
	case OutcomeUnavailable:
		return "Movie service is not accessible."
	default:
		return "Unknown outcome."
	}
}
