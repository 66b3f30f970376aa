package menu

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"cinetrack/chart"
	"cinetrack/storage"
	"cinetrack/website"
)

const (
	websiteTemplatePath = "_static/index_template.html"
	websiteOutputPath   = "_static/index.html"
	websiteTitle        = "My Movie Collection"
)

// loadMovies fetches the active user's collection, printing the error when
// storage fails. The boolean reports whether the handler may continue.
func (m *Menu) loadMovies(ctx context.Context) (map[string]storage.Movie, bool) {
	movies, err := m.store.ListMovies(ctx, m.session.UserID())
	if err != nil {
		fmt.Fprintln(m.out, errColor.Sprintf("Failed to load movies: %v", err))
		return nil, false
	}
	return movies, true
}

func (m *Menu) listView(ctx context.Context) {
	movies, ok := m.loadMovies(ctx)
	if !ok {
		return
	}
	if len(movies) == 0 {
		fmt.Fprintln(m.out, "No movies stored yet.")
		m.prompt.Pause()
		return
	}

	fmt.Fprintln(m.out)
	for _, movie := range byTitle(movies) {
		fmt.Fprintf(m.out, "%s: %.1f (%d)\n", movie.Title, movie.Rating, movie.Year)
	}
	m.prompt.Pause()
}

func (m *Menu) addView(ctx context.Context) {
	title, err := m.prompt.Line("\nEnter movie name: ")
	if err != nil {
		return
	}
	if title == "" {
		fmt.Fprintln(m.out, "Title cannot be empty.")
		return
	}
	note, err := m.prompt.Line("Enter a note (optional): ")
	if err != nil {
		return
	}

	outcome, err := m.store.AddMovie(ctx, m.session.UserID(), title, note)
	switch {
	case outcome == storage.OutcomeUnavailable:
		fmt.Fprintln(m.out, errColor.Sprint(outcome.Message()))
	case err != nil:
		fmt.Fprintln(m.out, errColor.Sprintf("Failed to add movie: %v", err))
	case outcome == storage.OutcomeAdded:
		fmt.Fprintln(m.out, okColor.Sprint(outcome.Message()))
	default:
		fmt.Fprintln(m.out, outcome.Message())
	}
	m.prompt.Pause()
}

func (m *Menu) deleteView(ctx context.Context) {
	for {
		title, err := m.prompt.Line("\nEnter movie name to delete (or press Enter to return): ")
		if err != nil || title == "" {
			return
		}

		found, err := m.store.DeleteMovie(ctx, m.session.UserID(), title)
		if err != nil {
			fmt.Fprintln(m.out, errColor.Sprintf("Failed to delete movie: %v", err))
			return
		}
		if found {
			fmt.Fprintln(m.out, okColor.Sprintf("Movie '%s' deleted successfully.", title))
			m.prompt.Pause()
			return
		}

		fmt.Fprintln(m.out, errColor.Sprint("Movie does not exist. Enter another name or press Enter to return."))
	}
}

func (m *Menu) updateView(ctx context.Context) {
	movies, ok := m.loadMovies(ctx)
	if !ok {
		return
	}

	var title string
	for {
		var err error
		title, err = m.prompt.Line("\nEnter movie name to update (or press Enter to return): ")
		if err != nil || title == "" {
			return
		}
		if _, exists := movies[title]; exists {
			break
		}
		fmt.Fprintln(m.out, errColor.Sprint("Movie does not exist. Enter another name or press Enter to return."))
	}

	note, err := m.prompt.Line("Enter new note: ")
	if err != nil {
		return
	}
	if _, err := m.store.UpdateMovie(ctx, m.session.UserID(), title, note); err != nil {
		fmt.Fprintln(m.out, errColor.Sprintf("Failed to update movie: %v", err))
		return
	}

	fmt.Fprintln(m.out, okColor.Sprintf("Movie '%s' updated successfully.", title))
	m.prompt.Pause()
}

func (m *Menu) statsView(ctx context.Context) {
	movies, ok := m.loadMovies(ctx)
	if !ok {
		return
	}
	if len(movies) == 0 {
		fmt.Fprintln(m.out, "No movies available.")
		m.prompt.Pause()
		return
	}

	best, worst := BestWorst(movies)
	fmt.Fprintf(m.out, "Average rating: %.1f\n", Mean(movies))
	fmt.Fprintf(m.out, "Median rating: %.1f\n", Median(movies))
	fmt.Fprintf(m.out, "Best movie: %s, %.1f\n", best.Title, best.Rating)
	fmt.Fprintf(m.out, "Worst movie: %s, %.1f\n", worst.Title, worst.Rating)
	m.prompt.Pause()
}

func (m *Menu) randomView(ctx context.Context) {
	movies, ok := m.loadMovies(ctx)
	if !ok {
		return
	}
	if len(movies) == 0 {
		fmt.Fprintln(m.out, "No movies available.")
		m.prompt.Pause()
		return
	}

	items := byTitle(movies)
	pick := items[rand.Intn(len(items))]
	fmt.Fprintln(m.out, okColor.Sprintf("%s (%.1f, %d)", pick.Title, pick.Rating, pick.Year))
	m.prompt.Pause()
}

func (m *Menu) searchView(ctx context.Context) {
	movies, ok := m.loadMovies(ctx)
	if !ok {
		return
	}

	query, err := m.prompt.Line("\nEnter movie name to search: ")
	if err != nil || query == "" {
		return
	}

	results := Search(query, movies)
	if len(results) == 0 {
		fmt.Fprintln(m.out, "No matching movies found.")
	} else {
		for _, movie := range results {
			fmt.Fprintf(m.out, "%s: %.1f (%d)\n", movie.Title, movie.Rating, movie.Year)
		}
	}
	m.prompt.Pause()
}

func (m *Menu) sortedByRatingView(ctx context.Context) {
	movies, ok := m.loadMovies(ctx)
	if !ok {
		return
	}

	for _, movie := range SortByRating(movies) {
		fmt.Fprintf(m.out, "%s: %.1f (%d)\n", movie.Title, movie.Rating, movie.Year)
	}
	m.prompt.Pause()
}

func (m *Menu) histogramView(ctx context.Context) {
	movies, ok := m.loadMovies(ctx)
	if !ok {
		return
	}
	if len(movies) == 0 {
		fmt.Fprintln(m.out, "No movies available.")
		m.prompt.Pause()
		return
	}

	filename, err := m.prompt.Line("\nEnter filename to save histogram (e.g. ratings.png): ")
	if err != nil {
		return
	}
	if filename == "" {
		filename = "ratings.png"
	}

	ratings := make([]float64, 0, len(movies))
	for _, movie := range movies {
		ratings = append(ratings, movie.Rating)
	}
	if err := chart.SaveRatingsHistogram(ratings, filename); err != nil {
		fmt.Fprintln(m.out, errColor.Sprintf("Failed to save histogram: %v", err))
		m.prompt.Pause()
		return
	}

	fmt.Fprintln(m.out, okColor.Sprintf("Histogram saved as %s", filename))
	m.prompt.Pause()
}

func (m *Menu) chronologicalView(ctx context.Context) {
	movies, ok := m.loadMovies(ctx)
	if !ok {
		return
	}

	latestFirst, err := m.prompt.YesNo("\nShow latest movies first? (y/n): ")
	if err != nil {
		return
	}

	for _, movie := range SortByYear(movies, latestFirst) {
		fmt.Fprintf(m.out, "%s: %d (%.1f)\n", movie.Title, movie.Year, movie.Rating)
	}
	m.prompt.Pause()
}

func (m *Menu) filterView(ctx context.Context) {
	movies, ok := m.loadMovies(ctx)
	if !ok {
		return
	}

	minRatingInput, err := m.prompt.Line("Enter minimum rating (leave blank for no minimum rating): ")
	if err != nil {
		return
	}
	startYearInput, err := m.prompt.Line("Enter start year (leave blank for no start year): ")
	if err != nil {
		return
	}
	endYearInput, err := m.prompt.Line("Enter end year (leave blank for no end year): ")
	if err != nil {
		return
	}

	// Each bound parses independently; one bad bound aborts the whole
	// filter rather than applying the rest.
	var minRating *float64
	if minRatingInput != "" {
		v, err := strconv.ParseFloat(minRatingInput, 64)
		if err != nil {
			fmt.Fprintln(m.out, errColor.Sprint("Invalid minimum rating."))
			m.prompt.Pause()
			return
		}
		minRating = &v
	}
	var startYear *int
	if startYearInput != "" {
		v, err := strconv.Atoi(startYearInput)
		if err != nil {
			fmt.Fprintln(m.out, errColor.Sprint("Invalid start year."))
			m.prompt.Pause()
			return
		}
		startYear = &v
	}
	var endYear *int
	if endYearInput != "" {
		v, err := strconv.Atoi(endYearInput)
		if err != nil {
			fmt.Fprintln(m.out, errColor.Sprint("Invalid end year."))
			m.prompt.Pause()
			return
		}
		endYear = &v
	}

	filtered := Filter(movies, minRating, startYear, endYear)
	if len(filtered) == 0 {
		fmt.Fprintln(m.out, "No movies match the given criteria.")
	} else {
		fmt.Fprintln(m.out, "\nFiltered Movies:")
		for _, movie := range filtered {
			fmt.Fprintf(m.out, "%s (%d): %.1f\n", movie.Title, movie.Year, movie.Rating)
		}
	}
	m.prompt.Pause()
}

func (m *Menu) websiteView(ctx context.Context) {
	movies, ok := m.loadMovies(ctx)
	if !ok {
		return
	}

	err := website.Generate(websiteTitle, movies, websiteTemplatePath, websiteOutputPath)
	if err != nil {
		fmt.Fprintln(m.out, errColor.Sprintf("Failed to generate website: %v", err))
		m.prompt.Pause()
		return
	}

	fmt.Fprintln(m.out, "Website was generated successfully.")
	m.prompt.Pause()
}

func (m *Menu) switchUserView(ctx context.Context) {
	users, err := m.store.ListUsers(ctx)
	if err != nil {
		fmt.Fprintln(m.out, errColor.Sprintf("Failed to load users: %v", err))
		return
	}

	for i, u := range users {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, u.Name)
	}
	fmt.Fprintf(m.out, "%d. Create new user\n", len(users)+1)

	choice, err := m.prompt.Line("Select user: ")
	if err != nil || choice == "" {
		return
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(users)+1 {
		fmt.Fprintln(m.out, errColor.Sprint("Invalid choice."))
		m.prompt.Pause()
		return
	}

	if n <= len(users) {
		u := users[n-1]
		m.session.User = &u
		fmt.Fprintln(m.out, okColor.Sprintf("Welcome back, %s!", u.Name))
		m.prompt.Pause()
		return
	}

	name, err := m.prompt.Line("Enter new user name: ")
	if err != nil {
		return
	}
	if name == "" {
		fmt.Fprintln(m.out, errColor.Sprint("User name cannot be empty."))
		m.prompt.Pause()
		return
	}

	outcome, err := m.store.CreateUser(ctx, name)
	if err != nil {
		fmt.Fprintln(m.out, errColor.Sprintf("Failed to create user: %v", err))
		m.prompt.Pause()
		return
	}
	if outcome == storage.OutcomeDuplicate {
		fmt.Fprintln(m.out, warnColor.Sprint("User already exists."))
		m.prompt.Pause()
		return
	}

	// Re-resolve the stored id under the normalized name
	u, err := m.store.UserByName(ctx, name)
	if err != nil || u == nil {
		fmt.Fprintln(m.out, errColor.Sprint("Failed to look up the new user."))
		m.prompt.Pause()
		return
	}
	m.session.User = u
	fmt.Fprintln(m.out, okColor.Sprintf("Welcome, %s!", u.Name))
	m.prompt.Pause()
}
