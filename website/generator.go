// Package website turns a movie collection into a static HTML page.
package website

import (
	"fmt"
	"html/template"
	"os"
	"sort"
	"strings"

	"cinetrack/storage"
)

// pageMovie is one rendered grid entry with its display fields precomputed.
type pageMovie struct {
	Title    string
	Year     int
	Rating   float64
	Poster   string
	Note     string
	Genres   []string
	Flag     string
	Country  string
	StarFill float64
}

type pageData struct {
	PageTitle string
	Movies    []pageMovie
}

// Generate reads the page template at templatePath, substitutes the page
// title and the per-movie grid, and writes the result to outPath.
func Generate(pageTitle string, movies map[string]storage.Movie, templatePath, outPath string) error {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return fmt.Errorf("failed to parse template: %v", err)
	}

	data := pageData{PageTitle: pageTitle}
	titles := make([]string, 0, len(movies))
	for title := range movies {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	for _, title := range titles {
		m := movies[title]
		data.Movies = append(data.Movies, pageMovie{
			Title:    m.Title,
			Year:     m.Year,
			Rating:   m.Rating,
			Poster:   m.Poster,
			Note:     m.Note,
			Genres:   splitGenres(m.Genre),
			Flag:     FlagEmoji(m.Country),
			Country:  m.Country,
			StarFill: m.Rating / 10 * 100,
		})
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %v", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to execute template: %v", err)
	}
	return nil
}

func splitGenres(genre string) []string {
	if strings.TrimSpace(genre) == "" {
		return nil
	}
	parts := strings.Split(genre, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
