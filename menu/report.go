package menu

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"cinetrack/storage"
)

// fuzzyCutoff is the minimum normalized similarity for the approximate
// search tier, matching the loose cutoff of close-match searching.
const fuzzyCutoff = 0.4

// fuzzyLimit caps how many approximate matches the search appends.
const fuzzyLimit = 5

// byTitle flattens a title-keyed collection into a slice ordered
// lexicographically by title. All report functions scan in this order, which
// makes tie-breaking deterministic.
func byTitle(movies map[string]storage.Movie) []storage.Movie {
	titles := make([]string, 0, len(movies))
	for title := range movies {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	out := make([]storage.Movie, 0, len(titles))
	for _, title := range titles {
		out = append(out, movies[title])
	}
	return out
}

// Mean returns the average rating, 0 for an empty collection.
func Mean(movies map[string]storage.Movie) float64 {
	if len(movies) == 0 {
		return 0
	}
	var sum float64
	for _, m := range movies {
		sum += m.Rating
	}
	return sum / float64(len(movies))
}

// Median returns the median rating using the standard even/odd split over
// ratings sorted ascending.
func Median(movies map[string]storage.Movie) float64 {
	if len(movies) == 0 {
		return 0
	}
	ratings := make([]float64, 0, len(movies))
	for _, m := range movies {
		ratings = append(ratings, m.Rating)
	}
	sort.Float64s(ratings)

	mid := len(ratings) / 2
	if len(ratings)%2 == 1 {
		return ratings[mid]
	}
	return (ratings[mid-1] + ratings[mid]) / 2
}

// BestWorst returns the highest- and lowest-rated movies in a single linear
// scan; on ties the first one encountered wins.
func BestWorst(movies map[string]storage.Movie) (best, worst storage.Movie) {
	items := byTitle(movies)
	if len(items) == 0 {
		return
	}
	best, worst = items[0], items[0]
	for _, m := range items[1:] {
		if m.Rating > best.Rating {
			best = m
		}
		if m.Rating < worst.Rating {
			worst = m
		}
	}
	return
}

// SortByRating returns the collection ordered by rating ascending, stable
// over title order.
func SortByRating(movies map[string]storage.Movie) []storage.Movie {
	items := byTitle(movies)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Rating < items[j].Rating
	})
	return items
}

// SortByYear returns the collection ordered by release year, stable over
// title order. latestFirst flips to descending.
func SortByYear(movies map[string]storage.Movie, latestFirst bool) []storage.Movie {
	items := byTitle(movies)
	sort.SliceStable(items, func(i, j int) bool {
		if latestFirst {
			return items[i].Year > items[j].Year
		}
		return items[i].Year < items[j].Year
	})
	return items
}

// Filter returns the movies satisfying every bound that is set. Bounds are
// conjunctive; a nil bound does not constrain.
func Filter(movies map[string]storage.Movie, minRating *float64, startYear, endYear *int) []storage.Movie {
	var out []storage.Movie
	for _, m := range byTitle(movies) {
		if minRating != nil && m.Rating < *minRating {
			continue
		}
		if startYear != nil && m.Year < *startYear {
			continue
		}
		if endYear != nil && m.Year > *endYear {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Search matches query against titles in three tiers: exact
// case-insensitive equality, then prefix, then approximate similarity above
// fuzzyCutoff. Tiers are concatenated and de-duplicated preserving
// first-seen order.
func Search(query string, movies map[string]storage.Movie) []storage.Movie {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	items := byTitle(movies)

	var exact, prefix []storage.Movie
	type scored struct {
		movie storage.Movie
		sim   float64
	}
	var fuzzyHits []scored

	for _, m := range items {
		lt := strings.ToLower(m.Title)
		if lt == q {
			exact = append(exact, m)
		}
		if strings.HasPrefix(lt, q) {
			prefix = append(prefix, m)
		}
		if sim := similarity(q, lt); sim >= fuzzyCutoff {
			fuzzyHits = append(fuzzyHits, scored{movie: m, sim: sim})
		}
	}

	sort.SliceStable(fuzzyHits, func(i, j int) bool {
		return fuzzyHits[i].sim > fuzzyHits[j].sim
	})
	if len(fuzzyHits) > fuzzyLimit {
		fuzzyHits = fuzzyHits[:fuzzyLimit]
	}

	seen := make(map[string]bool)
	var out []storage.Movie
	appendUnique := func(m storage.Movie) {
		if !seen[m.Title] {
			seen[m.Title] = true
			out = append(out, m)
		}
	}
	for _, m := range exact {
		appendUnique(m)
	}
	for _, m := range prefix {
		appendUnique(m)
	}
	for _, s := range fuzzyHits {
		appendUnique(s.movie)
	}
	return out
}

// similarity is the Levenshtein distance normalized to [0,1] over the longer
// string, 1 meaning equal.
func similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
