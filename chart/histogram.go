// Package chart renders the ratings histogram image.
package chart

import (
	"fmt"
	"os"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// bins is the fixed bucket count over the 0-10 rating scale, one bucket per
// whole rating point.
const bins = 10

// bucketCounts tallies ratings into bins buckets. A rating of exactly 10
// lands in the top bucket.
func bucketCounts(ratings []float64) []int {
	counts := make([]int, bins)
	for _, r := range ratings {
		b := int(r)
		if b < 0 {
			b = 0
		}
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}
	return counts
}

// SaveRatingsHistogram buckets ratings and writes a PNG bar chart to
// filename.
func SaveRatingsHistogram(ratings []float64, filename string) error {
	if len(ratings) == 0 {
		return fmt.Errorf("no ratings to plot")
	}

	counts := bucketCounts(ratings)
	bars := make([]gochart.Value, 0, bins)
	for i, c := range counts {
		bars = append(bars, gochart.Value{
			Label: fmt.Sprintf("%d-%d", i, i+1),
			Value: float64(c),
		})
	}

	graph := gochart.BarChart{
		Title:      "Movie Ratings",
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		Width:      800,
		Height:     512,
		BarWidth:   50,
		Bars:       bars,
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create histogram file: %v", err)
	}
	defer f.Close()

	if err := graph.Render(gochart.PNG, f); err != nil {
		return fmt.Errorf("failed to render histogram: %v", err)
	}
	return nil
}
