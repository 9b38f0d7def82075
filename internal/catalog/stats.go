package catalog

import (
	"math"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Stats summarizes a library for the dashboard.
type Stats struct {
	TotalBooks     int          `json:"totalBooks"`
	FavouriteBooks int          `json:"favoriteBooks"`
	ReadBooks      int          `json:"readBooks"`
	AverageRating  float64      `json:"averageRating"`
	TopGenre       string       `json:"topGenre,omitempty"`
	GenreCounts    []GenreCount `json:"genreCounts"`
}

// Summarize computes library statistics. FavouriteBooks and ReadBooks count
// the books userID favourited or read; with an empty userID they count books
// favourited or read by anyone. AverageRating is rounded to one decimal.
func Summarize(books []entities.Book, userID string) Stats {
	stats := Stats{
		TotalBooks:  len(books),
		GenreCounts: make([]GenreCount, 0),
	}

	index := make(map[string]int)
	ratingSum := 0
	for _, b := range books {
		ratingSum += b.Rating

		if userID == "" {
			if len(b.Favorites) > 0 {
				stats.FavouriteBooks++
			}
			if len(b.ReadBy) > 0 {
				stats.ReadBooks++
			}
		} else {
			if b.IsFavoriteOf(userID) {
				stats.FavouriteBooks++
			}
			if b.IsReadBy(userID) {
				stats.ReadBooks++
			}
		}

		if b.Genre == "" {
			continue
		}
		i, ok := index[b.Genre]
		if !ok {
			i = len(stats.GenreCounts)
			index[b.Genre] = i
			stats.GenreCounts = append(stats.GenreCounts, GenreCount{Genre: b.Genre})
		}
		stats.GenreCounts[i].Count++
	}

	if len(books) > 0 {
		avg := float64(ratingSum) / float64(len(books))
		stats.AverageRating = math.Round(avg*10) / 10
	}

	// Ties go to the genre seen first.
	best := 0
	for _, gc := range stats.GenreCounts {
		if gc.Count > best {
			best = gc.Count
			stats.TopGenre = gc.Genre
		}
	}
	return stats
}
