package catalog

import (
	"sort"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type AuthorGroup struct {
	Author string          `json:"author"`
	Books  []entities.Book `json:"books"`
}

type YearGroup struct {
	Year  int             `json:"year"`
	Books []entities.Book `json:"books"`
}

// GroupByAuthor groups books by author. Groups appear in the order their
// author is first encountered and keep their books in input order.
func GroupByAuthor(books []entities.Book) []AuthorGroup {
	groups := make([]AuthorGroup, 0)
	index := make(map[string]int)
	for _, b := range books {
		i, ok := index[b.Author]
		if !ok {
			i = len(groups)
			index[b.Author] = i
			groups = append(groups, AuthorGroup{Author: b.Author})
		}
		groups[i].Books = append(groups[i].Books, b)
	}
	return groups
}

// GroupByYear groups books by publication year, newest year first. Books keep
// their input order within a group.
func GroupByYear(books []entities.Book) []YearGroup {
	groups := make([]YearGroup, 0)
	index := make(map[int]int)
	for _, b := range books {
		i, ok := index[b.Year]
		if !ok {
			i = len(groups)
			index[b.Year] = i
			groups = append(groups, YearGroup{Year: b.Year})
		}
		groups[i].Books = append(groups[i].Books, b)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Year > groups[j].Year
	})
	return groups
}

// Genres returns the distinct non-empty genres in encounter order.
func Genres(books []entities.Book) []string {
	return distinct(books, func(b entities.Book) string { return b.Genre })
}

// Authors returns the distinct non-empty authors in encounter order.
func Authors(books []entities.Book) []string {
	return distinct(books, func(b entities.Book) string { return b.Author })
}

func distinct(books []entities.Book, key func(entities.Book) string) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, b := range books {
		k := key(b)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
