// Package catalog filters, groups and summarizes book lists. Every function is
// pure: it works on a slice already loaded by the books repository and never
// reorders books unless a grouping asks for it.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// All is the sentinel value meaning "no constraint" for genre and author.
const All = "all"

// Filter selects books. Zero values impose no constraint; constraints combine
// with logical AND.
type Filter struct {
	// Query is matched case-insensitively as a substring of title or author.
	Query  string
	Genre  string
	Author string
	// MinRating keeps books rated at least this value.
	MinRating int
	// FavouritesOf keeps books favourited by this user id.
	FavouritesOf string
	// ReadBy keeps books marked read by this user id.
	ReadBy string
}

// IsEmpty reports whether the filter keeps every book.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Query) == "" &&
		unconstrained(f.Genre) &&
		unconstrained(f.Author) &&
		f.MinRating <= 0 &&
		f.FavouritesOf == "" &&
		f.ReadBy == ""
}

// Apply returns the books matching f in their original order. The result is
// never nil.
func Apply(books []entities.Book, f Filter) []entities.Book {
	m := newMatcher(f)
	out := make([]entities.Book, 0, len(books))
	for i := range books {
		if m.matches(&books[i]) {
			out = append(out, books[i])
		}
	}
	return out
}

// Matches reports whether a single book satisfies f.
func (f Filter) Matches(book entities.Book) bool {
	return newMatcher(f).matches(&book)
}

type matcher struct {
	filter Filter
	query  string
	fold   cases.Caser
}

func newMatcher(f Filter) *matcher {
	// A Caser keeps state between calls, so each matcher gets its own.
	fold := cases.Fold()
	return &matcher{
		filter: f,
		query:  fold.String(strings.TrimSpace(f.Query)),
		fold:   fold,
	}
}

func (m *matcher) matches(b *entities.Book) bool {
	f := m.filter

	if m.query != "" &&
		!strings.Contains(m.fold.String(b.Title), m.query) &&
		!strings.Contains(m.fold.String(b.Author), m.query) {
		return false
	}
	if !unconstrained(f.Genre) && b.Genre != f.Genre {
		return false
	}
	if !unconstrained(f.Author) && b.Author != f.Author {
		return false
	}
	if f.MinRating > 0 && b.Rating < f.MinRating {
		return false
	}
	if f.FavouritesOf != "" && !b.IsFavoriteOf(f.FavouritesOf) {
		return false
	}
	if f.ReadBy != "" && !b.IsReadBy(f.ReadBy) {
		return false
	}
	return true
}

func unconstrained(v string) bool {
	return v == "" || v == All
}
